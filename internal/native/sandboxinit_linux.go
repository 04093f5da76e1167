//go:build linux

package native

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// RunSandboxInit is the pre-exec hook: it runs inside the freshly
// unshared namespaces, applies the Landlock filesystem ruleset, installs
// the seccomp filter, sets no-new-privs, then exec-transitions into the
// real interpreter. cmd/openskills's main dispatches here before cobra
// parsing when os.Args[1] equals the sandbox-init argument.
func RunSandboxInit(args []string) error {
	parsed, err := parseSandboxInitArgs(args)
	if err != nil {
		return err
	}

	if err := unix.Prctl(unix.PR_SET_NO_NEW_PRIVS, 1, 0, 0, 0); err != nil {
		return fmt.Errorf("prctl PR_SET_NO_NEW_PRIVS: %w", err)
	}

	ro := append([]string{parsed.SkillRoot}, parsed.ExtraReadOnly...)
	rw := append([]string{parsed.Workspace}, parsed.ExtraWritable...)
	if err := applyLandlock(ro, rw); err != nil {
		return fmt.Errorf("applying landlock ruleset: %w", err)
	}

	filter := buildSeccompFilter()
	prog := unix.SockFprog{
		Len:    uint16(len(filter)),
		Filter: &filter[0],
	}
	if err := unix.Prctl(unix.PR_SET_SECCOMP, unix.SECCOMP_MODE_FILTER, uintptr(unsafe.Pointer(&prog)), 0, 0); err != nil {
		return fmt.Errorf("prctl PR_SET_SECCOMP: %w", err)
	}

	return unix.Exec(parsed.Interpreter, parsed.ChildArgs, os.Environ())
}

// sandboxInitArgs is the parsed form of RunSandboxInit's argument
// vector: the paths to enforce through Landlock, plus the interpreter
// command line to exec into once the ruleset is in force.
type sandboxInitArgs struct {
	SkillRoot     string
	Workspace     string
	ExtraReadOnly []string
	ExtraWritable []string
	Interpreter   string
	ChildArgs     []string
}

// parseSandboxInitArgs splits "--skill-root X --workspace Y --ro A --rw B -- interpreter args...".
func parseSandboxInitArgs(args []string) (sandboxInitArgs, error) {
	var out sandboxInitArgs
	i := 0
	for i < len(args) {
		if args[i] == "--" {
			i++
			goto split
		}
		if i+1 >= len(args) {
			return out, fmt.Errorf("sandbox init: flag %q missing value", args[i])
		}
		switch args[i] {
		case "--skill-root":
			out.SkillRoot = args[i+1]
		case "--workspace":
			out.Workspace = args[i+1]
		case "--ro":
			out.ExtraReadOnly = append(out.ExtraReadOnly, args[i+1])
		case "--rw":
			out.ExtraWritable = append(out.ExtraWritable, args[i+1])
		default:
			return out, fmt.Errorf("sandbox init: unexpected argument %q", args[i])
		}
		i += 2
	}
split:
	if i >= len(args) {
		return out, fmt.Errorf("sandbox init: missing interpreter after --")
	}
	out.Interpreter = args[i]
	out.ChildArgs = args[i:]
	return out, nil
}
