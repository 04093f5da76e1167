//go:build darwin

package native

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	domerrors "github.com/Geeksfino/openskills/internal/domain/errors"
)

// sensitiveDotfiles are home-relative paths denied before the broad
// read allow (§4.8, §8 "sensitive-path denies must appear before the
// broad read allow").
var sensitiveDotfiles = []string{
	".ssh", ".gnupg", ".aws", ".azure", ".config/gcloud", ".kube", ".docker",
	".npmrc", ".pypirc", ".netrc", ".gitconfig", ".git-credentials",
	".bashrc", ".zshrc", ".profile", ".bash_profile", ".zprofile",
}

var broadReadPaths = []string{
	"/System", "/usr/lib", "/usr/bin", "/bin", "/sbin",
	"/System/Library/Frameworks", "/System/Library/PrivateFrameworks", "/Library/Frameworks",
	"/opt/homebrew", "/Users", "/tmp", "/private/tmp",
}

var writableTempPaths = []string{"/tmp", "/private/tmp", "/private/var/tmp", "/private/var/folders"}

// MaybeHandleSandboxInit always reports false: the hidden re-exec
// subcommand is a Linux-only pre-exec hook (seccomp + namespace setup).
// macOS sandboxing goes through sandbox-exec directly in Prepare, with
// no separate re-exec step.
func MaybeHandleSandboxInit(args []string) (bool, error) {
	return false, nil
}

type darwinSandbox struct{}

func newPlatformSandbox() (Sandbox, error) {
	if _, err := exec.LookPath("sandbox-exec"); err != nil {
		return nil, domerrors.New(domerrors.KindSandboxUnavailable, "sandbox-exec not found on PATH")
	}
	return &darwinSandbox{}, nil
}

func (s *darwinSandbox) Prepare(ctx context.Context, interpreter string, args []string, spec SandboxSpec) (*exec.Cmd, func(), error) {
	profile := buildSeatbeltProfile(interpreter, spec)

	profilePath := filepath.Join(os.TempDir(), fmt.Sprintf("openskills-%d-%d-%d.sb", os.Getpid(), attemptCounter(), time.Now().UnixNano()))
	if err := os.WriteFile(profilePath, []byte(profile), 0o600); err != nil {
		return nil, nil, fmt.Errorf("writing seatbelt profile: %w", err)
	}

	cleanup := func() { _ = os.Remove(profilePath) }

	wrapArgs := append([]string{"-f", profilePath, "--", interpreter}, args...)
	cmd := exec.CommandContext(ctx, "sandbox-exec", wrapArgs...)
	return cmd, cleanup, nil
}

// PostStart is a no-op on macOS: Darwin has no prlimit(2) equivalent for
// setting another process's resource limits after it has started.
// Memory/CPU containment on this path relies on the seatbelt profile and
// process-level defaults, a narrower guarantee than the Linux rlimit
// path (documented in DESIGN.md).
func (s *darwinSandbox) PostStart(pid int, spec SandboxSpec) error {
	return nil
}

var attemptSeq int

func attemptCounter() int {
	attemptSeq++
	return attemptSeq
}

func buildSeatbeltProfile(interpreter string, spec SandboxSpec) string {
	var b strings.Builder
	b.WriteString("(version 1)\n")
	b.WriteString("(deny default)\n")
	fmt.Fprintf(&b, "(allow process-exec (literal %q))\n", interpreter)
	b.WriteString("(allow process-fork)\n")
	b.WriteString("(allow mach-lookup)\n")
	b.WriteString("(allow signal)\n")
	b.WriteString("(allow sysctl-read)\n")

	home, _ := os.UserHomeDir()
	if home != "" {
		for _, rel := range sensitiveDotfiles {
			fmt.Fprintf(&b, "(deny file-read* (subpath %q))\n", filepath.Join(home, rel))
		}
	}

	b.WriteString("(allow file-read*\n")
	for _, p := range broadReadPaths {
		fmt.Fprintf(&b, "  (subpath %q)\n", p)
	}
	b.WriteString(")\n")

	writable := append([]string{}, writableTempPaths...)
	writable = append(writable, spec.SkillRoot, spec.Workspace)
	writable = append(writable, spec.ExtraWritable...)

	b.WriteString("(allow file-write*\n")
	b.WriteString("  (literal \"/dev/null\")\n")
	for _, p := range writable {
		fmt.Fprintf(&b, "  (subpath %q)\n", p)
	}
	b.WriteString(")\n")

	if spec.AllowProcessSpawn {
		b.WriteString("(allow process*)\n")
	}
	if spec.AllowNetwork {
		b.WriteString("(allow network*)\n")
	}

	return b.String()
}
