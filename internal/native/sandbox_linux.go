//go:build linux

package native

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"

	domerrors "github.com/Geeksfino/openskills/internal/domain/errors"
)

// MaybeHandleSandboxInit reports whether args names the sandbox-init
// hidden subcommand and, if so, runs it. Called from main before cobra
// ever parses os.Args; on success RunSandboxInit never returns (it
// exec-transitions into the interpreter).
func MaybeHandleSandboxInit(args []string) (bool, error) {
	if len(args) == 0 || args[0] != SandboxInitArg {
		return false, nil
	}
	return true, RunSandboxInit(args[1:])
}

// deniedSyscalls blocks operations a sandboxed interpreter has no
// legitimate reason to make.
var deniedSyscalls = []uint32{
	unix.SYS_MOUNT,
	unix.SYS_UMOUNT2,
	unix.SYS_REBOOT,
	unix.SYS_SWAPON,
	unix.SYS_SWAPOFF,
	unix.SYS_KEXEC_LOAD,
	unix.SYS_INIT_MODULE,
	unix.SYS_FINIT_MODULE,
	unix.SYS_DELETE_MODULE,
	unix.SYS_PIVOT_ROOT,
	unix.SYS_PTRACE,
	unix.SYS_ACCT,
}

const (
	seccompRetAllow = 0x7fff0000
	seccompRetErrno = 0x00050000
)

type linuxSandbox struct{}

// newPlatformSandbox requires namespace capability; without it the
// policy cannot be materialized and execution fails closed with
// SandboxUnavailable rather than degrading to an unsandboxed run.
func newPlatformSandbox() (Sandbox, error) {
	if !hasNamespaceCapability() {
		return nil, domerrors.New(domerrors.KindSandboxUnavailable, "linux sandbox requires root, CAP_SYS_ADMIN, or unprivileged user namespaces")
	}
	return &linuxSandbox{}, nil
}

func hasNamespaceCapability() bool {
	if os.Geteuid() == 0 {
		return true
	}
	var hdr unix.CapUserHeader
	var data unix.CapUserData
	hdr.Version = unix.LINUX_CAPABILITY_VERSION_1
	hdr.Pid = 0
	if err := unix.Capget(&hdr, &data); err == nil {
		if data.Effective&(1<<unix.CAP_SYS_ADMIN) != 0 {
			return true
		}
	}
	if val, err := os.ReadFile("/proc/sys/kernel/unprivileged_userns_clone"); err == nil {
		return strings.TrimSpace(string(val)) == "1"
	}
	return probeUserNamespace()
}

func probeUserNamespace() bool {
	cmd := exec.Command("true")
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Cloneflags: syscall.CLONE_NEWUSER,
		UidMappings: []syscall.SysProcIDMap{{
			ContainerID: os.Getuid(),
			HostID:      os.Getuid(),
			Size:        1,
		}},
		GidMappings: []syscall.SysProcIDMap{{
			ContainerID: os.Getgid(),
			HostID:      os.Getgid(),
			Size:        1,
		}},
	}
	return cmd.Run() == nil
}

func (s *linuxSandbox) Prepare(ctx context.Context, interpreter string, args []string, spec SandboxSpec) (*exec.Cmd, func(), error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve executable for sandbox pre-exec hook: %w", err)
	}

	wrapArgs := []string{SandboxInitArg,
		"--skill-root", spec.SkillRoot,
		"--workspace", spec.Workspace,
	}
	for _, p := range spec.ExtraReadOnly {
		wrapArgs = append(wrapArgs, "--ro", p)
	}
	for _, p := range spec.ExtraWritable {
		wrapArgs = append(wrapArgs, "--rw", p)
	}
	wrapArgs = append(wrapArgs, "--")
	wrapArgs = append(wrapArgs, interpreter)
	wrapArgs = append(wrapArgs, args...)

	cmd := exec.CommandContext(ctx, exe, wrapArgs...)
	cmd.SysProcAttr = s.sysProcAttr(spec)
	return cmd, func() {}, nil
}

func (s *linuxSandbox) sysProcAttr(spec SandboxSpec) *syscall.SysProcAttr {
	flags := uintptr(syscall.CLONE_NEWNS | syscall.CLONE_NEWPID)
	if !spec.AllowNetwork {
		flags |= syscall.CLONE_NEWNET
	}
	attr := &syscall.SysProcAttr{Cloneflags: flags}

	if os.Geteuid() != 0 {
		attr.Cloneflags |= syscall.CLONE_NEWUSER
		uid, gid := os.Getuid(), os.Getgid()
		attr.UidMappings = []syscall.SysProcIDMap{{ContainerID: uid, HostID: uid, Size: 1}}
		attr.GidMappings = []syscall.SysProcIDMap{{ContainerID: gid, HostID: gid, Size: 1}}
	}
	return attr
}

// PostStart applies resource limits via prlimit; this is hardening on
// top of the namespace+seccomp+Landlock policy, not its sole enforcement.
func (s *linuxSandbox) PostStart(pid int, spec SandboxSpec) error {
	if spec.MemoryBytes > 0 {
		mem := uint64(spec.MemoryBytes)
		lim := unix.Rlimit{Cur: mem, Max: mem}
		if err := unix.Prlimit(pid, unix.RLIMIT_AS, &lim, nil); err != nil {
			return fmt.Errorf("prlimit RLIMIT_AS: %w", err)
		}
	}
	fdLim := unix.Rlimit{Cur: 256, Max: 256}
	_ = unix.Prlimit(pid, unix.RLIMIT_NOFILE, &fdLim, nil)
	return nil
}

// landlockAccessRO is every read/traverse access right this build knows
// about; landlockAccessRW adds the write/create/remove rights. A path
// granted only landlockAccessRO can be read and executed from but not
// written, mutated, or unlinked.
const (
	landlockAccessRO = unix.LANDLOCK_ACCESS_FS_READ_FILE |
		unix.LANDLOCK_ACCESS_FS_READ_DIR |
		unix.LANDLOCK_ACCESS_FS_EXECUTE

	landlockAccessRW = landlockAccessRO |
		unix.LANDLOCK_ACCESS_FS_WRITE_FILE |
		unix.LANDLOCK_ACCESS_FS_REMOVE_DIR |
		unix.LANDLOCK_ACCESS_FS_REMOVE_FILE |
		unix.LANDLOCK_ACCESS_FS_MAKE_CHAR |
		unix.LANDLOCK_ACCESS_FS_MAKE_DIR |
		unix.LANDLOCK_ACCESS_FS_MAKE_REG |
		unix.LANDLOCK_ACCESS_FS_MAKE_SOCK |
		unix.LANDLOCK_ACCESS_FS_MAKE_FIFO |
		unix.LANDLOCK_ACCESS_FS_MAKE_BLOCK |
		unix.LANDLOCK_ACCESS_FS_MAKE_SYM
)

// systemReadOnlyPaths are the directories a sandboxed interpreter needs
// read+execute access to merely to start up (its own binary, shared
// libraries, dynamic linker cache) — never $HOME, never a sensitive
// dotfile directory (§8 "sensitive-path denies must appear before the
// broad read allow"; here they're simply never granted at all, since
// Landlock denies by default once a ruleset is in force).
var systemReadOnlyPaths = []string{
	"/usr", "/lib", "/lib64", "/bin", "/sbin",
	"/etc/ld.so.cache", "/etc/ld.so.conf", "/etc/ld.so.conf.d", "/etc/alternatives",
}

// applyLandlock builds and enforces a Landlock ruleset restricting
// filesystem access to the interpreter's own runtime paths plus the
// caller-declared read-only (skill root, fs_read) and read-write
// (workspace, fs_write) sets (§4.8). A kernel with no Landlock support
// (LandlockGetABIVersion failing) degrades to a no-op: namespaces and
// the seccomp deny-list still apply, so this never blocks execution on
// an older kernel, it only narrows it further on a newer one.
func applyLandlock(ro, rw []string) error {
	if _, err := unix.LandlockGetABIVersion(); err != nil {
		return nil
	}

	attr := unix.RulesetAttr{AccessFs: uint64(landlockAccessRW)}
	rulesetFd, err := unix.LandlockCreateRuleset(&attr, 0)
	if err != nil {
		return fmt.Errorf("landlock_create_ruleset: %w", err)
	}
	defer unix.Close(rulesetFd)

	for _, p := range append(append([]string{}, systemReadOnlyPaths...), ro...) {
		if err := addLandlockPath(rulesetFd, p, landlockAccessRO); err != nil {
			return err
		}
	}
	for _, p := range rw {
		if err := addLandlockPath(rulesetFd, p, landlockAccessRW); err != nil {
			return err
		}
	}

	if err := unix.LandlockRestrictSelf(rulesetFd, 0); err != nil {
		return fmt.Errorf("landlock_restrict_self: %w", err)
	}
	return nil
}

// addLandlockPath grants access to one path, silently skipping paths
// that do not exist on this host: the system read-only set varies by
// distro, and a missing path is not a containment gap.
func addLandlockPath(rulesetFd int, path string, access uint64) error {
	fd, err := unix.Open(path, unix.O_PATH|unix.O_CLOEXEC, 0)
	if err != nil {
		if err == unix.ENOENT {
			return nil
		}
		return fmt.Errorf("landlock: opening %q: %w", path, err)
	}
	defer unix.Close(fd)

	ruleAttr := unix.PathBeneathAttr{ParentFd: int32(fd), AllowedAccess: access}
	if err := unix.LandlockAddRule(rulesetFd, unix.LANDLOCK_RULE_PATH_BENEATH, unsafe.Pointer(&ruleAttr), 0); err != nil {
		return fmt.Errorf("landlock_add_rule %q: %w", path, err)
	}
	return nil
}

// buildSeccompFilter constructs a BPF program denying deniedSyscalls and
// allowing everything else, installed by the sandbox-init pre-exec hook.
func buildSeccompFilter() []unix.SockFilter {
	n := len(deniedSyscalls)
	prog := make([]unix.SockFilter, 0, n+3)

	prog = append(prog, unix.SockFilter{
		Code: unix.BPF_LD | unix.BPF_W | unix.BPF_ABS,
		K:    0, // offsetof(struct seccomp_data, nr)
	})

	for i, nr := range deniedSyscalls {
		prog = append(prog, unix.SockFilter{
			Code: unix.BPF_JMP | unix.BPF_JEQ | unix.BPF_K,
			Jt:   uint8(n - i),
			Jf:   0,
			K:    nr,
		})
	}

	prog = append(prog, unix.SockFilter{Code: unix.BPF_RET | unix.BPF_K, K: seccompRetAllow})
	prog = append(prog, unix.SockFilter{Code: unix.BPF_RET | unix.BPF_K, K: seccompRetErrno | uint32(unix.EPERM)})

	return prog
}
