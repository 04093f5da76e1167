//go:build !linux && !darwin

package native

import (
	"context"
	"os/exec"

	domerrors "github.com/Geeksfino/openskills/internal/domain/errors"
)

// On platforms with neither Landlock nor seatbelt, the policy fails
// closed: there is no configured sandbox primitive, so execution must
// not degrade to an unsandboxed run (per the Open Question resolution
// in DESIGN.md).
func newPlatformSandbox() (Sandbox, error) {
	return nil, domerrors.New(domerrors.KindSandboxUnavailable, "no native sandbox primitive available on this platform")
}

// MaybeHandleSandboxInit always reports false: platforms with no
// sandbox primitive have no re-exec hook to dispatch to.
func MaybeHandleSandboxInit(args []string) (bool, error) {
	return false, nil
}

type unsupportedSandbox struct{}

func (unsupportedSandbox) Prepare(ctx context.Context, interpreter string, args []string, spec SandboxSpec) (*exec.Cmd, func(), error) {
	return nil, nil, domerrors.New(domerrors.KindSandboxUnavailable, "no native sandbox primitive available on this platform")
}

func (unsupportedSandbox) PostStart(pid int, spec SandboxSpec) error { return nil }
