package permission

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
)

// DenyAllCallback always denies. Useful as a safe default for
// unattended runs that must never prompt.
type DenyAllCallback struct{}

func (DenyAllCallback) Request(Request) (Response, error) { return ResponseDeny, nil }

// AllowAllCallback always allows once, never caching the grant. This
// is distinct from a host policy fallback of "allow" in that it still
// goes through the gate's recording path.
type AllowAllCallback struct{}

func (AllowAllCallback) Request(Request) (Response, error) { return ResponseAllowOnce, nil }

// CLIInteractive prompts on the controlling terminal using a huh
// select form, mapping the three responses to y/n/a as in §4.4.
type CLIInteractive struct{}

// IsInteractive reports whether stdin is a character device, the same
// check a terminal-backed prompter uses to decide whether to prompt at
// all versus fail fast in non-interactive contexts.
func (CLIInteractive) IsInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

func (c CLIInteractive) Request(req Request) (Response, error) {
	if !c.IsInteractive() {
		return ResponseDeny, fmt.Errorf("permission required for %s on skill %s but no controlling terminal is attached", req.Tool, req.SkillID)
	}

	var choice string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("Skill %q requests permission for %q", req.SkillID, req.Tool)).
				Options(
					huh.NewOption("Allow once", "y"),
					huh.NewOption("Always allow for this skill", "a"),
					huh.NewOption("Deny", "n"),
				).
				Value(&choice),
		),
	)

	if err := form.Run(); err != nil {
		return ResponseDeny, fmt.Errorf("permission prompt failed: %w", err)
	}

	switch choice {
	case "y":
		return ResponseAllowOnce, nil
	case "a":
		return ResponseAllowAlways, nil
	default:
		return ResponseDeny, nil
	}
}
