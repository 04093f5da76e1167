package manifest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var namePattern = regexp.MustCompile(`^[a-z0-9](-?[a-z0-9])*$`)

var reservedNames = map[string]bool{
	"true": true, "false": true, "null": true,
	"con": true, "prn": true, "aux": true, "nul": true,
}

var knownTopLevelKeys = map[string]bool{
	"name": true, "description": true, "allowed-tools": true,
	"context": true, "agent": true, "user_invocable": true,
	"hooks": true, "wasm": true, "version": true,
	"input_schema": true,
}

var angleBracketTag = regexp.MustCompile(`<[^>\n]*>`)

// Finding is one validation result: a fatal failure or a warning,
// tied to the offending field.
type Finding struct {
	Field   string
	Message string
	Fatal   bool
}

func (f Finding) String() string {
	kind := "warning"
	if f.Fatal {
		kind = "error"
	}
	return fmt.Sprintf("[%s] %s: %s", kind, f.Field, f.Message)
}

// Validate applies §4.1's fatal and warning rules to a parsed
// frontmatter against the directory it was loaded from. dirBasename is
// the skill's containing directory name, checked against manifest.name.
func Validate(fm Frontmatter, dirBasename string) []Finding {
	var findings []Finding
	m := fm.Manifest

	switch {
	case m.Name == "":
		findings = append(findings, Finding{"name", "must not be empty", true})
	case len(m.Name) > 64:
		findings = append(findings, Finding{"name", "must not exceed 64 characters", true})
	case !namePattern.MatchString(m.Name):
		findings = append(findings, Finding{"name", "must match ^[a-z0-9](-?[a-z0-9])*$ (lowercase, digits, single internal hyphens)", true})
	case reservedNames[m.Name]:
		findings = append(findings, Finding{"name", fmt.Sprintf("%q is a reserved name", m.Name), true})
	}

	if m.Name != "" && dirBasename != "" && m.Name != dirBasename {
		findings = append(findings, Finding{"name", fmt.Sprintf("does not match directory name %q", dirBasename), true})
	}

	switch {
	case m.Description == "":
		findings = append(findings, Finding{"description", "must not be empty", true})
	case len(m.Description) > 1024:
		findings = append(findings, Finding{"description", "must not exceed 1024 characters", true})
	case angleBracketTag.MatchString(m.Description):
		findings = append(findings, Finding{"description", "must not contain angle-bracket tags", true})
	}

	if m.Context != "" && m.Context != "fork" {
		findings = append(findings, Finding{"context", fmt.Sprintf("only legal value is \"fork\", got %q", m.Context), true})
	}

	if len(m.AllowedTools) == 0 {
		if raw, ok := fm.Raw["allowed-tools"]; ok {
			if _, isStr := raw.(string); !isStr {
				if _, isSeq := raw.([]interface{}); !isSeq {
					findings = append(findings, Finding{"allowed-tools", "must be a sequence or a comma/space-delimited string", true})
				}
			}
		}
	}

	if m.Version != "" {
		if _, err := semver.NewVersion(m.Version); err != nil {
			findings = append(findings, Finding{"version", fmt.Sprintf("not a valid semantic version: %v", err), false})
		}
	}

	for key := range fm.Raw {
		if !knownTopLevelKeys[key] {
			findings = append(findings, Finding{key, "unknown top-level key", false})
		}
	}

	if m.Hooks != nil {
		validateHookList(m.Hooks.PreToolUse, "hooks.pre_tool_use", &findings)
		validateHookList(m.Hooks.PostToolUse, "hooks.post_tool_use", &findings)
		validateHookList(m.Hooks.Stop, "hooks.stop", &findings)
	}

	return findings
}

func validateHookList(entries []HookEntry, field string, findings *[]Finding) {
	for i, e := range entries {
		if strings.TrimSpace(e.Command) == "" {
			*findings = append(*findings, Finding{field, fmt.Sprintf("entry %d: command must not be empty", i), true})
		}
	}
}

// HasFatal reports whether any finding is fatal.
func HasFatal(findings []Finding) bool {
	for _, f := range findings {
		if f.Fatal {
			return true
		}
	}
	return false
}

// FatalSummary joins fatal findings into a single error string, for
// wrapping into a domain *errors.Error.
func FatalSummary(findings []Finding) string {
	var parts []string
	for _, f := range findings {
		if f.Fatal {
			parts = append(parts, f.String())
		}
	}
	return strings.Join(parts, "; ")
}
