package policy

import (
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Fallback is the decision applied to a tool neither denied nor
// explicitly allowed by the host, when the skill either does not
// declare it or the host does not trust skill declarations.
type Fallback string

const (
	FallbackAllow  Fallback = "allow"
	FallbackDeny   Fallback = "deny"
	FallbackPrompt Fallback = "prompt"
)

// Rule is an optional expr-lang expression evaluated against a request
// context; it can tighten the fixed deny/allow sets with host-authored
// logic (e.g. "tool == \"Fetch\" && !(host endsWith \".internal\")").
// A rule that evaluates true denies the tool; rules are evaluated after
// the fixed deny set and before the fixed allow set.
type Rule struct {
	Name       string
	Expression string
	program    *vm.Program
}

// Compile parses the rule's expression once so repeated evaluation
// during a session does not re-parse the expression tree.
func (r *Rule) Compile() error {
	program, err := expr.Compile(r.Expression, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return fmt.Errorf("compiling rule %q: %w", r.Name, err)
	}
	r.program = program
	return nil
}

func (r *Rule) evaluate(env map[string]interface{}) bool {
	if r.program == nil {
		if err := r.Compile(); err != nil {
			slog.Warn("host policy rule failed to compile, treating as non-matching", "rule", r.Name, "error", err)
			return false
		}
	}
	out, err := expr.Run(r.program, env)
	if err != nil {
		slog.Warn("host policy rule evaluation failed, treating as non-matching", "rule", r.Name, "error", err)
		return false
	}
	matched, _ := out.(bool)
	return matched
}

// HostPolicy is the host-authored override layer from §3/§4.3.
type HostPolicy struct {
	TrustSkillAllowedTools bool
	Fallback               Fallback
	Deny                   []string
	Allow                  []string
	Rules                  []Rule
}

// DefaultHostPolicy mirrors a conservative, standard deployment: trust
// skill declarations, but fall back to prompting for anything else.
func DefaultHostPolicy() HostPolicy {
	return HostPolicy{
		TrustSkillAllowedTools: true,
		Fallback:               FallbackPrompt,
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
