package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// hostPolicyDoc is the on-disk shape of a host policy file; kept
// separate from HostPolicy so the compiled expr programs never need
// (de)serialization.
type hostPolicyDoc struct {
	TrustSkillAllowedTools bool     `yaml:"trust_skill_allowed_tools"`
	Fallback               Fallback `yaml:"fallback"`
	Deny                   []string `yaml:"deny"`
	Allow                  []string `yaml:"allow"`
	Rules                  []struct {
		Name       string `yaml:"name"`
		Expression string `yaml:"expression"`
	} `yaml:"rules"`
}

// LoadHostPolicy reads a host policy document from path, compiling any
// declared rules up front so a bad expression fails at load time rather
// than on a skill's first execution.
func LoadHostPolicy(path string) (HostPolicy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return HostPolicy{}, fmt.Errorf("reading host policy %q: %w", path, err)
	}

	var doc hostPolicyDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return HostPolicy{}, fmt.Errorf("parsing host policy %q: %w", path, err)
	}

	policy := HostPolicy{
		TrustSkillAllowedTools: doc.TrustSkillAllowedTools,
		Fallback:               doc.Fallback,
		Deny:                   doc.Deny,
		Allow:                  doc.Allow,
	}
	if policy.Fallback == "" {
		policy.Fallback = FallbackPrompt
	}

	for _, r := range doc.Rules {
		rule := Rule{Name: r.Name, Expression: r.Expression}
		if err := rule.Compile(); err != nil {
			return HostPolicy{}, err
		}
		policy.Rules = append(policy.Rules, rule)
	}

	return policy, nil
}
