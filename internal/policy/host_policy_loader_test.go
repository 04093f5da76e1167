package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadHostPolicyParsesDenyAllowAndRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	doc := `
trust_skill_allowed_tools: false
fallback: deny
deny:
  - Bash
allow:
  - Read
rules:
  - name: no-internal-fetch
    expression: "tool == \"Fetch\" && host == \"internal\""
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	hp, err := LoadHostPolicy(path)
	require.NoError(t, err)
	assert.False(t, hp.TrustSkillAllowedTools)
	assert.Equal(t, FallbackDeny, hp.Fallback)
	assert.Equal(t, []string{"Bash"}, hp.Deny)
	assert.Equal(t, []string{"Read"}, hp.Allow)
	require.Len(t, hp.Rules, 1)
	assert.Equal(t, "no-internal-fetch", hp.Rules[0].Name)
}

func TestLoadHostPolicyDefaultsFallbackToPrompt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("trust_skill_allowed_tools: true\n"), 0o644))

	hp, err := LoadHostPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, FallbackPrompt, hp.Fallback)
}

func TestLoadHostPolicyRejectsBadRuleExpression(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	doc := "rules:\n  - name: broken\n    expression: \"tool ==\"\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := LoadHostPolicy(path)
	assert.Error(t, err)
}

func TestLoadHostPolicyMissingFileErrors(t *testing.T) {
	_, err := LoadHostPolicy(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
