package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildEnvIncludesMinimalPath(t *testing.T) {
	env := buildEnv([]string{"SKILL_ID=x"}, nil)
	assert.Contains(t, env, "SKILL_ID=x")
	found := false
	for _, e := range env {
		if e == "PATH=/usr/bin:/bin:/usr/local/bin" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestBuildEnvDoesNotForwardArbitraryHostEnv(t *testing.T) {
	t.Setenv("OPENSKILLS_TEST_SECRET", "leak-me")
	env := buildEnv([]string{"SKILL_ID=x"}, nil)
	for _, e := range env {
		assert.NotContains(t, e, "leak-me")
	}
}

func TestBuildEnvForwardsNamedCapabilityEnvVars(t *testing.T) {
	t.Setenv("OPENSKILLS_TEST_TOKEN", "abc123")
	env := buildEnv([]string{"SKILL_ID=x"}, []string{"OPENSKILLS_TEST_TOKEN"})
	assert.Contains(t, env, "OPENSKILLS_TEST_TOKEN=abc123")
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}
