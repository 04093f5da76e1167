//go:build darwin

package native

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSeatbeltProfileDeniesBeforeBroadAllow(t *testing.T) {
	spec := SandboxSpec{SkillRoot: "/skills/x", Workspace: "/ws/x"}
	profile := buildSeatbeltProfile("/usr/bin/python3", spec)

	denyIdx := strings.Index(profile, "(deny file-read*")
	allowIdx := strings.Index(profile, "(allow file-read*")
	assert.Greater(t, denyIdx, -1)
	assert.Greater(t, allowIdx, -1)
	assert.Less(t, denyIdx, allowIdx)
}

func TestBuildSeatbeltProfileOmitsProcessAndNetworkByDefault(t *testing.T) {
	spec := SandboxSpec{SkillRoot: "/skills/x", Workspace: "/ws/x"}
	profile := buildSeatbeltProfile("/usr/bin/python3", spec)
	assert.NotContains(t, profile, "(allow process*)")
	assert.NotContains(t, profile, "(allow network*)")
}

func TestBuildSeatbeltProfileGrantsProcessAndNetworkWhenCapable(t *testing.T) {
	spec := SandboxSpec{SkillRoot: "/skills/x", Workspace: "/ws/x", AllowProcessSpawn: true, AllowNetwork: true}
	profile := buildSeatbeltProfile("/usr/bin/python3", spec)
	assert.Contains(t, profile, "(allow process*)")
	assert.Contains(t, profile, "(allow network*)")
}

func TestBuildSeatbeltProfileIncludesWorkspaceAndSkillRootWritable(t *testing.T) {
	spec := SandboxSpec{SkillRoot: "/skills/x", Workspace: "/ws/x"}
	profile := buildSeatbeltProfile("/usr/bin/python3", spec)
	assert.Contains(t, profile, `"/skills/x"`)
	assert.Contains(t, profile, `"/ws/x"`)
}
