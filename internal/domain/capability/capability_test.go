package capability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilityMatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		granted   string
		requested string
		want      bool
	}{
		{"exact match", "/workspace/out.json", "/workspace/out.json", true},
		{"exact mismatch", "/workspace/out.json", "/workspace/in.json", false},
		{"wildcard all", "*", "anything", true},
		{"network any sentinel", "any", "example.com", true},
		{"prefix wildcard matches", "/workspace/*", "/workspace/nested/file", true},
		{"prefix wildcard rejects sibling", "/workspace/*", "/other/file", false},
		{"suffix wildcard matches subdomain", "*.example.com", "api.example.com", true},
		{"suffix wildcard matches bare domain", "*.example.com", "example.com", true},
		{"suffix wildcard rejects unrelated", "*.example.com", "example.org", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := Capability{Kind: KindFSRead, Pattern: tt.granted}
			r := Capability{Kind: KindFSRead, Pattern: tt.requested}
			assert.Equal(t, tt.want, g.Matches(r))
		})
	}
}

func TestCapabilityMatchesRequiresSameKind(t *testing.T) {
	t.Parallel()
	g := Capability{Kind: KindFSRead, Pattern: "*"}
	r := Capability{Kind: KindNetwork, Pattern: "example.com"}
	assert.False(t, g.Matches(r))
}

func TestGrantAddDeduplicates(t *testing.T) {
	t.Parallel()
	g := NewGrant()
	cap := Capability{Kind: KindFSRead, Pattern: "/workspace"}
	g.Add(cap)
	g.Add(cap)
	assert.Len(t, g, 1)
}

func TestGrantIsGrantedUsesPatternMatching(t *testing.T) {
	t.Parallel()
	g := NewGrant()
	g.Add(Capability{Kind: KindNetwork, Pattern: "*.example.com"})
	assert.True(t, g.IsGranted(Capability{Kind: KindNetwork, Pattern: "api.example.com"}))
	assert.False(t, g.IsGranted(Capability{Kind: KindNetwork, Pattern: "api.other.com"}))
}

func TestGrantRemove(t *testing.T) {
	t.Parallel()
	g := NewGrant()
	cap := Capability{Kind: KindExec, Pattern: "/usr/bin/python3"}
	g.Add(cap)
	g.Remove(cap)
	assert.False(t, g.Contains(cap))
}

func TestSetNetworkAllowed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		set  Set
		host string
		want bool
	}{
		{"none mode denies everything", Set{NetworkMode: NetworkNone}, "example.com", false},
		{"all mode allows everything", Set{NetworkMode: NetworkAll}, "example.com", true},
		{"allowlist matches", Set{NetworkMode: NetworkAllowlist, NetworkHosts: []string{"*.example.com"}}, "api.example.com", true},
		{"allowlist rejects unmatched host", Set{NetworkMode: NetworkAllowlist, NetworkHosts: []string{"*.example.com"}}, "evil.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.set.NetworkAllowed(tt.host))
		})
	}
}

func TestSetGrantFlattensAllKinds(t *testing.T) {
	t.Parallel()
	set := Set{
		FSRead:       []string{"/skill"},
		FSWrite:      []string{"/workspace"},
		NetworkMode:  NetworkAllowlist,
		NetworkHosts: []string{"api.example.com"},
		ProcessSpawn: true,
		EnvVars:      []string{"HOME"},
	}

	grant := set.Grant()
	assert.True(t, grant.Contains(Capability{Kind: KindFSRead, Pattern: "/skill"}))
	assert.True(t, grant.Contains(Capability{Kind: KindFSWrite, Pattern: "/workspace"}))
	assert.True(t, grant.Contains(Capability{Kind: KindNetwork, Pattern: "api.example.com"}))
	assert.True(t, grant.Contains(Capability{Kind: KindEnv, Pattern: "HOME"}))
	assert.True(t, grant.Contains(Capability{Kind: KindExec, Pattern: "*"}))
}
