// Package policy composes a skill's declared allowed-tools with the
// host policy into a concrete capability set and per-tool decision
// table — the single point of truth for capability derivation (§9:
// "no other component may re-derive capabilities").
package policy

// Risk classifies a tool tag's blast radius; it governs whether the
// permission gate actually prompts for a "prompt" decision, or treats
// it as implicitly safe (§4.3, §4.4).
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// Scope names which roots a tool's filesystem access spans.
type Scope int

const (
	ScopeNone Scope = iota
	ScopeSkillAndWorkspace
)

// NetworkScope names a tool's network access shape.
type NetworkScope int

const (
	NetworkScopeNone NetworkScope = iota
	NetworkScopeManifestAllowlist
)

// ToolSpec is one row of the fixed tool-to-capability table in §4.3.
type ToolSpec struct {
	FSRead       Scope
	FSWrite      Scope
	Network      NetworkScope
	ProcessSpawn bool
	Risk         Risk
}

// Catalogue is the fixed table from §4.3, keyed by tool tag.
var Catalogue = map[string]ToolSpec{
	"Read": {FSRead: ScopeSkillAndWorkspace, Risk: RiskLow},
	"Grep": {FSRead: ScopeSkillAndWorkspace, Risk: RiskLow},
	"Glob": {FSRead: ScopeSkillAndWorkspace, Risk: RiskLow},
	"LS":   {FSRead: ScopeSkillAndWorkspace, Risk: RiskLow},

	"Write":     {FSRead: ScopeSkillAndWorkspace, FSWrite: ScopeSkillAndWorkspace, Risk: RiskMedium},
	"Edit":      {FSRead: ScopeSkillAndWorkspace, FSWrite: ScopeSkillAndWorkspace, Risk: RiskMedium},
	"MultiEdit": {FSRead: ScopeSkillAndWorkspace, FSWrite: ScopeSkillAndWorkspace, Risk: RiskMedium},

	"Bash":     {FSRead: ScopeSkillAndWorkspace, FSWrite: ScopeSkillAndWorkspace, ProcessSpawn: true, Risk: RiskHigh},
	"Terminal": {FSRead: ScopeSkillAndWorkspace, FSWrite: ScopeSkillAndWorkspace, ProcessSpawn: true, Risk: RiskHigh},

	"WebSearch": {Network: NetworkScopeManifestAllowlist, Risk: RiskMedium},
	"Fetch":     {Network: NetworkScopeManifestAllowlist, Risk: RiskMedium},

	"Delete": {FSRead: ScopeSkillAndWorkspace, FSWrite: ScopeSkillAndWorkspace, Risk: RiskHigh},
}

// KnownTool reports whether tag is a tool this runtime recognizes.
func KnownTool(tag string) bool {
	_, ok := Catalogue[tag]
	return ok
}
