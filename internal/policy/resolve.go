package policy

import (
	"github.com/Geeksfino/openskills/internal/domain/capability"
	"github.com/Geeksfino/openskills/internal/manifest"
)

// Decision is the effective per-tool outcome the permission gate
// consults before ever invoking a callback.
type Decision string

const (
	DecisionAllow  Decision = "allow"
	DecisionDeny   Decision = "deny"
	DecisionPrompt Decision = "prompt"
)

// Resolution is C3's output: a concrete capability set plus the
// per-tool effective decision table.
type Resolution struct {
	Capabilities capability.Set
	Decisions    map[string]Decision
	Risks        map[string]Risk
}

// RequestContext is the per-request environment a rule expression can
// inspect, in addition to the request's own tool/skill_id.
type RequestContext map[string]interface{}

// Resolve implements §4.3's resolution order for every tool in the
// fixed catalogue: host deny > rule deny > host allow >
// (trust_skill_allowed_tools && declared) allow > host fallback.
func Resolve(declared manifest.ToolSet, host HostPolicy, skillRoot, workspace string, memBytes, timeoutMS int64, reqCtx RequestContext) Resolution {
	decisions := make(map[string]Decision, len(Catalogue))
	risks := make(map[string]Risk, len(Catalogue))

	env := map[string]interface{}{}
	for k, v := range reqCtx {
		env[k] = v
	}

	for tool, spec := range Catalogue {
		risks[tool] = spec.Risk
		env["tool"] = tool

		switch {
		case containsString(host.Deny, tool):
			decisions[tool] = DecisionDeny
		case ruleDenies(host.Rules, env):
			decisions[tool] = DecisionDeny
		case containsString(host.Allow, tool):
			decisions[tool] = DecisionAllow
		case host.TrustSkillAllowedTools && declared.Contains(tool):
			decisions[tool] = DecisionAllow
		default:
			decisions[tool] = fallbackDecision(host.Fallback)
		}
	}

	caps := capability.Set{
		MemoryBytes: memBytes,
		TimeoutMS:   timeoutMS,
	}
	if caps.MemoryBytes == 0 {
		caps.MemoryBytes = capability.DefaultMemoryBytes
	}
	if caps.TimeoutMS == 0 {
		caps.TimeoutMS = capability.DefaultTimeoutMS
	}

	hosts := map[string]bool{}
	anyNetwork := false
	for tool, decision := range decisions {
		if decision == DecisionDeny {
			continue
		}
		spec := Catalogue[tool]
		if spec.FSRead == ScopeSkillAndWorkspace {
			caps.FSRead = appendUnique(caps.FSRead, skillRoot, workspace)
		}
		if spec.FSWrite == ScopeSkillAndWorkspace {
			caps.FSWrite = appendUnique(caps.FSWrite, skillRoot, workspace)
		}
		if spec.ProcessSpawn {
			caps.ProcessSpawn = true
		}
		if spec.Network == NetworkScopeManifestAllowlist {
			anyNetwork = true
			// Manifest carries no explicit host allowlist field beyond
			// allowed-tools in this data model, so an empty allowlist
			// means "any", per §3's "all fs_read/fs_write" phrasing
			// applied analogously to network: absence of a declared
			// allowlist is the wildcard case.
			hosts["*"] = true
		}
	}
	if anyNetwork {
		if hosts["*"] {
			caps.NetworkMode = capability.NetworkAll
		} else {
			caps.NetworkMode = capability.NetworkAllowlist
			for h := range hosts {
				caps.NetworkHosts = append(caps.NetworkHosts, h)
			}
		}
	} else {
		caps.NetworkMode = capability.NetworkNone
	}

	return Resolution{Capabilities: caps, Decisions: decisions, Risks: risks}
}

func ruleDenies(rules []Rule, env map[string]interface{}) bool {
	for i := range rules {
		if rules[i].evaluate(env) {
			return true
		}
	}
	return false
}

func fallbackDecision(f Fallback) Decision {
	switch f {
	case FallbackAllow:
		return DecisionAllow
	case FallbackDeny:
		return DecisionDeny
	default:
		return DecisionPrompt
	}
}

func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, existing := range list {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			list = append(list, v)
		}
	}
	return list
}
