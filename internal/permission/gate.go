package permission

import (
	"sync"
	"time"

	domerrors "github.com/Geeksfino/openskills/internal/domain/errors"
	"github.com/Geeksfino/openskills/internal/policy"
)

type grantKey struct {
	skillID string
	tool    string
}

// Gate evaluates permission requests per §4.4: it consults the policy
// decision table first, then an allow_always cache, then (only for
// "prompt" decisions the cache hasn't already resolved) the injected
// callback. It never holds its lock across a callback invocation.
type Gate struct {
	mu          sync.Mutex
	allowAlways map[grantKey]bool
	audit       []Decision
	callback    Callback
	now         func() time.Time
}

// NewGate constructs a Gate around the given callback. callback may be
// nil if the runtime never expects a "prompt" decision to be reached
// (e.g. a host policy whose fallback is never "prompt").
func NewGate(callback Callback) *Gate {
	return &Gate{
		allowAlways: make(map[grantKey]bool),
		callback:    callback,
		now:         time.Now,
	}
}

// Check implements §4.4's three-step flow for one tool request, given
// the tool's effective decision and risk classification from the
// Policy & Capability Mapper.
func (g *Gate) Check(skillID, tool string, decision policy.Decision, risk policy.Risk, reqCtx map[string]interface{}) (Response, error) {
	switch decision {
	case policy.DecisionAllow:
		return g.record(skillID, tool, ResponseAllowOnce, reqCtx, false, "policy"), nil
	case policy.DecisionDeny:
		return g.record(skillID, tool, ResponseDeny, reqCtx, false, "policy"), nil
	}

	// decision == prompt
	// Risk classification governs whether the gate actually prompts:
	// low-risk tools reaching a "prompt" decision are granted without
	// invoking the callback, since their capability surface is already
	// bounded to read-only access within skill_root/workspace.
	if risk == policy.RiskLow {
		return g.record(skillID, tool, ResponseAllowOnce, reqCtx, false, "policy"), nil
	}

	key := grantKey{skillID: skillID, tool: tool}

	g.mu.Lock()
	if g.allowAlways[key] {
		g.mu.Unlock()
		return g.record(skillID, tool, ResponseAllowAlways, reqCtx, true, "cache"), nil
	}
	g.mu.Unlock()

	if g.callback == nil {
		return ResponseDeny, domerrors.New(domerrors.KindPermissionDenied, "prompt required but no permission callback configured")
	}

	// Never hold the lock across the callback — it may block for
	// unbounded user time (§5).
	resp, err := g.callback.Request(Request{SkillID: skillID, Tool: tool, RequestContext: reqCtx})
	if err != nil {
		return ResponseDeny, err
	}

	if resp == ResponseAllowAlways {
		g.mu.Lock()
		g.allowAlways[key] = true
		g.mu.Unlock()
	}

	return g.record(skillID, tool, resp, reqCtx, false, "callback"), nil
}

func (g *Gate) record(skillID, tool string, resp Response, reqCtx map[string]interface{}, cached bool, source string) Response {
	d := Decision{
		Tool:           tool,
		Scope:          skillID,
		Response:       resp,
		Timestamp:      g.now(),
		RequestContext: reqCtx,
		Cached:         cached,
		Source:         source,
	}
	g.mu.Lock()
	g.audit = append(g.audit, d)
	g.mu.Unlock()
	return resp
}

// ResetGrants empties only the allow_always cache; history is untouched.
func (g *Gate) ResetGrants() {
	g.mu.Lock()
	g.allowAlways = make(map[grantKey]bool)
	g.mu.Unlock()
}

// Audit returns a snapshot of the decision log, in append order.
func (g *Gate) Audit() []Decision {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Decision, len(g.audit))
	copy(out, g.audit)
	return out
}
