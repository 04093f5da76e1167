package runtime

import (
	"fmt"

	domerrors "github.com/Geeksfino/openskills/internal/domain/errors"
	"github.com/Geeksfino/openskills/internal/permission"
	"github.com/Geeksfino/openskills/internal/policy"
)

// CheckPermission implements check_permission(id, tool,
// request_context): it resolves the skill's effective decision table
// and runs the same policy-then-cache-then-callback flow Execute uses
// for the tool a target implies, without ever spawning a child.
func (rt *Runtime) CheckPermission(skillID, tool string, reqCtx map[string]interface{}) (permission.Response, error) {
	md, err := rt.registry.Get(skillID)
	if err != nil {
		return permission.ResponseDeny, err
	}
	if !policy.KnownTool(tool) {
		return permission.ResponseDeny, domerrors.New(domerrors.KindToolNotAllowed, fmt.Sprintf("unrecognized tool %q", tool))
	}

	if reqCtx == nil {
		reqCtx = map[string]interface{}{}
	}
	resolution := policy.Resolve(md.Manifest.AllowedTools, rt.hostPolicy, md.RootPath, "", 0, 0, policy.RequestContext(reqCtx))

	decision := resolution.Decisions[tool]
	resp, err := rt.gate.Check(skillID, tool, decision, resolution.Risks[tool], reqCtx)
	if err != nil {
		return permission.ResponseDeny, err
	}
	if resp == permission.ResponseDeny && decision == policy.DecisionDeny {
		return resp, domerrors.New(domerrors.KindToolNotAllowed, fmt.Sprintf("tool %q not allowed for skill %q", tool, skillID))
	}
	return resp, nil
}

// ResetPermissionGrants implements reset_permission_grants(): it clears
// only the allow_always cache, never the audit history (§4.4).
func (rt *Runtime) ResetPermissionGrants() {
	rt.gate.ResetGrants()
}

// GetPermissionAudit implements get_permission_audit(): the ordered,
// append-only decision log.
func (rt *Runtime) GetPermissionAudit() []permission.Decision {
	return rt.gate.Audit()
}
