package runtime

import (
	domerrors "github.com/Geeksfino/openskills/internal/domain/errors"
	"github.com/Geeksfino/openskills/internal/execution"
	"github.com/Geeksfino/openskills/internal/session"
)

// StartSession implements start_session(id, input?, parent?): it
// allocates the session's workspace (forked from parent's per the
// skill's context: fork declaration, or shared with parent, or fresh)
// and registers a live handle. input is accepted for API symmetry with
// execute() but is not otherwise consumed here — the caller drives the
// session's actual tool calls and supplies output at finish_session.
func (rt *Runtime) StartSession(id string, input interface{}, parent *session.Context) (*session.Session, error) {
	md, err := rt.registry.Get(id)
	if err != nil {
		return nil, err
	}

	workspace, err := rt.allocateWorkspace(id)
	if err != nil {
		return nil, domerrors.Wrap(domerrors.KindExecutionFailure, "allocating session workspace", err)
	}

	return rt.sessions.Start(id, md.Manifest.IsForked(), parent, workspace), nil
}

// FinishSession implements finish_session(handle, output, stdout,
// stderr, status): it retires the handle and, for a forked session,
// replaces output with the recorder's summary (§4.5 fork opacity).
func (rt *Runtime) FinishSession(handle string, output interface{}, stdout, stderr string, status execution.ExitStatus) (execution.Artifacts, error) {
	return rt.sessions.Finish(handle, output, stdout, stderr, status)
}

// SessionContext retrieves the live context behind a handle, so a
// caller can record tool_call/stdout/stderr/result events into it
// between start_session and finish_session.
func (rt *Runtime) SessionContext(handle string) (*session.Context, error) {
	s, err := rt.sessions.Get(handle)
	if err != nil {
		return nil, err
	}
	return s.Context, nil
}
