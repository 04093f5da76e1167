package runtime

import (
	"context"
	"encoding/json"
	"os"

	"github.com/Geeksfino/openskills/internal/audit"
	domerrors "github.com/Geeksfino/openskills/internal/domain/errors"
	"github.com/Geeksfino/openskills/internal/execution"
	"github.com/Geeksfino/openskills/internal/session"
)

// ExecuteWithContext implements execute_with_context(id, options,
// parent_context): it runs the same resolve/gate/dispatch/audit
// sequence as Execute, but derives its workspace from parent_context
// (forking it when the skill declares context: fork, sharing it
// otherwise) and, for a forked child, replaces the caller-visible
// output with the recorder's summary (§4.5 fork opacity, §8 property).
func (rt *Runtime) ExecuteWithContext(ctx context.Context, id string, opts ExecuteOptions, parent *session.Context) (execution.Artifacts, audit.Record, error) {
	md, err := rt.registry.Get(id)
	if err != nil {
		return execution.Artifacts{}, audit.Record{}, err
	}

	childCtx, ownsWorkspace, err := rt.deriveChildContext(id, md.Manifest.IsForked(), parent)
	if err != nil {
		return execution.Artifacts{}, audit.Record{}, domerrors.Wrap(domerrors.KindExecutionFailure, "deriving execution context", err)
	}
	if ownsWorkspace {
		defer func() { _ = os.RemoveAll(childCtx.WorkspacePath) }()
	}

	artifacts, rec, runErr := rt.executeInWorkspace(ctx, md, opts, childCtx.WorkspacePath)

	if childCtx.IsForked && childCtx.Recorder != nil {
		if runErr == nil {
			childCtx.Recorder.Record(session.EventResult, marshalResultPayload(artifacts.Output))
		} else {
			childCtx.Recorder.Record(session.EventStdout, artifacts.Stdout)
		}
		artifacts.Output = map[string]interface{}{"summary": childCtx.Recorder.Summarize()}
	}

	return artifacts, rec, runErr
}

// deriveChildContext resolves the context a single execute_with_context
// call runs in: forked from parent, shared with parent, or — with no
// parent at all — a fresh root context this call owns end to end.
func (rt *Runtime) deriveChildContext(skillID string, forked bool, parent *session.Context) (*session.Context, bool, error) {
	switch {
	case forked && parent != nil:
		workspace, err := rt.allocateWorkspace(skillID)
		if err != nil {
			return nil, false, err
		}
		return parent.Fork(workspace), true, nil
	case parent != nil:
		return parent, false, nil
	default:
		workspace, err := rt.allocateWorkspace(skillID)
		if err != nil {
			return nil, false, err
		}
		return session.NewRoot(workspace), true, nil
	}
}

// marshalResultPayload renders a result event's payload as canonical
// JSON, so Recorder.Summarize() of a forked execution's single result
// event matches the scenario in §8 ("summary equals {"verdict":"ok"}").
func marshalResultPayload(output interface{}) string {
	raw, err := json.Marshal(output)
	if err != nil {
		return ""
	}
	return string(raw)
}
