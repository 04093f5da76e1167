// Package runtime is the top-level façade (external interface of §6):
// one instance per caller, wiring discovery, policy resolution, the
// permission gate, session tracking, target dispatch, both runners, and
// the audit sink behind the Runtime API table.
package runtime

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Geeksfino/openskills/internal/audit"
	"github.com/Geeksfino/openskills/internal/domain/capability"
	domerrors "github.com/Geeksfino/openskills/internal/domain/errors"
	"github.com/Geeksfino/openskills/internal/dispatch"
	"github.com/Geeksfino/openskills/internal/execution"
	"github.com/Geeksfino/openskills/internal/manifest"
	"github.com/Geeksfino/openskills/internal/native"
	"github.com/Geeksfino/openskills/internal/permission"
	"github.com/Geeksfino/openskills/internal/policy"
	"github.com/Geeksfino/openskills/internal/registry"
	"github.com/Geeksfino/openskills/internal/session"
	"github.com/Geeksfino/openskills/internal/wasmrun"
)

// Config is new(config)'s input (§6).
type Config struct {
	PersonalRoot      string
	ProjectRoot       string
	CustomRoots       []string
	MaxDiscoveryDepth int

	PermissionCallback permission.Callback
	HostPolicy         *policy.HostPolicy
	AuditSink          audit.Sink

	// WorkspaceBase is the directory under which per-execution workspace
	// directories are created; the OS temp directory if empty.
	WorkspaceBase string
}

// Runtime is single-owner: one caller drives one instance (§5 "Scheduling
// model"). Internally it only ever parallelizes timeout enforcement,
// output draining and discovery's loading of skill directories, never
// caller-visible calls.
type Runtime struct {
	registry     *registry.Registry
	hostPolicy   policy.HostPolicy
	gate         *permission.Gate
	sessions     *session.Manager
	auditSink    audit.Sink
	wasmRunner   *wasmrun.Runner
	nativeRunner *native.Runner

	discoveryCfg  registry.DiscoveryConfig
	workspaceBase string
}

// New constructs a Runtime around the given configuration. Discovery is
// not performed by New; call Discover explicitly (§6 separates the two).
func New(cfg Config) (*Runtime, error) {
	hostPolicy := policy.DefaultHostPolicy()
	if cfg.HostPolicy != nil {
		hostPolicy = *cfg.HostPolicy
	}

	sink := audit.Sink(audit.NoopSink{})
	if cfg.AuditSink != nil {
		sink = cfg.AuditSink
	}

	return &Runtime{
		registry:     registry.New(),
		hostPolicy:   hostPolicy,
		gate:         permission.NewGate(cfg.PermissionCallback),
		sessions:     session.NewManager(),
		auditSink:    sink,
		wasmRunner:   wasmrun.NewRunner(),
		nativeRunner: native.NewRunner(),
		discoveryCfg: registry.DiscoveryConfig{
			PersonalRoot: cfg.PersonalRoot,
			ProjectRoot:  cfg.ProjectRoot,
			CustomRoots:  cfg.CustomRoots,
			MaxDepth:     cfg.MaxDiscoveryDepth,
		},
		workspaceBase: cfg.WorkspaceBase,
	}, nil
}

// Discover re-walks the configured roots and returns Tier-1 descriptors.
func (rt *Runtime) Discover(ctx context.Context) ([]registry.Descriptor, error) {
	if err := rt.registry.Discover(ctx, rt.discoveryCfg); err != nil {
		return nil, err
	}
	return rt.registry.List(), nil
}

// ActivateResult is activate(id)'s output shape.
type ActivateResult struct {
	ID           string
	Name         string
	AllowedTools manifest.ToolSet
	Instructions string
}

// Activate loads Tier-2 content for id: name, declared tools, and the
// full instructions body.
func (rt *Runtime) Activate(id string) (ActivateResult, error) {
	loaded, err := rt.registry.LoadFull(id)
	if err != nil {
		return ActivateResult{}, err
	}
	return ActivateResult{
		ID:           loaded.Metadata.ID,
		Name:         loaded.Metadata.Manifest.Name,
		AllowedTools: loaded.Metadata.Manifest.AllowedTools,
		Instructions: loaded.Instructions,
	}, nil
}

// ExecuteOptions is execute(id, options)'s input shape.
type ExecuteOptions struct {
	Input          interface{}
	TimeoutMS      int64
	MemoryBytes    int64
	WasmOverride   string
	TargetOverride string
	RequestContext map[string]interface{}
}

// Execute runs one skill invocation end to end: resolve capabilities,
// gate the tool the target implies, dispatch to the matching runner,
// and fire an audit record. It never retries (§7 propagation policy).
func (rt *Runtime) Execute(ctx context.Context, id string, opts ExecuteOptions) (execution.Artifacts, audit.Record, error) {
	md, err := rt.registry.Get(id)
	if err != nil {
		return execution.Artifacts{}, audit.Record{}, err
	}

	workspace, cleanup, err := rt.newWorkspace(id)
	if err != nil {
		return execution.Artifacts{}, audit.Record{}, domerrors.Wrap(domerrors.KindExecutionFailure, "allocating workspace", err)
	}
	defer cleanup()

	return rt.executeInWorkspace(ctx, md, opts, workspace)
}

// executeInWorkspace is Execute's body, factored out so
// ExecuteWithContext can run the same resolve/gate/dispatch/audit
// sequence against a workspace it owns (fresh, forked, or shared with a
// parent context) instead of always allocating its own.
func (rt *Runtime) executeInWorkspace(ctx context.Context, md registry.Metadata, opts ExecuteOptions, workspace string) (execution.Artifacts, audit.Record, error) {
	start := time.Now()
	id := md.ID

	timeoutMS := firstPositive(opts.TimeoutMS, int64(md.Manifest.Wasm.TimeoutMS), capability.DefaultTimeoutMS)
	memBytes := firstPositive(opts.MemoryBytes, int64(md.Manifest.Wasm.MemoryMB)*1024*1024, capability.DefaultMemoryBytes)

	// fail records the invocation's single audit record for a failure
	// before dispatch, then returns err unchanged.
	fail := func(status execution.ExitStatus, err error) (execution.Artifacts, audit.Record, error) {
		failed := execution.Artifacts{ExitStatus: status, Output: map[string]interface{}{"status": "error", "error": err.Error()}, DurationMS: time.Since(start).Milliseconds()}
		rec, hashErr := audit.NewRecord(id, md.Manifest.Version, opts.Input, failed, start.UnixMilli())
		if hashErr == nil {
			_ = rt.auditSink.Record(ctx, rec)
		}
		return execution.Artifacts{}, rec, err
	}

	target, err := dispatch.Detect(md.RootPath, opts.TargetOverride)
	if err != nil {
		return fail(execution.ExitFailure, err)
	}

	reqCtx := opts.RequestContext
	if reqCtx == nil {
		reqCtx = map[string]interface{}{}
	}
	resolution := policy.Resolve(md.Manifest.AllowedTools, rt.hostPolicy, md.RootPath, workspace, memBytes, timeoutMS, policy.RequestContext(reqCtx))

	if requiredTool := toolFor(target); requiredTool != "" {
		if denyErr := rt.gateRequiredTool(id, requiredTool, resolution, reqCtx); denyErr != nil {
			return fail(execution.ExitPermissionDenied, denyErr)
		}
	}

	envelope, err := dispatch.BuildEnvelope(id, md.Manifest.Name, opts.Input, md.RootPath, workspace, timeoutMS, target.ScriptType)
	if err != nil {
		return fail(execution.ExitFailure, domerrors.Wrap(domerrors.KindExecutionFailure, "building envelope", err))
	}

	artifacts, runErr := rt.dispatchRun(ctx, md, target, workspace, envelope, resolution.Capabilities, opts.WasmOverride)
	artifacts.PermissionsUsed = allowedToolNames(resolution)

	rec, hashErr := audit.NewRecord(id, md.Manifest.Version, opts.Input, artifacts, start.UnixMilli())
	if hashErr == nil {
		_ = rt.auditSink.Record(ctx, rec)
	}

	return artifacts, rec, runErr
}

func (rt *Runtime) dispatchRun(ctx context.Context, md registry.Metadata, target dispatch.Target, workspace string, envelope dispatch.Envelope, caps capability.Set, wasmOverride string) (execution.Artifacts, error) {
	switch target.Kind {
	case dispatch.TargetWasm:
		wasmPath := filepath.Join(md.RootPath, target.Path)
		if wasmOverride != "" {
			wasmPath = filepath.Join(md.RootPath, wasmOverride)
		}
		data, err := os.ReadFile(wasmPath)
		if err != nil {
			return execution.Artifacts{}, domerrors.Wrap(domerrors.KindWasmArtifactUnsupported, "reading wasm artifact", err)
		}
		return rt.wasmRunner.Run(ctx, data, md.RootPath, workspace, target, envelope, caps, md.Manifest.InputSchema)
	case dispatch.TargetNative:
		return rt.nativeRunner.Run(ctx, target, md.RootPath, workspace, envelope, caps)
	default:
		return execution.Artifacts{}, domerrors.New(domerrors.KindExecutionFailure, "unrecognized target kind")
	}
}

// toolFor names the tool tag a target implies must be gated before a
// child is spawned: native execution always implies process-spawn
// (Bash), while a WASM component is sandboxed directly and implies none.
func toolFor(target dispatch.Target) string {
	if target.Kind == dispatch.TargetNative {
		return "Bash"
	}
	return ""
}

// gateRequiredTool applies §4.4's gate to the tool a target implies,
// distinguishing a policy-level denial (ToolNotAllowed, no side effect
// yet) from an interactive denial (PermissionDenied).
func (rt *Runtime) gateRequiredTool(skillID, tool string, resolution policy.Resolution, reqCtx map[string]interface{}) error {
	decision := resolution.Decisions[tool]
	resp, err := rt.gate.Check(skillID, tool, decision, resolution.Risks[tool], reqCtx)
	if err != nil {
		return domerrors.Wrap(domerrors.KindPermissionDenied, "permission gate", err)
	}
	if resp != permission.ResponseDeny {
		return nil
	}
	if decision == policy.DecisionDeny {
		return domerrors.New(domerrors.KindToolNotAllowed, fmt.Sprintf("tool %q not satisfied by the effective decision table", tool))
	}
	return domerrors.New(domerrors.KindPermissionDenied, fmt.Sprintf("tool %q denied", tool))
}

func allowedToolNames(resolution policy.Resolution) []string {
	var out []string
	for tool, decision := range resolution.Decisions {
		if decision == policy.DecisionAllow {
			out = append(out, tool)
		}
	}
	return out
}

func firstPositive(values ...int64) int64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
