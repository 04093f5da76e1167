// Package wasmrun implements the WASM Runner (C7): instantiates a WASI
// component under capability-bounded preopens, memory, and a timeout,
// and captures its I/O.
package wasmrun

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/Geeksfino/openskills/internal/domain/capability"
	domerrors "github.com/Geeksfino/openskills/internal/domain/errors"
	"github.com/Geeksfino/openskills/internal/dispatch"
	"github.com/Geeksfino/openskills/internal/execution"
	"github.com/Geeksfino/openskills/internal/iobuf"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
)

// globalCache amortizes module compilation across executions within
// a process, the same role it plays in the teacher's runtime.go.
var globalCache = wazero.NewCompilationCache()

// CloseGlobalCache releases the shared compilation cache; call during
// graceful shutdown of a long-running host.
func CloseGlobalCache(ctx context.Context) error {
	return globalCache.Close(ctx)
}

const maxOutputBytes = 32 * 1024 * 1024 // 32 MiB per §4.7

// Runner executes one WASI command module per invocation. Unlike a
// plugin host that amortizes a single runtime across many calls, each
// execution here may declare its own memory cap (manifest wasm.memory_mb),
// so a fresh wazero.Runtime is built per call; only the compiled-module
// cache is process-wide.
type Runner struct {
	schemas *schemaCompiler
}

func NewRunner() *Runner { return &Runner{schemas: newSchemaCompiler()} }

// Run instantiates wasmBytes under the resolved capability set and
// envelope, enforcing caps.MemoryBytes and caps.TimeoutMS. When
// inputSchema is non-nil, SKILL_INPUT is validated against it before
// the module is instantiated.
func (runner *Runner) Run(ctx context.Context, wasmBytes []byte, skillRoot, workspace string, target dispatch.Target, envelope dispatch.Envelope, caps capability.Set, inputSchema map[string]interface{}) (execution.Artifacts, error) {
	start := time.Now()

	if err := runner.schemas.validateInput(skillRoot, inputSchema, envelope.Stdin); err != nil {
		return execution.Artifacts{}, domerrors.Wrap(domerrors.KindExecutionFailure, "SKILL_INPUT failed input_schema validation", err)
	}

	pages := uint32(caps.MemoryBytes / (64 * 1024))
	if pages == 0 {
		pages = uint32(capability.DefaultMemoryBytes / (64 * 1024))
	}

	config := wazero.NewRuntimeConfig().
		WithCompilationCache(globalCache).
		WithCloseOnContextDone(true).
		WithMemoryLimitPages(pages)

	rt := wazero.NewRuntimeWithConfig(ctx, config)
	defer rt.Close(ctx)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		return execution.Artifacts{}, domerrors.Wrap(domerrors.KindExecutionFailure, "instantiating WASI", err)
	}

	compiled, err := rt.CompileModule(ctx, wasmBytes)
	if err != nil {
		return execution.Artifacts{}, domerrors.Wrap(domerrors.KindWasmArtifactUnsupported, "compiling module", err)
	}

	if !isSupportedCommandModule(compiled) {
		return execution.Artifacts{}, domerrors.New(domerrors.KindWasmArtifactUnsupported, "module does not export _start (not a WASI command-style component)")
	}

	fsConfig, err := buildFSConfig(skillRoot, workspace, caps)
	if err != nil {
		return execution.Artifacts{}, domerrors.Wrap(domerrors.KindPermissionDenied, "building preopens", err)
	}

	stdout := iobuf.NewBoundedBuffer(maxOutputBytes)
	stderr := iobuf.NewBoundedBuffer(maxOutputBytes)
	modConfig := wazero.NewModuleConfig().
		WithStdin(bytes.NewReader(envelope.Stdin)).
		WithStdout(stdout).
		WithStderr(stderr).
		WithFSConfig(fsConfig)

	for _, kv := range envelope.Vars {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			modConfig = modConfig.WithEnv(parts[0], parts[1])
		}
	}

	timeout := time.Duration(caps.TimeoutMS) * time.Millisecond
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, runErr := rt.InstantiateModule(runCtx, compiled, modConfig)
	duration := time.Since(start)

	artifacts := execution.Artifacts{
		Stdout:          stdout.String(),
		Stderr:          stderr.String(),
		StdoutTruncated: stdout.Truncated,
		StderrTruncated: stderr.Truncated,
		DurationMS:      duration.Milliseconds(),
	}

	switch {
	case runErr == nil:
		artifacts.ExitStatus = execution.ExitSuccess
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		artifacts.ExitStatus = execution.ExitTimeout
		return artifacts, domerrors.New(domerrors.KindTimeout, "wasm execution exceeded timeout_ms")
	default:
		var exitErr *sys.ExitError
		if errors.As(runErr, &exitErr) && exitErr.ExitCode() == 0 {
			artifacts.ExitStatus = execution.ExitSuccess
		} else {
			artifacts.ExitStatus = execution.ExitFailure
			artifacts.Output = map[string]interface{}{"status": "error", "error": firstNonEmpty(artifacts.Stderr, runErr.Error())}
			return artifacts, domerrors.Wrap(domerrors.KindExecutionFailure, "wasm module trapped or exited non-zero", runErr)
		}
	}

	artifacts.Output = interpretOutput(artifacts.Stdout)
	return artifacts, nil
}

func isSupportedCommandModule(compiled wazero.CompiledModule) bool {
	_, ok := compiled.ExportedFunctions()["_start"]
	return ok
}

func interpretOutput(stdout string) interface{} {
	var parsed interface{}
	if err := json.Unmarshal([]byte(stdout), &parsed); err == nil {
		return parsed
	}
	return map[string]interface{}{"status": "success", "output": stdout}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// buildFSConfig preopens skill_root read-only at a fixed logical path,
// the workspace read-write, and any additional fs_read/fs_write
// capability paths at logical names derived from their basenames. A
// WASM invocation never preopens a path outside the resolved
// capability set (§3 invariant).
func buildFSConfig(skillRoot, workspace string, caps capability.Set) (wazero.FSConfig, error) {
	fsConfig := wazero.NewFSConfig().
		WithReadOnlyDirMount(skillRoot, "/skill").
		WithDirMount(workspace, "/workspace")

	seen := map[string]bool{skillRoot: true, workspace: true}
	guest := func(path string) string {
		return "/extra/" + filepath.Base(path)
	}

	for _, p := range caps.FSRead {
		if seen[p] {
			continue
		}
		seen[p] = true
		fsConfig = fsConfig.WithReadOnlyDirMount(p, guest(p))
	}
	for _, p := range caps.FSWrite {
		if seen[p] {
			continue
		}
		seen[p] = true
		fsConfig = fsConfig.WithDirMount(p, guest(p))
	}

	return fsConfig, nil
}
