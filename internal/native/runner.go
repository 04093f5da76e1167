package native

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/Geeksfino/openskills/internal/domain/capability"
	domerrors "github.com/Geeksfino/openskills/internal/domain/errors"
	"github.com/Geeksfino/openskills/internal/dispatch"
	"github.com/Geeksfino/openskills/internal/execution"
	"github.com/Geeksfino/openskills/internal/iobuf"
)

const maxOutputBytes = 32 * 1024 * 1024 // 32 MiB per §4.7, shared with the WASM runner

// gracePeriod is the fixed window between a graceful termination signal
// and a force-kill once timeout_ms expires (§5 "Cancellation and timeouts").
const gracePeriod = 2 * time.Second

// Runner spawns one interpreter process per invocation inside a
// freshly-built OS sandbox, matching the WASM runner's artifact shape
// (§9 "two sandbox paths, one contract").
type Runner struct{}

func NewRunner() *Runner { return &Runner{} }

// Run resolves the interpreter for target.ScriptType, builds a platform
// sandbox from caps, and executes target.Path under it.
func (runner *Runner) Run(ctx context.Context, target dispatch.Target, skillRoot, workspace string, envelope dispatch.Envelope, caps capability.Set) (execution.Artifacts, error) {
	start := time.Now()

	interpreter, err := ResolveInterpreter(target.ScriptType)
	if err != nil {
		return execution.Artifacts{}, err
	}

	sandbox, err := newPlatformSandbox()
	if err != nil {
		return execution.Artifacts{}, err
	}

	spec := SandboxSpec{
		SkillRoot:         skillRoot,
		Workspace:         workspace,
		ExtraReadOnly:     caps.FSRead,
		ExtraWritable:     caps.FSWrite,
		AllowProcessSpawn: caps.ProcessSpawn,
		AllowNetwork:      caps.NetworkMode != capability.NetworkNone,
		MemoryBytes:       caps.MemoryBytes,
		TimeoutMS:         caps.TimeoutMS,
	}

	timeout := time.Duration(caps.TimeoutMS) * time.Millisecond
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	scriptPath := filepath.Join(skillRoot, target.Path)
	cmd, cleanup, err := sandbox.Prepare(runCtx, interpreter, []string{scriptPath}, spec)
	if err != nil {
		return execution.Artifacts{}, domerrors.Wrap(domerrors.KindSandboxUnavailable, "preparing native sandbox", err)
	}
	defer cleanup()

	cmd.Env = buildEnv(envelope.Vars, caps.EnvVars)
	cmd.Stdin = bytes.NewReader(envelope.Stdin)
	stdout := iobuf.NewBoundedBuffer(maxOutputBytes)
	stderr := iobuf.NewBoundedBuffer(maxOutputBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	// On runCtx expiry send SIGTERM instead of exec's default SIGKILL;
	// terminateGracefully force-kills after gracePeriod.
	cmd.Cancel = func() error { return cmd.Process.Signal(syscall.SIGTERM) }

	if err := cmd.Start(); err != nil {
		return execution.Artifacts{}, domerrors.Wrap(domerrors.KindExecutionFailure, "starting interpreter", err)
	}

	if err := sandbox.PostStart(cmd.Process.Pid, spec); err != nil {
		// Resource limits are best-effort hardening, not the sole
		// containment mechanism; a failure here does not abort execution.
		_ = err
	}

	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()

	artifacts := execution.Artifacts{}
	var runErr error

	select {
	case err := <-waitErr:
		runErr = err
	case <-runCtx.Done():
		terminateGracefully(cmd, waitErr)
		artifacts.ExitStatus = execution.ExitTimeout
		artifacts.Stdout = stdout.String()
		artifacts.Stderr = stderr.String()
		artifacts.StdoutTruncated = stdout.Truncated
		artifacts.StderrTruncated = stderr.Truncated
		artifacts.DurationMS = time.Since(start).Milliseconds()
		return artifacts, domerrors.New(domerrors.KindTimeout, "native execution exceeded timeout_ms")
	}

	artifacts.Stdout = stdout.String()
	artifacts.Stderr = stderr.String()
	artifacts.StdoutTruncated = stdout.Truncated
	artifacts.StderrTruncated = stderr.Truncated
	artifacts.DurationMS = time.Since(start).Milliseconds()

	if runErr == nil {
		artifacts.ExitStatus = execution.ExitSuccess
		artifacts.Output = map[string]interface{}{"status": "success", "output": artifacts.Stdout}
		return artifacts, nil
	}

	artifacts.ExitStatus = execution.ExitFailure
	artifacts.Output = map[string]interface{}{"status": "error", "error": firstNonEmpty(artifacts.Stderr, runErr.Error())}
	return artifacts, domerrors.Wrap(domerrors.KindExecutionFailure, "interpreter exited non-zero", runErr)
}

// terminateGracefully sends SIGTERM and waits gracePeriod before
// force-killing with SIGKILL; it always drains waitErr so cmd.Wait's
// goroutine never leaks (§5 timeout fidelity, §4.8 state machine).
func terminateGracefully(cmd *exec.Cmd, waitErr chan error) {
	if cmd.Process == nil {
		return
	}
	_ = cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-waitErr:
		return
	case <-time.After(gracePeriod):
	}
	_ = cmd.Process.Kill()
	<-waitErr
}

func buildEnv(envelopeVars, extraEnvNames []string) []string {
	env := append([]string{}, envelopeVars...)
	env = append(env, "PATH=/usr/bin:/bin:/usr/local/bin")
	for _, name := range extraEnvNames {
		if val, ok := os.LookupEnv(name); ok {
			env = append(env, name+"="+val)
		}
	}
	return env
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
