package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Geeksfino/openskills/internal/audit"
	"github.com/Geeksfino/openskills/internal/audit/redaction"
	"github.com/Geeksfino/openskills/internal/config"
	domerrors "github.com/Geeksfino/openskills/internal/domain/errors"
	"github.com/Geeksfino/openskills/internal/permission"
	"github.com/Geeksfino/openskills/internal/policy"
	"github.com/Geeksfino/openskills/internal/runtime"
)

// buildRuntime loads the runtime config from the global --config flag
// and wires a Runtime the way every subcommand needs it: host policy,
// audit sink, and an interactive permission callback.
func buildRuntime() (*runtime.Runtime, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	hostPolicy := policy.DefaultHostPolicy()
	switch cfg.SecurityLevel {
	case "trust_skill":
		hostPolicy.TrustSkillAllowedTools = true
		hostPolicy.Fallback = policy.FallbackAllow
	case "prompt_always":
		hostPolicy.TrustSkillAllowedTools = false
		hostPolicy.Fallback = policy.FallbackPrompt
	case "host_managed", "":
		hostPolicy.TrustSkillAllowedTools = true
		hostPolicy.Fallback = policy.FallbackPrompt
	}
	if cfg.HostPolicyPath != "" {
		hostPolicy, err = policy.LoadHostPolicy(cfg.HostPolicyPath)
		if err != nil {
			return nil, fmt.Errorf("loading host policy: %w", err)
		}
	}

	sink, err := buildAuditSink(cfg)
	if err != nil {
		return nil, err
	}

	rt, err := runtime.New(runtime.Config{
		PersonalRoot:       cfg.PersonalRoot,
		ProjectRoot:        cfg.ProjectRoot,
		CustomRoots:        cfg.CustomRoots,
		MaxDiscoveryDepth:  cfg.MaxDiscoveryDepth,
		PermissionCallback: permission.CLIInteractive{},
		HostPolicy:         &hostPolicy,
		AuditSink:          sink,
	})
	if err != nil {
		return nil, fmt.Errorf("constructing runtime: %w", err)
	}
	return rt, nil
}

// buildAuditSink selects the optional audit sink named by the resolved
// config, defaulting to the no-op sink per §4.9.
func buildAuditSink(cfg config.RuntimeConfig) (audit.Sink, error) {
	switch cfg.AuditSinkKind {
	case "", "none":
		return audit.NoopSink{}, nil
	case "file":
		path := cfg.AuditPath
		if path == "" {
			path = "openskills-audit.ndjson"
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening audit sink file %q: %w", path, err)
		}
		redactor, err := redaction.New(redaction.Config{})
		if err != nil {
			return nil, fmt.Errorf("constructing redactor: %w", err)
		}
		return audit.NewFileSink(f, redactor), nil
	case "sarif":
		return audit.NewSarifSink(), nil
	default:
		return nil, fmt.Errorf("unrecognized audit sink kind %q", cfg.AuditSinkKind)
	}
}

// exitCodeFor maps a runtime error to the process exit status from the
// external interface table (§6): 0 success, 1 generic, 2 invalid
// manifest, 3 not found, 124 timeout, 125 permission denied.
func exitCodeFor(err error) int {
	var domErr *domerrors.Error
	if errors.As(err, &domErr) {
		return domErr.Kind.ExitCode()
	}
	return 1
}

// fatalf logs and exits with the mapped exit code for err.
func fatalf(action string, err error) {
	slog.Error(action+" failed", "error", err)
	os.Exit(exitCodeFor(err))
}
