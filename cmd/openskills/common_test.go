package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/Geeksfino/openskills/internal/config"
	domerrors "github.com/Geeksfino/openskills/internal/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil-shaped generic error", errors.New("boom"), 1},
		{"invalid manifest", domerrors.New(domerrors.KindInvalidManifest, "bad frontmatter"), 2},
		{"skill not found", domerrors.New(domerrors.KindSkillNotFound, "no such skill"), 3},
		{"timeout", domerrors.New(domerrors.KindTimeout, "deadline exceeded"), 124},
		{"permission denied", domerrors.New(domerrors.KindPermissionDenied, "denied"), 125},
		{"tool not allowed", domerrors.New(domerrors.KindToolNotAllowed, "not allowed"), 125},
		{"wrapped domain error", errorWrapper{domerrors.New(domerrors.KindTimeout, "slow")}, 124},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}

// errorWrapper mimics fmt.Errorf("...: %w", err)'s Unwrap shape.
type errorWrapper struct{ err error }

func (e errorWrapper) Error() string { return "wrapped: " + e.err.Error() }
func (e errorWrapper) Unwrap() error { return e.err }

func TestBuildAuditSinkDefaultsToNoop(t *testing.T) {
	t.Parallel()
	sink, err := buildAuditSink(config.RuntimeConfig{})
	require.NoError(t, err)
	require.NotNil(t, sink)
}

func TestBuildAuditSinkFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "audit.ndjson")
	sink, err := buildAuditSink(config.RuntimeConfig{AuditSinkKind: "file", AuditPath: path})
	require.NoError(t, err)
	require.NotNil(t, sink)
}

func TestBuildAuditSinkUnrecognizedKind(t *testing.T) {
	t.Parallel()
	_, err := buildAuditSink(config.RuntimeConfig{AuditSinkKind: "carrier-pigeon"})
	assert.Error(t, err)
}
