package session

import (
	"testing"

	"github.com/Geeksfino/openskills/internal/execution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForkedSessionSummaryHidesToolCallsAndStderr(t *testing.T) {
	m := NewManager()
	s := m.Start("skill", true, NewRoot("/workspace"), "/workspace/fork-1")

	s.Context.Recorder.Record(EventToolCall, "Read")
	s.Context.Recorder.Record(EventStdout, "loading")
	s.Context.Recorder.Record(EventResult, `{"verdict":"ok"}`)

	artifacts, err := m.Finish(s.Handle, nil, "loading", "", execution.ExitSuccess)
	require.NoError(t, err)

	out, ok := artifacts.Output.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, `{"verdict":"ok"}`, out["summary"])
}

func TestNonForkedSessionSharesParentContext(t *testing.T) {
	m := NewManager()
	root := NewRoot("/workspace")
	s := m.Start("skill", false, root, "/workspace")
	assert.Same(t, root, s.Context)
}

func TestSummarizeFallsBackToStdout(t *testing.T) {
	r := NewRecorder()
	r.Record(EventToolCall, "Bash")
	r.Record(EventStdout, "hello ")
	r.Record(EventStdout, "world")
	assert.Equal(t, "hello world", r.Summarize())
}
