package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/Geeksfino/openskills/internal/execution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSinkAppendsNDJSON(t *testing.T) {
	var buf bytes.Buffer
	sink := NewFileSink(&buf, nil)

	err := sink.Record(context.Background(), Record{SkillID: "a", ExitStatus: execution.ExitSuccess})
	require.NoError(t, err)
	err = sink.Record(context.Background(), Record{SkillID: "b", ExitStatus: execution.ExitFailure})
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	require.Len(t, lines, 2)

	var first Record
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, "a", first.SkillID)
}

func TestMultiSinkContinuesPastError(t *testing.T) {
	var buf bytes.Buffer
	good := NewFileSink(&buf, nil)
	failing := failingSink{}

	multi := NewMultiSink(failing, good)
	err := multi.Record(context.Background(), Record{SkillID: "x"})
	assert.Error(t, err)
	assert.Contains(t, buf.String(), `"x"`)
}

type failingSink struct{}

func (failingSink) Record(ctx context.Context, rec Record) error {
	return assert.AnError
}

func TestNoopSinkNeverErrors(t *testing.T) {
	assert.NoError(t, NoopSink{}.Record(context.Background(), Record{}))
}
