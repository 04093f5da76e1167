package audit

import (
	"testing"

	"github.com/Geeksfino/openskills/internal/execution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecordHashesAreStableForIdenticalInputs(t *testing.T) {
	artifacts := execution.Artifacts{
		Output:     map[string]interface{}{"status": "success", "output": "ok"},
		ExitStatus: execution.ExitSuccess,
		DurationMS: 12,
	}

	r1, err := NewRecord("demo", "1.0.0", map[string]string{"a": "b"}, artifacts, 1000)
	require.NoError(t, err)
	r2, err := NewRecord("demo", "1.0.0", map[string]string{"a": "b"}, artifacts, 1000)
	require.NoError(t, err)

	assert.Equal(t, r1.InputHash, r2.InputHash)
	assert.Equal(t, r1.OutputHash, r2.OutputHash)
	assert.NotEmpty(t, r1.InputHash)
}

func TestNewRecordDifferentInputsHashDifferently(t *testing.T) {
	artifacts := execution.Artifacts{ExitStatus: execution.ExitSuccess}

	r1, err := NewRecord("demo", "", map[string]string{"a": "b"}, artifacts, 0)
	require.NoError(t, err)
	r2, err := NewRecord("demo", "", map[string]string{"a": "c"}, artifacts, 0)
	require.NoError(t, err)

	assert.NotEqual(t, r1.InputHash, r2.InputHash)
}
