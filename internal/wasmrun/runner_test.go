package wasmrun

import (
	"context"
	"testing"

	"github.com/Geeksfino/openskills/internal/domain/capability"
	domerrors "github.com/Geeksfino/openskills/internal/domain/errors"
	"github.com/Geeksfino/openskills/internal/dispatch"
	"github.com/Geeksfino/openskills/internal/iobuf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundedBufferTruncates(t *testing.T) {
	b := iobuf.NewBoundedBuffer(maxOutputBytes)
	big := make([]byte, maxOutputBytes+10)
	n, err := b.Write(big)
	require.NoError(t, err)
	assert.Equal(t, len(big), n)
	assert.True(t, b.Truncated)
	assert.Len(t, b.String(), maxOutputBytes)
}

func TestRunRejectsInvalidModule(t *testing.T) {
	runner := NewRunner()
	root := t.TempDir()
	ws := t.TempDir()

	caps := capability.Set{MemoryBytes: capability.DefaultMemoryBytes, TimeoutMS: capability.DefaultTimeoutMS}
	_, err := runner.Run(context.Background(), []byte("not a real wasm module"), root, ws, dispatch.Target{Kind: dispatch.TargetWasm}, dispatch.Envelope{}, caps, nil)

	require.Error(t, err)
	var derr *domerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domerrors.KindWasmArtifactUnsupported, derr.Kind)
}
