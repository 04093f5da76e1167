package wasmrun

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaCompilerNilSchemaIsNoop(t *testing.T) {
	sc := newSchemaCompiler()
	err := sc.validateInput("/skills/echo", nil, []byte(`{"anything": true}`))
	require.NoError(t, err)
}

func TestSchemaCompilerRejectsInvalidInput(t *testing.T) {
	sc := newSchemaCompiler()
	schemaDoc := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{"type": "string"},
		},
		"required": []string{"path"},
	}

	err := sc.validateInput("/skills/file", schemaDoc, []byte(`{"path": 5}`))
	require.Error(t, err)
}

func TestSchemaCompilerAcceptsValidInput(t *testing.T) {
	sc := newSchemaCompiler()
	schemaDoc := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{"type": "string"},
		},
		"required": []string{"path"},
	}

	err := sc.validateInput("/skills/file", schemaDoc, []byte(`{"path": "a.txt"}`))
	require.NoError(t, err)
}

func TestSchemaCompilerCachesCompiledSchema(t *testing.T) {
	sc := newSchemaCompiler()
	schemaDoc := map[string]interface{}{
		"type": "object",
	}

	schema1, err := sc.compile("/skills/file", schemaDoc)
	require.NoError(t, err)
	require.NotNil(t, schema1)

	schema2, err := sc.compile("/skills/file", schemaDoc)
	require.NoError(t, err)
	assert.Same(t, schema1, schema2)
}

func TestSchemaCompilerRejectsMalformedInputJSON(t *testing.T) {
	sc := newSchemaCompiler()
	schemaDoc := map[string]interface{}{"type": "object"}

	err := sc.validateInput("/skills/file", schemaDoc, []byte(`not json`))
	require.Error(t, err)
}
