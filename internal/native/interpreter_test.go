package native

import (
	"testing"

	"github.com/Geeksfino/openskills/internal/dispatch"
	"github.com/stretchr/testify/assert"
)

func TestResolveInterpreterUnknownScriptType(t *testing.T) {
	_, err := ResolveInterpreter(dispatch.ScriptType("ruby"))
	assert.Error(t, err)
}
