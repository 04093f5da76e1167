package dispatch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPrefersWasmOverScripts(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "scripts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "scripts", "run.py"), []byte("pass"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "skill.wasm"), []byte("\x00asm"), 0o644))

	target, err := Detect(root, "")
	require.NoError(t, err)
	assert.Equal(t, TargetWasm, target.Kind)
	assert.Equal(t, "skill.wasm", target.Path)
}

func TestDetectFallsBackToScript(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "scripts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "scripts", "run.sh"), []byte("#!/bin/sh"), 0o644))

	target, err := Detect(root, "")
	require.NoError(t, err)
	assert.Equal(t, TargetNative, target.Kind)
	assert.Equal(t, ScriptShell, target.ScriptType)
}

func TestDetectErrorsWhenNothingFound(t *testing.T) {
	root := t.TempDir()
	_, err := Detect(root, "")
	assert.Error(t, err)
}

func TestBuildEnvelopeIncludesPythonVars(t *testing.T) {
	env, err := BuildEnvelope("id", "name", map[string]string{"a": "b"}, "/root", "/ws", 5000, ScriptPython)
	require.NoError(t, err)
	assert.Contains(t, env.Vars, "PYTHONUNBUFFERED=1")
	assert.Contains(t, env.Vars, "SKILL_ID=id")
}
