package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "host_managed", cfg.SecurityLevel)
	assert.Equal(t, int64(30_000), cfg.DefaultTimeoutMS)
	assert.Equal(t, int64(128), cfg.DefaultMemoryMB)
}

func TestLoadReadsExplicitConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("security_level: trust_skill\ndefault_timeout_ms: 5000\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "trust_skill", cfg.SecurityLevel)
	assert.Equal(t, int64(5000), cfg.DefaultTimeoutMS)
}

func TestLoadMissingExplicitConfigFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
