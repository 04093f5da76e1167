package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSkill(t *testing.T, root, name, body string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(body), 0o644))
}

func skillBody(name string) string {
	return "---\nname: " + name + "\ndescription: \"a test skill\"\nallowed-tools: \"Read\"\n---\n# Body\n\nSome instructions.\n"
}

func TestDiscoverAndList(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "code-review", skillBody("code-review"))

	reg := New()
	require.NoError(t, reg.Discover(context.Background(), DiscoveryConfig{PersonalRoot: dir}))

	list := reg.List()
	require.Len(t, list, 1)
	assert.Equal(t, "code-review", list[0].ID)
}

func TestDiscoverSkipsNameMismatch(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "reviewer", skillBody("code-review"))

	reg := New()
	require.NoError(t, reg.Discover(context.Background(), DiscoveryConfig{PersonalRoot: dir}))
	assert.Empty(t, reg.List())
}

func TestLaterRootOverrides(t *testing.T) {
	personal := t.TempDir()
	project := t.TempDir()
	writeSkill(t, personal, "code-review", skillBody("code-review"))
	writeSkill(t, project, "code-review", skillBody("code-review"))

	reg := New()
	require.NoError(t, reg.Discover(context.Background(), DiscoveryConfig{PersonalRoot: personal, ProjectRoot: project}))

	md, err := reg.Get("code-review")
	require.NoError(t, err)
	assert.Equal(t, project, filepath.Dir(md.RootPath))
}

func TestLoadFullReadsBody(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "code-review", skillBody("code-review"))

	reg := New()
	require.NoError(t, reg.Discover(context.Background(), DiscoveryConfig{PersonalRoot: dir}))

	loaded, err := reg.LoadFull("code-review")
	require.NoError(t, err)
	assert.Contains(t, loaded.Instructions, "Some instructions.")
}

func TestReadFileRejectsEscape(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "code-review", skillBody("code-review"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "secret.txt"), []byte("outside"), 0o644))

	reg := New()
	require.NoError(t, reg.Discover(context.Background(), DiscoveryConfig{PersonalRoot: dir}))

	_, err := reg.ReadFile("code-review", "../secret.txt")
	assert.Error(t, err)
}

func TestReadFileWithinRoot(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "code-review", skillBody("code-review"))
	skillDir := filepath.Join(dir, "code-review")
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, "notes.txt"), []byte("hello"), 0o644))

	reg := New()
	require.NoError(t, reg.Discover(context.Background(), DiscoveryConfig{PersonalRoot: dir}))

	data, err := reg.ReadFile("code-review", "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}
