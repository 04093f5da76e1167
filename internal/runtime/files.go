package runtime

// ReadSkillFile implements read_skill_file(id, relative_path): bytes,
// rejecting any path that escapes the skill root (§8 path containment).
func (rt *Runtime) ReadSkillFile(id, relativePath string) ([]byte, error) {
	return rt.registry.ReadFile(id, relativePath)
}

// ListSkillFiles implements list_skill_files(id, subdir?, recursive?):
// relative paths under subdir (the skill root if empty).
func (rt *Runtime) ListSkillFiles(id, subdir string, recursive bool) ([]string, error) {
	return rt.registry.ListFiles(id, subdir, recursive)
}
