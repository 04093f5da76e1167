package runtime

import (
	"fmt"
	"os"
	"path/filepath"
)

// newWorkspace allocates a fresh, exclusive workspace directory for one
// execution (§5 "Shared resources": workspace directories are exclusive
// to their owning context) and returns a cleanup func that removes it.
func (rt *Runtime) newWorkspace(skillID string) (string, func(), error) {
	base := rt.workspaceBase
	if base == "" {
		base = os.TempDir()
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", nil, err
	}

	dir, err := os.MkdirTemp(base, fmt.Sprintf("openskills-%s-", sanitizeForPath(skillID)))
	if err != nil {
		return "", nil, err
	}
	return dir, func() { _ = os.RemoveAll(dir) }, nil
}

// allocateWorkspace is the session variant: no cleanup func, since the
// workspace must outlive start_session; finish_session does not remove
// it either.
func (rt *Runtime) allocateWorkspace(skillID string) (string, error) {
	base := rt.workspaceBase
	if base == "" {
		base = os.TempDir()
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", err
	}
	return os.MkdirTemp(base, fmt.Sprintf("openskills-session-%s-", sanitizeForPath(skillID)))
}

func sanitizeForPath(id string) string {
	return filepath.Base(id)
}
