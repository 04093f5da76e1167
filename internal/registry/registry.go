// Package registry discovers skill packages on disk, holds their
// Tier-1 metadata, and lazily loads Tier-2 content on activation.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	domerrors "github.com/Geeksfino/openskills/internal/domain/errors"
	"github.com/Geeksfino/openskills/internal/manifest"
	"golang.org/x/sync/errgroup"
)

const manifestFile = "SKILL.md"

// Descriptor is the information list() exposes: no manifest internals,
// no instructions body.
type Descriptor struct {
	ID            string
	Description   string
	Location      manifest.Location
	UserInvocable bool
}

// Metadata is a Registry entry — Tier-1. It never carries the Markdown
// body (§3 invariant: "LoadedSkill is produced only through the
// Registry; instructions are never stored in Tier-1 state").
type Metadata struct {
	ID       string
	RootPath string
	Manifest manifest.SkillManifest
	Location manifest.Location
}

// LoadedSkill is Tier-2: metadata plus the full instructions body.
type LoadedSkill struct {
	Metadata     Metadata
	Instructions string
}

// DiscoveryConfig names the roots to walk, in the fixed precedence
// order personal < project < nested < custom (later roots override
// earlier ones for the same skill id).
type DiscoveryConfig struct {
	PersonalRoot string
	ProjectRoot  string
	CustomRoots  []string
	MaxDepth     int
}

// Registry holds discovered skill metadata, keyed by id.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Metadata
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Metadata)}
}

// Discover walks the configured roots and (re)populates the registry.
// Validation failures during discovery are logged and the offending
// directory is skipped; they never abort the walk.
func (r *Registry) Discover(ctx context.Context, cfg DiscoveryConfig) error {
	maxDepth := cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 6
	}

	type rootSpec struct {
		path string
		loc  manifest.Location
	}
	roots := []rootSpec{
		{cfg.PersonalRoot, manifest.LocationPersonal},
		{cfg.ProjectRoot, manifest.LocationProject},
	}
	if cfg.ProjectRoot != "" {
		roots = append(roots, rootSpec{cfg.ProjectRoot, manifest.LocationNested})
	}
	for _, custom := range cfg.CustomRoots {
		roots = append(roots, rootSpec{custom, manifest.LocationCustom})
	}

	merged := make(map[string]Metadata)
	for _, spec := range roots {
		if spec.path == "" {
			continue
		}
		found, err := discoverRoot(ctx, spec.path, spec.loc, maxDepth)
		if err != nil {
			slog.Warn("discovery root walk failed", "root", spec.path, "error", err)
			continue
		}
		for id, md := range found {
			merged[id] = md // later roots win
		}
	}

	r.mu.Lock()
	r.entries = merged
	r.mu.Unlock()
	return nil
}

func discoverRoot(ctx context.Context, root string, loc manifest.Location, maxDepth int) (map[string]Metadata, error) {
	dirs, err := findSkillDirs(root, maxDepth)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Metadata{}, nil
		}
		return nil, err
	}

	var mu sync.Mutex
	result := make(map[string]Metadata)

	g, gctx := errgroup.WithContext(ctx)
	for _, dir := range dirs {
		dir := dir
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			md, ok := loadMetadata(dir, loc)
			if !ok {
				return nil
			}
			mu.Lock()
			result[md.ID] = md
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func loadMetadata(dir string, loc manifest.Location) (Metadata, bool) {
	path := filepath.Join(dir, manifestFile)
	f, err := os.Open(path)
	if err != nil {
		slog.Warn("skipping skill directory: cannot open SKILL.md", "dir", dir, "error", err)
		return Metadata{}, false
	}
	defer f.Close()

	m, err := manifest.ParseFrontmatterOnly(f)
	if err != nil {
		slog.Warn("skipping skill directory: frontmatter parse failed", "dir", dir, "error", err)
		return Metadata{}, false
	}

	dirBasename := filepath.Base(dir)
	findings := manifest.Validate(manifest.Frontmatter{Manifest: m}, dirBasename)
	if manifest.HasFatal(findings) {
		slog.Warn("skipping skill directory: validation failed", "dir", dir, "findings", manifest.FatalSummary(findings))
		return Metadata{}, false
	}

	return Metadata{
		ID:       m.Name,
		RootPath: dir,
		Manifest: m,
		Location: loc,
	}, true
}

// findSkillDirs walks root up to maxDepth and returns every directory
// that directly contains a SKILL.md file.
func findSkillDirs(root string, maxDepth int) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	rootDepth := strings.Count(filepath.Clean(root), string(os.PathSeparator))
	var dirs []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // best-effort walk, skip unreadable entries
		}
		if !d.IsDir() {
			return nil
		}
		depth := strings.Count(filepath.Clean(path), string(os.PathSeparator)) - rootDepth
		if depth > maxDepth {
			return filepath.SkipDir
		}
		if _, statErr := os.Stat(filepath.Join(path, manifestFile)); statErr == nil {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// List returns Tier-1 descriptors only.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.entries))
	for _, md := range r.entries {
		out = append(out, Descriptor{
			ID:            md.ID,
			Description:   md.Manifest.Description,
			Location:      md.Location,
			UserInvocable: md.Manifest.IsUserInvocable(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns the Tier-1 metadata for id.
func (r *Registry) Get(id string) (Metadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	md, ok := r.entries[id]
	if !ok {
		return Metadata{}, domerrors.New(domerrors.KindSkillNotFound, fmt.Sprintf("skill %q not found", id))
	}
	return md, nil
}

// LoadFull re-reads SKILL.md and returns Tier-2 content. Validation
// failure here is fatal for the call, unlike at discovery time.
func (r *Registry) LoadFull(id string) (LoadedSkill, error) {
	md, err := r.Get(id)
	if err != nil {
		return LoadedSkill{}, err
	}

	f, err := os.Open(filepath.Join(md.RootPath, manifestFile))
	if err != nil {
		return LoadedSkill{}, domerrors.Wrap(domerrors.KindInvalidManifest, "cannot open SKILL.md", err)
	}
	defer f.Close()

	fm, body, err := manifest.Parse(f)
	if err != nil {
		return LoadedSkill{}, domerrors.Wrap(domerrors.KindInvalidManifest, "frontmatter parse failed", err)
	}

	findings := manifest.Validate(fm, filepath.Base(md.RootPath))
	if manifest.HasFatal(findings) {
		return LoadedSkill{}, domerrors.New(domerrors.KindInvalidManifest, manifest.FatalSummary(findings))
	}

	md.Manifest = fm.Manifest
	return LoadedSkill{Metadata: md, Instructions: body}, nil
}

// ReadFile returns the contents of relPath inside the skill root,
// rejecting any path that resolves outside the root after symlink
// normalization.
func (r *Registry) ReadFile(id, relPath string) ([]byte, error) {
	md, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	resolved, err := resolveWithinRoot(md.RootPath, relPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, domerrors.Wrap(domerrors.KindExecutionFailure, "reading skill file", err)
	}
	return data, nil
}

// ListFiles lists relative paths under subdir (skill root if empty),
// optionally recursive, rejecting escapes the same way as ReadFile.
func (r *Registry) ListFiles(id, subdir string, recursive bool) ([]string, error) {
	md, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	base, err := resolveWithinRoot(md.RootPath, subdir)
	if err != nil {
		return nil, err
	}

	var out []string
	walkFn := func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != base {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(md.RootPath, path)
		if relErr != nil {
			return relErr
		}
		out = append(out, rel)
		return nil
	}
	if err := filepath.WalkDir(base, walkFn); err != nil {
		return nil, domerrors.Wrap(domerrors.KindExecutionFailure, "listing skill files", err)
	}
	sort.Strings(out)
	return out, nil
}

// resolveWithinRoot joins root and rel, resolves symlinks, and verifies
// the result is root itself or a strict descendant of it.
func resolveWithinRoot(root, rel string) (string, error) {
	cleanRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", domerrors.Wrap(domerrors.KindExecutionFailure, "resolving skill root", err)
	}

	joined := filepath.Join(cleanRoot, rel)
	resolved := joined
	if linked, linkErr := filepath.EvalSymlinks(joined); linkErr == nil {
		resolved = linked
	}

	relCheck, err := filepath.Rel(cleanRoot, resolved)
	if err != nil || relCheck == ".." || strings.HasPrefix(relCheck, ".."+string(os.PathSeparator)) {
		return "", domerrors.New(domerrors.KindPermissionDenied, fmt.Sprintf("path %q escapes skill root", rel))
	}
	return resolved, nil
}
