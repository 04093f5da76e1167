package runtime

import (
	"os"
	"path/filepath"

	domerrors "github.com/Geeksfino/openskills/internal/domain/errors"
	"github.com/Geeksfino/openskills/internal/dispatch"
	"github.com/Geeksfino/openskills/internal/manifest"
)

const manifestFileName = "SKILL.md"

// ValidationReport is validate_skill_directory(path)'s output.
type ValidationReport struct {
	Valid    bool
	Findings []manifest.Finding
}

// ValidateSkillDirectory implements validate_skill_directory(path): it
// applies §4.1's fatal/warning rules to the directory's SKILL.md
// without requiring the directory to already be discovered.
func ValidateSkillDirectory(path string) (ValidationReport, error) {
	f, err := os.Open(filepath.Join(path, manifestFileName))
	if err != nil {
		return ValidationReport{}, domerrors.Wrap(domerrors.KindInvalidManifest, "cannot open SKILL.md", err)
	}
	defer f.Close()

	fm, _, err := manifest.Parse(f)
	if err != nil {
		return ValidationReport{}, domerrors.Wrap(domerrors.KindInvalidManifest, "frontmatter parse failed", err)
	}

	findings := manifest.Validate(fm, filepath.Base(path))
	return ValidationReport{Valid: !manifest.HasFatal(findings), Findings: findings}, nil
}

// AnalysisReport is analyze_skill_directory(path)'s output: a rough
// token estimate for the instructions body plus an inventory of the
// executable artifacts the directory carries.
type AnalysisReport struct {
	Name                   string
	InstructionTokens      int
	InstructionCharacters  int
	TotalFiles             int
	HasWasmTarget          bool
	HasNativeScriptTarget  bool
}

// AnalyzeSkillDirectory implements analyze_skill_directory(path): a
// cheap static inspection a caller can run before ever discovering or
// activating the directory as a live skill.
func AnalyzeSkillDirectory(path string) (AnalysisReport, error) {
	f, err := os.Open(filepath.Join(path, manifestFileName))
	if err != nil {
		return AnalysisReport{}, domerrors.Wrap(domerrors.KindInvalidManifest, "cannot open SKILL.md", err)
	}
	defer f.Close()

	fm, body, err := manifest.Parse(f)
	if err != nil {
		return AnalysisReport{}, domerrors.Wrap(domerrors.KindInvalidManifest, "frontmatter parse failed", err)
	}

	totalFiles := 0
	_ = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // best-effort inventory walk
		}
		if !d.IsDir() {
			totalFiles++
		}
		return nil
	})

	target, _ := dispatch.Detect(path, "")

	return AnalysisReport{
		Name:                  fm.Manifest.Name,
		InstructionTokens:     estimateTokens(body),
		InstructionCharacters: len(body),
		TotalFiles:            totalFiles,
		HasWasmTarget:         target.Kind == dispatch.TargetWasm,
		HasNativeScriptTarget: target.Kind == dispatch.TargetNative,
	}, nil
}

// estimateTokens applies the common ~4-characters-per-token heuristic
// used for a cheap, model-agnostic budget estimate.
func estimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	n := len(text) / 4
	if n == 0 {
		n = 1
	}
	return n
}
