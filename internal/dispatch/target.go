// Package dispatch implements the Target Detector & Executor Dispatcher
// (C6): deciding WASM vs native from a skill root, and building the
// common environment envelope both runners receive.
package dispatch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	domerrors "github.com/Geeksfino/openskills/internal/domain/errors"
)

// TargetKind distinguishes the two sandboxed execution paths.
type TargetKind string

const (
	TargetWasm   TargetKind = "wasm"
	TargetNative TargetKind = "native"
)

// ScriptType names the native interpreter family for a native target.
type ScriptType string

const (
	ScriptPython ScriptType = "python"
	ScriptShell  ScriptType = "shell"
)

// Target is the tagged variant §3 describes: a WASM component path, or
// a native script path with its interpreter family.
type Target struct {
	Kind       TargetKind
	Path       string // relative to skill root
	ScriptType ScriptType
}

var wasmCandidates = []string{
	filepath.Join("wasm", "skill.wasm"),
	"skill.wasm",
	"module.wasm",
}

// Detect implements §3's derivation algorithm: explicit override first,
// else the first existing candidate WASM path, else any *.wasm file,
// else a script under scripts/ with a recognized extension, else an
// error.
func Detect(skillRoot, override string) (Target, error) {
	if override != "" {
		return detectFromPath(skillRoot, override)
	}

	for _, candidate := range wasmCandidates {
		if fileExists(filepath.Join(skillRoot, candidate)) {
			return Target{Kind: TargetWasm, Path: candidate}, nil
		}
	}

	if wasmDir := filepath.Join(skillRoot, "wasm"); dirExists(wasmDir) {
		entries, err := os.ReadDir(wasmDir)
		if err == nil {
			for _, e := range entries {
				if !e.IsDir() && strings.HasSuffix(e.Name(), ".wasm") {
					return Target{Kind: TargetWasm, Path: filepath.Join("wasm", e.Name())}, nil
				}
			}
		}
	}
	entries, err := os.ReadDir(skillRoot)
	if err == nil {
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".wasm") {
				return Target{Kind: TargetWasm, Path: e.Name()}, nil
			}
		}
	}

	scriptsDir := filepath.Join(skillRoot, "scripts")
	if entries, err := os.ReadDir(scriptsDir); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if st, ok := scriptTypeFor(e.Name()); ok {
				return Target{Kind: TargetNative, Path: filepath.Join("scripts", e.Name()), ScriptType: st}, nil
			}
		}
	}

	return Target{}, domerrors.New(domerrors.KindExecutionFailure, "no executable target found under skill root")
}

func detectFromPath(skillRoot, override string) (Target, error) {
	full := filepath.Join(skillRoot, override)
	if !fileExists(full) {
		return Target{}, domerrors.New(domerrors.KindExecutionFailure, fmt.Sprintf("override target %q does not exist", override))
	}
	if strings.HasSuffix(override, ".wasm") {
		return Target{Kind: TargetWasm, Path: override}, nil
	}
	if st, ok := scriptTypeFor(override); ok {
		return Target{Kind: TargetNative, Path: override, ScriptType: st}, nil
	}
	return Target{}, domerrors.New(domerrors.KindExecutionFailure, fmt.Sprintf("override target %q has an unrecognized extension", override))
}

func scriptTypeFor(name string) (ScriptType, bool) {
	switch {
	case strings.HasSuffix(name, ".py"):
		return ScriptPython, true
	case strings.HasSuffix(name, ".sh"), strings.HasSuffix(name, ".bash"):
		return ScriptShell, true
	default:
		return "", false
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
