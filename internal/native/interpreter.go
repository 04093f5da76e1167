package native

import (
	"os/exec"

	domerrors "github.com/Geeksfino/openskills/internal/domain/errors"
	"github.com/Geeksfino/openskills/internal/dispatch"
)

// pythonCandidates is searched in order; python3 first per §4.8.
var pythonCandidates = []string{"python3", "python"}

var shellCandidates = []string{"/bin/bash", "/bin/sh", "bash", "sh"}

// ResolveInterpreter finds the interpreter binary for a script target.
// The runner does not manage interpreter dependencies; a missing module
// inside the script itself surfaces later as ExecutionFailure.
func ResolveInterpreter(scriptType dispatch.ScriptType) (string, error) {
	var candidates []string
	switch scriptType {
	case dispatch.ScriptPython:
		candidates = pythonCandidates
	case dispatch.ScriptShell:
		candidates = shellCandidates
	default:
		return "", domerrors.New(domerrors.KindExecutionFailure, "unknown script type")
	}

	for _, candidate := range candidates {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", domerrors.New(domerrors.KindExecutionFailure, "no interpreter found on PATH for script type")
}
