package dispatch

import (
	"encoding/json"
	"fmt"
)

// Envelope is the fixed set of environment variables and stdin
// contents every runner receives (§4.6, §6, glossary "Envelope").
type Envelope struct {
	Vars  []string
	Stdin []byte
}

// BuildEnvelope assembles the envelope for one execution. input may be
// nil, in which case SKILL_INPUT is the empty string.
func BuildEnvelope(skillID, skillName string, input interface{}, skillRoot, workspace string, timeoutMS int64, scriptType ScriptType) (Envelope, error) {
	inputJSON := ""
	if input != nil {
		raw, err := json.Marshal(input)
		if err != nil {
			return Envelope{}, fmt.Errorf("marshaling SKILL_INPUT: %w", err)
		}
		inputJSON = string(raw)
	}

	vars := []string{
		"SKILL_ID=" + skillID,
		"SKILL_NAME=" + skillName,
		"SKILL_INPUT=" + inputJSON,
		"SKILL_ROOT=" + skillRoot,
		"SKILL_WORKSPACE=" + workspace,
		fmt.Sprintf("TIMEOUT_MS=%d", timeoutMS),
	}

	if scriptType == ScriptPython {
		vars = append(vars,
			"PYTHONUNBUFFERED=1",
			"PYTHONDONTWRITEBYTECODE=1",
			"PYTHONNOUSERSITE=1",
		)
	}

	return Envelope{Vars: vars, Stdin: []byte(inputJSON)}, nil
}
