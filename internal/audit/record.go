// Package audit implements the Audit Sink (C9): a fire-and-forget
// capability that serializes one execution record per invocation.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/Geeksfino/openskills/internal/execution"
)

// Record is one execution's audit entry (§4.9). InputHash/OutputHash are
// SHA-256 over the canonical JSON representation of input/output.
type Record struct {
	SkillID         string              `json:"skill_id"`
	Version         string              `json:"version,omitempty"`
	InputHash       string              `json:"input_hash"`
	OutputHash      string              `json:"output_hash"`
	StartTimeMS     int64               `json:"start_time_ms"`
	DurationMS      int64               `json:"duration_ms"`
	PermissionsUsed []string            `json:"permissions_used"`
	ExitStatus      execution.ExitStatus `json:"exit_status"`
	Stdout          string              `json:"stdout"`
	Stderr          string              `json:"stderr"`
	Warnings        []string            `json:"warnings,omitempty"`
}

// NewRecord builds a Record from one execution's inputs/artifacts,
// computing canonical input/output hashes.
func NewRecord(skillID, version string, input interface{}, artifacts execution.Artifacts, startTimeMS int64) (Record, error) {
	inputHash, err := canonicalHash(input)
	if err != nil {
		return Record{}, err
	}
	outputHash, err := canonicalHash(artifacts.Output)
	if err != nil {
		return Record{}, err
	}

	return Record{
		SkillID:         skillID,
		Version:         version,
		InputHash:       inputHash,
		OutputHash:      outputHash,
		StartTimeMS:     startTimeMS,
		DurationMS:      artifacts.DurationMS,
		PermissionsUsed: artifacts.PermissionsUsed,
		ExitStatus:      artifacts.ExitStatus,
		Stdout:          artifacts.Stdout,
		Stderr:          artifacts.Stderr,
	}, nil
}

// canonicalHash hashes the canonical JSON encoding of v. encoding/json
// already sorts map[string]interface{} keys, which is sufficient
// canonicalization for the hash-stability property (§8 "round-trip of
// the audit record").
func canonicalHash(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
