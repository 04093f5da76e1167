// Package manifest parses and validates a skill's SKILL.md frontmatter.
package manifest

import (
	"strings"
)

// Location classifies where a skill was discovered from, per the
// registry's fixed precedence order.
type Location string

const (
	LocationPersonal Location = "personal"
	LocationProject  Location = "project"
	LocationNested   Location = "nested"
	LocationCustom   Location = "custom"
)

// HookEntry is one entry in a hooks.{pre_tool_use,post_tool_use,stop} list.
type HookEntry struct {
	Matcher   string `yaml:"matcher"`
	Command   string `yaml:"command"`
	Cwd       string `yaml:"cwd,omitempty"`
	TimeoutMS int    `yaml:"timeout_ms,omitempty"`
}

// Hooks groups the three lifecycle hook lists a manifest may declare.
type Hooks struct {
	PreToolUse  []HookEntry `yaml:"pre_tool_use,omitempty"`
	PostToolUse []HookEntry `yaml:"post_tool_use,omitempty"`
	Stop        []HookEntry `yaml:"stop,omitempty"`
}

// WasmOverrides carries the manifest's optional wasm.memory_mb /
// wasm.timeout_ms fields, which override the capability set's defaults.
type WasmOverrides struct {
	MemoryMB  int `yaml:"memory_mb,omitempty"`
	TimeoutMS int `yaml:"timeout_ms,omitempty"`
}

// ToolSet is the parsed form of allowed-tools: accepted either as a YAML
// sequence or as a single comma/space-delimited string.
type ToolSet []string

// UnmarshalYAML accepts both an ordered sequence of tool names and a
// delimited string, matching §3's "parsed from either an ordered
// sequence or a comma/space-delimited string".
func (t *ToolSet) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var seq []string
	if err := unmarshal(&seq); err == nil {
		*t = seq
		return nil
	}

	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*t = splitToolString(raw)
	return nil
}

func splitToolString(raw string) ToolSet {
	raw = strings.ReplaceAll(raw, ",", " ")
	fields := strings.Fields(raw)
	out := make(ToolSet, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Contains reports whether tool appears in the set, case-sensitively —
// tool tags are a fixed, known vocabulary (Read, Bash, ...).
func (t ToolSet) Contains(tool string) bool {
	for _, v := range t {
		if v == tool {
			return true
		}
	}
	return false
}

// SkillManifest is the parsed YAML frontmatter of a SKILL.md file.
type SkillManifest struct {
	Name          string        `yaml:"name"`
	Description   string        `yaml:"description"`
	AllowedTools  ToolSet       `yaml:"allowed-tools"`
	Context       string        `yaml:"context,omitempty"`
	Agent         string        `yaml:"agent,omitempty"`
	UserInvocable *bool         `yaml:"user_invocable,omitempty"`
	Hooks         *Hooks        `yaml:"hooks,omitempty"`
	Wasm          WasmOverrides `yaml:"wasm,omitempty"`
	Version       string        `yaml:"version,omitempty"`

	// InputSchema is an optional inline JSON Schema (draft 2020-12) that
	// SKILL_INPUT is validated against before a WASM invocation runs.
	// Absent means every input is accepted.
	InputSchema map[string]interface{} `yaml:"input_schema,omitempty"`
}

// IsForked reports whether this manifest declares context: fork.
func (m SkillManifest) IsForked() bool {
	return m.Context == "fork"
}

// IsUserInvocable reports the effective user_invocable value, which
// defaults to true when the field is absent.
func (m SkillManifest) IsUserInvocable() bool {
	if m.UserInvocable == nil {
		return true
	}
	return *m.UserInvocable
}
