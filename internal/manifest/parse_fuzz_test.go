package manifest

import (
	"bytes"
	"strings"
	"testing"
)

// FuzzParseFrontmatter fuzzes the strict full-frontmatter parser for DoS
// and malformed-input panics (§8's parser must "never panic on any
// byte sequence").
// TARGETS: Parse() via gopkg.in/yaml.v3
func FuzzParseFrontmatter(f *testing.F) {
	seeds := []string{
		"---\nname: code-review\ndescription: \"Reviews code.\"\nallowed-tools: \"Read, Grep\"\n---\nInstructions body.",
		"---\nname: code-review\ndescription: \"x\"\ncontext: fork\n---\nbody",
		strings.Repeat("nested:\n  ", 1000) + "value: 1",
		"---\nname: \xff\xfe\n---\nbody",
		`---
name: &anchor code-review
ref: *anchor
---
body`,
		"",
		"   \n\t  \n",
		"---\nname: test\n    invalid_indent\n---\n",
		"---\n" + strings.Repeat("x", 100000) + ": value\n---\nbody",
		"no frontmatter delimiters at all",
		"---\nname: code-review\nhooks:\n  pre_tool_use:\n    - matcher: Bash\n      command: echo hi\n---\nbody",
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}

	f.Fuzz(func(t *testing.T, input []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("PANIC on input (len=%d): %v", len(input), r)
			}
		}()
		_, _, err := Parse(bytes.NewReader(input))
		_ = err
	})
}

// FuzzParseFrontmatterOnly fuzzes the discovery-hot-path goccy decoder,
// which must never read past the frontmatter block even on malformed
// input.
func FuzzParseFrontmatterOnly(f *testing.F) {
	seeds := []string{
		"---\nname: code-review\ndescription: \"Reviews code.\"\n---\nbody that must never be touched",
		"---\nallowed-tools: [Read, Grep, Bash]\n---\n",
		"---\n---\n",
		"not even a frontmatter block",
		"---\nname: [not, a, string]\n---\nbody",
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}

	f.Fuzz(func(t *testing.T, input []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("PANIC on input (len=%d): %v", len(input), r)
			}
		}()
		_, err := ParseFrontmatterOnly(bytes.NewReader(input))
		_ = err
	})
}
