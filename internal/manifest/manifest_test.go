package manifest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSkill = `---
name: code-review
description: "Reviews code."
allowed-tools: "Read, Grep"
---
# Code Review

Review the diff.
`

func TestParse(t *testing.T) {
	fm, body, err := Parse(strings.NewReader(sampleSkill))
	require.NoError(t, err)
	assert.Equal(t, "code-review", fm.Manifest.Name)
	assert.Equal(t, "Reviews code.", fm.Manifest.Description)
	assert.True(t, fm.Manifest.AllowedTools.Contains("Read"))
	assert.True(t, fm.Manifest.AllowedTools.Contains("Grep"))
	assert.Contains(t, body, "Review the diff.")
}

func TestParseFrontmatterOnlyDoesNotReadBody(t *testing.T) {
	tr := &trackingReader{r: strings.NewReader(sampleSkill)}
	m, err := ParseFrontmatterOnly(tr)
	require.NoError(t, err)
	assert.Equal(t, "code-review", m.Name)
	assert.Less(t, tr.totalRead, len(sampleSkill))
}

func TestParseSequenceAllowedTools(t *testing.T) {
	const raw = `---
name: seq-skill
description: uses a sequence
allowed-tools:
  - Read
  - Write
---
body
`
	fm, _, err := Parse(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, ToolSet{"Read", "Write"}, fm.Manifest.AllowedTools)
}

func TestParseInputSchema(t *testing.T) {
	const raw = `---
name: schema-skill
description: declares an input schema
allowed-tools: Read
input_schema:
  type: object
  properties:
    path:
      type: string
  required:
    - path
---
body
`
	fm, _, err := Parse(strings.NewReader(raw))
	require.NoError(t, err)
	require.NotNil(t, fm.Manifest.InputSchema)
	assert.Equal(t, "object", fm.Manifest.InputSchema["type"])
}

func TestValidateNameMismatch(t *testing.T) {
	fm, _, err := Parse(strings.NewReader(sampleSkill))
	require.NoError(t, err)
	findings := Validate(fm, "reviewer")
	assert.True(t, HasFatal(findings))
}

func TestValidateUnknownKeyIsWarningOnly(t *testing.T) {
	const raw = `---
name: code-review
description: ok
allowed-tools: "Read"
extra_field: yes
---
body
`
	fm, _, err := Parse(strings.NewReader(raw))
	require.NoError(t, err)
	findings := Validate(fm, "code-review")
	assert.False(t, HasFatal(findings))
	assert.NotEmpty(t, findings)
}

func TestValidateBadName(t *testing.T) {
	const raw = `---
name: Code_Review
description: ok
allowed-tools: "Read"
---
body
`
	fm, _, err := Parse(strings.NewReader(raw))
	require.NoError(t, err)
	findings := Validate(fm, "Code_Review")
	assert.True(t, HasFatal(findings))
}

type trackingReader struct {
	r         *strings.Reader
	totalRead int
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	t.totalRead += n
	return n, err
}
