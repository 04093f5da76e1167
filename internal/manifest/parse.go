package manifest

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	goccyyaml "github.com/goccy/go-yaml"
	yaml "gopkg.in/yaml.v3"
)

const delimiter = "---"

// Frontmatter bundles the typed manifest with its raw field map, the
// latter used only to detect unknown top-level keys for §4.1's warning.
type Frontmatter struct {
	Manifest SkillManifest
	Raw      map[string]interface{}
}

// readFrontmatterBlock reads up to and including the closing delimiter
// line and returns only the bytes between the two "---" lines. It never
// reads past the closing delimiter, so the caller controls whether the
// body is materialized at all — the basis of the progressive-disclosure
// invariant.
func readFrontmatterBlock(r io.Reader) ([]byte, *bufio.Reader, error) {
	br := bufio.NewReader(oneByteReader{r})

	first, err := br.ReadString('\n')
	if err != nil && first == "" {
		return nil, br, fmt.Errorf("empty input")
	}
	if strings.TrimRight(first, "\r\n") != delimiter {
		return nil, br, fmt.Errorf("missing opening frontmatter delimiter")
	}

	var block strings.Builder
	for {
		line, err := br.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == delimiter {
			return []byte(block.String()), br, nil
		}
		if err != nil {
			if err == io.EOF {
				return nil, br, fmt.Errorf("missing closing frontmatter delimiter")
			}
			return nil, br, err
		}
		block.WriteString(line)
	}
}

// oneByteReader caps every Read at a single byte so the bufio.Reader
// wrapping it never buffers input beyond the line being scanned.
type oneByteReader struct{ r io.Reader }

func (o oneByteReader) Read(p []byte) (int, error) {
	if len(p) > 1 {
		p = p[:1]
	}
	return o.r.Read(p)
}

// ParseFrontmatterOnly parses only the YAML frontmatter block, without
// reading or materializing the Markdown body. This is the
// performance-critical discovery path (§4.1).
func ParseFrontmatterOnly(r io.Reader) (SkillManifest, error) {
	raw, _, err := readFrontmatterBlock(r)
	if err != nil {
		return SkillManifest{}, err
	}

	var m SkillManifest
	if err := goccyyaml.Unmarshal(raw, &m); err != nil {
		return SkillManifest{}, fmt.Errorf("parsing frontmatter: %w", err)
	}
	return m, nil
}

// Parse splits raw into frontmatter and body, returning the typed
// manifest, a raw field map (for unknown-key detection), and the body.
func Parse(r io.Reader) (Frontmatter, string, error) {
	raw, br, err := readFrontmatterBlock(r)
	if err != nil {
		return Frontmatter{}, "", err
	}

	var m SkillManifest
	if derr := yaml.Unmarshal(raw, &m); derr != nil {
		return Frontmatter{}, "", fmt.Errorf("parsing frontmatter: %w", derr)
	}

	var fields map[string]interface{}
	if derr := yaml.Unmarshal(raw, &fields); derr != nil {
		return Frontmatter{}, "", fmt.Errorf("parsing frontmatter fields: %w", derr)
	}

	rest, err := io.ReadAll(br)
	if err != nil {
		return Frontmatter{}, "", fmt.Errorf("reading body: %w", err)
	}
	body := strings.TrimPrefix(string(rest), "\n")

	return Frontmatter{Manifest: m, Raw: fields}, body, nil
}
