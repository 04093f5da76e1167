// Package redaction scrubs secrets out of captured skill output before
// it reaches an audit sink, so a leaked credential in stdout/stderr
// never lands in a persisted record.
package redaction

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"
	"github.com/zricethezav/gitleaks/v8/config"
	"github.com/zricethezav/gitleaks/v8/detect"
)

// Redactor scrubs secrets from execution output. Safe for concurrent use;
// all fields are read-only after New.
type Redactor struct {
	patterns []*regexp.Regexp
	detector *detect.Detector // nil falls back to patterns only
}

// Config configures a Redactor.
type Config struct {
	// ExtraPatterns are regexes checked in addition to the gitleaks
	// detector and the built-in fallback patterns.
	ExtraPatterns []string
	// DisableGitleaks skips the 200+-pattern gitleaks detector and uses
	// only the built-in and extra regex patterns.
	DisableGitleaks bool
}

// New builds a Redactor. A gitleaks config load failure degrades to the
// regex-only fallback rather than failing construction.
func New(cfg Config) (*Redactor, error) {
	r := &Redactor{
		patterns: make([]*regexp.Regexp, 0, len(cfg.ExtraPatterns)+len(fallbackPatterns)),
	}

	if !cfg.DisableGitleaks {
		if detector, err := newGitleaksDetector(); err == nil {
			r.detector = detector
		}
	}

	for _, p := range fallbackPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling fallback pattern %q: %w", p, err)
		}
		r.patterns = append(r.patterns, re)
	}
	for _, p := range cfg.ExtraPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling extra pattern %q: %w", p, err)
		}
		r.patterns = append(r.patterns, re)
	}

	return r, nil
}

func newGitleaksDetector() (*detect.Detector, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(strings.NewReader(config.DefaultConfig)); err != nil {
		return nil, fmt.Errorf("reading gitleaks default config: %w", err)
	}

	var vc config.ViperConfig
	if err := v.Unmarshal(&vc); err != nil {
		return nil, fmt.Errorf("unmarshaling gitleaks config: %w", err)
	}

	translated, err := vc.Translate()
	if err != nil {
		return nil, fmt.Errorf("translating gitleaks config: %w", err)
	}
	return detect.NewDetector(translated), nil
}

// Scrub replaces every secret found in input with [REDACTED].
func (r *Redactor) Scrub(input string) string {
	if input == "" {
		return ""
	}

	result := input
	if r.detector != nil {
		for _, finding := range r.detector.Detect(detect.Fragment{Raw: result}) {
			result = strings.ReplaceAll(result, finding.Secret, "[REDACTED]")
		}
	}
	for _, re := range r.patterns {
		result = re.ReplaceAllString(result, "[REDACTED]")
	}
	return result
}

// fallbackPatterns covers common secret shapes when gitleaks is
// unavailable or disabled.
var fallbackPatterns = []string{
	`\b((?:AKIA|ABIA|ACCA|ASIA)[0-9A-Z]{16})\b`,
	`-----BEGIN [A-Z ]+ PRIVATE KEY-----`,
	`gh[pousr]_[A-Za-z0-9_]{36,255}`,
	`xox[baprs]-([0-9a-zA-Z]{10,48})?`,
}
