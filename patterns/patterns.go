// Package patterns holds the data-driven vulnerability pattern catalog.
// Each pattern is a compiled regular expression plus the classification
// metadata a detector needs to turn a match into a finding. Detectors own
// the matching loop; this package only describes what to look for.
package patterns

import (
	"path/filepath"
	"regexp"
	"strings"

	"repoguard/types"
)

// Pattern describes one detectable vulnerability signature.
type Pattern struct {
	ID          string
	Name        string
	Description string
	Regexp      *regexp.Regexp
	Severity    types.Severity
	Confidence  types.Confidence
	Type        string
	CWE         string
	Remediation string
	// FileExtensions restricts the pattern to these extensions.
	// Empty means the pattern applies to any file.
	FileExtensions []string
	// Excludes suppress a match when any of them also matches the line.
	Excludes []*regexp.Regexp
}

// AppliesTo reports whether the pattern should run against the given path.
func (p Pattern) AppliesTo(path string) bool {
	if len(p.FileExtensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range p.FileExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Excluded reports whether an exclude regexp fires on the matched line.
func (p Pattern) Excluded(line string) bool {
	for _, re := range p.Excludes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// SecretPatterns returns the credential and key exposure catalog.
func SecretPatterns() []Pattern {
	return secretPatterns
}

// CodePatterns returns the merged source-code catalog: the base injection
// and crypto patterns plus the auth, logic and framework patterns. Secret
// types are left out since the secret detector owns those.
func CodePatterns() []Pattern {
	merged := make([]Pattern, 0, len(codePatterns)+len(advancedPatterns))
	merged = append(merged, codePatterns...)
	merged = append(merged, advancedPatterns...)
	out := merged[:0]
	for _, p := range merged {
		switch p.Type {
		case "hardcoded_secret", "api_key_exposure", "private_key_exposure":
			continue
		}
		out = append(out, p)
	}
	return out
}
