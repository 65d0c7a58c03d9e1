// Package scanner holds the detectors and the engine that runs them over a
// set of fetched files.
package scanner

import (
	"context"
	"fmt"
	"path"
	"strings"

	"repoguard/fetcher"
	"repoguard/types"
)

// Scanner is the detector contract. Scan receives every fetched file and is
// expected to skip the ones Applicable rejects; the engine uses Applicable
// only for coverage reporting.
type Scanner interface {
	Name() string
	Description() string
	Applicable(f fetcher.FileInfo) bool
	Scan(ctx context.Context, files []fetcher.FileInfo) []types.Vulnerability
}

// Resettable is implemented by detectors that keep per-scan state.
// The engine calls Reset before each run.
type Resettable interface {
	Reset()
}

// lineOf converts a byte offset into a 1-based line number.
func lineOf(content string, offset int) int {
	return strings.Count(content[:offset], "\n") + 1
}

// lineAt returns the full text of the line containing the offset.
func lineAt(content string, offset int) string {
	start := strings.LastIndexByte(content[:offset], '\n') + 1
	end := strings.IndexByte(content[offset:], '\n')
	if end < 0 {
		return content[start:]
	}
	return content[start : offset+end]
}

var commentPrefixes = map[string][]string{
	".py":   {"#"},
	".rb":   {"#"},
	".sh":   {"#"},
	".yml":  {"#"},
	".yaml": {"#"},
	".js":   {"//", "*", "/*"},
	".jsx":  {"//", "*", "/*"},
	".ts":   {"//", "*", "/*"},
	".tsx":  {"//", "*", "/*"},
	".go":   {"//"},
	".java": {"//", "*", "/*"},
	".c":    {"//", "*", "/*"},
	".cpp":  {"//", "*", "/*"},
	".cs":   {"//", "*", "/*"},
	".php":  {"//", "#", "*", "/*"},
	".html": {"<!--"},
}

// isCommentLine reports whether the line is a comment for the file's
// language. Unknown extensions are never treated as comments.
func isCommentLine(filePath, line string) bool {
	prefixes, ok := commentPrefixes[strings.ToLower(path.Ext(filePath))]
	if !ok {
		return false
	}
	trimmed := strings.TrimSpace(line)
	for _, p := range prefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

var testPathParts = []string{
	"test/", "tests/", "spec/", "specs/", "__tests__/", "testing/",
}

// isTestPath reports whether the path looks like test code.
func isTestPath(filePath string) bool {
	lower := strings.ToLower(filePath)
	for _, part := range testPathParts {
		if strings.HasPrefix(lower, part) || strings.Contains(lower, "/"+part) {
			return true
		}
	}
	base := path.Base(lower)
	return strings.HasPrefix(base, "test_") ||
		strings.Contains(base, ".test.") ||
		strings.Contains(base, ".spec.") ||
		strings.HasSuffix(strings.TrimSuffix(base, path.Ext(base)), "_test")
}

// dedupeKey is the identity of a finding for cross-detector deduplication.
func dedupeKey(v types.Vulnerability) string {
	return fmt.Sprintf("%s|%s|%d|%s", v.Title, v.FilePath, v.Line, strings.ToLower(v.VulnerabilityType))
}
