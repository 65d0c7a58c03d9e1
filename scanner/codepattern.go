package scanner

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"repoguard/fetcher"
	"repoguard/patterns"
	"repoguard/types"
	"repoguard/util"
)

var codeLog = util.NewLogger("code-scanner")

var scannableExtensions = map[string]bool{
	".py": true, ".js": true, ".ts": true, ".jsx": true, ".tsx": true,
	".java": true, ".go": true, ".rb": true, ".php": true,
	".c": true, ".cpp": true, ".cs": true, ".swift": true, ".kt": true,
	".scala": true, ".rs": true, ".sh": true, ".sql": true,
	".html": true, ".vue": true,
}

// lines matching these are demo, test or documentation code, kept only for
// HIGH-confidence patterns
var codeFalsePositiveWords = regexp.MustCompile(`(?i)(?:example|sample|test|mock|fake|dummy|placeholder|tutorial|demo|lorem|todo:|fixme:)`)

var docLineIndicators = regexp.MustCompile(`^\s*(?:>>>|\.\.\.|\*|#\s|"""|''')`)

// CodePatternScanner matches the source-code vulnerability catalog against
// every scannable file.
type CodePatternScanner struct{}

func NewCodePatternScanner() *CodePatternScanner { return &CodePatternScanner{} }

func (s *CodePatternScanner) Name() string { return "code-pattern" }

func (s *CodePatternScanner) Description() string {
	return "Detects injection, XSS, deserialization, crypto and auth weaknesses in source code"
}

func (s *CodePatternScanner) Applicable(f fetcher.FileInfo) bool {
	return scannableExtensions[strings.ToLower(path.Ext(f.Path))]
}

func (s *CodePatternScanner) Scan(ctx context.Context, files []fetcher.FileInfo) []types.Vulnerability {
	var found []types.Vulnerability
	catalog := patterns.CodePatterns()
	for _, f := range files {
		if !s.Applicable(f) {
			continue
		}
		select {
		case <-ctx.Done():
			return found
		default:
		}
		for _, p := range catalog {
			if !p.AppliesTo(f.Path) {
				continue
			}
			for _, loc := range p.Regexp.FindAllStringIndex(f.Content, -1) {
				line := lineAt(f.Content, loc[0])
				if isCommentLine(f.Path, line) || p.Excluded(line) {
					continue
				}
				if p.Confidence != types.ConfidenceHigh && codeFalsePositiveWords.MatchString(line) {
					continue
				}
				found = append(found, types.Vulnerability{
					Title:             fmt.Sprintf("%s in %s", p.Name, f.Path),
					Description:       p.Description,
					FilePath:          f.Path,
					Severity:          p.Severity,
					Confidence:        p.Confidence,
					VulnerabilityType: p.Type,
					Line:              lineOf(f.Content, loc[0]),
					CWEID:             p.CWE,
					SuggestedFix:      p.Remediation,
					Scanner:           s.Name(),
					RawMatch:          strings.TrimSpace(line),
				})
			}
		}
	}
	return s.filterFalsePositives(found)
}

// filterFalsePositives drops findings in test code and documentation-like
// lines unless the pattern itself is HIGH confidence.
func (s *CodePatternScanner) filterFalsePositives(found []types.Vulnerability) []types.Vulnerability {
	kept := found[:0]
	for _, v := range found {
		if v.Confidence != types.ConfidenceHigh {
			if isTestPath(v.FilePath) || docLineIndicators.MatchString(v.RawMatch) {
				continue
			}
		}
		kept = append(kept, v)
	}
	codeLog.Debugf("kept %d of %d code pattern findings", len(kept), len(found))
	return kept
}
