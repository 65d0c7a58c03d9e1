package scanner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"regexp"
	"strings"

	"repoguard/fetcher"
	"repoguard/patterns"
	"repoguard/types"
	"repoguard/util"
)

var secretLog = util.NewLogger("secret-scanner")

var secretSkipPaths = regexp.MustCompile(`(?i)(?:^|/)(?:tests?|specs?|examples?|samples?|docs?|mocks?)/|(?:^|/)test_|\.(?:md|rst|lock)$|\.min\.`)

// placeholder values that look like secrets but never are
var secretFalsePositives = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:example|sample|dummy|fake|placeholder|not[_-]?real)`),
	regexp.MustCompile(`(?i)your[_-]?(?:api[_-]?key|secret|token|password)`),
	regexp.MustCompile(`(?i)(?:xxx\w*|12345|changeme|change[_-]?this|password123|abc123)`),
	regexp.MustCompile(`(?i)sk_test_|rk_test_`),
	regexp.MustCompile(`<[^>]+>`),
	regexp.MustCompile(`\$\{[^}]*\}|\{\{[^}]*\}\}|\$\([^)]*\)`),
	regexp.MustCompile(`(?i)(?:process\.env|os\.environ|getenv|System\.getenv)`),
}

// SecretScanner finds credentials and key material committed to source.
type SecretScanner struct {
	entropyThreshold float64
}

// NewSecretScanner builds the detector with the given entropy gate.
func NewSecretScanner(entropyThreshold float64) *SecretScanner {
	return &SecretScanner{entropyThreshold: entropyThreshold}
}

func (s *SecretScanner) Name() string { return "secret" }

func (s *SecretScanner) Description() string {
	return "Detects hardcoded credentials, API keys and private key material"
}

func (s *SecretScanner) Applicable(f fetcher.FileInfo) bool {
	return !secretSkipPaths.MatchString(f.Path)
}

func (s *SecretScanner) Scan(ctx context.Context, files []fetcher.FileInfo) []types.Vulnerability {
	var found []types.Vulnerability
	seenHashes := map[string]bool{}
	reported := map[string]bool{}
	for _, f := range files {
		if !s.Applicable(f) {
			continue
		}
		select {
		case <-ctx.Done():
			return found
		default:
		}
		for _, p := range patterns.SecretPatterns() {
			if !p.AppliesTo(f.Path) {
				continue
			}
			for _, loc := range p.Regexp.FindAllStringIndex(f.Content, -1) {
				secret := f.Content[loc[0]:loc[1]]
				line := lineAt(f.Content, loc[0])
				lineNo := lineOf(f.Content, loc[0])

				if isCommentLine(f.Path, line) || p.Excluded(line) || isPlaceholder(line) {
					continue
				}
				// Entropy only gates the fuzzier patterns; the format-anchored
				// ones are specific enough on their own. Measure the value
				// alone, not the key prefix the pattern also matched.
				if p.Confidence == types.ConfidenceMedium && shannonEntropy(extractSecretValue(secret)) < s.entropyThreshold {
					continue
				}

				hash := contentHash(secret)
				if seenHashes[hash] {
					continue
				}
				seenHashes[hash] = true

				title := fmt.Sprintf("%s in %s", p.Name, f.Path)
				key := fmt.Sprintf("%s|%s|%d", title, f.Path, lineNo)
				if reported[key] {
					continue
				}
				reported[key] = true

				found = append(found, types.Vulnerability{
					Title:             title,
					Description:       p.Description,
					FilePath:          f.Path,
					Severity:          p.Severity,
					Confidence:        p.Confidence,
					VulnerabilityType: p.Type,
					Line:              lineNo,
					CWEID:             p.CWE,
					SuggestedFix:      p.Remediation,
					RootCause:         "Secret material committed to the repository",
					Impact:            "Anyone with read access to the repository can use this credential",
					Scanner:           s.Name(),
					RawMatch:          maskSecretInLine(line, secret),
				})
			}
		}
	}
	secretLog.Debugf("found %d secret findings across %d files", len(found), len(files))
	return found
}

var reQuotedValue = regexp.MustCompile(`['"]([^'"]+)['"]`)

// extractSecretValue isolates the credential itself from a match that also
// covers the key name and assignment. Bare matches (key formats like AKIA
// prefixes or JWTs) come back unchanged.
func extractSecretValue(match string) string {
	if m := reQuotedValue.FindStringSubmatch(match); m != nil {
		return m[1]
	}
	if i := strings.IndexAny(match, "=:"); i >= 0 {
		if v := strings.TrimSpace(match[i+1:]); v != "" {
			return v
		}
	}
	return match
}

func isPlaceholder(line string) bool {
	for _, re := range secretFalsePositives {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// maskSecret hides the middle of a secret, keeping just enough of each end
// to locate it. Short secrets are masked entirely.
func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:4] + strings.Repeat("*", 8) + secret[len(secret)-4:]
}

func maskSecretInLine(line, secret string) string {
	return strings.TrimSpace(strings.ReplaceAll(line, secret, maskSecret(secret)))
}

// shannonEntropy is the bits-per-character entropy of the string.
func shannonEntropy(s string) float64 {
	if s == "" {
		return 0
	}
	counts := map[rune]int{}
	total := 0
	for _, r := range s {
		counts[r]++
		total++
	}
	entropy := 0.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}

func contentHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:16]
}
