package scanner

import (
	"context"
	"fmt"

	goversion "github.com/hashicorp/go-version"

	"repoguard/fetcher"
	"repoguard/osv"
	"repoguard/parser"
	"repoguard/types"
	"repoguard/util"
)

var depLog = util.NewLogger("dependency-scanner")

var upgradeCommands = map[string]string{
	parser.EcosystemPyPI:      "pip install --upgrade %s",
	parser.EcosystemNpm:       "npm install %s@latest",
	parser.EcosystemGo:        "go get %s@latest",
	parser.EcosystemCrates:    "cargo update -p %s",
	parser.EcosystemRubyGems:  "bundle update %s",
	parser.EcosystemPackagist: "composer update %s",
	parser.EcosystemMaven:     "update the %s version in pom.xml",
}

// DependencyScanner parses manifests and checks every declared dependency
// against the vulnerability database.
type DependencyScanner struct {
	client *osv.Client
}

// NewDependencyScanner wires the detector to an OSV client.
func NewDependencyScanner(client *osv.Client) *DependencyScanner {
	return &DependencyScanner{client: client}
}

func (s *DependencyScanner) Name() string { return "dependency" }

func (s *DependencyScanner) Description() string {
	return "Detects dependencies with known vulnerabilities"
}

func (s *DependencyScanner) Applicable(f fetcher.FileInfo) bool {
	return f.Category == fetcher.CategoryDependency || parser.Supported(f.Path)
}

func (s *DependencyScanner) Scan(ctx context.Context, files []fetcher.FileInfo) []types.Vulnerability {
	var deps []types.Dependency
	seen := map[string]bool{}
	for _, f := range files {
		if !s.Applicable(f) {
			continue
		}
		parsed, err := parser.ParseFile(f.Path, f.Content)
		if err != nil {
			depLog.WithError(err).Warnf("skipping unparseable dependency file %s", f.Path)
			continue
		}
		for _, d := range parsed {
			if d.Name == "" || seen[d.Identifier()] {
				continue
			}
			seen[d.Identifier()] = true
			deps = append(deps, d)
		}
	}
	if len(deps) == 0 {
		return nil
	}
	depLog.Infof("querying advisories for %d dependencies", len(deps))

	advisories := s.client.QueryBatch(ctx, deps)

	var found []types.Vulnerability
	reported := map[string]bool{}
	for _, d := range deps {
		for _, adv := range advisories[d.Identifier()] {
			key := d.Name + "|" + d.Version + "|" + adv.ID
			if adv.CVEID != "" {
				key = d.Name + "|" + d.Version + "|" + adv.CVEID
			}
			if reported[key] {
				continue
			}
			reported[key] = true
			found = append(found, s.toVulnerability(d, adv))
		}
	}
	return found
}

func (s *DependencyScanner) toVulnerability(d types.Dependency, adv types.Advisory) types.Vulnerability {
	title := fmt.Sprintf("Vulnerable dependency %s %s (%s)", d.Name, d.Version, adv.ID)
	if d.Version == "" {
		title = fmt.Sprintf("Vulnerable dependency %s (%s)", d.Name, adv.ID)
	}
	return types.Vulnerability{
		Title:             title,
		Description:       advisorySummary(adv),
		FilePath:          d.SourceFile,
		Severity:          adv.Severity,
		Confidence:        types.ConfidenceHigh,
		VulnerabilityType: "outdated_dependency",
		Impact:            impactFor(adv.Severity),
		RootCause:         rootCauseFor(d, adv),
		SuggestedFix:      suggestedFixFor(d, adv),
		SuggestedVersion:  adv.FixedVersion,
		CVEID:             adv.CVEID,
		CWEID:             adv.CWEID,
		CVSSScore:         adv.CVSSScore,
		References:        adv.References,
		Scanner:           s.Name(),
		PackageName:       d.Name,
		CurrentVersion:    d.Version,
	}
}

func advisorySummary(adv types.Advisory) string {
	if adv.Summary != "" {
		return adv.Summary
	}
	if adv.Details != "" {
		return adv.Details
	}
	return "Known vulnerability reported for this dependency"
}

func impactFor(sev types.Severity) string {
	switch sev {
	case types.SeverityCritical:
		return "Exploitation can lead to full compromise of the application or its data"
	case types.SeverityHigh:
		return "Exploitation can expose sensitive data or disrupt the application"
	case types.SeverityMedium:
		return "Exploitation is possible under specific conditions"
	default:
		return "Limited impact, but the dependency should still be updated"
	}
}

func rootCauseFor(d types.Dependency, adv types.Advisory) string {
	if d.Version != "" && adv.FixedVersion != "" {
		cur, errCur := goversion.NewVersion(d.Version)
		fixed, errFix := goversion.NewVersion(adv.FixedVersion)
		if errCur == nil && errFix == nil && cur.LessThan(fixed) {
			return fmt.Sprintf("Installed version %s predates the first fixed release %s", d.Version, adv.FixedVersion)
		}
	}
	return "The declared version range matches a known-vulnerable release"
}

func suggestedFixFor(d types.Dependency, adv types.Advisory) string {
	cmd, ok := upgradeCommands[d.Ecosystem]
	if !ok {
		cmd = "upgrade %s"
	}
	fix := fmt.Sprintf(cmd, d.Name)
	if adv.FixedVersion != "" {
		return fmt.Sprintf("Upgrade to %s or later: %s", adv.FixedVersion, fix)
	}
	return fix
}
