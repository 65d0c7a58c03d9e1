package scanner

import (
	"fmt"

	"repoguard/config"
	"repoguard/types"
)

// RiskAssessment condenses a set of findings into a single score a report
// reader can act on.
type RiskAssessment struct {
	Score           int      `json:"score"`
	Level           string   `json:"level"`
	Description     string   `json:"description"`
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
}

// AssessRisk scores findings by severity weight, capped at 100.
func AssessRisk(findings []types.Vulnerability) RiskAssessment {
	score := 0
	counts := map[types.Severity]int{}
	typeSeen := map[string]bool{}
	for _, v := range findings {
		counts[v.Severity]++
		typeSeen[v.VulnerabilityType] = true
		switch v.Severity {
		case types.SeverityCritical:
			score += config.CriticalRiskWeight
		case types.SeverityHigh:
			score += config.HighRiskWeight
		case types.SeverityMedium:
			score += config.MediumRiskWeight
		case types.SeverityLow:
			score += config.LowRiskWeight
		}
	}
	if score > config.MaxRiskScore {
		score = config.MaxRiskScore
	}

	level, description := riskLevel(score)
	return RiskAssessment{
		Score:           score,
		Level:           level,
		Description:     description,
		Summary:         executiveSummary(len(findings), counts, level),
		Recommendations: recommendations(counts, typeSeen),
	}
}

func riskLevel(score int) (string, string) {
	switch {
	case score >= 75:
		return "CRITICAL", "Immediate action required; exploitable issues are present"
	case score >= 50:
		return "HIGH", "Serious weaknesses that should be fixed before the next release"
	case score >= 25:
		return "MEDIUM", "Meaningful risk that should be scheduled for remediation"
	case score > 0:
		return "LOW", "Minor issues worth cleaning up"
	default:
		return "MINIMAL", "No significant security issues detected"
	}
}

func executiveSummary(total int, counts map[types.Severity]int, level string) string {
	if total == 0 {
		return "The scan found no security issues"
	}
	return fmt.Sprintf("The scan found %d issues (%d critical, %d high, %d medium, %d low); overall risk is %s",
		total,
		counts[types.SeverityCritical],
		counts[types.SeverityHigh],
		counts[types.SeverityMedium],
		counts[types.SeverityLow]+counts[types.SeverityInfo],
		level)
}

func recommendations(counts map[types.Severity]int, typeSeen map[string]bool) []string {
	var recs []string
	if counts[types.SeverityCritical] > 0 {
		recs = append(recs, "Address the critical findings first; treat exposed credentials as already compromised")
	}
	if typeSeen["api_key_exposure"] || typeSeen["hardcoded_secret"] || typeSeen["private_key_exposure"] || typeSeen["hardcoded_password"] {
		recs = append(recs, "Rotate every exposed credential and move secrets into environment configuration")
	}
	if typeSeen["outdated_dependency"] {
		recs = append(recs, "Upgrade the vulnerable dependencies to their fixed releases")
	}
	if typeSeen["sql_injection"] || typeSeen["command_injection"] {
		recs = append(recs, "Replace string-built queries and shell commands with parameterized calls")
	}
	if typeSeen["insecure_configuration"] || typeSeen["debug_mode_enabled"] {
		recs = append(recs, "Harden the deployment configuration; disable debug modes outside development")
	}
	if typeSeen["cicd_vulnerability"] {
		recs = append(recs, "Review the CI/CD pipelines; pin third-party steps and keep secrets out of logs")
	}
	if len(recs) == 0 {
		recs = append(recs, "Keep dependencies current and re-scan on a regular schedule")
	}
	return recs
}
