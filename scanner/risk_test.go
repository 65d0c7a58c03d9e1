package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"repoguard/types"
)

func TestAssessRiskWeights(t *testing.T) {
	findings := []types.Vulnerability{
		{Severity: types.SeverityCritical},
		{Severity: types.SeverityHigh},
		{Severity: types.SeverityMedium},
		{Severity: types.SeverityLow},
	}
	got := AssessRisk(findings)
	assert.Equal(t, 25+15+8+3, got.Score)
	assert.Equal(t, "HIGH", got.Level)
	assert.NotEmpty(t, got.Summary)
}

func TestAssessRiskCapsAtHundred(t *testing.T) {
	var findings []types.Vulnerability
	for i := 0; i < 10; i++ {
		findings = append(findings, types.Vulnerability{Severity: types.SeverityCritical})
	}
	got := AssessRisk(findings)
	assert.Equal(t, 100, got.Score)
	assert.Equal(t, "CRITICAL", got.Level)
}

func TestAssessRiskEmpty(t *testing.T) {
	got := AssessRisk(nil)
	assert.Equal(t, 0, got.Score)
	assert.Equal(t, "MINIMAL", got.Level)
	assert.NotEmpty(t, got.Recommendations)
}

func TestAssessRiskRecommendations(t *testing.T) {
	findings := []types.Vulnerability{
		{Severity: types.SeverityCritical, VulnerabilityType: "api_key_exposure"},
		{Severity: types.SeverityMedium, VulnerabilityType: "outdated_dependency"},
	}
	got := AssessRisk(findings)

	var hasRotate, hasUpgrade bool
	for _, r := range got.Recommendations {
		if r == "Rotate every exposed credential and move secrets into environment configuration" {
			hasRotate = true
		}
		if r == "Upgrade the vulnerable dependencies to their fixed releases" {
			hasUpgrade = true
		}
	}
	assert.True(t, hasRotate)
	assert.True(t, hasUpgrade)
}
