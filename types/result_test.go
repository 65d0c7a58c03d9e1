package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCapsEvidence(t *testing.T) {
	v := Vulnerability{
		RawMatch:   strings.Repeat("a", 500),
		References: []string{"r1", "r2", "r3", "r4", "r5", "r6", "r7"},
	}
	v.Normalize()
	assert.Len(t, v.RawMatch, 200)
	assert.Len(t, v.References, 5)
}

func TestBySeverityGroupsAndSorts(t *testing.T) {
	r := NewScanResult("https://github.com/acme/app")
	r.Add(
		Vulnerability{Title: "low", Severity: SeverityLow, Confidence: ConfidenceHigh},
		Vulnerability{Title: "info", Severity: SeverityInfo, Confidence: ConfidenceLow},
		Vulnerability{Title: "crit-low-conf", Severity: SeverityCritical, Confidence: ConfidenceLow},
		Vulnerability{Title: "crit-high-conf", Severity: SeverityCritical, Confidence: ConfidenceHigh},
	)
	grouped := r.BySeverity()

	require.Len(t, grouped[SeverityCritical], 2)
	assert.Equal(t, "crit-high-conf", grouped[SeverityCritical][0].Title)
	assert.Equal(t, "crit-low-conf", grouped[SeverityCritical][1].Title)
	// INFO folds into the low bucket
	require.Len(t, grouped[SeverityLow], 2)
	assert.Empty(t, grouped[SeverityHigh])
	assert.Empty(t, grouped[SeverityMedium])
}

func TestReportShape(t *testing.T) {
	r := NewScanResult("https://github.com/acme/app")
	r.FilesScanned = 3
	r.Add(
		Vulnerability{Title: "a", Severity: SeverityCritical, Confidence: ConfidenceHigh},
		Vulnerability{Title: "b", Severity: SeverityMedium, Confidence: ConfidenceMedium},
	)
	r.Complete()

	rep := r.Report()
	assert.Equal(t, "https://github.com/acme/app", rep.RepositoryURL)
	assert.Equal(t, 3, rep.FilesScanned)
	assert.Equal(t, 2, rep.TotalVulnerabilities)
	assert.Equal(t, Summary{Critical: 1, Medium: 1}, rep.Summary)
	assert.NotEmpty(t, rep.ScanStartedAt)
	assert.NotEmpty(t, rep.ScanCompletedAt)
	assert.GreaterOrEqual(t, rep.ScanDurationMS, int64(0))
}

func TestDurationZeroWhileRunning(t *testing.T) {
	r := NewScanResult("local")
	assert.Equal(t, int64(0), r.DurationMS())
}
