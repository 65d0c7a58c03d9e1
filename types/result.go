package types

import (
	"sort"
	"time"
)

const (
	maxRawMatchLen = 200
	maxReferences  = 5
)

// Vulnerability is a single finding produced by a detector.
type Vulnerability struct {
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	FilePath          string     `json:"file_path"`
	Severity          Severity   `json:"severity"`
	Confidence        Confidence `json:"confidence"`
	VulnerabilityType string     `json:"vulnerability_type"`
	Impact            string     `json:"impact,omitempty"`
	RootCause         string     `json:"root_cause,omitempty"`
	SuggestedFix      string     `json:"suggested_fix,omitempty"`
	Line              int        `json:"line,omitempty"`
	EndLine           int        `json:"end_line,omitempty"`
	SuggestedVersion  string     `json:"suggested_version,omitempty"`
	CVEID             string     `json:"cve_id,omitempty"`
	CWEID             string     `json:"cwe_id,omitempty"`
	CVSSScore         float64    `json:"cvss_score,omitempty"`
	References        []string   `json:"references,omitempty"`
	Scanner           string     `json:"scanner,omitempty"`
	RawMatch          string     `json:"raw_match,omitempty"`
	PackageName       string     `json:"package_name,omitempty"`
	CurrentVersion    string     `json:"current_version,omitempty"`
}

// PriorityScore ranks findings for triage: severity priority plus a small
// confidence bonus, so a HIGH-confidence HIGH outranks a LOW-confidence HIGH.
func (v Vulnerability) PriorityScore() float64 {
	return float64(v.Severity.Priority()) + v.Confidence.Bonus()
}

// Normalize caps unbounded evidence fields so reports stay a sane size.
func (v *Vulnerability) Normalize() {
	if len(v.RawMatch) > maxRawMatchLen {
		v.RawMatch = v.RawMatch[:maxRawMatchLen]
	}
	if len(v.References) > maxReferences {
		v.References = v.References[:maxReferences]
	}
}

// ScanResult accumulates findings and timing for one scan run.
type ScanResult struct {
	RepositoryURL   string
	StartedAt       time.Time
	CompletedAt     time.Time
	FilesScanned    int
	Vulnerabilities []Vulnerability
	Error           string
	Metadata        map[string]any
}

// NewScanResult starts a result clock for the given repository.
func NewScanResult(repoURL string) *ScanResult {
	return &ScanResult{
		RepositoryURL: repoURL,
		StartedAt:     time.Now().UTC(),
		Metadata:      map[string]any{},
	}
}

// Add appends findings, normalizing each one.
func (r *ScanResult) Add(vulns ...Vulnerability) {
	for i := range vulns {
		vulns[i].Normalize()
	}
	r.Vulnerabilities = append(r.Vulnerabilities, vulns...)
}

// Complete stamps the end of the scan.
func (r *ScanResult) Complete() {
	r.CompletedAt = time.Now().UTC()
}

// DurationMS is the scan wall time in milliseconds, 0 while running.
func (r *ScanResult) DurationMS() int64 {
	if r.CompletedAt.IsZero() {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt).Milliseconds()
}

// BySeverity groups findings per severity bucket, each bucket sorted by
// descending priority score. INFO findings land in the low bucket.
func (r *ScanResult) BySeverity() map[Severity][]Vulnerability {
	grouped := map[Severity][]Vulnerability{
		SeverityCritical: {},
		SeverityHigh:     {},
		SeverityMedium:   {},
		SeverityLow:      {},
	}
	sorted := make([]Vulnerability, len(r.Vulnerabilities))
	copy(sorted, r.Vulnerabilities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PriorityScore() > sorted[j].PriorityScore()
	})
	for _, v := range sorted {
		key := v.Severity
		if key == SeverityInfo {
			key = SeverityLow
		}
		grouped[key] = append(grouped[key], v)
	}
	return grouped
}

// Summary counts findings per severity bucket.
type Summary struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Report is the serializable scan report.
type Report struct {
	RepositoryURL        string          `json:"repository_url"`
	ScanStartedAt        string          `json:"scan_started_at"`
	ScanCompletedAt      string          `json:"scan_completed_at,omitempty"`
	ScanDurationMS       int64           `json:"scan_duration_ms"`
	FilesScanned         int             `json:"files_scanned"`
	TotalVulnerabilities int             `json:"total_vulnerabilities"`
	Summary              Summary         `json:"summary"`
	Critical             []Vulnerability `json:"critical"`
	High                 []Vulnerability `json:"high"`
	Medium               []Vulnerability `json:"medium"`
	Low                  []Vulnerability `json:"low"`
	Error                string          `json:"error,omitempty"`
	Metadata             map[string]any  `json:"metadata,omitempty"`
}

// Report flattens the result into its serializable shape.
func (r *ScanResult) Report() Report {
	grouped := r.BySeverity()
	rep := Report{
		RepositoryURL:        r.RepositoryURL,
		ScanStartedAt:        r.StartedAt.Format(time.RFC3339),
		ScanDurationMS:       r.DurationMS(),
		FilesScanned:         r.FilesScanned,
		TotalVulnerabilities: len(r.Vulnerabilities),
		Summary: Summary{
			Critical: len(grouped[SeverityCritical]),
			High:     len(grouped[SeverityHigh]),
			Medium:   len(grouped[SeverityMedium]),
			Low:      len(grouped[SeverityLow]),
		},
		Critical: grouped[SeverityCritical],
		High:     grouped[SeverityHigh],
		Medium:   grouped[SeverityMedium],
		Low:      grouped[SeverityLow],
		Error:    r.Error,
		Metadata: r.Metadata,
	}
	if !r.CompletedAt.IsZero() {
		rep.ScanCompletedAt = r.CompletedAt.Format(time.RFC3339)
	}
	return rep
}
