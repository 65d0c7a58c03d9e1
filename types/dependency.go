package types

import "fmt"

// Dependency is one declared package pulled out of a manifest or lockfile.
// Version may be empty when the declaration could not be pinned to a
// concrete version (ranges, wildcards, git refs).
type Dependency struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	Ecosystem  string `json:"ecosystem"`
	SourceFile string `json:"source_file"`
}

// Identifier is the stable key for a dependency across a scan.
func (d Dependency) Identifier() string {
	return fmt.Sprintf("%s/%s@%s", d.Ecosystem, d.Name, d.Version)
}

// Advisory is a normalized vulnerability-database record for one dependency.
type Advisory struct {
	ID           string   `json:"id"`
	Summary      string   `json:"summary"`
	Details      string   `json:"details,omitempty"`
	Severity     Severity `json:"severity"`
	CVSSScore    float64  `json:"cvss_score,omitempty"`
	CVEID        string   `json:"cve_id,omitempty"`
	CWEID        string   `json:"cwe_id,omitempty"`
	FixedVersion string   `json:"fixed_version,omitempty"`
	References   []string `json:"references,omitempty"`
}
