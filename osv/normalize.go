package osv

import (
	"encoding/json"
	"strings"

	gocvss20 "github.com/pandatix/go-cvss/20"
	gocvss30 "github.com/pandatix/go-cvss/30"
	gocvss31 "github.com/pandatix/go-cvss/31"
	gocvss40 "github.com/pandatix/go-cvss/40"

	"repoguard/types"
)

const maxReferences = 5

type databaseSpecific struct {
	Severity string   `json:"severity"`
	CWEIDs   []string `json:"cwe_ids"`
}

func normalizeAll(vulns []osvVuln) []types.Advisory {
	advisories := make([]types.Advisory, 0, len(vulns))
	for _, v := range vulns {
		advisories = append(advisories, normalize(v))
	}
	return advisories
}

// normalize flattens an OSV record into the engine's advisory shape.
// Severity comes from the CVSS vector when one is present, otherwise from
// the database's own severity label, otherwise MEDIUM.
func normalize(v osvVuln) types.Advisory {
	adv := types.Advisory{
		ID:      v.ID,
		Summary: v.Summary,
		Details: v.Details,
	}

	var dbs databaseSpecific
	if len(v.DatabaseSpecific) > 0 {
		_ = json.Unmarshal(v.DatabaseSpecific, &dbs)
	}

	if score, ok := bestCVSSScore(v.Severity); ok {
		adv.CVSSScore = score
		adv.Severity = types.SeverityFromScore(score)
	} else if dbs.Severity != "" {
		adv.Severity = types.SeverityFromString(dbs.Severity)
	} else {
		adv.Severity = types.SeverityMedium
	}

	for _, alias := range v.Aliases {
		if strings.HasPrefix(alias, "CVE-") {
			adv.CVEID = alias
			break
		}
	}
	if len(dbs.CWEIDs) > 0 {
		adv.CWEID = dbs.CWEIDs[0]
	}
	adv.FixedVersion = firstFixedVersion(v.Affected)

	for _, ref := range v.References {
		adv.References = append(adv.References, ref.URL)
		if len(adv.References) == maxReferences {
			break
		}
	}
	return adv
}

// bestCVSSScore prefers v3 vectors over v2 and returns the highest base
// score among the parseable entries.
func bestCVSSScore(entries []osvSeverity) (float64, bool) {
	best, found := 0.0, false
	for _, e := range entries {
		score, err := scoreVector(e.Score)
		if err != nil {
			continue
		}
		if !found || score > best {
			best, found = score, true
		}
	}
	return best, found
}

func scoreVector(vector string) (float64, error) {
	switch {
	case strings.HasPrefix(vector, "CVSS:4.0/"):
		c, err := gocvss40.ParseVector(vector)
		if err != nil {
			return 0, err
		}
		return c.Score(), nil
	case strings.HasPrefix(vector, "CVSS:3.1/"):
		c, err := gocvss31.ParseVector(vector)
		if err != nil {
			return 0, err
		}
		return c.BaseScore(), nil
	case strings.HasPrefix(vector, "CVSS:3.0/"):
		c, err := gocvss30.ParseVector(vector)
		if err != nil {
			return 0, err
		}
		return c.BaseScore(), nil
	default:
		c, err := gocvss20.ParseVector(vector)
		if err != nil {
			return 0, err
		}
		return c.BaseScore(), nil
	}
}

func firstFixedVersion(affected []osvAffected) string {
	for _, a := range affected {
		for _, r := range a.Ranges {
			for _, e := range r.Events {
				if e.Fixed != "" {
					return e.Fixed
				}
			}
		}
	}
	return ""
}
