package types

import "strings"

// Severity classifies how bad a finding is, ordered from INFO up to CRITICAL.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityInfo     Severity = "INFO"
)

// Confidence expresses how likely a finding is a true positive.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// SeverityFromScore maps a CVSS base score onto a severity bucket.
func SeverityFromScore(score float64) Severity {
	switch {
	case score >= 9.0:
		return SeverityCritical
	case score >= 7.0:
		return SeverityHigh
	case score >= 4.0:
		return SeverityMedium
	case score >= 0.1:
		return SeverityLow
	default:
		return SeverityInfo
	}
}

// SeverityFromString parses vendor severity labels, tolerating the common
// aliases advisories use. Unknown labels fall back to MEDIUM.
func SeverityFromString(s string) Severity {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CRITICAL":
		return SeverityCritical
	case "HIGH":
		return SeverityHigh
	case "MEDIUM", "MODERATE":
		return SeverityMedium
	case "LOW":
		return SeverityLow
	case "INFO", "INFORMATIONAL", "NONE":
		return SeverityInfo
	default:
		return SeverityMedium
	}
}

// typeSeverity assigns a default severity per vulnerability type. Types not
// listed here default to MEDIUM.
var typeSeverity = map[string]Severity{
	"rce":                              SeverityCritical,
	"remote_code_execution":            SeverityCritical,
	"sql_injection":                    SeverityCritical,
	"command_injection":                SeverityCritical,
	"ssrf":                             SeverityCritical,
	"xxe":                              SeverityCritical,
	"deserialization":                  SeverityCritical,
	"authentication_bypass":            SeverityCritical,
	"hardcoded_secret":                 SeverityCritical,
	"private_key_exposure":             SeverityCritical,
	"api_key_exposure":                 SeverityCritical,
	"xss":                              SeverityHigh,
	"csrf":                             SeverityHigh,
	"path_traversal":                   SeverityHigh,
	"insecure_deserialization":         SeverityHigh,
	"broken_authentication":            SeverityHigh,
	"sensitive_data_exposure":          SeverityHigh,
	"insecure_direct_object_reference": SeverityHigh,
	"weak_cryptography":                SeverityHigh,
	"hardcoded_password":               SeverityHigh,
	"debug_mode_enabled":               SeverityHigh,
	"insecure_configuration":           SeverityMedium,
	"missing_security_header":          SeverityMedium,
	"weak_password_policy":             SeverityMedium,
	"insufficient_logging":             SeverityMedium,
	"cors_misconfiguration":            SeverityMedium,
	"insecure_cookie":                  SeverityMedium,
	"deprecated_api":                   SeverityMedium,
	"outdated_dependency":              SeverityMedium,
	"information_disclosure":           SeverityLow,
	"verbose_error":                    SeverityLow,
	"missing_rate_limiting":            SeverityLow,
	"insecure_http":                    SeverityLow,
}

// SeverityForType returns the default severity for a vulnerability type.
func SeverityForType(vulnType string) Severity {
	if sev, ok := typeSeverity[strings.ToLower(vulnType)]; ok {
		return sev
	}
	return SeverityMedium
}

// Priority orders severities for sorting, CRITICAL highest.
func (s Severity) Priority() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Bonus is the fractional priority boost a confidence level contributes.
func (c Confidence) Bonus() float64 {
	switch c {
	case ConfidenceHigh:
		return 0.3
	case ConfidenceMedium:
		return 0.1
	default:
		return 0
	}
}
