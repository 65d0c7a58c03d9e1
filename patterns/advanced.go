package patterns

import (
	"regexp"

	"repoguard/types"
)

// advancedPatterns cover authentication, authorization, error handling and
// framework misuse. They trade some precision for coverage, so most carry
// MEDIUM confidence and lean on the detectors' false positive filtering.
var advancedPatterns = []Pattern{
	// Authentication
	{
		ID:             "AUTH001",
		Name:           "Credential Compared To Literal",
		Description:    "Password or token equality check against a hardcoded literal",
		Regexp:         regexp.MustCompile(`(?i)(?:password|passwd|token|secret)\s*==\s*['"][^'"]+['"]`),
		Severity:       types.SeverityCritical,
		Confidence:     types.ConfidenceMedium,
		Type:           "authentication_bypass",
		CWE:            "CWE-798",
		Remediation:    "Verify credentials against a stored hash using a constant-time compare",
		FileExtensions: []string{".py", ".js", ".ts", ".php", ".rb", ".java", ".go"},
	},
	{
		ID:             "AUTH002",
		Name:           "TLS Verification Disabled",
		Description:    "HTTPS request made with certificate verification turned off",
		Regexp:         regexp.MustCompile(`(?i)(?:verify\s*=\s*False|rejectUnauthorized\s*:\s*false|InsecureSkipVerify\s*:\s*true|CURLOPT_SSL_VERIFYPEER\s*,\s*(?:false|0))`),
		Severity:       types.SeverityHigh,
		Confidence:     types.ConfidenceHigh,
		Type:           "sensitive_data_exposure",
		CWE:            "CWE-295",
		Remediation:    "Enable certificate verification and pin an internal CA bundle if needed",
	},
	{
		ID:             "AUTH003",
		Name:           "Weak Session Secret",
		Description:    "Session or signing secret set to a short literal",
		Regexp:         regexp.MustCompile(`(?i)(?:SECRET_KEY|session_secret|signing_key)\s*[=:]\s*['"][^'"]{1,16}['"]`),
		Severity:       types.SeverityHigh,
		Confidence:     types.ConfidenceMedium,
		Type:           "broken_authentication",
		CWE:            "CWE-330",
		Remediation:    "Generate a long random secret and load it from the environment",
	},
	{
		ID:             "AUTH004",
		Name:           "Basic Auth In URL",
		Description:    "HTTP basic credentials embedded in a URL",
		Regexp:         regexp.MustCompile(`https?://[^/\s'"]+:[^@/\s'"]+@`),
		Severity:       types.SeverityHigh,
		Confidence:     types.ConfidenceMedium,
		Type:           "sensitive_data_exposure",
		CWE:            "CWE-522",
		Remediation:    "Send credentials in an Authorization header sourced from configuration",
		Excludes: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:localhost|127\.0\.0\.1|example\.)`),
		},
	},

	// Authorization
	{
		ID:             "AUTHZ001",
		Name:           "CSRF Protection Disabled",
		Description:    "View exempted from CSRF checks",
		Regexp:         regexp.MustCompile(`@csrf_exempt|csrf\s*:\s*false|CSRF_ENABLED\s*=\s*False`),
		Severity:       types.SeverityHigh,
		Confidence:     types.ConfidenceHigh,
		Type:           "csrf",
		CWE:            "CWE-352",
		Remediation:    "Keep CSRF middleware on and use token-authenticated APIs for exempt endpoints",
		FileExtensions: []string{".py", ".js", ".ts"},
	},
	{
		ID:             "AUTHZ002",
		Name:           "Open Permission Policy",
		Description:    "Endpoint declared with no access restriction",
		Regexp:         regexp.MustCompile(`permission_classes\s*=\s*[\[(]\s*(?:AllowAny\s*,?\s*)?[\])]`),
		Severity:       types.SeverityHigh,
		Confidence:     types.ConfidenceMedium,
		Type:           "broken_authentication",
		CWE:            "CWE-284",
		Remediation:    "Require an authenticated permission class and restrict per-object access",
		FileExtensions: []string{".py"},
	},
	{
		ID:             "AUTHZ003",
		Name:           "Object Fetched By Raw Request ID",
		Description:    "Database object loaded straight from a request-supplied identifier",
		Regexp:         regexp.MustCompile(`objects\.get\s*\(\s*(?:pk|id)\s*=\s*request\.(?:GET|POST|data)`),
		Severity:       types.SeverityHigh,
		Confidence:     types.ConfidenceMedium,
		Type:           "insecure_direct_object_reference",
		CWE:            "CWE-639",
		Remediation:    "Scope lookups to the requesting user or check object ownership after the fetch",
		FileExtensions: []string{".py"},
	},

	// Logic
	{
		ID:             "LOGIC001",
		Name:           "Timing-Unsafe Secret Compare",
		Description:    "Secret compared with == instead of a constant-time function",
		Regexp:         regexp.MustCompile(`(?i)(?:hmac|signature|digest)\s*==\s*`),
		Severity:       types.SeverityMedium,
		Confidence:     types.ConfidenceMedium,
		Type:           "broken_authentication",
		CWE:            "CWE-208",
		Remediation:    "Use hmac.compare_digest or an equivalent constant-time comparison",
		FileExtensions: []string{".py", ".js", ".ts", ".go"},
	},
	{
		ID:             "LOGIC002",
		Name:           "Disabled Security Check",
		Description:    "Security control commented out or forced on",
		Regexp:         regexp.MustCompile(`(?i)(?:#|//)\s*(?:TODO:?\s*)?(?:disable|skip|bypass)\w*\s+(?:auth|security|validation|csrf)`),
		Severity:       types.SeverityMedium,
		Confidence:     types.ConfidenceLow,
		Type:           "authentication_bypass",
		CWE:            "CWE-863",
		Remediation:    "Restore the control or document the compensating mitigation",
	},
	{
		ID:             "LOGIC003",
		Name:           "Mass Assignment",
		Description:    "Model populated wholesale from request data",
		Regexp:         regexp.MustCompile(`(?:\.update\s*\(\s*\*\*request\.(?:POST|data)|Object\.assign\s*\(\s*\w+\s*,\s*req\.body\s*\))`),
		Severity:       types.SeverityMedium,
		Confidence:     types.ConfidenceMedium,
		Type:           "insecure_direct_object_reference",
		CWE:            "CWE-915",
		Remediation:    "Copy only an explicit allowlist of fields from the request",
		FileExtensions: []string{".py", ".js", ".ts"},
	},

	// Error handling
	{
		ID:             "ERROR001",
		Name:           "Swallowed Exception",
		Description:    "Exception caught and silently discarded",
		Regexp:         regexp.MustCompile(`(?m)except(?:\s+\w+(?:\s+as\s+\w+)?)?\s*:\s*(?:pass|\.\.\.)\s*$`),
		Severity:       types.SeverityLow,
		Confidence:     types.ConfidenceMedium,
		Type:           "insufficient_logging",
		CWE:            "CWE-390",
		Remediation:    "Log the exception or narrow the handler to the failures you expect",
		FileExtensions: []string{".py"},
	},
	{
		ID:             "ERROR002",
		Name:           "Stack Trace To Client",
		Description:    "Raw exception text returned in a response",
		Regexp:         regexp.MustCompile(`(?i)(?:HttpResponse|jsonify|res\.send|res\.json)\s*\([^)]*(?:str\(e\)|e\.message|err\.stack|traceback)`),
		Severity:       types.SeverityLow,
		Confidence:     types.ConfidenceMedium,
		Type:           "verbose_error",
		CWE:            "CWE-209",
		Remediation:    "Return a generic error message and log the details server side",
		FileExtensions: []string{".py", ".js", ".ts"},
	},
	{
		ID:             "ERROR003",
		Name:           "printStackTrace",
		Description:    "Exception printed to stdout instead of logged",
		Regexp:         regexp.MustCompile(`\.printStackTrace\s*\(\s*\)`),
		Severity:       types.SeverityLow,
		Confidence:     types.ConfidenceHigh,
		Type:           "insufficient_logging",
		CWE:            "CWE-209",
		Remediation:    "Route exceptions through the application logger",
		FileExtensions: []string{".java"},
	},

	// Insecure transport
	{
		ID:             "HTTP001",
		Name:           "Plain HTTP Endpoint",
		Description:    "Hardcoded http:// URL to a non-local host",
		Regexp:         regexp.MustCompile(`['"]http://[^'"]+['"]`),
		Severity:       types.SeverityLow,
		Confidence:     types.ConfidenceMedium,
		Type:           "insecure_http",
		CWE:            "CWE-319",
		Remediation:    "Use https for any endpoint that leaves the host",
		Excludes: []*regexp.Regexp{
			regexp.MustCompile(`http://(?:localhost|127\.|0\.0\.0\.0|\[::1\])`),
			regexp.MustCompile(`(?i)(?:w3\.org|xmlns|schema\.org|example\.(?:com|org)|\.dtd)`),
		},
	},
	{
		ID:             "HTTP002",
		Name:           "Wildcard CORS",
		Description:    "Cross-origin policy opened to every origin",
		Regexp:         regexp.MustCompile(`(?i)(?:Access-Control-Allow-Origin['"]?\s*[,:=]\s*['"]\*|CORS_ORIGIN_ALLOW_ALL\s*=\s*True|cors\(\s*\{\s*origin\s*:\s*['"]\*)`),
		Severity:       types.SeverityMedium,
		Confidence:     types.ConfidenceHigh,
		Type:           "cors_misconfiguration",
		CWE:            "CWE-942",
		Remediation:    "List the origins that need access explicitly",
	},
	{
		ID:             "HTTP003",
		Name:           "Insecure Cookie Flags",
		Description:    "Session cookie configured without Secure or HttpOnly",
		Regexp:         regexp.MustCompile(`(?i)(?:SESSION_COOKIE_SECURE\s*=\s*False|httpOnly\s*:\s*false|secure\s*:\s*false\s*[,}].{0,40}cookie)`),
		Severity:       types.SeverityMedium,
		Confidence:     types.ConfidenceMedium,
		Type:           "insecure_cookie",
		CWE:            "CWE-614",
		Remediation:    "Set Secure, HttpOnly and an appropriate SameSite policy on session cookies",
	},

	// Django specifics
	{
		ID:             "DJANGO001",
		Name:           "extra() With Interpolation",
		Description:    "QuerySet.extra given formatted SQL fragments",
		Regexp:         regexp.MustCompile(`\.extra\s*\([^)]*(?:%|\.format|f['"])`),
		Severity:       types.SeverityHigh,
		Confidence:     types.ConfidenceMedium,
		Type:           "sql_injection",
		CWE:            "CWE-89",
		Remediation:    "Use ORM expressions or parameterized raw queries instead of extra()",
		FileExtensions: []string{".py"},
	},
	{
		ID:             "DJANGO002",
		Name:           "ALLOWED_HOSTS Wildcard",
		Description:    "Host header validation disabled with a wildcard",
		Regexp:         regexp.MustCompile(`ALLOWED_HOSTS\s*=\s*\[\s*['"]\*['"]`),
		Severity:       types.SeverityMedium,
		Confidence:     types.ConfidenceHigh,
		Type:           "insecure_configuration",
		CWE:            "CWE-16",
		Remediation:    "List the hostnames the application actually serves",
		FileExtensions: []string{".py"},
	},
	{
		ID:             "DJANGO003",
		Name:           "Pickle Session Serializer",
		Description:    "Sessions serialized with pickle",
		Regexp:         regexp.MustCompile(`SESSION_SERIALIZER\s*=\s*['"][^'"]*Pickle`),
		Severity:       types.SeverityHigh,
		Confidence:     types.ConfidenceHigh,
		Type:           "insecure_deserialization",
		CWE:            "CWE-502",
		Remediation:    "Use the JSON session serializer",
		FileExtensions: []string{".py"},
	},
}
