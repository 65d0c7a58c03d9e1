package patterns

import (
	"regexp"

	"repoguard/types"
)

var secretPatterns = []Pattern{
	{
		ID:          "SECRET001",
		Name:        "AWS Access Key ID",
		Description: "Amazon Web Services access key identifier committed to source",
		Regexp:      regexp.MustCompile(`(?:AKIA|A3T|AGPA|AIDA|AROA|AIPA|ANPA|ANVA|ASIA)[A-Z0-9]{16}`),
		Severity:    types.SeverityCritical,
		Confidence:  types.ConfidenceHigh,
		Type:        "api_key_exposure",
		CWE:         "CWE-798",
		Remediation: "Revoke the key in the AWS console and move credentials to environment variables or a secrets manager",
	},
	{
		ID:          "SECRET002",
		Name:        "AWS Secret Access Key",
		Description: "Amazon Web Services secret key assigned near an aws identifier",
		Regexp:      regexp.MustCompile(`(?i)aws.{0,20}(?:secret|private).{0,20}['"][0-9a-zA-Z/+=]{40}['"]`),
		Severity:    types.SeverityCritical,
		Confidence:  types.ConfidenceMedium,
		Type:        "api_key_exposure",
		CWE:         "CWE-798",
		Remediation: "Rotate the secret key and load it from the environment at runtime",
	},
	{
		ID:          "SECRET003",
		Name:        "GitHub Token",
		Description: "GitHub personal access or OAuth token",
		Regexp:      regexp.MustCompile(`ghp_[A-Za-z0-9]{36}|gho_[A-Za-z0-9]{36}|github_pat_[A-Za-z0-9]{22}_[A-Za-z0-9]{59}`),
		Severity:    types.SeverityCritical,
		Confidence:  types.ConfidenceHigh,
		Type:        "api_key_exposure",
		CWE:         "CWE-798",
		Remediation: "Revoke the token in GitHub settings and issue a fine-grained replacement stored outside the repository",
	},
	{
		ID:          "SECRET004",
		Name:        "Google API Key",
		Description: "Google Cloud API key",
		Regexp:      regexp.MustCompile(`AIza[A-Za-z0-9_\-]{35}`),
		Severity:    types.SeverityCritical,
		Confidence:  types.ConfidenceHigh,
		Type:        "api_key_exposure",
		CWE:         "CWE-798",
		Remediation: "Regenerate the key in the Google Cloud console and restrict it by referrer or IP",
	},
	{
		ID:          "SECRET005",
		Name:        "Stripe API Key",
		Description: "Stripe secret or restricted key",
		Regexp:      regexp.MustCompile(`(?:sk_live_|rk_live_|sk_test_|rk_test_)[A-Za-z0-9]{24,}`),
		Severity:    types.SeverityCritical,
		Confidence:  types.ConfidenceHigh,
		Type:        "api_key_exposure",
		CWE:         "CWE-798",
		Remediation: "Roll the key from the Stripe dashboard and keep live keys in server-side configuration only",
	},
	{
		ID:          "SECRET006",
		Name:        "Private Key Block",
		Description: "PEM private key material embedded in the file",
		Regexp:      regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH |PGP )?PRIVATE KEY`),
		Severity:    types.SeverityCritical,
		Confidence:  types.ConfidenceHigh,
		Type:        "private_key_exposure",
		CWE:         "CWE-321",
		Remediation: "Remove the key from history, regenerate the key pair, and distribute private keys out of band",
	},
	{
		ID:          "SECRET007",
		Name:        "Database Connection String",
		Description: "Connection URL carrying inline credentials",
		Regexp:      regexp.MustCompile(`(?i)(?:postgres|postgresql|mysql|mongodb(?:\+srv)?|redis|amqp)://[^\s'"]+:[^\s'"@]+@[^\s'"]+`),
		Severity:    types.SeverityCritical,
		Confidence:  types.ConfidenceHigh,
		Type:        "hardcoded_secret",
		CWE:         "CWE-798",
		Remediation: "Change the database password and build the connection URL from environment variables",
		Excludes: []*regexp.Regexp{
			regexp.MustCompile(`(?i)://(?:user(?:name)?|admin|root)?:?(?:pass(?:word)?)?@(?:localhost|127\.0\.0\.1|host|example)`),
		},
	},
	{
		ID:          "SECRET008",
		Name:        "Hardcoded Password",
		Description: "Password literal assigned in source",
		Regexp:      regexp.MustCompile(`(?i)(?:password|passwd|pwd)\s*[=:]\s*['"][^'"]{8,}['"]`),
		Severity:    types.SeverityHigh,
		Confidence:  types.ConfidenceMedium,
		Type:        "hardcoded_password",
		CWE:         "CWE-259",
		Remediation: "Read the password from the environment or a secrets manager instead of a literal",
		Excludes: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:password_field|password_name|password_label|input|placeholder|type\s*=)`),
		},
	},
	{
		ID:          "SECRET009",
		Name:        "Generic API Credential",
		Description: "API key or auth token literal assigned in source",
		Regexp:      regexp.MustCompile(`(?i)(?:api[_-]?key|apikey|access[_-]?token|auth[_-]?token|client[_-]?secret)\s*[=:]\s*['"][A-Za-z0-9_\-]{16,}['"]`),
		Severity:    types.SeverityCritical,
		Confidence:  types.ConfidenceMedium,
		Type:        "api_key_exposure",
		CWE:         "CWE-798",
		Remediation: "Rotate the credential and inject it through configuration at deploy time",
	},
	{
		ID:          "SECRET010",
		Name:        "JSON Web Token",
		Description: "Signed JWT embedded in the file",
		Regexp:      regexp.MustCompile(`eyJ[A-Za-z0-9_\-]{10,}\.[A-Za-z0-9_\-]{10,}\.[A-Za-z0-9_\-]{10,}`),
		Severity:    types.SeverityHigh,
		Confidence:  types.ConfidenceMedium,
		Type:        "sensitive_data_exposure",
		CWE:         "CWE-522",
		Remediation: "Invalidate the token server side and avoid persisting bearer tokens in the repository",
	},
	{
		ID:          "SECRET011",
		Name:        "Slack Token",
		Description: "Slack bot, app or user token",
		Regexp:      regexp.MustCompile(`xox[baprs]-[A-Za-z0-9\-]{10,}`),
		Severity:    types.SeverityCritical,
		Confidence:  types.ConfidenceHigh,
		Type:        "api_key_exposure",
		CWE:         "CWE-798",
		Remediation: "Revoke the token from the Slack app management page and reinstall the app with a fresh token",
	},
}
