package patterns

import (
	"regexp"

	"repoguard/types"
)

var codePatterns = []Pattern{
	// SQL injection
	{
		ID:             "SQLI001",
		Name:           "SQL Built By Concatenation",
		Description:    "SQL statement assembled with string concatenation or formatting",
		Regexp:         regexp.MustCompile(`(?i)(?:execute|executemany|query)\s*\(\s*['"](?:SELECT|INSERT|UPDATE|DELETE)[^'"]*['"]\s*(?:%|\+|\.format)`),
		Severity:       types.SeverityCritical,
		Confidence:     types.ConfidenceMedium,
		Type:           "sql_injection",
		CWE:            "CWE-89",
		Remediation:    "Use parameterized queries and pass values separately from the statement",
		FileExtensions: []string{".py"},
	},
	{
		ID:             "SQLI002",
		Name:           "SQL In F-String",
		Description:    "SQL statement interpolated with an f-string",
		Regexp:         regexp.MustCompile(`(?i)execute\s*\(\s*f['"](?:SELECT|INSERT|UPDATE|DELETE)`),
		Severity:       types.SeverityCritical,
		Confidence:     types.ConfidenceHigh,
		Type:           "sql_injection",
		CWE:            "CWE-89",
		Remediation:    "Replace the f-string with a parameterized query",
		FileExtensions: []string{".py"},
	},
	{
		ID:             "SQLI003",
		Name:           "SQL In Template Literal",
		Description:    "SQL statement interpolated inside a template literal",
		Regexp:         regexp.MustCompile("(?i)(?:query|execute)\\s*\\(\\s*`[^`]*\\$\\{"),
		Severity:       types.SeverityCritical,
		Confidence:     types.ConfidenceMedium,
		Type:           "sql_injection",
		CWE:            "CWE-89",
		Remediation:    "Use placeholder parameters instead of interpolating values into the query text",
		FileExtensions: []string{".js", ".ts", ".jsx", ".tsx"},
	},
	{
		ID:             "SQLI004",
		Name:           "SQL Concatenated In Query Call",
		Description:    "Query call whose statement is built with + concatenation",
		Regexp:         regexp.MustCompile(`(?i)(?:query|execute)\s*\(\s*['"](?:SELECT|INSERT|UPDATE|DELETE)[^'")]*['"]\s*\+`),
		Severity:       types.SeverityCritical,
		Confidence:     types.ConfidenceMedium,
		Type:           "sql_injection",
		CWE:            "CWE-89",
		Remediation:    "Bind user input through query parameters",
		FileExtensions: []string{".js", ".ts", ".java", ".php", ".rb", ".go"},
	},
	{
		ID:             "SQLI005",
		Name:           "Django Raw SQL",
		Description:    "Raw SQL escape hatch with interpolated input",
		Regexp:         regexp.MustCompile(`(?:\.raw\(\s*f?['"][^'"]*(?:%s|\{)|RawSQL\()`),
		Severity:       types.SeverityHigh,
		Confidence:     types.ConfidenceMedium,
		Type:           "sql_injection",
		CWE:            "CWE-89",
		Remediation:    "Pass parameters through the params argument of raw()",
		FileExtensions: []string{".py"},
	},
	{
		ID:             "SQLI006",
		Name:           "PHP SQL With Request Input",
		Description:    "SQL string containing a request superglobal",
		Regexp:         regexp.MustCompile(`(?i)(?:mysqli_query|->query)\s*\([^)]*\$_(?:GET|POST|REQUEST)`),
		Severity:       types.SeverityCritical,
		Confidence:     types.ConfidenceHigh,
		Type:           "sql_injection",
		CWE:            "CWE-89",
		Remediation:    "Use prepared statements with bound parameters",
		FileExtensions: []string{".php"},
	},

	// Command injection
	{
		ID:             "CMDI001",
		Name:           "os.system With Dynamic Input",
		Description:    "Shell command assembled from variables passed to os.system",
		Regexp:         regexp.MustCompile(`os\.system\s*\([^)]*(?:\+|%|\.format|f['"])`),
		Severity:       types.SeverityCritical,
		Confidence:     types.ConfidenceHigh,
		Type:           "command_injection",
		CWE:            "CWE-78",
		Remediation:    "Use subprocess.run with an argument list and no shell",
		FileExtensions: []string{".py"},
	},
	{
		ID:             "CMDI002",
		Name:           "subprocess shell=True",
		Description:    "Subprocess invoked through the shell",
		Regexp:         regexp.MustCompile(`subprocess\.(?:run|call|Popen|check_output|check_call)\s*\([^)]*shell\s*=\s*True`),
		Severity:       types.SeverityHigh,
		Confidence:     types.ConfidenceMedium,
		Type:           "command_injection",
		CWE:            "CWE-78",
		Remediation:    "Drop shell=True and pass the command as a list of arguments",
		FileExtensions: []string{".py"},
	},
	{
		ID:             "CMDI003",
		Name:           "eval On Dynamic Input",
		Description:    "eval or exec applied to non-literal input",
		Regexp:         regexp.MustCompile(`(?:^|[^.\w])(?:eval|exec)\s*\(\s*[^'")\s]`),
		Severity:       types.SeverityCritical,
		Confidence:     types.ConfidenceMedium,
		Type:           "command_injection",
		CWE:            "CWE-95",
		Remediation:    "Remove the dynamic evaluation; parse the input with a safe parser instead",
		FileExtensions: []string{".py", ".js", ".ts", ".php", ".rb"},
	},
	{
		ID:             "CMDI004",
		Name:           "child_process With Concatenation",
		Description:    "Node child process command built from variables",
		Regexp:         regexp.MustCompile("(?:exec|execSync|spawn)\\s*\\(\\s*(?:[^,)]*\\+|`[^`]*\\$\\{)"),
		Severity:       types.SeverityCritical,
		Confidence:     types.ConfidenceMedium,
		Type:           "command_injection",
		CWE:            "CWE-78",
		Remediation:    "Use execFile with a fixed binary path and an argument array",
		FileExtensions: []string{".js", ".ts"},
	},
	{
		ID:             "CMDI005",
		Name:           "Ruby Backtick Command",
		Description:    "Backtick command execution with interpolation",
		Regexp:         regexp.MustCompile("`[^`]*#\\{[^}]+\\}[^`]*`"),
		Severity:       types.SeverityCritical,
		Confidence:     types.ConfidenceMedium,
		Type:           "command_injection",
		CWE:            "CWE-78",
		Remediation:    "Use Open3.capture2 with separate arguments",
		FileExtensions: []string{".rb"},
	},
	{
		ID:             "CMDI006",
		Name:           "PHP Command Execution With Input",
		Description:    "Shell execution function fed request input",
		Regexp:         regexp.MustCompile(`(?i)(?:shell_exec|exec|system|passthru|popen)\s*\([^)]*\$_(?:GET|POST|REQUEST)`),
		Severity:       types.SeverityCritical,
		Confidence:     types.ConfidenceHigh,
		Type:           "command_injection",
		CWE:            "CWE-78",
		Remediation:    "Validate input against an allowlist and use escapeshellarg",
		FileExtensions: []string{".php"},
	},
	{
		ID:             "CMDI007",
		Name:           "Go Command From Variable",
		Description:    "exec.Command whose binary or arguments come from concatenation",
		Regexp:         regexp.MustCompile(`exec\.Command(?:Context)?\s*\(\s*[^,"')]+\s*\+`),
		Severity:       types.SeverityHigh,
		Confidence:     types.ConfidenceMedium,
		Type:           "command_injection",
		CWE:            "CWE-78",
		Remediation:    "Keep the binary path constant and pass user data only as discrete arguments",
		FileExtensions: []string{".go"},
	},

	// Cross-site scripting
	{
		ID:             "XSS001",
		Name:           "innerHTML Assignment",
		Description:    "innerHTML assigned from dynamic content",
		Regexp:         regexp.MustCompile(`\.innerHTML\s*[+]?=\s*[^'"\s]`),
		Severity:       types.SeverityHigh,
		Confidence:     types.ConfidenceMedium,
		Type:           "xss",
		CWE:            "CWE-79",
		Remediation:    "Use textContent, or sanitize the markup before insertion",
		FileExtensions: []string{".js", ".ts", ".jsx", ".tsx", ".html"},
	},
	{
		ID:             "XSS002",
		Name:           "dangerouslySetInnerHTML",
		Description:    "React raw HTML injection point",
		Regexp:         regexp.MustCompile(`dangerouslySetInnerHTML\s*=\s*\{`),
		Severity:       types.SeverityHigh,
		Confidence:     types.ConfidenceMedium,
		Type:           "xss",
		CWE:            "CWE-79",
		Remediation:    "Sanitize the HTML with a vetted library before rendering",
		FileExtensions: []string{".js", ".jsx", ".ts", ".tsx"},
	},
	{
		ID:             "XSS003",
		Name:           "Template Autoescape Bypass",
		Description:    "Template output marked safe without sanitization",
		Regexp:         regexp.MustCompile(`(?:mark_safe\s*\(|\|\s*safe\s*\}\}|\{%\s*autoescape\s+off)`),
		Severity:       types.SeverityHigh,
		Confidence:     types.ConfidenceMedium,
		Type:           "xss",
		CWE:            "CWE-79",
		Remediation:    "Keep autoescaping on and sanitize any value that must carry markup",
		FileExtensions: []string{".py", ".html"},
	},

	// Insecure deserialization
	{
		ID:             "DESER001",
		Name:           "pickle Load",
		Description:    "pickle deserialization of external data",
		Regexp:         regexp.MustCompile(`pickle\.loads?\s*\(`),
		Severity:       types.SeverityCritical,
		Confidence:     types.ConfidenceMedium,
		Type:           "deserialization",
		CWE:            "CWE-502",
		Remediation:    "Use a data-only format such as JSON for untrusted input",
		FileExtensions: []string{".py"},
	},
	{
		ID:             "DESER002",
		Name:           "Unsafe YAML Load",
		Description:    "yaml.load without a safe loader",
		Regexp:         regexp.MustCompile(`yaml\.load\s*\((?:[^)]*\))?`),
		Severity:       types.SeverityHigh,
		Confidence:     types.ConfidenceMedium,
		Type:           "insecure_deserialization",
		CWE:            "CWE-502",
		Remediation:    "Use yaml.safe_load or pass SafeLoader explicitly",
		FileExtensions: []string{".py"},
		Excludes: []*regexp.Regexp{
			regexp.MustCompile(`(?:safe_load|SafeLoader|FullLoader)`),
		},
	},

	// Path traversal
	{
		ID:             "PATH001",
		Name:           "File Open With Request Input",
		Description:    "File path built from request data",
		Regexp:         regexp.MustCompile(`open\s*\([^)]*(?:request\.(?:GET|POST|args|form|params)|req\.(?:query|params|body))`),
		Severity:       types.SeverityHigh,
		Confidence:     types.ConfidenceHigh,
		Type:           "path_traversal",
		CWE:            "CWE-22",
		Remediation:    "Resolve the path against a fixed base directory and reject any result outside it",
		FileExtensions: []string{".py", ".js", ".ts"},
	},
	{
		ID:             "PATH002",
		Name:           "sendFile With User Path",
		Description:    "Response file path taken from the request",
		Regexp:         regexp.MustCompile(`(?:sendFile|send_file|sendfile)\s*\([^)]*(?:req\.|request\.)`),
		Severity:       types.SeverityHigh,
		Confidence:     types.ConfidenceMedium,
		Type:           "path_traversal",
		CWE:            "CWE-22",
		Remediation:    "Map request identifiers to known file names instead of passing paths through",
		FileExtensions: []string{".py", ".js", ".ts"},
	},

	// Weak cryptography
	{
		ID:             "CRYPTO001",
		Name:           "Broken Hash For Credentials",
		Description:    "MD5 or SHA-1 used near credential handling",
		Regexp:         regexp.MustCompile(`(?i)(?:hashlib\.(?:md5|sha1)|MessageDigest\.getInstance\(\s*["'](?:MD5|SHA-?1)|crypto\.createHash\(\s*['"](?:md5|sha1))`),
		Severity:       types.SeverityHigh,
		Confidence:     types.ConfidenceMedium,
		Type:           "weak_cryptography",
		CWE:            "CWE-327",
		Remediation:    "Use a slow password hash such as bcrypt or argon2, or SHA-256 for integrity checks",
		FileExtensions: []string{".py", ".java", ".js", ".ts"},
	},
	{
		ID:             "CRYPTO002",
		Name:           "ECB Or DES Cipher",
		Description:    "Deprecated cipher or penguin-mode block chaining",
		Regexp:         regexp.MustCompile(`(?i)(?:MODE_ECB|DES\.new|Cipher\.getInstance\(\s*["'](?:DES|AES/ECB))`),
		Severity:       types.SeverityHigh,
		Confidence:     types.ConfidenceHigh,
		Type:           "weak_cryptography",
		CWE:            "CWE-327",
		Remediation:    "Use AES-GCM or another authenticated mode",
		FileExtensions: []string{".py", ".java"},
	},
	{
		ID:             "CRYPTO003",
		Name:           "Insecure Randomness For Secrets",
		Description:    "Non-cryptographic RNG used to produce a token or secret",
		Regexp:         regexp.MustCompile(`(?i)(?:random\.(?:random|randint|choice)\s*\([^)]*\).{0,40}(?:token|secret|password|key)|Math\.random\s*\(\s*\).{0,40}(?:token|secret|password|key))`),
		Severity:       types.SeverityHigh,
		Confidence:     types.ConfidenceMedium,
		Type:           "weak_cryptography",
		CWE:            "CWE-338",
		Remediation:    "Use the secrets module or crypto.randomBytes for security-sensitive values",
		FileExtensions: []string{".py", ".js", ".ts"},
	},

	// Debug mode
	{
		ID:             "DEBUG001",
		Name:           "Debug Mode Enabled",
		Description:    "Application configured to run with debugging on",
		Regexp:         regexp.MustCompile(`(?:DEBUG|debug)\s*=\s*True|app\.run\([^)]*debug\s*=\s*True`),
		Severity:       types.SeverityHigh,
		Confidence:     types.ConfidenceHigh,
		Type:           "debug_mode_enabled",
		CWE:            "CWE-489",
		Remediation:    "Drive the debug flag from the environment and keep it off outside development",
		FileExtensions: []string{".py"},
	},
}
