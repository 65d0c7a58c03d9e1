package scanner

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"repoguard/fetcher"
	"repoguard/types"
	"repoguard/util"
)

var configLog = util.NewLogger("config-scanner")

// configPattern targets configuration files by glob rather than extension.
type configPattern struct {
	id          string
	name        string
	description string
	re          *regexp.Regexp
	severity    types.Severity
	confidence  types.Confidence
	cwe         string
	remediation string
	fileGlobs   []string
}

var configPatterns = []configPattern{
	{
		id:          "DJANGO001",
		name:        "Debug Mode Enabled",
		description: "DEBUG is turned on, which leaks settings and stack traces on errors",
		re:          regexp.MustCompile(`(?m)^\s*DEBUG\s*=\s*(?:True|true|1|"true"|'true')\s*$`),
		severity:    types.SeverityHigh,
		confidence:  types.ConfidenceHigh,
		cwe:         "CWE-489",
		remediation: "Read DEBUG from the environment and default it to off",
		fileGlobs:   []string{"settings.py", "settings_*.py", "*_settings.py", "config.py", ".env", ".env.*"},
	},
	{
		id:          "DJANGO002",
		name:        "Hardcoded Secret Key",
		description: "The framework signing key is a literal in settings",
		re:          regexp.MustCompile(`SECRET_KEY\s*=\s*['"][^'"]{8,}['"]`),
		severity:    types.SeverityHigh,
		confidence:  types.ConfidenceMedium,
		cwe:         "CWE-798",
		remediation: "Load SECRET_KEY from the environment",
		fileGlobs:   []string{"settings.py", "settings_*.py", "*_settings.py"},
	},
	{
		id:          "DJANGO003",
		name:        "Wildcard Allowed Hosts",
		description: "Host header validation is disabled",
		re:          regexp.MustCompile(`ALLOWED_HOSTS\s*=\s*\[\s*['"]\*['"]`),
		severity:    types.SeverityMedium,
		confidence:  types.ConfidenceHigh,
		cwe:         "CWE-16",
		remediation: "List the hostnames the deployment actually serves",
		fileGlobs:   []string{"settings.py", "settings_*.py", "*_settings.py"},
	},
	{
		id:          "DJANGO004",
		name:        "SSL Redirect Disabled",
		description: "Requests are not forced onto https",
		re:          regexp.MustCompile(`SECURE_SSL_REDIRECT\s*=\s*False`),
		severity:    types.SeverityMedium,
		confidence:  types.ConfidenceMedium,
		cwe:         "CWE-319",
		remediation: "Enable SECURE_SSL_REDIRECT outside local development",
		fileGlobs:   []string{"settings.py", "settings_*.py", "*_settings.py"},
	},
	{
		id:          "NODE001",
		name:        "Production Running In Development Mode",
		description: "NODE_ENV left set to development",
		re:          regexp.MustCompile(`NODE_ENV\s*[=:]\s*['"]?development`),
		severity:    types.SeverityLow,
		confidence:  types.ConfidenceMedium,
		cwe:         "CWE-489",
		remediation: "Set NODE_ENV=production in deployed environments",
		fileGlobs:   []string{".env", ".env.*", "dockerfile", "docker-compose*"},
	},
	{
		id:          "NODE002",
		name:        "Wildcard CORS Origin",
		description: "Cross-origin access opened to every origin",
		re:          regexp.MustCompile(`(?i)(?:Access-Control-Allow-Origin|cors_origin|origin)\s*[=:]\s*['"]?\*`),
		severity:    types.SeverityMedium,
		confidence:  types.ConfidenceHigh,
		cwe:         "CWE-942",
		remediation: "Restrict the allowed origins to known frontends",
		fileGlobs:   []string{".env", ".env.*", "config.json", "config.yaml", "config.yml", "nginx*"},
	},
	{
		id:          "DOCKER001",
		name:        "Container Runs As Root",
		description: "No unprivileged USER is set, or root is set explicitly",
		re:          regexp.MustCompile(`(?m)^\s*USER\s+(?:root|0)\s*$`),
		severity:    types.SeverityMedium,
		confidence:  types.ConfidenceHigh,
		cwe:         "CWE-250",
		remediation: "Create an unprivileged user in the image and switch to it",
		fileGlobs:   []string{"dockerfile", "dockerfile.*"},
	},
	{
		id:          "DOCKER002",
		name:        "Secret Baked Into Image",
		description: "Credential material passed through ENV or ARG",
		re:          regexp.MustCompile(`(?im)^\s*(?:ENV|ARG)\s+\w*(?:PASSWORD|SECRET|TOKEN|API_?KEY)\w*\s*[= ]\s*\S+`),
		severity:    types.SeverityHigh,
		confidence:  types.ConfidenceMedium,
		cwe:         "CWE-798",
		remediation: "Mount secrets at runtime instead of baking them into layers",
		fileGlobs:   []string{"dockerfile", "dockerfile.*", "docker-compose*"},
	},
	{
		id:          "DOCKER003",
		name:        "Unpinned Base Image",
		description: "Base image floats on the latest tag",
		re:          regexp.MustCompile(`(?m)^\s*FROM\s+\S+:latest\s*$`),
		severity:    types.SeverityLow,
		confidence:  types.ConfidenceHigh,
		cwe:         "CWE-1104",
		remediation: "Pin the base image to a version tag or digest",
		fileGlobs:   []string{"dockerfile", "dockerfile.*"},
	},
	{
		id:          "K8S001",
		name:        "Privileged Container",
		description: "Pod security context grants full host privileges",
		re:          regexp.MustCompile(`privileged:\s*true`),
		severity:    types.SeverityHigh,
		confidence:  types.ConfidenceHigh,
		cwe:         "CWE-250",
		remediation: "Drop privileged mode and grant individual capabilities as needed",
		fileGlobs:   []string{"*.yaml", "*.yml"},
	},
	{
		id:          "K8S002",
		name:        "Host Network Enabled",
		description: "Pod shares the node's network namespace",
		re:          regexp.MustCompile(`hostNetwork:\s*true`),
		severity:    types.SeverityMedium,
		confidence:  types.ConfidenceHigh,
		cwe:         "CWE-653",
		remediation: "Use a Service instead of host networking",
		fileGlobs:   []string{"*.yaml", "*.yml"},
	},
	{
		id:          "K8S003",
		name:        "Container Runs As UID 0",
		description: "Security context requests the root user",
		re:          regexp.MustCompile(`runAsUser:\s*0\b|runAsNonRoot:\s*false`),
		severity:    types.SeverityMedium,
		confidence:  types.ConfidenceMedium,
		cwe:         "CWE-250",
		remediation: "Set runAsNonRoot: true and a fixed non-zero runAsUser",
		fileGlobs:   []string{"*.yaml", "*.yml"},
	},
	{
		id:          "K8S004",
		name:        "Privilege Escalation Allowed",
		description: "Processes in the container may gain more privileges than their parent",
		re:          regexp.MustCompile(`allowPrivilegeEscalation:\s*true`),
		severity:    types.SeverityMedium,
		confidence:  types.ConfidenceHigh,
		cwe:         "CWE-269",
		remediation: "Set allowPrivilegeEscalation: false in the security context",
		fileGlobs:   []string{"*.yaml", "*.yml"},
	},
	{
		id:          "WEB001",
		name:        "Server Version Disclosure",
		description: "Web server advertises its version in responses",
		re:          regexp.MustCompile(`(?i)server_tokens\s+on|ServerTokens\s+Full`),
		severity:    types.SeverityLow,
		confidence:  types.ConfidenceHigh,
		cwe:         "CWE-200",
		remediation: "Turn server tokens off",
		fileGlobs:   []string{"nginx*", "httpd*", "apache*", "*.conf"},
	},
	{
		id:          "WEB002",
		name:        "Legacy TLS Protocol Enabled",
		description: "Server accepts SSLv3 or TLS 1.0/1.1",
		re:          regexp.MustCompile(`(?i)ssl_protocols[^;\n]*(?:SSLv3|TLSv1(?:\.[01])?\b)|SSLProtocol[^\n]*(?:SSLv3|TLSv1(?:\.[01])?\b)`),
		severity:    types.SeverityMedium,
		confidence:  types.ConfidenceHigh,
		cwe:         "CWE-326",
		remediation: "Allow TLS 1.2 and newer only",
		fileGlobs:   []string{"nginx*", "httpd*", "apache*", "*.conf"},
	},
}

// ConfigScanner flags insecure settings in framework, container and server
// configuration files.
type ConfigScanner struct{}

func NewConfigScanner() *ConfigScanner { return &ConfigScanner{} }

func (s *ConfigScanner) Name() string { return "config" }

func (s *ConfigScanner) Description() string {
	return "Detects insecure framework, container and web server configuration"
}

func (s *ConfigScanner) Applicable(f fetcher.FileInfo) bool {
	for _, p := range configPatterns {
		if globMatch(p.fileGlobs, f.Path) {
			return true
		}
	}
	return false
}

func (s *ConfigScanner) Scan(ctx context.Context, files []fetcher.FileInfo) []types.Vulnerability {
	var found []types.Vulnerability
	reported := map[string]bool{}
	for _, f := range files {
		select {
		case <-ctx.Done():
			return found
		default:
		}
		for _, p := range configPatterns {
			if !globMatch(p.fileGlobs, f.Path) {
				continue
			}
			for _, loc := range p.re.FindAllStringIndex(f.Content, -1) {
				line := lineAt(f.Content, loc[0])
				if isCommentLine(f.Path, line) {
					continue
				}
				lineNo := lineOf(f.Content, loc[0])
				title := fmt.Sprintf("%s in %s", p.name, f.Path)
				key := fmt.Sprintf("%s|%s|%d", title, f.Path, lineNo)
				if reported[key] {
					continue
				}
				reported[key] = true
				found = append(found, types.Vulnerability{
					Title:             title,
					Description:       p.description,
					FilePath:          f.Path,
					Severity:          p.severity,
					Confidence:        p.confidence,
					VulnerabilityType: "insecure_configuration",
					Line:              lineNo,
					CWEID:             p.cwe,
					SuggestedFix:      p.remediation,
					Scanner:           s.Name(),
					RawMatch:          strings.TrimSpace(line),
				})
			}
		}
	}
	configLog.Debugf("found %d configuration findings", len(found))
	return found
}

// globMatch checks the basename against each glob, case-insensitively.
func globMatch(globs []string, filePath string) bool {
	base := strings.ToLower(path.Base(filePath))
	for _, g := range globs {
		if ok, _ := path.Match(g, base); ok {
			return true
		}
	}
	return false
}
