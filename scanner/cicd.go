package scanner

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"repoguard/fetcher"
	"repoguard/types"
	"repoguard/util"
)

var cicdLog = util.NewLogger("cicd-scanner")

var cicdPathIndicators = []string{
	".github/workflows/", ".gitlab-ci", "jenkinsfile", ".circleci/",
	".travis.yml", "azure-pipelines", "bitbucket-pipelines", ".drone.yml",
}

type cicdPattern struct {
	id          string
	name        string
	description string
	re          *regexp.Regexp
	severity    types.Severity
	confidence  types.Confidence
	cwe         string
	remediation string
	// pathPart restricts the pattern to one CI system; empty applies to all
	pathPart string
}

var cicdPatterns = []cicdPattern{
	{
		id:          "GHA001",
		name:        "pull_request_target Trigger",
		description: "Workflow runs with write permissions on untrusted pull request content",
		re:          regexp.MustCompile(`(?m)^\s*(?:on:\s*)?pull_request_target`),
		severity:    types.SeverityHigh,
		confidence:  types.ConfidenceMedium,
		cwe:         "CWE-284",
		remediation: "Use the pull_request trigger, or never check out the PR head under pull_request_target",
		pathPart:    ".github/workflows/",
	},
	{
		id:          "GHA002",
		name:        "Unpinned Action Reference",
		description: "Third-party action tracked by a mutable ref",
		re:          regexp.MustCompile(`(?m)uses:\s*[\w\-./]+/[\w\-./]+@(?:main|master|latest)\s*$`),
		severity:    types.SeverityMedium,
		confidence:  types.ConfidenceHigh,
		cwe:         "CWE-829",
		remediation: "Pin actions to a full commit SHA",
		pathPart:    ".github/workflows/",
	},
	{
		id:          "GHA003",
		name:        "Secret Echoed In Step",
		description: "Workflow secret written to the job log",
		re:          regexp.MustCompile(`(?i)echo\s+[^\n]*\$\{\{\s*secrets\.`),
		severity:    types.SeverityHigh,
		confidence:  types.ConfidenceMedium,
		cwe:         "CWE-532",
		remediation: "Pass secrets through env and avoid printing them",
		pathPart:    ".github/workflows/",
	},
	{
		id:          "GHA004",
		name:        "Untrusted Input In Run Step",
		description: "Event-controlled text interpolated into a shell command",
		re:          regexp.MustCompile(`run:[^\n]*\$\{\{\s*github\.event\.(?:issue|pull_request|comment|head_commit|review)`),
		severity:    types.SeverityHigh,
		confidence:  types.ConfidenceMedium,
		cwe:         "CWE-94",
		remediation: "Pass event fields through an env variable and quote it in the script",
		pathPart:    ".github/workflows/",
	},
	{
		id:          "GHA005",
		name:        "Blanket Write Permissions",
		description: "Workflow token granted write access to everything",
		re:          regexp.MustCompile(`permissions:\s*write-all`),
		severity:    types.SeverityMedium,
		confidence:  types.ConfidenceHigh,
		cwe:         "CWE-250",
		remediation: "Declare the minimal per-scope permissions the workflow needs",
		pathPart:    ".github/workflows/",
	},
	{
		id:          "GITLAB001",
		name:        "Job Token Echoed",
		description: "CI credentials written to the job log",
		re:          regexp.MustCompile(`(?i)echo\s+[^\n]*\$(?:CI_JOB_TOKEN|CI_DEPLOY_PASSWORD|CI_REGISTRY_PASSWORD)`),
		severity:    types.SeverityHigh,
		confidence:  types.ConfidenceMedium,
		cwe:         "CWE-532",
		remediation: "Never print CI credential variables",
		pathPart:    ".gitlab-ci",
	},
	{
		id:          "GITLAB002",
		name:        "Privileged Docker-in-Docker",
		description: "Runner configured with privileged container mode",
		re:          regexp.MustCompile(`(?i)privileged\s*[:=]\s*["']?true`),
		severity:    types.SeverityMedium,
		confidence:  types.ConfidenceMedium,
		cwe:         "CWE-250",
		remediation: "Use rootless buildah or kaniko instead of privileged dind",
		pathPart:    ".gitlab-ci",
	},
	{
		id:          "JENKINS001",
		name:        "Parameter Interpolated Into Shell",
		description: "Build parameter expanded inside a Groovy-interpolated sh step",
		re:          regexp.MustCompile(`sh\s+["'][^"']*\$\{params\.`),
		severity:    types.SeverityHigh,
		confidence:  types.ConfidenceMedium,
		cwe:         "CWE-78",
		remediation: "Pass parameters via environment variables and single-quoted scripts",
		pathPart:    "jenkinsfile",
	},
	{
		id:          "JENKINS002",
		name:        "Credential Echoed",
		description: "Bound credential printed by the pipeline",
		re:          regexp.MustCompile(`(?i)echo\s+[^\n]*(?:PASSWORD|TOKEN|CREDENTIALS|SECRET)`),
		severity:    types.SeverityMedium,
		confidence:  types.ConfidenceLow,
		cwe:         "CWE-532",
		remediation: "Drop the echo; withCredentials masks values only in some log paths",
		pathPart:    "jenkinsfile",
	},
	{
		id:          "JENKINS003",
		name:        "Dynamic Groovy Evaluation",
		description: "Pipeline evaluates constructed Groovy code",
		re:          regexp.MustCompile(`\bevaluate\s*\(`),
		severity:    types.SeverityMedium,
		confidence:  types.ConfidenceMedium,
		cwe:         "CWE-95",
		remediation: "Replace evaluate with declarative pipeline steps or a shared library",
		pathPart:    "jenkinsfile",
	},
	{
		id:          "CIRCLE001",
		name:        "Secret In Pipeline Config",
		description: "Credential literal committed in the pipeline definition",
		re:          regexp.MustCompile(`(?i)\w*(?:PASSWORD|SECRET|API_?KEY|TOKEN)\w*\s*:\s*['"]?[A-Za-z0-9+/=_\-]{12,}`),
		severity:    types.SeverityHigh,
		confidence:  types.ConfidenceMedium,
		cwe:         "CWE-798",
		remediation: "Store the value in a CircleCI context or project environment variable",
		pathPart:    ".circleci/",
	},
	{
		id:          "TRAVIS001",
		name:        "Plaintext Deploy Credential",
		description: "Deployment credential committed unencrypted",
		re:          regexp.MustCompile(`(?im)^\s*(?:api_key|password|token)\s*:\s*[^\s$][^\n]*$`),
		severity:    types.SeverityHigh,
		confidence:  types.ConfidenceMedium,
		cwe:         "CWE-798",
		remediation: "Encrypt the value with travis encrypt or move it to repository settings",
		pathPart:    ".travis.yml",
	},
	{
		id:          "CICD001",
		name:        "Remote Script Piped To Shell",
		description: "Pipeline downloads and executes a script in one step",
		re:          regexp.MustCompile(`(?:curl|wget)\s+[^\n|]*\|\s*(?:sh|bash|zsh)`),
		severity:    types.SeverityHigh,
		confidence:  types.ConfidenceHigh,
		cwe:         "CWE-494",
		remediation: "Download the script, verify its checksum, then execute it",
	},
	{
		id:          "CICD002",
		name:        "TLS Verification Disabled In Pipeline",
		description: "Pipeline step turns off certificate checking",
		re:          regexp.MustCompile(`(?:--insecure|--no-check-certificate|-k\s|GIT_SSL_NO_VERIFY|NODE_TLS_REJECT_UNAUTHORIZED=0)`),
		severity:    types.SeverityMedium,
		confidence:  types.ConfidenceHigh,
		cwe:         "CWE-295",
		remediation: "Fix the certificate chain instead of disabling verification",
	},
}

// CICDScanner inspects pipeline definitions for supply chain weaknesses.
type CICDScanner struct{}

func NewCICDScanner() *CICDScanner { return &CICDScanner{} }

func (s *CICDScanner) Name() string { return "cicd" }

func (s *CICDScanner) Description() string {
	return "Detects insecure CI/CD pipeline configuration"
}

func (s *CICDScanner) Applicable(f fetcher.FileInfo) bool {
	return isCICDPath(f.Path)
}

func isCICDPath(filePath string) bool {
	lower := strings.ToLower(filePath)
	for _, part := range cicdPathIndicators {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}

func (s *CICDScanner) Scan(ctx context.Context, files []fetcher.FileInfo) []types.Vulnerability {
	var found []types.Vulnerability
	for _, f := range files {
		if !isCICDPath(f.Path) {
			continue
		}
		select {
		case <-ctx.Done():
			return found
		default:
		}
		lower := strings.ToLower(f.Path)
		for _, p := range cicdPatterns {
			if p.pathPart != "" && !strings.Contains(lower, p.pathPart) {
				continue
			}
			for _, loc := range p.re.FindAllStringIndex(f.Content, -1) {
				line := lineAt(f.Content, loc[0])
				if isCommentLine(f.Path, line) {
					continue
				}
				found = append(found, types.Vulnerability{
					Title:             fmt.Sprintf("%s in %s", p.name, f.Path),
					Description:       p.description,
					FilePath:          f.Path,
					Severity:          p.severity,
					Confidence:        p.confidence,
					VulnerabilityType: "cicd_vulnerability",
					Line:              lineOf(f.Content, loc[0]),
					CWEID:             p.cwe,
					SuggestedFix:      p.remediation,
					Scanner:           s.Name(),
					RawMatch:          strings.TrimSpace(line),
				})
			}
		}
	}
	cicdLog.Debugf("found %d pipeline findings", len(found))
	return found
}
