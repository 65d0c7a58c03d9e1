// Package parser extracts declared dependencies from manifest and lock
// files across the ecosystems the engine scans. Parsers are pure functions
// over file content; a file that cannot be parsed yields an error the
// caller logs and skips.
package parser

import (
	"path"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"repoguard/types"
)

// Ecosystem names follow the vulnerability database's naming.
const (
	EcosystemPyPI      = "PyPI"
	EcosystemNpm       = "npm"
	EcosystemGo        = "Go"
	EcosystemCrates    = "crates.io"
	EcosystemRubyGems  = "RubyGems"
	EcosystemPackagist = "Packagist"
	EcosystemMaven     = "Maven"
)

// Supported reports whether the basename is a dependency file the package
// knows how to parse.
func Supported(filePath string) bool {
	return dispatch(filePath) != nil
}

// ParseFile extracts dependencies from a manifest or lock file. Unsupported
// files yield an empty list and no error.
func ParseFile(filePath, content string) ([]types.Dependency, error) {
	fn := dispatch(filePath)
	if fn == nil {
		return nil, nil
	}
	return fn(filePath, content)
}

type parseFunc func(filePath, content string) ([]types.Dependency, error)

func dispatch(filePath string) parseFunc {
	base := strings.ToLower(path.Base(filePath))
	switch base {
	case "pipfile":
		return parsePipfile
	case "pyproject.toml":
		return parsePyproject
	case "package.json":
		return parsePackageJSON
	case "package-lock.json":
		return parsePackageLock
	case "go.mod":
		return parseGoMod
	case "cargo.toml":
		return parseCargoToml
	case "gemfile":
		return parseGemfile
	case "composer.json":
		return parseComposerJSON
	case "pom.xml":
		return parsePomXML
	}
	if strings.HasPrefix(base, "requirements") && strings.HasSuffix(base, ".txt") {
		return parseRequirements
	}
	return nil
}

// normalizeVersion strips range operators and wildcards from a version
// specifier. Specs that cannot be pinned to a concrete version come back
// empty; the dependency is still reported, it just cannot be matched
// against advisories by version.
func normalizeVersion(spec string) string {
	v := strings.TrimSpace(spec)
	v = strings.Trim(v, `"'`)
	if v == "" || v == "*" || strings.EqualFold(v, "latest") || strings.EqualFold(v, "x") {
		return ""
	}
	// First bound of a comma-separated range.
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	for _, op := range []string{"==", ">=", "<=", "~=", "!=", "^", "~", ">", "<", "="} {
		v = strings.TrimPrefix(v, op)
	}
	v = strings.TrimSpace(v)
	v = strings.TrimSuffix(v, ".*")
	if v == "" || v == "*" {
		return ""
	}
	if _, err := goversion.NewVersion(v); err != nil {
		return ""
	}
	return v
}
