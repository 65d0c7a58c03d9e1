package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"repoguard/types"
)

type packageManifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

type packageLock struct {
	LockfileVersion int `json:"lockfileVersion"`
	// v2/v3 lockfiles
	Packages map[string]struct {
		Version string `json:"version"`
	} `json:"packages"`
	// v1 lockfiles
	Dependencies map[string]struct {
		Version string `json:"version"`
	} `json:"dependencies"`
}

func parsePackageJSON(filePath, content string) ([]types.Dependency, error) {
	var manifest packageManifest
	if err := json.Unmarshal([]byte(content), &manifest); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}
	var deps []types.Dependency
	for _, section := range []map[string]string{manifest.Dependencies, manifest.DevDependencies} {
		for name, spec := range section {
			version, ok := normalizeNpmVersion(spec)
			if !ok {
				continue
			}
			deps = append(deps, types.Dependency{
				Name:       name,
				Version:    version,
				Ecosystem:  EcosystemNpm,
				SourceFile: filePath,
			})
		}
	}
	return deps, nil
}

func parsePackageLock(filePath, content string) ([]types.Dependency, error) {
	var lock packageLock
	if err := json.Unmarshal([]byte(content), &lock); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}
	var deps []types.Dependency
	if len(lock.Packages) > 0 {
		for pkgPath, entry := range lock.Packages {
			if pkgPath == "" || entry.Version == "" {
				continue
			}
			// node_modules/@scope/name or nested node_modules paths.
			i := strings.LastIndex(pkgPath, "node_modules/")
			if i < 0 {
				continue
			}
			name := pkgPath[i+len("node_modules/"):]
			deps = append(deps, types.Dependency{
				Name:       name,
				Version:    entry.Version,
				Ecosystem:  EcosystemNpm,
				SourceFile: filePath,
			})
		}
		return deps, nil
	}
	for name, entry := range lock.Dependencies {
		if entry.Version == "" {
			continue
		}
		deps = append(deps, types.Dependency{
			Name:       name,
			Version:    entry.Version,
			Ecosystem:  EcosystemNpm,
			SourceFile: filePath,
		})
	}
	return deps, nil
}

// normalizeNpmVersion resolves an npm version specifier to a concrete
// version. Git, URL and workspace specifiers cannot be matched against
// advisories, so those dependencies are dropped entirely.
func normalizeNpmVersion(spec string) (string, bool) {
	v := strings.TrimSpace(spec)
	lower := strings.ToLower(v)
	for _, prefix := range []string{"git+", "git://", "github:", "http://", "https://", "file:", "link:", "workspace:", "npm:"} {
		if strings.HasPrefix(lower, prefix) {
			return "", false
		}
	}
	if v == "" || v == "*" || lower == "latest" {
		return "", true
	}
	// First alternative, then first bound of a hyphen range.
	if i := strings.Index(v, "||"); i >= 0 {
		v = strings.TrimSpace(v[:i])
	}
	if i := strings.Index(v, " - "); i >= 0 {
		v = strings.TrimSpace(v[:i])
	}
	for _, op := range []string{">=", "<=", "^", "~", ">", "<", "="} {
		v = strings.TrimPrefix(v, op)
	}
	v = strings.TrimSpace(v)
	if v == "" || v == "*" || strings.HasPrefix(v, "x") {
		return "", true
	}
	return v, true
}
