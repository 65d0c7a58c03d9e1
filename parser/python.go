package parser

import (
	"bufio"
	"regexp"
	"strings"

	"repoguard/types"
)

var (
	reRequirementLine = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._\-]*)(?:\[[^\]]*\])?\s*([=<>~!^].*)?$`)
	rePipfileEntry    = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._\-]*)\s*=\s*(?:"([^"]*)"|\{.*version\s*=\s*"([^"]*)")`)
	rePoetryEntry     = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._\-]*)\s*=\s*(?:"([^"]*)"|\{.*version\s*=\s*"([^"]*)")`)
	rePEP508Spec      = regexp.MustCompile(`"([A-Za-z0-9][A-Za-z0-9._\-]*)(?:\[[^\]]*\])?\s*([=<>~!^][^";]*)?`)
)

func parseRequirements(filePath, content string) ([]types.Dependency, error) {
	var deps []types.Dependency
	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		// Inline comments and environment markers carry no version data.
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		m := reRequirementLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		deps = append(deps, types.Dependency{
			Name:       strings.ToLower(m[1]),
			Version:    normalizeVersion(m[2]),
			Ecosystem:  EcosystemPyPI,
			SourceFile: filePath,
		})
	}
	return deps, sc.Err()
}

func parsePipfile(filePath, content string) ([]types.Dependency, error) {
	var deps []types.Dependency
	section := ""
	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "[") {
			section = strings.Trim(line, "[]")
			continue
		}
		if section != "packages" && section != "dev-packages" {
			continue
		}
		m := rePipfileEntry.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		version := m[2]
		if version == "" {
			version = m[3]
		}
		deps = append(deps, types.Dependency{
			Name:       strings.ToLower(m[1]),
			Version:    normalizeVersion(version),
			Ecosystem:  EcosystemPyPI,
			SourceFile: filePath,
		})
	}
	return deps, sc.Err()
}

func parsePyproject(filePath, content string) ([]types.Dependency, error) {
	var deps []types.Dependency
	section := ""
	inDepsArray := false
	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "[") {
			section = strings.Trim(line, "[]")
			inDepsArray = false
			continue
		}
		switch {
		case section == "project":
			if strings.HasPrefix(line, "dependencies") && strings.Contains(line, "[") {
				inDepsArray = true
			}
			if inDepsArray {
				for _, m := range rePEP508Spec.FindAllStringSubmatch(line, -1) {
					deps = append(deps, types.Dependency{
						Name:       strings.ToLower(m[1]),
						Version:    normalizeVersion(m[2]),
						Ecosystem:  EcosystemPyPI,
						SourceFile: filePath,
					})
				}
				if strings.Contains(line, "]") {
					inDepsArray = false
				}
			}
		case strings.HasPrefix(section, "tool.poetry") && strings.Contains(section, "dependencies"):
			m := rePoetryEntry.FindStringSubmatch(line)
			if m == nil || strings.EqualFold(m[1], "python") {
				continue
			}
			version := m[2]
			if version == "" {
				version = m[3]
			}
			deps = append(deps, types.Dependency{
				Name:       strings.ToLower(m[1]),
				Version:    normalizeVersion(version),
				Ecosystem:  EcosystemPyPI,
				SourceFile: filePath,
			})
		}
	}
	return deps, sc.Err()
}
