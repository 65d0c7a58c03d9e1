package parser

import (
	"bufio"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"repoguard/types"
)

var (
	reCargoEntry   = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9_\-]*)\s*=\s*(?:"([^"]*)"|\{.*version\s*=\s*"([^"]*)")`)
	reGemfileEntry = regexp.MustCompile(`^\s*gem\s+['"]([^'"]+)['"]\s*(?:,\s*['"]([^'"]+)['"])?`)
	rePomDep       = regexp.MustCompile(`(?s)<dependency>(.*?)</dependency>`)
	rePomGroup     = regexp.MustCompile(`<groupId>\s*([^<]+?)\s*</groupId>`)
	rePomArtifact  = regexp.MustCompile(`<artifactId>\s*([^<]+?)\s*</artifactId>`)
	rePomVersion   = regexp.MustCompile(`<version>\s*([^<]+?)\s*</version>`)
)

func parseCargoToml(filePath, content string) ([]types.Dependency, error) {
	var deps []types.Dependency
	section := ""
	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "[") {
			section = strings.Trim(line, "[]")
			continue
		}
		if !strings.HasSuffix(section, "dependencies") {
			continue
		}
		m := reCargoEntry.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		version := m[2]
		if version == "" {
			version = m[3]
		}
		deps = append(deps, types.Dependency{
			Name:       m[1],
			Version:    normalizeVersion(version),
			Ecosystem:  EcosystemCrates,
			SourceFile: filePath,
		})
	}
	return deps, sc.Err()
}

func parseGemfile(filePath, content string) ([]types.Dependency, error) {
	var deps []types.Dependency
	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		m := reGemfileEntry.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		version := strings.TrimSpace(strings.TrimPrefix(m[2], "~>"))
		deps = append(deps, types.Dependency{
			Name:       m[1],
			Version:    normalizeVersion(version),
			Ecosystem:  EcosystemRubyGems,
			SourceFile: filePath,
		})
	}
	return deps, sc.Err()
}

func parseComposerJSON(filePath, content string) ([]types.Dependency, error) {
	var manifest struct {
		Require    map[string]string `json:"require"`
		RequireDev map[string]string `json:"require-dev"`
	}
	if err := json.Unmarshal([]byte(content), &manifest); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}
	var deps []types.Dependency
	for _, section := range []map[string]string{manifest.Require, manifest.RequireDev} {
		for name, spec := range section {
			// Platform requirements are not packages.
			if name == "php" || strings.HasPrefix(name, "ext-") || strings.HasPrefix(name, "lib-") {
				continue
			}
			deps = append(deps, types.Dependency{
				Name:       name,
				Version:    normalizeVersion(spec),
				Ecosystem:  EcosystemPackagist,
				SourceFile: filePath,
			})
		}
	}
	return deps, nil
}

func parsePomXML(filePath, content string) ([]types.Dependency, error) {
	var deps []types.Dependency
	for _, block := range rePomDep.FindAllStringSubmatch(content, -1) {
		group := rePomGroup.FindStringSubmatch(block[1])
		artifact := rePomArtifact.FindStringSubmatch(block[1])
		version := rePomVersion.FindStringSubmatch(block[1])
		if group == nil || artifact == nil {
			continue
		}
		v := ""
		if version != nil {
			v = version[1]
		}
		// Property placeholders resolve at build time, not here.
		if strings.Contains(v, "${") {
			v = ""
		}
		deps = append(deps, types.Dependency{
			Name:       group[1] + ":" + artifact[1],
			Version:    v,
			Ecosystem:  EcosystemMaven,
			SourceFile: filePath,
		})
	}
	return deps, nil
}
