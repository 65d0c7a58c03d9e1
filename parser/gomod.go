package parser

import (
	"bufio"
	"strings"

	"repoguard/types"
)

func parseGoMod(filePath, content string) ([]types.Dependency, error) {
	var deps []types.Dependency
	inRequire := false
	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "require ("):
			inRequire = true
			continue
		case inRequire && line == ")":
			inRequire = false
			continue
		}
		var spec string
		if inRequire {
			spec = line
		} else if strings.HasPrefix(line, "require ") {
			spec = strings.TrimPrefix(line, "require ")
		} else {
			continue
		}
		if i := strings.Index(spec, "//"); i >= 0 {
			spec = strings.TrimSpace(spec[:i])
		}
		fields := strings.Fields(spec)
		if len(fields) != 2 {
			continue
		}
		deps = append(deps, types.Dependency{
			Name:       fields[0],
			Version:    strings.TrimPrefix(fields[1], "v"),
			Ecosystem:  EcosystemGo,
			SourceFile: filePath,
		})
	}
	return deps, sc.Err()
}
