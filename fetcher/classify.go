package fetcher

import (
	"path"
	"strings"
)

// Category says why a repository file was selected for scanning.
type Category string

const (
	CategoryDependency Category = "dependency"
	CategoryConfig     Category = "config"
	CategorySource     Category = "source"
)

// FileInfo is one fetched repository file.
type FileInfo struct {
	Path     string   `json:"path"`
	Content  string   `json:"-"`
	Size     int      `json:"size"`
	Category Category `json:"category"`
}

var skipPathParts = []string{
	"node_modules/", "vendor/", "bower_components/", ".git/", "dist/",
	"build/", "out/", "__pycache__/", ".venv/", "venv/", "env/", ".tox/",
	".idea/", ".vscode/", "coverage/", ".pytest_cache/", ".mypy_cache/",
	"static/", "media/", "fixtures/", "test_data/", "testdata/",
}

var skipSuffixes = []string{
	".min.js", ".min.css", ".map", ".pyc", ".class", ".o", ".a",
	".png", ".jpg", ".jpeg", ".gif", ".ico", ".svg", ".pdf",
	".zip", ".tar", ".gz", ".tgz", ".rar", ".7z",
	".exe", ".dll", ".so", ".dylib", ".bin",
	".woff", ".woff2", ".ttf", ".eot", ".otf",
	".mp3", ".mp4", ".avi", ".mov", ".webm",
}

var dependencyBasenames = map[string]bool{
	"pipfile": true, "pipfile.lock": true, "pyproject.toml": true,
	"poetry.lock": true, "setup.py": true,
	"package.json": true, "package-lock.json": true, "yarn.lock": true,
	"pnpm-lock.yaml": true,
	"go.mod": true, "go.sum": true,
	"cargo.toml": true, "cargo.lock": true,
	"gemfile": true, "gemfile.lock": true,
	"composer.json": true, "composer.lock": true,
	"pom.xml": true, "build.gradle": true, "build.gradle.kts": true,
	"mix.exs": true, "pubspec.yaml": true, "packages.config": true,
}

var configPathParts = []string{
	".github/workflows/", ".circleci/", "k8s/", "kubernetes/", "helm/",
}

var configBasenamePrefixes = []string{
	".env", "dockerfile", "docker-compose", ".eslintrc",
	"webpack.config", "vite.config", "next.config", "jest.config",
	"nginx", "httpd", "apache",
}

var configBasenames = map[string]bool{
	".gitlab-ci.yml": true, "jenkinsfile": true, ".travis.yml": true,
	"azure-pipelines.yml": true, "bitbucket-pipelines.yml": true,
	"settings.py": true, "tsconfig.json": true, ".babelrc": true,
	"config.py": true, "config.json": true, "config.yaml": true,
	"config.yml": true, "config.toml": true,
}

var sourceExtensions = map[string]bool{
	".py": true, ".js": true, ".ts": true, ".jsx": true, ".tsx": true,
	".java": true, ".go": true, ".rb": true, ".php": true,
	".c": true, ".cpp": true, ".h": true, ".hpp": true, ".cs": true,
	".swift": true, ".kt": true, ".scala": true, ".rs": true,
	".sh": true, ".bash": true, ".pl": true, ".lua": true,
	".sql": true, ".html": true, ".vue": true,
}

// Categorize classifies a repository path, checking skips first so a
// package.json buried in node_modules never wins its dependency slot.
// The second return is false for files the scan ignores entirely.
func Categorize(filePath string) (Category, bool) {
	lower := strings.ToLower(filePath)
	for _, part := range skipPathParts {
		if strings.HasPrefix(lower, part) || strings.Contains(lower, "/"+part) {
			return "", false
		}
	}
	for _, suffix := range skipSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return "", false
		}
	}

	base := path.Base(lower)
	if dependencyBasenames[base] || (strings.HasPrefix(base, "requirements") && strings.HasSuffix(base, ".txt")) {
		return CategoryDependency, true
	}

	for _, part := range configPathParts {
		if strings.HasPrefix(lower, part) || strings.Contains(lower, "/"+part) {
			if strings.HasSuffix(base, ".yml") || strings.HasSuffix(base, ".yaml") || part == ".circleci/" {
				return CategoryConfig, true
			}
		}
	}
	if configBasenames[base] {
		return CategoryConfig, true
	}
	for _, prefix := range configBasenamePrefixes {
		if strings.HasPrefix(base, prefix) {
			return CategoryConfig, true
		}
	}

	if sourceExtensions[path.Ext(base)] {
		return CategorySource, true
	}
	return "", false
}

// Prioritize orders candidate paths for scanning: every dependency file,
// then every config file, then source files. Nothing is dropped here; the
// fetcher applies its caps when it slices the chunk window.
func Prioritize(paths []string) ([]string, map[string]Category) {
	categories := make(map[string]Category, len(paths))
	var deps, configs, sources []string
	for _, p := range paths {
		cat, ok := Categorize(p)
		if !ok {
			continue
		}
		categories[p] = cat
		switch cat {
		case CategoryDependency:
			deps = append(deps, p)
		case CategoryConfig:
			configs = append(configs, p)
		default:
			sources = append(sources, p)
		}
	}

	ordered := make([]string, 0, len(deps)+len(configs)+len(sources))
	ordered = append(ordered, deps...)
	ordered = append(ordered, configs...)
	ordered = append(ordered, sources...)
	return ordered, categories
}
