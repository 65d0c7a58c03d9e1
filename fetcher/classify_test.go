package fetcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		path     string
		want     Category
		selected bool
	}{
		{"requirements.txt", CategoryDependency, true},
		{"backend/requirements-dev.txt", CategoryDependency, true},
		{"package.json", CategoryDependency, true},
		{"go.mod", CategoryDependency, true},
		{"Gemfile", CategoryDependency, true},
		{"settings.py", CategoryConfig, true},
		{".env.production", CategoryConfig, true},
		{"Dockerfile", CategoryConfig, true},
		{"deploy/docker-compose.yml", CategoryConfig, true},
		{".github/workflows/ci.yml", CategoryConfig, true},
		{".gitlab-ci.yml", CategoryConfig, true},
		{"app/views.py", CategorySource, true},
		{"src/index.ts", CategorySource, true},
		{"main.go", CategorySource, true},
		// skips beat everything, even dependency basenames
		{"node_modules/express/package.json", "", false},
		{"vendor/lib/lib.go", "", false},
		{"app/static/bundle.min.js", "", false},
		{"logo.png", "", false},
		{"docs.pdf", "", false},
		{"README.md", "", false},
	}
	for _, tt := range tests {
		got, ok := Categorize(tt.path)
		if ok != tt.selected || got != tt.want {
			t.Errorf("Categorize(%q) = (%q, %v), want (%q, %v)", tt.path, got, ok, tt.want, tt.selected)
		}
	}
}

func TestPrioritizeOrdersByCategory(t *testing.T) {
	paths := []string{
		"src/a.py",
		"requirements.txt",
		"src/b.py",
		"Dockerfile",
		"package.json",
	}
	ordered, categories := Prioritize(paths)

	assert.Equal(t, []string{"requirements.txt", "package.json", "Dockerfile", "src/a.py", "src/b.py"}, ordered)
	assert.Equal(t, CategoryDependency, categories["requirements.txt"])
	assert.Equal(t, CategoryConfig, categories["Dockerfile"])
	assert.Equal(t, CategorySource, categories["src/a.py"])
}

func TestPrioritizeKeepsEveryCandidate(t *testing.T) {
	paths := []string{
		"requirements.txt", "package.json", "go.mod",
		"Dockerfile", ".env",
		"a.py", "b.py", "c.py",
		"logo.png",
	}
	ordered, _ := Prioritize(paths)

	// ignored files drop out, everything scannable stays
	assert.Len(t, ordered, 8)
	assert.NotContains(t, ordered, "logo.png")
	assert.Equal(t, "a.py", ordered[5])
}

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		in        string
		owner     string
		repo      string
		expectErr bool
	}{
		{"https://github.com/acme/widget", "acme", "widget", false},
		{"https://github.com/acme/widget.git", "acme", "widget", false},
		{"https://github.com/acme/widget/", "acme", "widget", false},
		{"github.com/acme/widget", "acme", "widget", false},
		{"git@github.com:acme/widget.git", "acme", "widget", false},
		{"https://gitlab.com/acme/widget", "", "", true},
		{"not a url", "", "", true},
		{"https://github.com/acme", "", "", true},
	}
	for _, tt := range tests {
		owner, repo, err := ParseRepoURL(tt.in)
		if tt.expectErr {
			assert.ErrorIs(t, err, ErrInvalidRepoURL, "input %q", tt.in)
			continue
		}
		assert.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.owner, owner, "input %q", tt.in)
		assert.Equal(t, tt.repo, repo, "input %q", tt.in)
	}
}
