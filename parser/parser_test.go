package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repoguard/types"
)

func findDep(deps []types.Dependency, name string) *types.Dependency {
	for i := range deps {
		if deps[i].Name == name {
			return &deps[i]
		}
	}
	return nil
}

func TestParseRequirements(t *testing.T) {
	content := `# pinned deps
django==3.2.0
requests>=2.25.0,<3
flask[async]~=2.0.1
-r other.txt
pyyaml  # unpinned comment
celery==5.2.* ; python_version >= "3.8"
`
	deps, err := ParseFile("requirements.txt", content)
	require.NoError(t, err)

	dj := findDep(deps, "django")
	require.NotNil(t, dj)
	assert.Equal(t, "3.2.0", dj.Version)
	assert.Equal(t, EcosystemPyPI, dj.Ecosystem)
	assert.Equal(t, "requirements.txt", dj.SourceFile)

	// first bound of the range
	req := findDep(deps, "requests")
	require.NotNil(t, req)
	assert.Equal(t, "2.25.0", req.Version)

	fl := findDep(deps, "flask")
	require.NotNil(t, fl)
	assert.Equal(t, "2.0.1", fl.Version)

	// unpinned survives with an empty version
	py := findDep(deps, "pyyaml")
	require.NotNil(t, py)
	assert.Equal(t, "", py.Version)

	// wildcard suffix is stripped
	ce := findDep(deps, "celery")
	require.NotNil(t, ce)
	assert.Equal(t, "5.2", ce.Version)

	assert.Nil(t, findDep(deps, "-r"))
}

func TestParsePackageJSON(t *testing.T) {
	content := `{
  "dependencies": {
    "express": "^4.17.1",
    "lodash": "~4.17.21",
    "left-pad": "1.0.0 - 1.3.0",
    "mydep": "git+https://github.com/acme/mydep.git",
    "anything": "*"
  },
  "devDependencies": {
    "jest": ">=27.0.0"
  }
}`
	deps, err := ParseFile("package.json", content)
	require.NoError(t, err)

	ex := findDep(deps, "express")
	require.NotNil(t, ex)
	assert.Equal(t, "4.17.1", ex.Version)
	assert.Equal(t, EcosystemNpm, ex.Ecosystem)

	lp := findDep(deps, "left-pad")
	require.NotNil(t, lp)
	assert.Equal(t, "1.0.0", lp.Version)

	// git specifiers are dropped entirely
	assert.Nil(t, findDep(deps, "mydep"))

	any := findDep(deps, "anything")
	require.NotNil(t, any)
	assert.Equal(t, "", any.Version)

	je := findDep(deps, "jest")
	require.NotNil(t, je)
	assert.Equal(t, "27.0.0", je.Version)
}

func TestParsePackageLockV2(t *testing.T) {
	content := `{
  "lockfileVersion": 2,
  "packages": {
    "": {"name": "app"},
    "node_modules/express": {"version": "4.17.1"},
    "node_modules/@babel/core": {"version": "7.15.0"},
    "node_modules/express/node_modules/qs": {"version": "6.9.6"}
  }
}`
	deps, err := ParseFile("package-lock.json", content)
	require.NoError(t, err)

	assert.NotNil(t, findDep(deps, "express"))
	assert.NotNil(t, findDep(deps, "@babel/core"))
	assert.NotNil(t, findDep(deps, "qs"))
}

func TestParseGoMod(t *testing.T) {
	content := `module example.com/app

go 1.22

require (
	github.com/spf13/cobra v1.9.1
	github.com/sirupsen/logrus v1.9.3 // indirect
)

require github.com/joho/godotenv v1.5.1
`
	deps, err := ParseFile("go.mod", content)
	require.NoError(t, err)
	require.Len(t, deps, 3)

	cb := findDep(deps, "github.com/spf13/cobra")
	require.NotNil(t, cb)
	assert.Equal(t, "1.9.1", cb.Version)
	assert.Equal(t, EcosystemGo, cb.Ecosystem)
	assert.NotNil(t, findDep(deps, "github.com/joho/godotenv"))
}

func TestParsePipfile(t *testing.T) {
	content := `[[source]]
url = "https://pypi.org/simple"

[packages]
requests = "==2.25.1"
django = {version = "~=3.2", extras = ["argon2"]}

[dev-packages]
pytest = "*"
`
	deps, err := ParseFile("Pipfile", content)
	require.NoError(t, err)

	rq := findDep(deps, "requests")
	require.NotNil(t, rq)
	assert.Equal(t, "2.25.1", rq.Version)

	dj := findDep(deps, "django")
	require.NotNil(t, dj)
	assert.Equal(t, "3.2", dj.Version)

	pt := findDep(deps, "pytest")
	require.NotNil(t, pt)
	assert.Equal(t, "", pt.Version)
}

func TestParseCargoToml(t *testing.T) {
	content := `[package]
name = "app"

[dependencies]
serde = "1.0.130"
tokio = { version = "1.12", features = ["full"] }

[dev-dependencies]
criterion = "0.3"
`
	deps, err := ParseFile("Cargo.toml", content)
	require.NoError(t, err)

	sd := findDep(deps, "serde")
	require.NotNil(t, sd)
	assert.Equal(t, "1.0.130", sd.Version)
	assert.Equal(t, EcosystemCrates, sd.Ecosystem)
	assert.NotNil(t, findDep(deps, "tokio"))
	assert.NotNil(t, findDep(deps, "criterion"))
	assert.Nil(t, findDep(deps, "name"))
}

func TestParseGemfile(t *testing.T) {
	content := `source 'https://rubygems.org'

gem 'rails', '6.1.4'
gem 'puma', '~> 5.0'
gem 'redis'
`
	deps, err := ParseFile("Gemfile", content)
	require.NoError(t, err)

	rl := findDep(deps, "rails")
	require.NotNil(t, rl)
	assert.Equal(t, "6.1.4", rl.Version)
	assert.Equal(t, EcosystemRubyGems, rl.Ecosystem)

	pm := findDep(deps, "puma")
	require.NotNil(t, pm)
	assert.Equal(t, "5.0", pm.Version)
}

func TestParseComposerJSON(t *testing.T) {
	content := `{
  "require": {
    "php": ">=7.4",
    "ext-json": "*",
    "laravel/framework": "^8.0"
  }
}`
	deps, err := ParseFile("composer.json", content)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "laravel/framework", deps[0].Name)
	assert.Equal(t, "8.0", deps[0].Version)
	assert.Equal(t, EcosystemPackagist, deps[0].Ecosystem)
}

func TestParsePomXML(t *testing.T) {
	content := `<project>
  <dependencies>
    <dependency>
      <groupId>org.springframework</groupId>
      <artifactId>spring-core</artifactId>
      <version>5.3.9</version>
    </dependency>
    <dependency>
      <groupId>com.acme</groupId>
      <artifactId>lib</artifactId>
      <version>${lib.version}</version>
    </dependency>
  </dependencies>
</project>`
	deps, err := ParseFile("pom.xml", content)
	require.NoError(t, err)
	require.Len(t, deps, 2)

	sp := findDep(deps, "org.springframework:spring-core")
	require.NotNil(t, sp)
	assert.Equal(t, "5.3.9", sp.Version)
	assert.Equal(t, EcosystemMaven, sp.Ecosystem)

	// property placeholders degrade to an empty version
	lib := findDep(deps, "com.acme:lib")
	require.NotNil(t, lib)
	assert.Equal(t, "", lib.Version)
}

func TestParseFileUnsupported(t *testing.T) {
	deps, err := ParseFile("README.md", "# hello")
	assert.NoError(t, err)
	assert.Empty(t, deps)
	assert.False(t, Supported("README.md"))
	assert.True(t, Supported("backend/requirements-dev.txt"))
}

func TestParseFileMalformedJSON(t *testing.T) {
	_, err := ParseFile("package.json", "{not json")
	assert.Error(t, err)
}

func TestNormalizeVersionIdempotent(t *testing.T) {
	inputs := []string{"==1.2.3", "1.2.3", ">=2.0", "~=3.2", "*", "", "latest", "5.2.*", "garbage!!"}
	for _, in := range inputs {
		once := normalizeVersion(in)
		twice := normalizeVersion(once)
		if once != twice {
			t.Errorf("normalizeVersion not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
