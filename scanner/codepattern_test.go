package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repoguard/fetcher"
	"repoguard/types"
)

func TestCodePatternScannerFindsSQLInjection(t *testing.T) {
	s := NewCodePatternScanner()
	content := "def lookup(request, uid):\n" +
		"    cursor.execute(f\"SELECT * FROM users WHERE id = {uid}\")\n"
	found := scanOne(t, s, "app/db.py", content)

	require.NotEmpty(t, found)
	v := found[0]
	assert.Equal(t, "sql_injection", v.VulnerabilityType)
	assert.Equal(t, types.SeverityCritical, v.Severity)
	assert.Equal(t, 2, v.Line)
	assert.Equal(t, "CWE-89", v.CWEID)
}

func TestCodePatternScannerFindsDebugMode(t *testing.T) {
	s := NewCodePatternScanner()
	found := scanOne(t, s, "app/main.py", "app.run(host=\"0.0.0.0\", debug=True)\n")
	require.Len(t, found, 1)
	assert.Equal(t, "debug_mode_enabled", found[0].VulnerabilityType)
}

func TestCodePatternScannerRespectsExtensions(t *testing.T) {
	s := NewCodePatternScanner()
	// a python-only pattern must not fire on javascript
	found := scanOne(t, s, "app/main.js", "pickle.loads(data)\n")
	assert.Empty(t, found)
	assert.False(t, s.Applicable(fetcher.FileInfo{Path: "README.md"}))
	assert.True(t, s.Applicable(fetcher.FileInfo{Path: "src/app.tsx"}))
}

func TestCodePatternScannerSkipsComments(t *testing.T) {
	s := NewCodePatternScanner()
	found := scanOne(t, s, "app/db.py", "# cursor.execute(f\"SELECT * FROM users WHERE id = {uid}\")\n")
	assert.Empty(t, found)
}

func TestCodePatternScannerYAMLExclude(t *testing.T) {
	s := NewCodePatternScanner()
	assert.Empty(t, scanOne(t, s, "app/conf.py", "data = yaml.load(f, Loader=SafeLoader)\n"))
	assert.NotEmpty(t, scanOne(t, s, "app/conf.py", "data = yaml.load(f)\n"))
}

func TestCodePatternScannerTestPathFilter(t *testing.T) {
	s := NewCodePatternScanner()
	// MEDIUM confidence finding in a test path is dropped
	content := "subprocess.run(cmd, shell=True)\n"
	assert.Empty(t, scanOne(t, s, "tests/test_runner.py", content))
	assert.NotEmpty(t, scanOne(t, s, "app/runner.py", content))

	// HIGH confidence survives even in test paths
	fstring := "cursor.execute(f\"SELECT * FROM t WHERE id = {x}\")\n"
	assert.NotEmpty(t, scanOne(t, s, "tests/test_db.py", fstring))
}

func TestCodePatternScannerLineMarkerFilter(t *testing.T) {
	s := NewCodePatternScanner()
	// MEDIUM confidence finding on a line naming test doubles is dropped
	assert.Empty(t, scanOne(t, s, "app/loader.py", "data = pickle.loads(mock_payload)\n"))
	assert.NotEmpty(t, scanOne(t, s, "app/loader.py", "data = pickle.loads(payload)\n"))

	// HIGH confidence survives the marker words
	assert.NotEmpty(t, scanOne(t, s, "app/db.py", "cursor.execute(f\"SELECT * FROM t WHERE id = {mock_id}\")\n"))
}

func TestCodePatternScannerTLSVerifyDisabled(t *testing.T) {
	s := NewCodePatternScanner()
	found := scanOne(t, s, "client.py", "requests.get(url, verify=False)\n")
	require.NotEmpty(t, found)
	assert.Equal(t, "CWE-295", found[0].CWEID)
}
