package scanner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repoguard/fetcher"
	"repoguard/osv"
	"repoguard/types"
)

func newOSVTestServer(t *testing.T, body string) (*osv.Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/querybatch", r.URL.Path)
		w.Write([]byte(body))
	}))
	client := osv.NewClient()
	client.BaseURL = ts.URL
	client.HTTPClient = ts.Client()
	return client, ts
}

func TestDependencyScannerEndToEnd(t *testing.T) {
	body := `{"results": [{"vulns": [{
		"id": "GHSA-dep1",
		"summary": "Remote code execution in template rendering",
		"aliases": ["CVE-2024-0001"],
		"severity": [{"type": "CVSS_V3", "score": "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H"}],
		"affected": [{"ranges": [{"type": "ECOSYSTEM", "events": [{"introduced": "0"}, {"fixed": "3.2.5"}]}]}]
	}]}]}`
	client, ts := newOSVTestServer(t, body)
	defer ts.Close()

	s := NewDependencyScanner(client)
	files := []fetcher.FileInfo{{
		Path:     "requirements.txt",
		Content:  "django==3.2.0\n",
		Category: fetcher.CategoryDependency,
	}}
	found := s.Scan(context.Background(), files)

	require.Len(t, found, 1)
	v := found[0]
	assert.Equal(t, "outdated_dependency", v.VulnerabilityType)
	assert.Equal(t, types.SeverityCritical, v.Severity)
	assert.Equal(t, types.ConfidenceHigh, v.Confidence)
	assert.Equal(t, "django", v.PackageName)
	assert.Equal(t, "3.2.0", v.CurrentVersion)
	assert.Equal(t, "3.2.5", v.SuggestedVersion)
	assert.Equal(t, "CVE-2024-0001", v.CVEID)
	assert.Equal(t, "requirements.txt", v.FilePath)
	assert.Contains(t, v.SuggestedFix, "pip install --upgrade django")
	assert.Contains(t, v.RootCause, "3.2.5")
}

func TestDependencyScannerDedupesAcrossManifests(t *testing.T) {
	body := `{"results": [{"vulns": [{"id": "GHSA-dup", "summary": "bad", "database_specific": {"severity": "HIGH"}}]}]}`
	client, ts := newOSVTestServer(t, body)
	defer ts.Close()

	s := NewDependencyScanner(client)
	files := []fetcher.FileInfo{
		{Path: "requirements.txt", Content: "django==3.2.0\n", Category: fetcher.CategoryDependency},
		{Path: "api/requirements.txt", Content: "django==3.2.0\n", Category: fetcher.CategoryDependency},
	}
	found := s.Scan(context.Background(), files)
	// same dependency declared twice queries and reports once
	assert.Len(t, found, 1)
}

func TestDependencyScannerNoDependencies(t *testing.T) {
	client := osv.NewClient()
	s := NewDependencyScanner(client)
	found := s.Scan(context.Background(), []fetcher.FileInfo{
		{Path: "app/views.py", Content: "pass\n", Category: fetcher.CategorySource},
	})
	assert.Empty(t, found)
}

func TestDependencyScannerUnparseableFileIsSkipped(t *testing.T) {
	body := `{"results": [{"vulns": []}]}`
	client, ts := newOSVTestServer(t, body)
	defer ts.Close()

	s := NewDependencyScanner(client)
	files := []fetcher.FileInfo{
		{Path: "package.json", Content: "{broken", Category: fetcher.CategoryDependency},
		{Path: "go.mod", Content: "module x\n\nrequire github.com/a/b v1.0.0\n", Category: fetcher.CategoryDependency},
	}
	found := s.Scan(context.Background(), files)
	assert.Empty(t, found)
}

func TestDependencyScannerApplicability(t *testing.T) {
	s := NewDependencyScanner(osv.NewClient())
	assert.True(t, s.Applicable(fetcher.FileInfo{Path: "requirements.txt"}))
	assert.True(t, s.Applicable(fetcher.FileInfo{Path: "x", Category: fetcher.CategoryDependency}))
	assert.False(t, s.Applicable(fetcher.FileInfo{Path: "main.py", Category: fetcher.CategorySource}))
}
