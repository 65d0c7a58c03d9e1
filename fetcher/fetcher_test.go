package fetcher

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v72/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repoguard/config"
)

func testSettings() config.Settings {
	return config.Settings{
		FetchWorkers:   4,
		MaxFilesToScan: 100,
		ChunkSize:      50,
		MaxFileSize:    1024 * 1024,
	}
}

func newTestFetcher(t *testing.T, handler http.Handler) (*Fetcher, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	client := github.NewClient(ts.Client())
	base, err := url.Parse(ts.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base
	return New(client, testSettings()), ts
}

func TestValidateNotFound(t *testing.T) {
	f, ts := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := f.Validate(context.Background(), "acme", "ghost")
	assert.ErrorIs(t, err, ErrRepoNotFound)
}

func TestValidateAccessDenied(t *testing.T) {
	f, ts := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Forbidden"}`, http.StatusForbidden)
	}))
	defer ts.Close()

	_, err := f.Validate(context.Background(), "acme", "private")
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestFetchPipeline(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widget", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"full_name": "acme/widget", "default_branch": "trunk", "language": "Python", "size": 42}`)
	})
	mux.HandleFunc("/repos/acme/widget/git/trees/trunk", func(w http.ResponseWriter, r *http.Request) {
		// default branch has no tree, forcing the fallback
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	})
	mux.HandleFunc("/repos/acme/widget/git/trees/main", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("recursive"))
		fmt.Fprint(w, `{"sha": "abc", "tree": [
			{"path": "requirements.txt", "type": "blob", "size": 20},
			{"path": "app/views.py", "type": "blob", "size": 30},
			{"path": "app", "type": "tree"},
			{"path": "logo.png", "type": "blob", "size": 10}
		]}`)
	})
	mux.HandleFunc("/repos/acme/widget/contents/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		content := base64.StdEncoding.EncodeToString([]byte("django==3.2.0\n"))
		fmt.Fprintf(w, `{"type": "file", "encoding": "base64", "content": %q}`, content)
	})

	f, ts := newTestFetcher(t, mux)
	defer ts.Close()

	result, err := f.Fetch(context.Background(), "acme", "widget", Options{})
	require.NoError(t, err)

	assert.Equal(t, "main", result.Branch)
	assert.Equal(t, "acme/widget", result.Repo.FullName)
	assert.Equal(t, 2, result.TotalMatched)
	assert.False(t, result.Truncated)
	require.Len(t, result.Files, 2)
	assert.Equal(t, "requirements.txt", result.Files[0].Path)
	assert.Equal(t, CategoryDependency, result.Files[0].Category)
	assert.Equal(t, "django==3.2.0\n", result.Files[0].Content)
}

func TestFetchChunkWindow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widget", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"full_name": "acme/widget", "default_branch": "main"}`)
	})
	mux.HandleFunc("/repos/acme/widget/git/trees/main", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sha": "abc", "tree": [
			{"path": "a.py", "type": "blob", "size": 5},
			{"path": "b.py", "type": "blob", "size": 5},
			{"path": "c.py", "type": "blob", "size": 5},
			{"path": "d.py", "type": "blob", "size": 5}
		]}`)
	})
	mux.HandleFunc("/repos/acme/widget/contents/", func(w http.ResponseWriter, r *http.Request) {
		content := base64.StdEncoding.EncodeToString([]byte("pass\n"))
		fmt.Fprintf(w, `{"type": "file", "encoding": "base64", "content": %q}`, content)
	})

	f, ts := newTestFetcher(t, mux)
	defer ts.Close()

	result, err := f.Fetch(context.Background(), "acme", "widget", Options{ChunkStart: 1, ChunkSize: 2})
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalMatched)
	assert.Equal(t, 1, result.WindowStart)
	assert.Equal(t, 3, result.WindowEnd)
	assert.True(t, result.Truncated)
	require.Len(t, result.Files, 2)
	assert.Equal(t, "b.py", result.Files[0].Path)
	assert.Equal(t, "c.py", result.Files[1].Path)
}

func TestFetchWindowNeverDefersManifests(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widget", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"full_name": "acme/widget", "default_branch": "main"}`)
	})
	mux.HandleFunc("/repos/acme/widget/git/trees/main", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sha": "abc", "tree": [
			{"path": "requirements.txt", "type": "blob", "size": 5},
			{"path": "backend/go.mod", "type": "blob", "size": 5},
			{"path": "frontend/package.json", "type": "blob", "size": 5},
			{"path": "Dockerfile", "type": "blob", "size": 5},
			{"path": ".env", "type": "blob", "size": 5},
			{"path": "a.py", "type": "blob", "size": 5},
			{"path": "b.py", "type": "blob", "size": 5},
			{"path": "c.py", "type": "blob", "size": 5}
		]}`)
	})
	mux.HandleFunc("/repos/acme/widget/contents/", func(w http.ResponseWriter, r *http.Request) {
		content := base64.StdEncoding.EncodeToString([]byte("x\n"))
		fmt.Fprintf(w, `{"type": "file", "encoding": "base64", "content": %q}`, content)
	})

	f, ts := newTestFetcher(t, mux)
	defer ts.Close()

	// caps far below the manifest count still stretch to cover all of them
	result, err := f.Fetch(context.Background(), "acme", "widget", Options{MaxFiles: 1, ChunkSize: 3})
	require.NoError(t, err)

	require.Len(t, result.Files, 5)
	got := map[string]bool{}
	for _, fi := range result.Files {
		got[fi.Path] = true
	}
	for _, p := range []string{"requirements.txt", "backend/go.mod", "frontend/package.json", "Dockerfile", ".env"} {
		assert.True(t, got[p], "manifest %s missing from the window", p)
	}
	assert.Equal(t, 8, result.TotalMatched)
	assert.True(t, result.Truncated)
}

func TestFetchSkipsOversizedFiles(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widget", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"full_name": "acme/widget", "default_branch": "main"}`)
	})
	mux.HandleFunc("/repos/acme/widget/git/trees/main", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sha": "abc", "tree": [
			{"path": "big.py", "type": "blob", "size": 9999999},
			{"path": "small.py", "type": "blob", "size": 5}
		]}`)
	})
	mux.HandleFunc("/repos/acme/widget/contents/", func(w http.ResponseWriter, r *http.Request) {
		content := base64.StdEncoding.EncodeToString([]byte("x = 1\n"))
		fmt.Fprintf(w, `{"type": "file", "encoding": "base64", "content": %q}`, content)
	})

	f, ts := newTestFetcher(t, mux)
	defer ts.Close()

	result, err := f.Fetch(context.Background(), "acme", "widget", Options{})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "small.py", result.Files[0].Path)
}
