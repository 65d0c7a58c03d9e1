// Package fetcher lists and downloads the scannable files of a GitHub
// repository through the REST API, without cloning.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/google/go-github/v72/github"
	"golang.org/x/oauth2"

	"repoguard/config"
	"repoguard/util"
)

var log = util.NewLogger("fetcher")

var (
	ErrInvalidRepoURL  = errors.New("not a recognizable GitHub repository URL")
	ErrRepoNotFound    = errors.New("repository not found")
	ErrAccessDenied    = errors.New("access to repository denied")
	ErrRateLimited     = errors.New("GitHub API rate limit exceeded")
	ErrTreeUnavailable = errors.New("repository tree could not be listed")
)

const (
	validateTimeout = 10 * time.Second
	treeTimeout     = 30 * time.Second
	blobTimeout     = 20 * time.Second
)

var (
	reHTTPSRepoURL = regexp.MustCompile(`^(?:https?://)?(?:www\.)?github\.com/([^/\s]+)/([^/\s]+?)(?:\.git)?/?$`)
	reSSHRepoURL   = regexp.MustCompile(`^git@github\.com:([^/\s]+)/([^/\s]+?)(?:\.git)?$`)
)

// branchFallbacks are tried in order when the default branch has no tree.
var branchFallbacks = []string{"main", "master", "develop"}

// ParseRepoURL extracts owner and repository name from an https or ssh
// GitHub URL.
func ParseRepoURL(repoURL string) (owner, repo string, err error) {
	for _, re := range []*regexp.Regexp{reHTTPSRepoURL, reSSHRepoURL} {
		if m := re.FindStringSubmatch(repoURL); m != nil {
			return m[1], m[2], nil
		}
	}
	return "", "", fmt.Errorf("%w: %q", ErrInvalidRepoURL, repoURL)
}

// RepoInfo is the repository metadata a scan records.
type RepoInfo struct {
	Owner         string `json:"owner"`
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	Language      string `json:"language,omitempty"`
	Private       bool   `json:"private"`
	SizeKB        int    `json:"size_kb"`
}

// Result is the output of one fetch: the downloaded files plus enough
// bookkeeping for the orchestrator to report coverage.
type Result struct {
	Repo         RepoInfo
	Branch       string
	Files        []FileInfo
	TotalMatched int
	WindowStart  int
	WindowEnd    int
	Truncated    bool
	Errors       []string
}

// Options tune one fetch. Zero values fall back to the configured defaults.
type Options struct {
	MaxFiles   int
	ChunkStart int
	ChunkSize  int
}

// Fetcher downloads repository content through an injected GitHub client.
type Fetcher struct {
	client   *github.Client
	settings config.Settings
}

// New builds a fetcher around an existing client, which tests point at a
// local server.
func New(client *github.Client, settings config.Settings) *Fetcher {
	return &Fetcher{client: client, settings: settings}
}

// NewGitHubClient builds an authenticated API client. An empty token gives
// an anonymous client with the lower rate limit.
func NewGitHubClient(ctx context.Context, token string) *github.Client {
	if token == "" {
		return github.NewClient(nil)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return github.NewClient(oauth2.NewClient(ctx, ts))
}

// Validate confirms the repository exists and is readable, returning its
// metadata.
func (f *Fetcher) Validate(ctx context.Context, owner, repo string) (RepoInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, validateTimeout)
	defer cancel()

	r, resp, err := f.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return RepoInfo{}, classifyAPIError(err, resp, owner+"/"+repo)
	}
	return RepoInfo{
		Owner:         owner,
		Name:          repo,
		FullName:      r.GetFullName(),
		DefaultBranch: r.GetDefaultBranch(),
		Language:      r.GetLanguage(),
		Private:       r.GetPrivate(),
		SizeKB:        r.GetSize(),
	}, nil
}

// Fetch runs the whole pipeline: validate, list the tree, classify and
// prioritize paths, then download the chunk window in parallel.
func (f *Fetcher) Fetch(ctx context.Context, owner, repo string, opts Options) (*Result, error) {
	info, err := f.Validate(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	branch, entries, err := f.listTree(ctx, owner, repo, info.DefaultBranch)
	if err != nil {
		return nil, err
	}
	log.Infof("listed %d tree entries on branch %s of %s", len(entries), branch, info.FullName)

	sizes := make(map[string]int, len(entries))
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.GetType() != "blob" {
			continue
		}
		paths = append(paths, e.GetPath())
		sizes[e.GetPath()] = e.GetSize()
	}

	maxFiles := opts.MaxFiles
	if maxFiles <= 0 {
		maxFiles = f.settings.MaxFilesToScan
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = f.settings.ChunkSize
	}

	ordered, categories := Prioritize(paths)

	// Both caps stretch so dependency and config files are never deferred
	// to a later chunk; only source files compete for the remaining slots.
	depConfig := 0
	for _, p := range ordered {
		if categories[p] != CategorySource {
			depConfig++
		}
	}
	limit := maxFiles
	if limit < depConfig {
		limit = depConfig
	}
	if limit > len(ordered) {
		limit = len(ordered)
	}
	windowSize := chunkSize
	if windowSize < depConfig {
		windowSize = depConfig
	}

	start := opts.ChunkStart
	if start > limit {
		start = limit
	}
	end := start + windowSize
	if end > limit {
		end = limit
	}
	window := ordered[start:end]

	result := &Result{
		Repo:         info,
		Branch:       branch,
		TotalMatched: len(ordered),
		WindowStart:  start,
		WindowEnd:    end,
		Truncated:    end < len(ordered),
	}

	var mu sync.Mutex
	files := make([]*FileInfo, len(window))
	pool := util.NewPool(f.settings.FetchWorkers)
	for i, p := range window {
		if sizes[p] > f.settings.MaxFileSize {
			log.Debugf("skipping %s: %d bytes over the size cap", p, sizes[p])
			continue
		}
		i, p := i, p
		pool.Submit(func() {
			content, err := f.fetchBlob(ctx, owner, repo, p, branch)
			if err != nil {
				mu.Lock()
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", p, err))
				mu.Unlock()
				return
			}
			files[i] = &FileInfo{
				Path:     p,
				Content:  content,
				Size:     len(content),
				Category: categories[p],
			}
		})
	}
	pool.Wait()

	for _, fi := range files {
		if fi != nil {
			result.Files = append(result.Files, *fi)
		}
	}
	log.Infof("fetched %d of %d files in window [%d,%d)", len(result.Files), len(window), start, end)
	return result, nil
}

func (f *Fetcher) listTree(ctx context.Context, owner, repo, defaultBranch string) (string, []*github.TreeEntry, error) {
	candidates := []string{defaultBranch}
	for _, b := range branchFallbacks {
		if b != defaultBranch {
			candidates = append(candidates, b)
		}
	}

	var lastErr error
	for _, branch := range candidates {
		if branch == "" {
			continue
		}
		treeCtx, cancel := context.WithTimeout(ctx, treeTimeout)
		tree, resp, err := f.client.Git.GetTree(treeCtx, owner, repo, branch, true)
		cancel()
		if err == nil {
			return branch, tree.Entries, nil
		}
		lastErr = err
		if classified := classifyAPIError(err, resp, owner+"/"+repo); errors.Is(classified, ErrRateLimited) || errors.Is(classified, ErrAccessDenied) {
			return "", nil, classified
		}
		log.Debugf("no tree on branch %s: %v", branch, err)
	}
	return "", nil, fmt.Errorf("%w: %v", ErrTreeUnavailable, lastErr)
}

func (f *Fetcher) fetchBlob(ctx context.Context, owner, repo, path, branch string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, blobTimeout)
	defer cancel()

	fileContent, _, _, err := f.client.Repositories.GetContents(ctx, owner, repo, path,
		&github.RepositoryContentGetOptions{Ref: branch})
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", path, err)
	}
	if fileContent == nil {
		return "", fmt.Errorf("%s is not a file", path)
	}
	content, err := fileContent.GetContent()
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}
	return content, nil
}

func classifyAPIError(err error, resp *github.Response, repo string) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w (resets %s)", ErrRateLimited, rateErr.Rate.Reset.Format(time.Kitchen))
	}
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrRepoNotFound, repo)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrAccessDenied, repo)
		}
	}
	return fmt.Errorf("querying %s: %w", repo, err)
}
