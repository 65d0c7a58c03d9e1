package scanner

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"repoguard/config"
	"repoguard/fetcher"
	"repoguard/osv"
	"repoguard/types"
	"repoguard/util"
)

var engineLog = util.NewLogger("engine")

// Options tune a repository scan.
type Options struct {
	MaxFiles             int
	ChunkStart           int
	ChunkSize            int
	IncludeLowConfidence bool
}

// Engine runs the detector set over fetched files and post-processes the
// findings. Its collaborators are injected so tests can swap any of them.
type Engine struct {
	fetcher  *fetcher.Fetcher
	scanners []Scanner
	workers  int
}

// NewEngine builds an engine. The fetcher may be nil when only ScanFiles
// will be used.
func NewEngine(f *fetcher.Fetcher, scanners []Scanner, detectorWorkers int) *Engine {
	return &Engine{fetcher: f, scanners: scanners, workers: detectorWorkers}
}

// DefaultScanners is the standard detector set.
func DefaultScanners(settings config.Settings, osvClient *osv.Client) []Scanner {
	return []Scanner{
		NewSecretScanner(settings.EntropyThreshold),
		NewCodePatternScanner(),
		NewConfigScanner(),
		NewCICDScanner(),
		NewDependencyScanner(osvClient),
	}
}

// ScanRepository fetches a repository and runs every detector over it. Fetch
// failures are fatal and come back as an error with a partial result;
// detector failures are isolated and only logged.
func (e *Engine) ScanRepository(ctx context.Context, repoURL string, opts Options) (*types.ScanResult, error) {
	result := types.NewScanResult(repoURL)

	owner, repo, err := fetcher.ParseRepoURL(repoURL)
	if err != nil {
		result.Error = err.Error()
		result.Complete()
		return result, err
	}

	fetched, err := e.fetcher.Fetch(ctx, owner, repo, fetcher.Options{
		MaxFiles:   opts.MaxFiles,
		ChunkStart: opts.ChunkStart,
		ChunkSize:  opts.ChunkSize,
	})
	if err != nil {
		result.Error = err.Error()
		result.Complete()
		return result, err
	}

	if len(fetched.Files) == 0 {
		result.Error = "No scannable files found in repository"
		result.Complete()
		return result, nil
	}

	result.Metadata["repository"] = fetched.Repo
	result.Metadata["branch"] = fetched.Branch
	result.Metadata["scan_details"] = map[string]any{
		"total_matched": fetched.TotalMatched,
		"window_start":  fetched.WindowStart,
		"window_end":    fetched.WindowEnd,
		"truncated":     fetched.Truncated,
		"fetch_errors":  len(fetched.Errors),
	}
	result.Metadata["scan_summary"] = buildScanSummary(fetched)

	e.runPipeline(ctx, fetched.Files, result, opts)
	return result, nil
}

// ScanFiles runs the detectors over files that are already in hand. An
// empty file list yields a clean empty result.
func (e *Engine) ScanFiles(ctx context.Context, files []fetcher.FileInfo, repoURL string) *types.ScanResult {
	if repoURL == "" {
		repoURL = "local"
	}
	result := types.NewScanResult(repoURL)
	if len(files) == 0 {
		result.Complete()
		return result
	}
	e.runPipeline(ctx, files, result, Options{})
	return result
}

func (e *Engine) runPipeline(ctx context.Context, files []fetcher.FileInfo, result *types.ScanResult, opts Options) {
	findings := e.runScanners(ctx, files)
	if !opts.IncludeLowConfidence {
		findings = filterLowConfidence(findings)
	}
	findings = deduplicate(findings)

	result.Add(findings...)
	result.FilesScanned = len(files)
	result.Metadata["coverage"] = e.coverage(files)
	result.Complete()
	engineLog.Infof("scan of %s finished with %d findings across %d files",
		result.RepositoryURL, len(result.Vulnerabilities), result.FilesScanned)
}

// runScanners executes every detector concurrently. A detector that panics
// loses its findings but never takes the scan down with it.
func (e *Engine) runScanners(ctx context.Context, files []fetcher.FileInfo) []types.Vulnerability {
	var mu sync.Mutex
	var findings []types.Vulnerability

	pool := util.NewPool(e.workers)
	for _, sc := range e.scanners {
		sc := sc
		pool.Submit(func() {
			defer func() {
				if r := recover(); r != nil {
					engineLog.Errorf("detector %s failed: %v", sc.Name(), r)
				}
			}()
			if resettable, ok := sc.(Resettable); ok {
				resettable.Reset()
			}
			found := sc.Scan(ctx, files)
			mu.Lock()
			findings = append(findings, found...)
			mu.Unlock()
		})
	}
	pool.Wait()
	return findings
}

// filterLowConfidence keeps HIGH and MEDIUM confidence findings, plus
// anything CRITICAL regardless of confidence.
func filterLowConfidence(findings []types.Vulnerability) []types.Vulnerability {
	kept := findings[:0]
	for _, v := range findings {
		if v.Confidence == types.ConfidenceLow && v.Severity != types.SeverityCritical {
			continue
		}
		kept = append(kept, v)
	}
	return kept
}

// deduplicate collapses findings with the same title, path, line and type,
// keeping the first occurrence.
func deduplicate(findings []types.Vulnerability) []types.Vulnerability {
	seen := map[string]bool{}
	kept := findings[:0]
	for _, v := range findings {
		key := dedupeKey(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, v)
	}
	return kept
}

func (e *Engine) coverage(files []fetcher.FileInfo) map[string]int {
	cov := map[string]int{}
	for _, sc := range e.scanners {
		n := 0
		for _, f := range files {
			if sc.Applicable(f) {
				n++
			}
		}
		cov[sc.Name()] = n
	}
	return cov
}

func buildScanSummary(fetched *fetcher.Result) string {
	counts := map[fetcher.Category]int{}
	for _, f := range fetched.Files {
		counts[f.Category]++
	}
	parts := []string{
		fmt.Sprintf("Scanned %d files (%d dependency, %d config, %d source)",
			len(fetched.Files),
			counts[fetcher.CategoryDependency],
			counts[fetcher.CategoryConfig],
			counts[fetcher.CategorySource]),
		fmt.Sprintf("window [%d,%d) of %d matched files",
			fetched.WindowStart, fetched.WindowEnd, fetched.TotalMatched),
	}
	if fetched.Truncated {
		parts = append(parts, "more files remain beyond this window")
	}
	if n := len(fetched.Errors); n > 0 {
		parts = append(parts, fmt.Sprintf("%d files failed to download", n))
	}
	return strings.Join(parts, " | ")
}
