// Package osv queries the Open Source Vulnerabilities database for known
// advisories affecting declared dependencies.
package osv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"repoguard/config"
	"repoguard/types"
	"repoguard/util"
)

const (
	defaultBatchSize = 100
	queryTimeout     = 30 * time.Second
	batchTimeout     = 60 * time.Second
)

var log = util.NewLogger("osv")

// Client talks to the OSV HTTP API. Tests point BaseURL at a local server.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	BatchSize  int
}

// NewClient returns a client against the public OSV API.
func NewClient() *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: batchTimeout},
		BaseURL:    config.OSVApiBaseUrl,
		BatchSize:  defaultBatchSize,
	}
}

type osvPackage struct {
	Name      string `json:"name"`
	Ecosystem string `json:"ecosystem"`
}

type osvQuery struct {
	Version string     `json:"version,omitempty"`
	Package osvPackage `json:"package"`
}

type osvBatchRequest struct {
	Queries []osvQuery `json:"queries"`
}

type osvBatchResponse struct {
	Results []struct {
		Vulns []osvVuln `json:"vulns"`
	} `json:"results"`
}

type osvQueryResponse struct {
	Vulns []osvVuln `json:"vulns"`
}

type osvSeverity struct {
	Type  string `json:"type"`
	Score string `json:"score"`
}

type osvEvent struct {
	Introduced string `json:"introduced,omitempty"`
	Fixed      string `json:"fixed,omitempty"`
}

type osvRange struct {
	Type   string     `json:"type"`
	Events []osvEvent `json:"events"`
}

type osvAffected struct {
	Ranges []osvRange `json:"ranges"`
}

type osvReference struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type osvVuln struct {
	ID               string          `json:"id"`
	Summary          string          `json:"summary"`
	Details          string          `json:"details"`
	Aliases          []string        `json:"aliases"`
	Severity         []osvSeverity   `json:"severity"`
	Affected         []osvAffected   `json:"affected"`
	References       []osvReference  `json:"references"`
	DatabaseSpecific json.RawMessage `json:"database_specific"`
}

// Query returns advisories for a single dependency.
func (c *Client) Query(ctx context.Context, dep types.Dependency) ([]types.Advisory, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var resp osvQueryResponse
	if err := c.post(ctx, "/query", queryFor(dep), &resp); err != nil {
		return nil, fmt.Errorf("querying %s: %w", dep.Identifier(), err)
	}
	return normalizeAll(resp.Vulns), nil
}

// QueryBatch resolves advisories for all dependencies, chunked to the API's
// batch limit. A failed batch yields empty advisory lists for its
// dependencies rather than failing the scan; the error is logged and the
// remaining batches still run. The result maps Dependency.Identifier() to
// the advisories found for it.
func (c *Client) QueryBatch(ctx context.Context, deps []types.Dependency) map[string][]types.Advisory {
	out := make(map[string][]types.Advisory, len(deps))
	size := c.BatchSize
	if size <= 0 {
		size = defaultBatchSize
	}
	for start := 0; start < len(deps); start += size {
		end := start + size
		if end > len(deps) {
			end = len(deps)
		}
		batch := deps[start:end]
		results, err := c.queryOneBatch(ctx, batch)
		if err != nil {
			log.WithError(err).Warnf("batch of %d dependency queries failed, continuing", len(batch))
			for _, d := range batch {
				out[d.Identifier()] = nil
			}
			continue
		}
		for i, d := range batch {
			if i < len(results) {
				out[d.Identifier()] = results[i]
			} else {
				out[d.Identifier()] = nil
			}
		}
	}
	return out
}

func (c *Client) queryOneBatch(ctx context.Context, deps []types.Dependency) ([][]types.Advisory, error) {
	ctx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	req := osvBatchRequest{Queries: make([]osvQuery, len(deps))}
	for i, d := range deps {
		req.Queries[i] = queryFor(d)
	}
	var resp osvBatchResponse
	if err := c.post(ctx, "/querybatch", req, &resp); err != nil {
		return nil, err
	}
	results := make([][]types.Advisory, len(resp.Results))
	for i, r := range resp.Results {
		results[i] = normalizeAll(r.Vulns)
	}
	return results, nil
}

func queryFor(d types.Dependency) osvQuery {
	return osvQuery{
		Version: d.Version,
		Package: osvPackage{Name: d.Name, Ecosystem: d.Ecosystem},
	}
}

func (c *Client) post(ctx context.Context, path string, body any, into any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling OSV API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("OSV API returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
