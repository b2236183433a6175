// Package github enriches catalog servers with repository metadata. The
// enrichment is strictly optional: every failure degrades to "unknown" so
// the rest of the system never depends on GitHub being reachable.
package github

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mcpdock/mcpdock/internal/logging"
)

// DefaultBaseURL is the GitHub REST API root.
const DefaultBaseURL = "https://api.github.com"

// maxBodySize caps metadata response bodies (1MB).
const maxBodySize = 1 << 20

// Metadata is the subset of repository fields worth surfacing next to a
// server listing.
type Metadata struct {
	Stars    int    `json:"stargazers_count"`
	Forks    int    `json:"forks_count"`
	Language string `json:"language,omitempty"`
	Archived bool   `json:"archived,omitempty"`
}

// Client fetches repository metadata with an in-memory cache keyed by
// normalized repo URL. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mu    sync.Mutex
	cache map[string]Metadata
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger for fetch failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a metadata client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logging.NewDiscard(),
		cache:      make(map[string]Metadata),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns metadata for a GitHub repository URL, serving from cache when
// possible. The second return is false for non-GitHub URLs and for any
// fetch failure.
func (c *Client) Get(repoURL string) (Metadata, bool) {
	key, ok := repoKey(repoURL)
	if !ok {
		return Metadata{}, false
	}

	c.mu.Lock()
	if m, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return m, true
	}
	c.mu.Unlock()

	return c.fetchAndCache(key)
}

// Refresh bypasses the cache and re-fetches the repository's metadata,
// replacing the cached value on success.
func (c *Client) Refresh(repoURL string) (Metadata, bool) {
	key, ok := repoKey(repoURL)
	if !ok {
		return Metadata{}, false
	}
	return c.fetchAndCache(key)
}

// Invalidate drops the cached entry for a repository URL.
func (c *Client) Invalidate(repoURL string) {
	key, ok := repoKey(repoURL)
	if !ok {
		return
	}
	c.mu.Lock()
	delete(c.cache, key)
	c.mu.Unlock()
}

// InvalidateAll drops the whole cache.
func (c *Client) InvalidateAll() {
	c.mu.Lock()
	c.cache = make(map[string]Metadata)
	c.mu.Unlock()
}

func (c *Client) fetchAndCache(key string) (Metadata, bool) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/repos/"+key, nil)
	if err != nil {
		return Metadata{}, false
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("metadata fetch failed", "repo", key, "error", err)
		return Metadata{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("metadata fetch rejected", "repo", key, "status", resp.StatusCode)
		return Metadata{}, false
	}

	var m Metadata
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&m); err != nil {
		c.logger.Debug("metadata decode failed", "repo", key, "error", err)
		return Metadata{}, false
	}

	c.mu.Lock()
	c.cache[key] = m
	c.mu.Unlock()
	return m, true
}

// repoKey extracts "owner/repo" from a GitHub repository URL. Returns
// false for anything that is not a two-segment github.com path.
func repoKey(repoURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(repoURL))
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Host)
	if host != "github.com" && host != "www.github.com" {
		return "", false
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", false
	}
	repo := strings.TrimSuffix(parts[1], ".git")
	return parts[0] + "/" + repo, true
}
