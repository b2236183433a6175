package catalog

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/logging"
)

// DefaultBaseURL is the public catalog endpoint used when the app config
// does not override it.
const DefaultBaseURL = "https://registry.modelcontextprotocol.io/v0/servers"

// maxPages caps cursor pagination so a misbehaving endpoint cannot loop us
// forever.
const maxPages = 100

// Client fetches catalog pages over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client, for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a catalog client for the given base URL. An empty URL
// selects DefaultBaseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// page is the wire shape of one catalog response page.
type page struct {
	Servers  []Server `json:"servers"`
	Metadata struct {
		NextCursor string `json:"nextCursor"`
	} `json:"metadata"`
}

// FetchAll walks the cursor-paginated catalog and returns the deduplicated
// server list.
func (c *Client) FetchAll(ctx context.Context) ([]Server, error) {
	var all []Server
	cursor := ""

	for i := 0; i < maxPages; i++ {
		p, err := c.fetchPage(ctx, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Servers...)

		if p.Metadata.NextCursor == "" {
			c.logger.Debug("catalog fetch complete", "pages", i+1, "servers", len(all))
			return Dedup(all), nil
		}
		cursor = p.Metadata.NextCursor
	}

	return nil, errors.Newf("catalog pagination exceeded %d pages", maxPages)
}

func (c *Client) fetchPage(ctx context.Context, cursor string) (*page, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing catalog URL")
	}
	if cursor != "" {
		q := u.Query()
		q.Set("cursor", cursor)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "building catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetching catalog page")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("catalog returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, errors.Wrap(err, "reading catalog response")
	}

	var p page
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, errors.Wrap(err, "parsing catalog response")
	}
	return &p, nil
}
