// Package googlesearch queries the Google Custom Search JSON API.
package googlesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/codeGROOVE-dev/peoplesearch/pkg/httpcache"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/metrics"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/upstream"
)

const (
	provider       = "google"
	defaultBaseURL = "https://www.googleapis.com/customsearch/v1"
	resultCount    = 10
)

// Config holds the credentials for a custom search engine.
type Config struct {
	APIKey   string
	EngineID string
}

// Client handles Custom Search requests.
type Client struct {
	httpClient *http.Client
	cache      httpcache.Cacher
	logger     *slog.Logger
	metrics    *metrics.Metrics
	baseURL    *url.URL
	policy     httpcache.Policy
	apiKey     string
	engineID   string
}

// Option configures a Client.
type Option func(*options)

type options struct {
	httpClient *http.Client
	cache      httpcache.Cacher
	logger     *slog.Logger
	metrics    *metrics.Metrics
	baseURL    string
	policy     httpcache.Policy
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithHTTPCache sets the response cache.
func WithHTTPCache(cache httpcache.Cacher) Option {
	return func(o *options) { o.cache = cache }
}

// WithPolicy sets the retry policy.
func WithPolicy(p httpcache.Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithMetrics records each call.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// New creates a Custom Search client.
func New(cfg Config, opts ...Option) (*Client, error) {
	o := &options{
		httpClient: &http.Client{},
		logger:     slog.Default(),
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(o)
	}

	base, err := url.Parse(o.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	return &Client{
		httpClient: o.httpClient,
		cache:      o.cache,
		logger:     o.logger,
		metrics:    o.metrics,
		baseURL:    base,
		policy:     o.policy,
		apiKey:     cfg.APIKey,
		engineID:   cfg.EngineID,
	}, nil
}

// Name returns the provider label.
func (*Client) Name() string { return provider }

type response struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// Search runs query against the configured engine.
func (c *Client) Search(ctx context.Context, query string) upstream.Outcome[[]upstream.Hit] {
	start := time.Now()
	out := c.search(ctx, query)
	c.metrics.ObserveUpstream(provider, string(out.Status), time.Since(start))
	return out
}

func (c *Client) search(ctx context.Context, query string) upstream.Outcome[[]upstream.Hit] {
	if c.apiKey == "" || c.engineID == "" {
		c.logger.DebugContext(ctx, "google search skipped", "reason", "credentials not configured")
		return upstream.Skipped[[]upstream.Hit]("credentials not configured")
	}

	u := *c.baseURL
	q := u.Query()
	q.Set("key", c.apiKey)
	q.Set("cx", c.engineID)
	q.Set("q", query)
	q.Set("num", strconv.Itoa(resultCount))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return c.fail(ctx, &u, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("User-Agent", httpcache.UserAgent)
	req.Header.Set("Accept", "application/json")

	body, err := httpcache.FetchURL(ctx, c.cache, c.httpClient, req, c.logger, c.policy)
	if err != nil {
		return c.fail(ctx, &u, err)
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return c.fail(ctx, &u, fmt.Errorf("decode response: %w", err))
	}
	if len(resp.Items) == 0 {
		return upstream.Empty[[]upstream.Hit]("no results")
	}

	hits := make([]upstream.Hit, 0, len(resp.Items))
	for _, item := range resp.Items {
		hits = append(hits, upstream.Hit{Title: item.Title, Link: item.Link, Snippet: item.Snippet})
	}
	c.logger.DebugContext(ctx, "google search complete", "hits", len(hits))
	return upstream.OK(hits)
}

func (c *Client) fail(ctx context.Context, u *url.URL, err error) upstream.Outcome[[]upstream.Hit] {
	c.logger.WarnContext(ctx, "google search failed",
		"provider", provider, "url", httpcache.RedactURL(u), "error", err)
	return upstream.Failed[[]upstream.Hit](err)
}
