// Package serpapi queries SerpAPI's Google engine.
package serpapi

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
	provider       = "serpapi"
	defaultBaseURL = "https://serpapi.com/search"
	engine         = "google"
	resultCount    = 10
)

// Config holds SerpAPI credentials.
type Config struct {
	APIKey string
}

// Client handles SerpAPI requests.
type Client struct {
	httpClient *http.Client
	cache      httpcache.Cacher
	logger     *slog.Logger
	metrics    *metrics.Metrics
	baseURL    *url.URL
	policy     httpcache.Policy
	apiKey     string
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

// New creates a SerpAPI client.
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
	}, nil
}

// Name returns the provider label.
func (*Client) Name() string { return provider }

type organicResult struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
}

type response struct {
	Error          string          `json:"error"`
	OrganicResults []organicResult `json:"organic_results"`
}

// Search runs query through the Google engine.
func (c *Client) Search(ctx context.Context, query string) upstream.Outcome[[]upstream.Hit] {
	start := time.Now()
	out := c.search(ctx, query)
	c.metrics.ObserveUpstream(provider, string(out.Status), time.Since(start))
	return out
}

func (c *Client) search(ctx context.Context, query string) upstream.Outcome[[]upstream.Hit] {
	if c.apiKey == "" {
		c.logger.DebugContext(ctx, "serpapi search skipped", "reason", "api key not configured")
		return upstream.Skipped[[]upstream.Hit]("api key not configured")
	}

	u := *c.baseURL
	q := u.Query()
	q.Set("api_key", c.apiKey)
	q.Set("q", query)
	q.Set("engine", engine)
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
	// SerpAPI reports "no results" through the error field with a 200.
	if len(resp.OrganicResults) == 0 {
		reason := "no results"
		if resp.Error != "" {
			reason = resp.Error
		}
		return upstream.Empty[[]upstream.Hit](reason)
	}

	hits := make([]upstream.Hit, 0, len(resp.OrganicResults))
	for _, r := range resp.OrganicResults {
		if r.Link == "" {
			continue
		}
		hits = append(hits, upstream.Hit{Title: r.Title, Link: r.Link, Snippet: r.Snippet})
	}
	c.logger.DebugContext(ctx, "serpapi search complete", "hits", len(hits))
	return upstream.OK(hits)
}

func (c *Client) fail(ctx context.Context, u *url.URL, err error) upstream.Outcome[[]upstream.Hit] {
	c.logger.WarnContext(ctx, "serpapi search failed",
		"provider", provider, "url", httpcache.RedactURL(u), "error", err)
	return upstream.Failed[[]upstream.Hit](err)
}
