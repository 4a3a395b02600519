// Package hunter finds email addresses published under a domain via the
// Hunter.io domain search API.
package hunter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/peoplesearch/pkg/httpcache"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/metrics"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/upstream"
)

const (
	provider       = "hunter"
	defaultBaseURL = "https://api.hunter.io/v2/domain-search"
	resultLimit    = 10
)

// Config holds Hunter.io credentials.
type Config struct {
	APIKey string
}

// Client handles Hunter.io requests.
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

// New creates a Hunter.io client.
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

type response struct {
	Data struct {
		Domain string `json:"domain"`
		Emails []struct {
			Value      string `json:"value"`
			Type       string `json:"type"`
			Confidence int    `json:"confidence"`
		} `json:"emails"`
	} `json:"data"`
}

// FindEmails returns addresses found under domain.
func (c *Client) FindEmails(ctx context.Context, domain string) upstream.Outcome[[]string] {
	return c.FindPersonEmails(ctx, domain, "", "")
}

// FindPersonEmails narrows the domain search to a named person when first
// or last is non-empty.
func (c *Client) FindPersonEmails(ctx context.Context, domain, first, last string) upstream.Outcome[[]string] {
	start := time.Now()
	out := c.find(ctx, strings.TrimSpace(domain), first, last)
	c.metrics.ObserveUpstream(provider, string(out.Status), time.Since(start))
	return out
}

func (c *Client) find(ctx context.Context, domain, first, last string) upstream.Outcome[[]string] {
	if c.apiKey == "" {
		c.logger.DebugContext(ctx, "hunter lookup skipped", "reason", "api key not configured")
		return upstream.Skipped[[]string]("api key not configured")
	}
	if domain == "" {
		return upstream.Skipped[[]string]("no domain")
	}

	u := *c.baseURL
	q := u.Query()
	q.Set("domain", domain)
	q.Set("api_key", c.apiKey)
	q.Set("limit", strconv.Itoa(resultLimit))
	if first != "" {
		q.Set("first_name", first)
	}
	if last != "" {
		q.Set("last_name", last)
	}
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

	emails := make([]string, 0, len(resp.Data.Emails))
	for _, e := range resp.Data.Emails {
		if v := strings.TrimSpace(e.Value); v != "" {
			emails = append(emails, v)
		}
	}
	if len(emails) == 0 {
		return upstream.Empty[[]string]("no emails for " + domain)
	}
	c.logger.DebugContext(ctx, "hunter lookup complete", "domain", domain, "emails", len(emails))
	return upstream.OK(emails)
}

func (c *Client) fail(ctx context.Context, u *url.URL, err error) upstream.Outcome[[]string] {
	c.logger.WarnContext(ctx, "hunter lookup failed",
		"provider", provider, "url", httpcache.RedactURL(u), "error", err)
	return upstream.Failed[[]string](err)
}
