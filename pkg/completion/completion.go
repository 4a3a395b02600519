// Package completion generates text through the OpenAI chat completions API.
package completion

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/codeGROOVE-dev/peoplesearch/pkg/metrics"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/upstream"
)

const provider = "openai"

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gpt-4"

// placeholderKey is a build-time stand-in that never authenticates.
const placeholderKey = "dummy-key-for-build"

// Config holds OpenAI credentials and model selection.
type Config struct {
	APIKey string
	Model  string
}

// Client handles completion requests.
type Client struct {
	api     openai.Client
	logger  *slog.Logger
	metrics *metrics.Metrics
	model   string
	enabled bool
}

// Option configures a Client.
type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
	baseURL    string
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithBaseURL overrides the API endpoint, e.g. for a compatible gateway.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithMetrics records each call.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// New creates a completion client. A missing or placeholder key yields a
// client whose calls are all skipped.
func New(cfg Config, opts ...Option) (*Client, error) {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	key := strings.TrimSpace(cfg.APIKey)
	reqOpts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithMaxRetries(0),
	}
	if o.baseURL != "" {
		u, err := url.Parse(o.baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}
		if !u.IsAbs() || u.Host == "" {
			return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", o.baseURL)
		}
		reqOpts = append(reqOpts, option.WithBaseURL(o.baseURL))
	}
	if o.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(o.httpClient))
	}

	return &Client{
		api:     openai.NewClient(reqOpts...),
		logger:  o.logger,
		metrics: o.metrics,
		model:   model,
		enabled: Configured(key),
	}, nil
}

// Configured reports whether key can be used to call the API.
func Configured(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != placeholderKey
}

// Name returns the provider label.
func (*Client) Name() string { return provider }

// Complete sends prompt as a system and user message pair.
func (c *Client) Complete(ctx context.Context, prompt upstream.Prompt) upstream.Outcome[string] {
	start := time.Now()
	out := c.complete(ctx, prompt)
	c.metrics.ObserveUpstream(provider, string(out.Status), time.Since(start))
	return out
}

func (c *Client) complete(ctx context.Context, prompt upstream.Prompt) upstream.Outcome[string] {
	if !c.enabled {
		c.logger.DebugContext(ctx, "completion skipped", "reason", "api key not configured")
		return upstream.Skipped[string]("api key not configured")
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if prompt.System != "" {
		messages = append(messages, openai.SystemMessage(prompt.System))
	}
	messages = append(messages, openai.UserMessage(prompt.User))

	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: messages,
	}
	if prompt.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(prompt.MaxTokens)
	}
	if prompt.Temperature > 0 {
		params.Temperature = openai.Float(prompt.Temperature)
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		c.logger.WarnContext(ctx, "completion failed", "provider", provider, "model", c.model, "error", err)
		return upstream.Failed[string](err)
	}
	if len(resp.Choices) == 0 {
		return upstream.Empty[string]("no choices returned")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return upstream.Empty[string]("empty completion")
	}
	return upstream.OK(text)
}
