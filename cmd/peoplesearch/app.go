package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/codeGROOVE-dev/peoplesearch/pkg/aggregate"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/completion"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/config"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/enrich"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/googlesearch"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/httpcache"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/hunter"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/metrics"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/serpapi"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/upstream"
)

// app holds the process-wide dependencies built from configuration.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	metrics    *metrics.Metrics
	cache      *httpcache.Cache
	httpClient *http.Client
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfgFile, _ := cmd.Flags().GetString("config") //nolint:errcheck // persistent flag always defined
	debug, _ := cmd.Flags().GetBool("debug")      //nolint:errcheck // persistent flag always defined

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel()
	if debug {
		level = slog.LevelDebug
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.Log.Format, level)
	slog.SetDefault(logger)
	if cfg.Source != "" {
		logger.Debug("using config file", "path", cfg.Source)
	}

	a := &app{
		cfg:        cfg,
		logger:     logger,
		metrics:    metrics.New(),
		httpClient: &http.Client{Timeout: cfg.Upstream.Timeout},
	}

	if cfg.Cache.Enabled {
		c, err := httpcache.New(cfg.Cache.TTL, cfg.Cache.Path)
		if err != nil {
			logger.Warn("failed to initialize cache, continuing without cache", "error", err)
		} else {
			a.cache = c
			logger.Debug("upstream cache initialized", "path", cfg.Cache.Path, "ttl", cfg.Cache.TTL.String())
		}
	}
	return a, nil
}

func newLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (a *app) close() {
	if a.cache == nil {
		return
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("failed to close cache", "error", err)
	}
}

// cacher avoids handing clients a typed nil.
func (a *app) cacher() httpcache.Cacher {
	if a.cache == nil {
		return nil
	}
	return a.cache
}

func (a *app) searchers() ([]upstream.Searcher, error) {
	gOpts := []googlesearch.Option{
		googlesearch.WithLogger(a.logger),
		googlesearch.WithHTTPClient(a.httpClient),
		googlesearch.WithHTTPCache(a.cacher()),
		googlesearch.WithPolicy(a.cfg.Policy()),
		googlesearch.WithMetrics(a.metrics),
	}
	if a.cfg.Google.BaseURL != "" {
		gOpts = append(gOpts, googlesearch.WithBaseURL(a.cfg.Google.BaseURL))
	}
	google, err := googlesearch.New(googlesearch.Config{APIKey: a.cfg.Google.APIKey, EngineID: a.cfg.Google.EngineID}, gOpts...)
	if err != nil {
		return nil, fmt.Errorf("google client: %w", err)
	}

	sOpts := []serpapi.Option{
		serpapi.WithLogger(a.logger),
		serpapi.WithHTTPClient(a.httpClient),
		serpapi.WithHTTPCache(a.cacher()),
		serpapi.WithPolicy(a.cfg.Policy()),
		serpapi.WithMetrics(a.metrics),
	}
	if a.cfg.SerpAPI.BaseURL != "" {
		sOpts = append(sOpts, serpapi.WithBaseURL(a.cfg.SerpAPI.BaseURL))
	}
	serp, err := serpapi.New(serpapi.Config{APIKey: a.cfg.SerpAPI.APIKey}, sOpts...)
	if err != nil {
		return nil, fmt.Errorf("serpapi client: %w", err)
	}

	return []upstream.Searcher{google, serp}, nil
}

func (a *app) emailFinder() (*hunter.Client, error) {
	opts := []hunter.Option{
		hunter.WithLogger(a.logger),
		hunter.WithHTTPClient(a.httpClient),
		hunter.WithHTTPCache(a.cacher()),
		hunter.WithPolicy(a.cfg.Policy()),
		hunter.WithMetrics(a.metrics),
	}
	if a.cfg.Hunter.BaseURL != "" {
		opts = append(opts, hunter.WithBaseURL(a.cfg.Hunter.BaseURL))
	}
	c, err := hunter.New(hunter.Config{APIKey: a.cfg.Hunter.APIKey}, opts...)
	if err != nil {
		return nil, fmt.Errorf("hunter client: %w", err)
	}
	return c, nil
}

func (a *app) aggregator(searchers []upstream.Searcher) (*aggregate.Aggregator, error) {
	finder, err := a.emailFinder()
	if err != nil {
		return nil, err
	}
	return aggregate.New(searchers, finder, aggregate.WithLogger(a.logger), aggregate.WithMetrics(a.metrics)), nil
}

func (a *app) enricher() (*enrich.Enricher, error) {
	opts := []completion.Option{
		completion.WithLogger(a.logger),
		completion.WithHTTPClient(a.httpClient),
		completion.WithMetrics(a.metrics),
	}
	if a.cfg.OpenAI.BaseURL != "" {
		opts = append(opts, completion.WithBaseURL(a.cfg.OpenAI.BaseURL))
	}
	c, err := completion.New(completion.Config{APIKey: a.cfg.OpenAI.APIKey, Model: a.cfg.OpenAI.Model}, opts...)
	if err != nil {
		return nil, fmt.Errorf("completion client: %w", err)
	}
	if !completion.Configured(a.cfg.OpenAI.APIKey) {
		a.logger.Info("OPENAI_API_KEY not set; enrichment returns placeholder text")
	}
	return enrich.New(c, enrich.WithLogger(a.logger)), nil
}
