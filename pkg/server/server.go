// Package server exposes search and enrichment over JSON HTTP endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/codeGROOVE-dev/peoplesearch/pkg/enrich"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/metrics"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/profile"
)

// Searcher assembles profiles for a query.
type Searcher interface {
	Aggregate(ctx context.Context, query string) ([]*profile.Profile, error)
}

// Enricher generates AI text for a raw profile.
type Enricher interface {
	Enrich(ctx context.Context, req enrich.Request) enrich.Result
}

// Server routes HTTP requests to the search and enrichment pipelines.
type Server struct {
	search   Searcher
	enricher Enricher
	engine   *gin.Engine
	logger   *slog.Logger
	metrics  *metrics.Metrics
	clock    func() time.Time
	origins  []string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetrics exposes m at /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithCORSOrigins restricts cross-origin access. Empty or "*" allows all.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithClock sets the time source for placeholder payloads.
func WithClock(clock func() time.Time) Option {
	return func(s *Server) { s.clock = clock }
}

// New creates a Server and registers its routes.
func New(search Searcher, enricher Enricher, opts ...Option) *Server {
	s := &Server{
		search:   search,
		enricher: enricher,
		logger:   slog.Default(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.engine = gin.New()
	s.engine.Use(requestID(), accessLog(s.logger), s.recovery(), cors.New(corsConfig(s.origins)))
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/search", s.handleSearchGet)
	s.engine.POST("/search", s.handleSearchPost)
	s.engine.GET("/enrich", s.handleEnrichGet)
	s.engine.POST("/enrich", s.handleEnrichPost)
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is cancelled, then drains
// in-flight requests for up to grace.
func (s *Server) ListenAndServe(ctx context.Context, addr string, grace time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.InfoContext(ctx, "http server listening", "addr", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.InfoContext(ctx, "http server shutting down", "grace", grace)
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = append(cfg.AllowHeaders, requestIDHeader)
	cfg.ExposeHeaders = []string{requestIDHeader}

	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
