// Package enrich attaches AI-generated narrative text to aggregated profiles.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codeGROOVE-dev/peoplesearch/pkg/profile"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/upstream"
)

// Fallback texts returned in place of a completion.
const (
	SummaryNotConfigured  = "AI analysis will be available when API key is configured."
	SummaryUnavailable    = "AI analysis temporarily unavailable"
	SummaryEmpty          = "Unable to generate AI summary"
	InsightsNotConfigured = "Verification analysis will be available when API key is configured."
	InsightsUnavailable   = "Verification analysis temporarily unavailable"
	InsightsEmpty         = "Verification analysis unavailable"
)

const summarySystem = "You are an expert profile analyst specializing in people search and verification. " +
	"Provide accurate, professional assessments based on available data."

const summaryTemplate = `
Analyze the following profile data and create a comprehensive, professional summary.
Focus on key insights, credibility indicators, and notable achievements.

Raw Data: %s
Data Sources: %s

Please provide:
1. A professional summary (2-3 sentences)
2. Key credibility indicators
3. Notable achievements or highlights
4. Any red flags or inconsistencies
5. Overall assessment of profile completeness

Format as a structured, professional report suitable for a people search platform.
`

const insightsSystem = "You are a verification expert. " +
	"Provide objective assessments of profile trustworthiness and data quality."

const insightsTemplate = `
Analyze this profile data for verification insights and trust indicators:

%s

Provide:
1. Trust score assessment (0-100)
2. Verification recommendations
3. Data consistency analysis
4. Missing information that would improve verification
5. Risk factors or concerns

Be concise and actionable.
`

// fallbacks maps an outcome status to the text returned instead of a completion.
type fallbacks struct {
	skipped, failed, empty string
}

var (
	summaryFallbacks  = fallbacks{skipped: SummaryNotConfigured, failed: SummaryUnavailable, empty: SummaryEmpty}
	insightsFallbacks = fallbacks{skipped: InsightsNotConfigured, failed: InsightsUnavailable, empty: InsightsEmpty}
)

// Request is one enrichment call.
type Request struct {
	RawData   any      `json:"rawData"`
	ProfileID string   `json:"profileId"`
	Sources   []string `json:"sources"`
}

// Result carries the generated texts.
type Result struct {
	EnrichedAt           time.Time `json:"enrichedAt"`
	ProfileID            string    `json:"profileId"`
	AISummary            string    `json:"aiSummary"`
	VerificationInsights string    `json:"verificationInsights"`
	Sources              []string  `json:"sources"`
}

// Enricher orchestrates completion calls.
type Enricher struct {
	completer upstream.Completer
	logger    *slog.Logger
	clock     func() time.Time
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enricher) { e.logger = logger }
}

// WithClock sets the time source for EnrichedAt.
func WithClock(clock func() time.Time) Option {
	return func(e *Enricher) { e.clock = clock }
}

// New creates an Enricher backed by c.
func New(c upstream.Completer, opts ...Option) *Enricher {
	e := &Enricher{completer: c, logger: slog.Default(), clock: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Summary asks for a narrative report on raw. It always returns text.
func (e *Enricher) Summary(ctx context.Context, raw any, sources []string) string {
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		e.logger.WarnContext(ctx, "cannot serialize profile for summary", "error", err)
		return SummaryUnavailable
	}
	return e.complete(ctx, "summary", summaryFallbacks, upstream.Prompt{
		System:      summarySystem,
		User:        fmt.Sprintf(summaryTemplate, data, strings.Join(sources, ", ")),
		MaxTokens:   1000,
		Temperature: 0.3,
	})
}

// Insights asks for a verification assessment of raw. It always returns text.
func (e *Enricher) Insights(ctx context.Context, raw any) string {
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		e.logger.WarnContext(ctx, "cannot serialize profile for insights", "error", err)
		return InsightsUnavailable
	}
	return e.complete(ctx, "insights", insightsFallbacks, upstream.Prompt{
		System:      insightsSystem,
		User:        fmt.Sprintf(insightsTemplate, data),
		MaxTokens:   500,
		Temperature: 0.2,
	})
}

func (e *Enricher) complete(ctx context.Context, kind string, fb fallbacks, prompt upstream.Prompt) string {
	out := e.completer.Complete(ctx, prompt)
	switch out.Status {
	case upstream.StatusOK:
		return out.Value
	case upstream.StatusSkipped:
		return fb.skipped
	case upstream.StatusEmpty:
		e.logger.InfoContext(ctx, "completion returned no text", "kind", kind, "reason", out.Reason)
		return fb.empty
	default:
		e.logger.WarnContext(ctx, "completion failed", "kind", kind, "provider", e.completer.Name(), "error", out.Err)
		return fb.failed
	}
}

// Enrich produces the summary and insights for req concurrently.
func (e *Enricher) Enrich(ctx context.Context, req Request) Result {
	sources := req.Sources
	if sources == nil {
		sources = []string{}
	}
	res := Result{ProfileID: req.ProfileID, Sources: sources}

	var g errgroup.Group
	g.Go(func() error {
		res.AISummary = e.Summary(ctx, req.RawData, sources)
		return nil
	})
	g.Go(func() error {
		res.VerificationInsights = e.Insights(ctx, req.RawData)
		return nil
	})
	_ = g.Wait() //nolint:errcheck // goroutines always return nil

	res.EnrichedAt = e.clock()
	return res
}

// AttachTo stores summary on p.
func AttachTo(p *profile.Profile, summary string) {
	if p == nil {
		return
	}
	p.AttachSummary(summary)
}
