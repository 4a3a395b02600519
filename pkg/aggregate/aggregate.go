// Package aggregate assembles a scored profile from concurrent upstream searches.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/codeGROOVE-dev/peoplesearch/pkg/extract"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/metrics"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/profile"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/upstream"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/verify"
)

// source is a fixed data-source descriptor attached to every profile.
type source struct {
	name        string
	url         string
	reliability float64
}

// descriptors are attached regardless of which upstreams answered.
var descriptors = []source{
	{name: "Google Search", url: "https://google.com", reliability: 0.8},
	{name: "Hunter.io", url: "https://hunter.io", reliability: 0.9},
}

// SourceNames lists the descriptor names in attachment order.
func SourceNames() []string {
	names := make([]string, len(descriptors))
	for i, d := range descriptors {
		names[i] = d.name
	}
	return names
}

// Aggregator fans a query out to searchers and builds one profile.
type Aggregator struct {
	finder    upstream.EmailFinder
	logger    *slog.Logger
	metrics   *metrics.Metrics
	clock     func() time.Time
	searchers []upstream.Searcher
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) { a.logger = logger }
}

// WithClock sets the time source used for timestamps and scoring.
func WithClock(clock func() time.Time) Option {
	return func(a *Aggregator) { a.clock = clock }
}

// WithMetrics records search duration and result counts.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Aggregator) { a.metrics = m }
}

// New creates an Aggregator. finder may be nil to disable email lookup.
func New(searchers []upstream.Searcher, finder upstream.EmailFinder, opts ...Option) *Aggregator {
	a := &Aggregator{
		searchers: searchers,
		finder:    finder,
		logger:    slog.Default(),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate returns at most one profile for query. The only error is
// profile.ErrEmptyQuery; upstream failures shrink the result instead.
func (a *Aggregator) Aggregate(ctx context.Context, query string) (profiles []*profile.Profile, err error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, profile.ErrEmptyQuery
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			a.logger.ErrorContext(ctx, "profile assembly panicked", "query", query, "panic", r)
			profiles, err = []*profile.Profile{}, nil
		}
		a.metrics.ObserveSearch(time.Since(start), len(profiles))
	}()

	outcomes := a.search(ctx, query)

	var hits []upstream.Hit
	answered := false
	for i, out := range outcomes {
		a.logger.DebugContext(ctx, "search outcome",
			"provider", a.searchers[i].Name(), "status", out.Status, "reason", out.Reason, "hits", len(out.Value))
		if out.Answered() {
			answered = true
		}
		if out.Status == upstream.StatusOK {
			hits = append(hits, out.Value...)
		}
	}
	if !answered {
		a.logger.WarnContext(ctx, "no profile assembled", "query", query, "error", profile.ErrNoUpstreamData)
		return []*profile.Profile{}, nil
	}

	p := a.assemble(ctx, query, extract.CleanHits(hits))
	return []*profile.Profile{p}, nil
}

// search runs every searcher concurrently. Goroutines never return an
// error so one failure cannot cancel its siblings.
func (a *Aggregator) search(ctx context.Context, query string) []upstream.Outcome[[]upstream.Hit] {
	outcomes := make([]upstream.Outcome[[]upstream.Hit], len(a.searchers))
	var g errgroup.Group
	for i, s := range a.searchers {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					a.logger.ErrorContext(ctx, "searcher panicked", "provider", s.Name(), "panic", r)
					outcomes[i] = upstream.Failed[[]upstream.Hit](fmt.Errorf("%s: panic: %v", s.Name(), r))
				}
			}()
			outcomes[i] = s.Search(ctx, query)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // goroutines always return nil
	return outcomes
}

func (a *Aggregator) assemble(ctx context.Context, query string, hits []upstream.Hit) *profile.Profile {
	now := a.clock()
	info := extract.ProfessionalInfo(hits)

	p := &profile.Profile{
		ID:               profile.DeriveID(query),
		Name:             profile.NameFromQuery(query),
		SocialProfiles:   extract.SocialProfiles(hits),
		ProfessionalInfo: info,
		DataSources:      dataSources(now),
		LastUpdated:      now,
	}
	if phones := extract.Phones(hits); len(phones) > 0 {
		p.Phone = phones[0]
	}
	if info.Company != "" && a.finder != nil {
		p.Email = a.findEmail(ctx, CompanyDomain(info.Company))
	}

	verify.Apply(p, now)
	a.logger.DebugContext(ctx, "profile assembled",
		"id", p.ID, "score", p.VerificationScore, "level", p.VerificationLevel,
		"signals", verify.Breakdown(p, now))
	return p
}

func (a *Aggregator) findEmail(ctx context.Context, domain string) string {
	out := a.finder.FindEmails(ctx, domain)
	if out.Status != upstream.StatusOK || len(out.Value) == 0 {
		a.logger.DebugContext(ctx, "no email found", "provider", a.finder.Name(), "domain", domain, "outcome", out.String())
		return ""
	}
	return out.Value[0]
}

// CompanyDomain guesses an email domain from a company name by lowercasing
// it and removing all whitespace. "Acme Corp" becomes "acmecorp".
func CompanyDomain(company string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, company)
}

func dataSources(now time.Time) []profile.DataSource {
	out := make([]profile.DataSource, len(descriptors))
	for i, d := range descriptors {
		out[i] = profile.DataSource{Name: d.name, URL: d.url, Reliability: d.reliability, LastChecked: now}
	}
	return out
}
