package aggregate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/codeGROOVE-dev/peoplesearch/pkg/fixture"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/profile"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/upstream"
)

var fixedNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func TestAggregateEmptyQuery(t *testing.T) {
	a := New(nil, nil)
	for _, q := range []string{"", "   \t"} {
		profiles, err := a.Aggregate(context.Background(), q)
		if !errors.Is(err, profile.ErrEmptyQuery) {
			t.Errorf("Aggregate(%q) error = %v, want ErrEmptyQuery", q, err)
		}
		if profiles != nil {
			t.Errorf("Aggregate(%q) returned profiles", q)
		}
	}
}

func TestAggregateEndToEnd(t *testing.T) {
	google := fixture.Hits("google", upstream.Hit{
		Title:   "Jane Smith - LinkedIn",
		Link:    "https://linkedin.com/in/janesmith",
		Snippet: "Jane Smith works at <b>Acme Corp</b>. Call (555) 010-2030.",
	})
	serp := fixture.Hits("serpapi", upstream.Hit{Link: "https://github.com/jsmith", Snippet: "open source"})
	finder := fixture.NewEmailFinder(upstream.OK([]string{"jane@acmecorp.com", "info@acmecorp.com"}))

	profiles, err := New([]upstream.Searcher{google, serp}, finder, WithClock(clock)).
		Aggregate(context.Background(), "Jane Smith")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("Aggregate() returned %d profiles, want 1", len(profiles))
	}

	want := &profile.Profile{
		ID:    "amFuZS1zbWl0",
		Name:  "Jane Smith",
		Email: "jane@acmecorp.com",
		Phone: "(555) 010-2030",
		SocialProfiles: []profile.SocialProfile{
			{Platform: "LinkedIn", Username: "janesmith", URL: "https://linkedin.com/in/janesmith",
				Bio: "Jane Smith works at Acme Corp. Call (555) 010-2030."},
			{Platform: "GitHub", Username: "jsmith", URL: "https://github.com/jsmith", Bio: "open source"},
		},
		ProfessionalInfo: profile.ProfessionalInfo{Company: "Acme Corp"},
		DataSources: []profile.DataSource{
			{Name: "Google Search", URL: "https://google.com", Reliability: 0.8, LastChecked: fixedNow},
			{Name: "Hunter.io", URL: "https://hunter.io", Reliability: 0.9, LastChecked: fixedNow},
		},
		VerificationScore: 70,
		VerificationLevel: profile.LevelTrusted,
		LastUpdated:       fixedNow,
	}
	if diff := cmp.Diff(want, profiles[0]); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"acmecorp"}, finder.Domains()); diff != "" {
		t.Errorf("email finder domains (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Jane Smith"}, google.Queries()); diff != "" {
		t.Errorf("google queries (-want +got):\n%s", diff)
	}
}

func TestAggregateTotalFailure(t *testing.T) {
	searchers := []upstream.Searcher{
		fixture.NewSearcher("google", upstream.Failed[[]upstream.Hit](errors.New("connection refused"))),
		fixture.NewSearcher("serpapi", upstream.Skipped[[]upstream.Hit]("api key not configured")),
	}
	finder := fixture.NewEmailFinder(upstream.OK([]string{"x@y.com"}))

	profiles, err := New(searchers, finder, WithClock(clock)).Aggregate(context.Background(), "Jane Smith")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if profiles == nil || len(profiles) != 0 {
		t.Errorf("Aggregate() = %v, want empty non-nil list", profiles)
	}
	if len(finder.Domains()) != 0 {
		t.Error("email finder called after total failure")
	}
}

func TestAggregatePartialFailure(t *testing.T) {
	searchers := []upstream.Searcher{
		fixture.NewSearcher("google", upstream.Empty[[]upstream.Hit]("no results")),
		fixture.NewSearcher("serpapi", upstream.Failed[[]upstream.Hit](errors.New("HTTP 500"))),
	}

	profiles, err := New(searchers, nil, WithClock(clock)).Aggregate(context.Background(), "J Doe")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("Aggregate() returned %d profiles, want 1", len(profiles))
	}
	p := profiles[0]
	if p.Name != "Doe" || len(p.SocialProfiles) != 0 || !p.ProfessionalInfo.IsEmpty() || p.Email != "" {
		t.Errorf("unexpected profile %+v", p)
	}
	// Two descriptors and a fresh timestamp.
	if p.VerificationScore != 35 || p.VerificationLevel != profile.LevelLimited {
		t.Errorf("score = %d/%s, want 35/limited", p.VerificationScore, p.VerificationLevel)
	}
}

func TestAggregateEmailFinderFailureTolerated(t *testing.T) {
	google := fixture.Hits("google", upstream.Hit{Link: "https://example.com", Snippet: "Engineer at Initech"})
	finder := fixture.NewEmailFinder(upstream.Failed[[]string](errors.New("HTTP 429")))

	profiles, err := New([]upstream.Searcher{google}, finder, WithClock(clock)).Aggregate(context.Background(), "Peter Gibbons")
	if err != nil || len(profiles) != 1 {
		t.Fatalf("Aggregate() = %v, %v", profiles, err)
	}
	if profiles[0].Email != "" || profiles[0].ProfessionalInfo.Company != "Initech" {
		t.Errorf("unexpected profile %+v", profiles[0])
	}
}

type panicSearcher struct{}

func (panicSearcher) Name() string { return "broken" }

func (panicSearcher) Search(context.Context, string) upstream.Outcome[[]upstream.Hit] {
	panic("nil map write")
}

func TestAggregateSearcherPanicIsolated(t *testing.T) {
	searchers := []upstream.Searcher{
		panicSearcher{},
		fixture.Hits("serpapi", upstream.Hit{Link: "https://twitter.com/jane"}),
	}
	profiles, err := New(searchers, nil, WithClock(clock)).Aggregate(context.Background(), "Jane")
	if err != nil || len(profiles) != 1 {
		t.Fatalf("Aggregate() = %v, %v", profiles, err)
	}
	if got := profiles[0].SocialProfiles; len(got) != 1 || got[0].Username != "jane" {
		t.Errorf("SocialProfiles = %+v", got)
	}
}

type panicFinder struct{}

func (panicFinder) Name() string { return "broken" }

func (panicFinder) FindEmails(context.Context, string) upstream.Outcome[[]string] {
	panic("index out of range")
}

func TestAggregateAssemblyPanicYieldsEmptyList(t *testing.T) {
	tests := []struct {
		name      string
		searchers []upstream.Searcher
		finder    upstream.EmailFinder
	}{
		{
			name:      "email finder panics",
			searchers: []upstream.Searcher{fixture.Hits("google", upstream.Hit{Link: "https://example.com", Snippet: "Engineer at Initech"})},
			finder:    panicFinder{},
		},
		{
			name:      "every searcher panics",
			searchers: []upstream.Searcher{panicSearcher{}, panicSearcher{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles, err := New(tt.searchers, tt.finder, WithClock(clock)).Aggregate(context.Background(), "Peter Gibbons")
			if err != nil {
				t.Fatalf("Aggregate() error = %v", err)
			}
			if profiles == nil || len(profiles) != 0 {
				t.Errorf("Aggregate() = %v, want empty non-nil list", profiles)
			}
		})
	}
}

// rendezvousSearcher only succeeds if its peer is running at the same time.
type rendezvousSearcher struct {
	mine, peer chan struct{}
}

func (rendezvousSearcher) Name() string { return "rendezvous" }

func (s rendezvousSearcher) Search(ctx context.Context, _ string) upstream.Outcome[[]upstream.Hit] {
	close(s.mine)
	select {
	case <-s.peer:
		return upstream.OK([]upstream.Hit{})
	case <-time.After(5 * time.Second):
		return upstream.Failed[[]upstream.Hit](errors.New("peer never started"))
	case <-ctx.Done():
		return upstream.Failed[[]upstream.Hit](ctx.Err())
	}
}

func TestAggregateRunsSearchersConcurrently(t *testing.T) {
	a, b := make(chan struct{}), make(chan struct{})
	searchers := []upstream.Searcher{
		rendezvousSearcher{mine: a, peer: b},
		rendezvousSearcher{mine: b, peer: a},
	}
	profiles, err := New(searchers, nil, WithClock(clock)).Aggregate(context.Background(), "Jane")
	if err != nil || len(profiles) != 1 {
		t.Fatalf("Aggregate() = %v, %v; searchers did not overlap", profiles, err)
	}
}

func TestCompanyDomain(t *testing.T) {
	tests := map[string]string{
		"Acme Corp":        "acmecorp",
		"Procter & Gamble": "procter&gamble",
		"Initech":          "initech",
		" Big\tCo ":        "bigco",
	}
	for in, want := range tests {
		if got := CompanyDomain(in); got != want {
			t.Errorf("CompanyDomain(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSourceNames(t *testing.T) {
	if diff := cmp.Diff([]string{"Google Search", "Hunter.io"}, SourceNames()); diff != "" {
		t.Errorf("SourceNames mismatch (-want +got):\n%s", diff)
	}
}
