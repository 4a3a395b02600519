// Package fixture provides canned upstream implementations for tests and
// offline runs.
package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/codeGROOVE-dev/peoplesearch/pkg/upstream"
)

// Searcher returns a fixed outcome for every query.
type Searcher struct {
	out     upstream.Outcome[[]upstream.Hit]
	name    string
	mu      sync.Mutex
	queries []string
}

// NewSearcher creates a Searcher that always returns out.
func NewSearcher(name string, out upstream.Outcome[[]upstream.Hit]) *Searcher {
	return &Searcher{name: name, out: out}
}

// Hits creates a Searcher that answers OK with hits.
func Hits(name string, hits ...upstream.Hit) *Searcher {
	if hits == nil {
		hits = []upstream.Hit{}
	}
	return NewSearcher(name, upstream.OK(hits))
}

// Name returns the label given at construction.
func (s *Searcher) Name() string { return s.name }

// Search records query and returns the fixed outcome.
// A cancelled context yields a Failed outcome.
func (s *Searcher) Search(ctx context.Context, query string) upstream.Outcome[[]upstream.Hit] {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return upstream.Failed[[]upstream.Hit](err)
	}
	out := s.out
	out.Value = slices.Clone(out.Value)
	return out
}

// Queries returns every query seen so far.
func (s *Searcher) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.queries)
}

// EmailFinder returns a fixed outcome for every domain.
type EmailFinder struct {
	out     upstream.Outcome[[]string]
	mu      sync.Mutex
	domains []string
}

// NewEmailFinder creates an EmailFinder that always returns out.
func NewEmailFinder(out upstream.Outcome[[]string]) *EmailFinder {
	return &EmailFinder{out: out}
}

// Name returns "fixture".
func (*EmailFinder) Name() string { return "fixture" }

// FindEmails records domain and returns the fixed outcome.
func (f *EmailFinder) FindEmails(ctx context.Context, domain string) upstream.Outcome[[]string] {
	f.mu.Lock()
	f.domains = append(f.domains, domain)
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return upstream.Failed[[]string](err)
	}
	out := f.out
	out.Value = slices.Clone(out.Value)
	return out
}

// Domains returns every domain looked up so far.
func (f *EmailFinder) Domains() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.domains)
}

// Completer returns a fixed outcome for every prompt.
type Completer struct {
	out     upstream.Outcome[string]
	mu      sync.Mutex
	prompts []upstream.Prompt
}

// NewCompleter creates a Completer that always returns out.
func NewCompleter(out upstream.Outcome[string]) *Completer {
	return &Completer{out: out}
}

// Name returns "fixture".
func (*Completer) Name() string { return "fixture" }

// Complete records prompt and returns the fixed outcome.
func (c *Completer) Complete(ctx context.Context, prompt upstream.Prompt) upstream.Outcome[string] {
	c.mu.Lock()
	c.prompts = append(c.prompts, prompt)
	c.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return upstream.Failed[string](err)
	}
	return c.out
}

// Prompts returns every prompt received so far.
func (c *Completer) Prompts() []upstream.Prompt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.prompts)
}

// LoadHits reads a JSON array of hits from path.
func LoadHits(path string) ([]upstream.Hit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var hits []upstream.Hit
	if err := json.Unmarshal(data, &hits); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return hits, nil
}
