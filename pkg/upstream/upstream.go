// Package upstream defines the capabilities the aggregator needs from
// third-party services and the outcome type every call returns.
//
// Clients never return errors to their callers. A failed call becomes a
// Failed outcome so that one broken upstream degrades only its own portion
// of a profile.
package upstream

import (
	"context"
	"fmt"
)

// Hit is one raw web search result.
type Hit struct {
	Title   string `json:"title,omitempty"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Prompt is a single text-completion request.
type Prompt struct {
	System      string
	User        string
	MaxTokens   int64
	Temperature float64
}

// Searcher runs a free-text web search.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string) Outcome[[]Hit]
}

// EmailFinder looks up addresses published under a domain.
type EmailFinder interface {
	Name() string
	FindEmails(ctx context.Context, domain string) Outcome[[]string]
}

// Completer produces text from a prompt.
type Completer interface {
	Name() string
	Complete(ctx context.Context, prompt Prompt) Outcome[string]
}

// Status classifies how an upstream call ended.
type Status string

// Outcome statuses.
const (
	StatusOK      Status = "ok"      // call succeeded with data
	StatusEmpty   Status = "empty"   // call succeeded, nothing found
	StatusFailed  Status = "failed"  // network error, bad status or malformed body
	StatusSkipped Status = "skipped" // call not attempted (missing credentials, no input)
)

// Outcome carries the value of an upstream call together with its status.
type Outcome[T any] struct {
	Value  T
	Err    error
	Status Status
	Reason string
}

// OK wraps a successful value.
func OK[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v, Status: StatusOK}
}

// Empty reports a successful call that found nothing.
func Empty[T any](reason string) Outcome[T] {
	return Outcome[T]{Status: StatusEmpty, Reason: reason}
}

// Failed reports a call that could not complete.
func Failed[T any](err error) Outcome[T] {
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	return Outcome[T]{Status: StatusFailed, Err: err, Reason: reason}
}

// Skipped reports a call that was never attempted.
func Skipped[T any](reason string) Outcome[T] {
	return Outcome[T]{Status: StatusSkipped, Reason: reason}
}

// Answered reports whether the upstream was reached and responded.
func (o Outcome[T]) Answered() bool {
	return o.Status == StatusOK || o.Status == StatusEmpty
}

func (o Outcome[T]) String() string {
	if o.Reason == "" {
		return string(o.Status)
	}
	return fmt.Sprintf("%s: %s", o.Status, o.Reason)
}
