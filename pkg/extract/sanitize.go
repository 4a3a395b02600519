package extract

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/codeGROOVE-dev/peoplesearch/pkg/upstream"
)

// strict removes every tag. Policies are safe for concurrent use.
var strict = bluemonday.StrictPolicy()

// CleanSnippet strips markup from upstream text, decodes entities and
// collapses whitespace. Search APIs wrap matched terms in <b> tags.
func CleanSnippet(s string) string {
	if s == "" {
		return ""
	}
	text := html.UnescapeString(strict.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}

// CleanHits returns a copy of hits with sanitized titles and snippets.
func CleanHits(hits []upstream.Hit) []upstream.Hit {
	out := make([]upstream.Hit, 0, len(hits))
	for _, h := range hits {
		out = append(out, upstream.Hit{
			Title:   CleanSnippet(h.Title),
			Link:    strings.TrimSpace(h.Link),
			Snippet: CleanSnippet(h.Snippet),
		})
	}
	return out
}
