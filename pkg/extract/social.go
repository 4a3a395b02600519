// Package extract turns raw search hits into structured profile fields.
//
// Everything here is a pure function over its input: no network access,
// no shared state beyond compiled patterns.
package extract

import (
	"github.com/codeGROOVE-dev/peoplesearch/pkg/profile"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/upstream"
)

// SocialProfiles emits one entry per (hit, matching platform) pair.
// Hits on unrecognized platforms are ignored.
func SocialProfiles(hits []upstream.Hit) []profile.SocialProfile {
	out := []profile.SocialProfile{}
	for _, hit := range hits {
		if hit.Link == "" {
			continue
		}
		for _, p := range MatchAll(hit.Link) {
			out = append(out, profile.SocialProfile{
				Platform: p.Name,
				Username: p.Username(hit.Link),
				URL:      hit.Link,
				Verified: false, // no platform verification is performed
				Bio:      hit.Snippet,
			})
		}
	}
	return out
}
