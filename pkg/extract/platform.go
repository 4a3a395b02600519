package extract

import (
	"regexp"
	"strings"
)

// unknownUsername is reported when a link is on a known platform but the
// username segment cannot be located.
const unknownUsername = "unknown"

// Platform describes a social network recognized in search-hit links.
type Platform struct {
	username *regexp.Regexp
	Name     string // display name, e.g. "LinkedIn"
	Domain   string // lowercase substring matched against links
}

// Match reports whether link points at this platform.
func (p Platform) Match(link string) bool {
	return strings.Contains(strings.ToLower(link), p.Domain)
}

// Username returns the path segment after the platform's profile prefix.
func (p Platform) Username(link string) string {
	m := p.username.FindStringSubmatch(link)
	if len(m) < 2 || m[1] == "" {
		return unknownUsername
	}
	return m[1]
}

func newPlatform(name, domain, prefix string) Platform {
	return Platform{
		Name:     name,
		Domain:   domain,
		username: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(prefix) + `([^/?#\s]+)`),
	}
}

// platforms is checked in order; a link may match more than one entry.
var platforms = []Platform{
	newPlatform("LinkedIn", "linkedin", "linkedin.com/in/"),
	newPlatform("Twitter", "twitter", "twitter.com/"),
	newPlatform("Instagram", "instagram", "instagram.com/"),
	newPlatform("Facebook", "facebook", "facebook.com/"),
	newPlatform("GitHub", "github", "github.com/"),
}

// Platforms returns the recognized platforms in matching order.
func Platforms() []Platform {
	out := make([]Platform, len(platforms))
	copy(out, platforms)
	return out
}

// MatchAll returns every platform whose domain appears in link.
func MatchAll(link string) []Platform {
	var out []Platform
	for _, p := range platforms {
		if p.Match(link) {
			out = append(out, p)
		}
	}
	return out
}
