// Package verify computes the verification confidence of an assembled profile.
package verify

import (
	"strings"
	"time"

	"github.com/codeGROOVE-dev/peoplesearch/pkg/profile"
)

// Signal is one scoring rule that can fire for a profile.
type Signal struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// Signal names.
const (
	SignalMultipleSources  = "multiple_sources"
	SignalVerifiedSocial   = "verified_social_profile"
	SignalConsistentData   = "email_with_social_profile"
	SignalProfessionalMail = "professional_email"
	SignalRecentUpdate     = "recently_updated"
)

// recentWindow is how fresh LastUpdated must be to count.
const recentWindow = 30 * 24 * time.Hour

// freeMailDomains are consumer email providers; addresses on them do not
// count as professional.
var freeMailDomains = map[string]bool{
	"gmail.com": true, "googlemail.com": true,
	"yahoo.com": true, "yahoo.co.uk": true, "ymail.com": true,
	"hotmail.com": true, "outlook.com": true, "live.com": true, "msn.com": true,
	"icloud.com": true, "me.com": true, "mac.com": true,
	"aol.com": true, "protonmail.com": true, "proton.me": true,
	"fastmail.com": true, "fastmail.fm": true,
	"hey.com": true, "pm.me": true, "mail.com": true, "zoho.com": true,
}

// Breakdown returns the signals that fire for p, in rule order.
func Breakdown(p *profile.Profile, now time.Time) []Signal {
	if p == nil {
		return nil
	}
	var out []Signal
	if len(p.DataSources) > 1 {
		out = append(out, Signal{SignalMultipleSources, 20})
	}
	if hasVerifiedSocial(p.SocialProfiles) {
		out = append(out, Signal{SignalVerifiedSocial, 30})
	}
	if p.Email != "" && p.HasSocialProfiles() {
		out = append(out, Signal{SignalConsistentData, 25})
	}
	if professionalEmail(p.Email) {
		out = append(out, Signal{SignalProfessionalMail, 10})
	}
	if !p.LastUpdated.IsZero() && now.Sub(p.LastUpdated) < recentWindow {
		out = append(out, Signal{SignalRecentUpdate, 15})
	}
	return out
}

// Score sums the fired signals, capped at 100.
func Score(p *profile.Profile, now time.Time) int {
	total := 0
	for _, s := range Breakdown(p, now) {
		total += s.Points
	}
	return min(total, 100)
}

// Level maps a score to its verification bucket.
func Level(score int) profile.Level {
	return profile.LevelFor(score)
}

// Apply scores p and stores the score and level together.
func Apply(p *profile.Profile, now time.Time) {
	if p == nil {
		return
	}
	p.SetScore(Score(p, now))
}

func hasVerifiedSocial(profiles []profile.SocialProfile) bool {
	for _, sp := range profiles {
		if sp.Verified {
			return true
		}
	}
	return false
}

func professionalEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(strings.TrimSpace(email[at+1:]))
	return !freeMailDomains[domain]
}
