// Package profile defines the common types for aggregated people-search results.
package profile

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"
)

// Common errors returned by the aggregation pipeline.
var (
	ErrEmptyQuery     = errors.New("query is required")
	ErrNoUpstreamData = errors.New("no upstream returned data")
)

// Level is a coarse verification bucket derived from a score.
type Level string

// Verification levels, lowest to highest.
const (
	LevelLimited  Level = "limited"
	LevelBasic    Level = "basic"
	LevelTrusted  Level = "trusted"
	LevelVerified Level = "verified"
)

// Levels lists every level in ascending order.
var Levels = []Level{LevelLimited, LevelBasic, LevelTrusted, LevelVerified}

// Rank returns the position of l in Levels, or -1 for an unknown level.
func (l Level) Rank() int {
	for i, v := range Levels {
		if v == l {
			return i
		}
	}
	return -1
}

// LevelFor classifies a score. Each band includes its lower bound.
func LevelFor(score int) Level {
	switch {
	case score >= 80:
		return LevelVerified
	case score >= 60:
		return LevelTrusted
	case score >= 40:
		return LevelBasic
	default:
		return LevelLimited
	}
}

// SocialProfile is one social-network account discovered in a search hit.
type SocialProfile struct {
	Platform  string `json:"platform"`
	Username  string `json:"username"`
	URL       string `json:"url"`
	Verified  bool   `json:"verified"`
	Followers *int   `json:"followers,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

// ProfessionalInfo holds best-effort employment details. Empty means unset.
type ProfessionalInfo struct {
	Company    string `json:"company,omitempty"`
	Title      string `json:"title,omitempty"`
	Industry   string `json:"industry,omitempty"`
	Location   string `json:"location,omitempty"`
	Experience string `json:"experience,omitempty"`
}

// IsEmpty reports whether no field is set.
func (p ProfessionalInfo) IsEmpty() bool {
	return p == ProfessionalInfo{}
}

// DataSource describes an upstream origin contributing to a profile.
type DataSource struct {
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Reliability float64   `json:"reliability"`
	LastChecked time.Time `json:"lastChecked"`
}

// Profile is the identity bundle assembled for one search query.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Profile struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Email             string           `json:"email,omitempty"`
	Phone             string           `json:"phone,omitempty"`
	SocialProfiles    []SocialProfile  `json:"socialProfiles"`
	ProfessionalInfo  ProfessionalInfo `json:"professionalInfo"`
	VerificationScore int              `json:"verificationScore"`
	VerificationLevel Level            `json:"verificationLevel"`
	DataSources       []DataSource     `json:"dataSources"`
	AISummary         string           `json:"aiSummary,omitempty"`
	LastUpdated       time.Time        `json:"lastUpdated"`
}

// SetScore stores a clamped score and the level it implies.
// The level is never assigned on its own.
func (p *Profile) SetScore(score int) {
	score = min(max(score, 0), 100)
	p.VerificationScore = score
	p.VerificationLevel = LevelFor(score)
}

// AttachSummary records AI-generated narrative text on the profile.
func (p *Profile) AttachSummary(summary string) {
	p.AISummary = summary
}

// HasSocialProfiles reports whether at least one social profile was found.
func (p *Profile) HasSocialProfiles() bool {
	return len(p.SocialProfiles) > 0
}

// SearchResult is the envelope returned for one search call.
type SearchResult struct {
	Profiles     []*Profile `json:"profiles"`
	TotalResults int        `json:"totalResults"`
	SearchTime   int64      `json:"searchTime"` // milliseconds
}

// NewSearchResult wraps profiles with their count and the elapsed time.
func NewSearchResult(profiles []*Profile, elapsed time.Duration) SearchResult {
	if profiles == nil {
		profiles = []*Profile{}
	}
	return SearchResult{
		Profiles:     profiles,
		TotalResults: len(profiles),
		SearchTime:   elapsed.Milliseconds(),
	}
}

// idLength is the truncated length of a derived profile ID.
const idLength = 12

// DeriveID returns a short deterministic identifier for a query.
// The query is lowercased and each whitespace run becomes a single hyphen
// before encoding. Distinct queries may share an ID after truncation.
func DeriveID(query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), "-")
	encoded := base64.StdEncoding.EncodeToString([]byte(normalized))
	if len(encoded) > idLength {
		encoded = encoded[:idLength]
	}
	return encoded
}

// NameFromQuery builds a display name, dropping single-character tokens.
func NameFromQuery(query string) string {
	var parts []string
	for _, part := range strings.Fields(query) {
		if len([]rune(part)) > 1 {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}
