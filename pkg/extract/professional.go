package extract

import (
	"regexp"
	"strings"

	"github.com/codeGROOVE-dev/peoplesearch/pkg/profile"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/upstream"
)

// capitalizedPhrase is a run of capitalized words. A lone "&" may sit
// between words ("Procter & Gamble").
const capitalizedPhrase = `[A-Z][A-Za-z&'-]*(?:\s+(?:&\s+)?[A-Z][A-Za-z&'-]*)*`

var (
	companyPattern = regexp.MustCompile(
		`(?:\b(?i:works at|employed by|at)|@)\s+(` + capitalizedPhrase + `)`)

	titlePattern = regexp.MustCompile(
		`\b(?i:is|as|title:)\s+(?:(?i:an?|the)\s+)?` +
			`((?:[A-Z][A-Za-z-]*\s+)*(?:Manager|Director|Engineer|Developer|Analyst|Consultant))\b`)

	locationPattern = regexp.MustCompile(
		`\b(?i:based in|from|in)\s+([A-Z][A-Za-z'-]*(?:,?\s+[A-Z][A-Za-z'-]*)*)`)
)

// ProfessionalInfo runs the company, title and location patterns over the
// concatenated snippets. Each field takes its first match or stays unset.
// Industry and Experience are never populated.
func ProfessionalInfo(hits []upstream.Hit) profile.ProfessionalInfo {
	text := joinSnippets(hits)
	if text == "" {
		return profile.ProfessionalInfo{}
	}
	return profile.ProfessionalInfo{
		Company:  firstGroup(companyPattern, text),
		Title:    firstGroup(titlePattern, text),
		Location: firstGroup(locationPattern, text),
	}
}

func joinSnippets(hits []upstream.Hit) string {
	parts := make([]string, 0, len(hits))
	for _, h := range hits {
		if s := strings.TrimSpace(h.Snippet); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimRight(strings.TrimSpace(m[1]), ".,")
}
