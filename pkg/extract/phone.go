package extract

import (
	"regexp"
	"strings"

	"github.com/codeGROOVE-dev/peoplesearch/pkg/upstream"
)

// phonePattern matches common North American formats. At least one
// separator is required so that bare digit runs (IDs, years) are skipped.
var phonePattern = regexp.MustCompile(
	`(?:\+?1[-.\s]?)?\([0-9]{3}\)[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}` + // (555) 123-4567
		`|(?:\+?1[-.\s]?)?\b[0-9]{3}[-.\s][0-9]{3}[-.\s]?[0-9]{4}\b`, // 555-123-4567
)

// Phones returns the distinct phone numbers found in hit snippets, in
// first-seen order and original formatting.
func Phones(hits []upstream.Hit) []string {
	var phones []string
	seen := make(map[string]bool)

	for _, h := range hits {
		for _, phone := range phonePattern.FindAllString(h.Snippet, -1) {
			phone = strings.TrimSpace(phone)
			// A leading country code 1 and the bare ten digits are the same line.
			key := strings.TrimPrefix(strings.TrimPrefix(normalizePhone(phone), "+"), "1")
			if seen[key] {
				continue
			}
			seen[key] = true
			phones = append(phones, phone)
		}
	}
	return phones
}

// normalizePhone keeps digits and a leading plus sign.
func normalizePhone(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		if (r == '+' && i == 0) || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
