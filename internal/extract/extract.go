// Package extract pulls plausible contact identifiers out of arbitrary page
// text. The contract is candidate extraction, not validation: nothing here
// checks deliverability, and absence of matches yields empty lists.
package extract

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(?:\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,}`)

	// Phrases people use when they share an address on purpose. Matches on
	// these are biased to the front of the result list.
	contextualEmailPattern = regexp.MustCompile(`(?i)(?:reach me at|contact me at|email me at)[:\s]*([A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(?:\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,})`)

	phonePattern           = regexp.MustCompile(`\+?1?[\s.\-]?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}`)
	contextualPhonePattern = regexp.MustCompile(`(?i)(?:call me at|phone)[:\s]*(\+?[\d\s().\-]{7,20}\d)`)
)

// socialPatterns capture domain.com/<handle> profile links on known
// platforms.
var socialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)github\.com/[A-Za-z0-9\-]+`),
	regexp.MustCompile(`(?i)gitlab\.com/[A-Za-z0-9\-]+`),
	regexp.MustCompile(`(?i)bitbucket\.org/[A-Za-z0-9\-]+`),
	regexp.MustCompile(`(?i)twitter\.com/[A-Za-z0-9_]+`),
	regexp.MustCompile(`(?i)x\.com/[A-Za-z0-9_]+`),
	regexp.MustCompile(`(?i)instagram\.com/[A-Za-z0-9_.]+`),
	regexp.MustCompile(`(?i)youtube\.com/@?[A-Za-z0-9_\-]+`),
	regexp.MustCompile(`(?i)behance\.net/[A-Za-z0-9_\-]+`),
	regexp.MustCompile(`(?i)dribbble\.com/[A-Za-z0-9_\-]+`),
	regexp.MustCompile(`(?i)medium\.com/@[A-Za-z0-9_.\-]+`),
	regexp.MustCompile(`(?i)dev\.to/[A-Za-z0-9_\-]+`),
	regexp.MustCompile(`(?i)reddit\.com/u(?:ser)?/[A-Za-z0-9_\-]+`),
}

// Emails returns deduplicated email candidates from text. Contextually
// anchored matches come first.
func Emails(text string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(e string) {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" || seen[e] {
			return
		}
		seen[e] = true
		out = append(out, e)
	}
	for _, m := range contextualEmailPattern.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range emailPattern.FindAllString(text, -1) {
		add(m)
	}
	return out
}

// Phones returns deduplicated phone candidates. A match is kept only when
// its digit-only form has at least 10 digits.
func Phones(text string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		p = strings.TrimSpace(p)
		digits := digitsOnly(p)
		if len(digits) < 10 || seen[digits] {
			return
		}
		seen[digits] = true
		out = append(out, p)
	}
	for _, m := range contextualPhonePattern.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range phonePattern.FindAllString(text, -1) {
		add(m)
	}
	return out
}

// SocialHandles returns deduplicated domain.com/<handle> profile references
// found in text.
func SocialHandles(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, pattern := range socialPatterns {
		for _, m := range pattern.FindAllString(text, -1) {
			m = strings.ToLower(m)
			if seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
