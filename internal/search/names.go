package search

import (
	"regexp"
	"strings"
	"unicode"
)

// ariaProfilePattern parses the accessible name LinkedIn puts on result
// links, e.g. "View Jane Q. Doe's profile".
var ariaProfilePattern = regexp.MustCompile(`(?i)^view\s+(.+?)(?:['\x{2019}]s)?\s+profile$`)

// uiChromePhrases disqualify a candidate string from being a person name.
var uiChromePhrases = []string{
	"view", "message", "connect", "follow", "mutual connection",
	"followers", "connections", "degree connection", "ago", "status is", "premium",
	"open to work", "· 1st", "· 2nd", "· 3rd",
}

// NameFromAria extracts the person name from a "View <Name>'s profile"
// accessible-name attribute.
func NameFromAria(aria string) string {
	m := ariaProfilePattern.FindStringSubmatch(strings.TrimSpace(aria))
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// PlausibleName filters candidate strings: plausible length, contains
// letters, not all digits, and free of UI chrome phrases.
func PlausibleName(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 2 || len(s) > 100 {
		return false
	}
	hasLetter := false
	allDigits := true
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
		}
		if !unicode.IsDigit(r) {
			allDigits = false
		}
	}
	if !hasLetter || allDigits {
		return false
	}
	lower := strings.ToLower(s)
	for _, phrase := range uiChromePhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	return true
}

// firstPlausibleLine scans the first few lines of a container's text for a
// name candidate.
func firstPlausibleLine(text string, maxLines int) string {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		count++
		if count > maxLines {
			break
		}
		if PlausibleName(line) {
			return line
		}
	}
	return ""
}
