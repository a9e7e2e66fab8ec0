// Package classify scores free text for job-seeking intent with static
// keyword lists. The result is advisory: it exists to cheaply pre-filter
// before spending a remote analysis call, and the authoritative score always
// comes from the backend.
package classify

import "strings"

type category struct {
	name    string
	phrases []string
}

var positiveCategories = []category{
	{name: "direct", phrases: []string{
		"open to work", "looking for a job", "looking for new opportunities",
		"seeking opportunities", "seeking a new role", "job seeker",
		"actively looking", "open to opportunities", "#opentowork",
	}},
	{name: "transition", phrases: []string{
		"career transition", "career change", "pivoting to", "transitioning into",
		"changing careers", "new chapter", "exploring new paths",
	}},
	{name: "education", phrases: []string{
		"bootcamp", "recent graduate", "recently graduated", "student at",
		"learning to code", "studying", "certification in", "upskilling",
	}},
	{name: "availability", phrases: []string{
		"available for hire", "available immediately", "currently unemployed",
		"laid off", "between jobs", "freelance available", "open for work",
	}},
	{name: "tech-interest", phrases: []string{
		"aspiring developer", "aspiring engineer", "breaking into tech",
		"self-taught developer", "junior developer seeking",
	}},
}

// excludePhrases suppress a positive classification; when one is present the
// local flag stays false and the decision defers to remote analysis.
var excludePhrases = []string{
	"happy in current role", "not looking", "no recruiters",
	"happily employed", "love my job", "we're hiring", "we are hiring",
	"join my team", "join our team",
}

// Result carries the advisory local classification. Ambiguous means positive
// and exclude phrases both matched and the caller should submit the profile
// for remote analysis instead of trusting the flag.
type Result struct {
	IsLikelyJobSeeker bool
	Ambiguous         bool
	Categories        []string
	Matches           []string
}

// Classify lower-cases text and tests substring membership against each
// category. A single positive match sets the flag unless an exclude phrase
// is also present.
func Classify(text string) Result {
	lower := strings.ToLower(text)
	var res Result
	for _, cat := range positiveCategories {
		for _, p := range cat.phrases {
			if strings.Contains(lower, p) {
				res.Matches = append(res.Matches, p)
				if !containsString(res.Categories, cat.name) {
					res.Categories = append(res.Categories, cat.name)
				}
			}
		}
	}
	positive := len(res.Matches) > 0

	excluded := false
	for _, p := range excludePhrases {
		if strings.Contains(lower, p) {
			excluded = true
			break
		}
	}

	switch {
	case positive && excluded:
		res.Ambiguous = true
	case positive:
		res.IsLikelyJobSeeker = true
	}
	return res
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
