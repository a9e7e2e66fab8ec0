package scrape

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/example/prospector/internal/models"
)

// Snapshot parsers. Each one works on the single full-text capture of a
// profile page and degrades to an empty value when nothing matches.

const (
	nameScanLines     = 10
	headlineScanLines = 20
	aboutCharCap      = 2500
	maxExperiences    = 10
)

var sectionHeaders = []string{"experience", "education", "skills", "activity", "licenses & certifications", "interests"}

var headlineKeywords = []string{
	"engineer", "developer", "manager", "designer", "consultant", "analyst",
	"architect", "scientist", "founder", "director", "lead", "specialist",
	"student", "recruiter", "marketer", "product", "intern",
}

// skillCatalog is the fixed list of technology names matched against the
// snapshot.
var skillCatalog = []string{
	"JavaScript", "TypeScript", "Python", "Java", "Go", "Rust", "C++", "C#",
	"Ruby", "PHP", "Swift", "Kotlin", "SQL", "HTML", "CSS", "React", "Angular",
	"Vue", "Node.js", "Django", "Flask", "Spring", "Rails", "AWS", "Azure",
	"GCP", "Docker", "Kubernetes", "Terraform", "PostgreSQL", "MySQL",
	"MongoDB", "Redis", "Kafka", "GraphQL", "Git", "Linux", "Figma",
	"Machine Learning", "Data Analysis", "Agile", "Scrum",
}

var experiencePattern = regexp.MustCompile(`([A-Z][A-Za-z&/#+. \-]{2,50}?) at ([A-Z][A-Za-z0-9&.,' \-]{1,40})`)

// ParseName scans the first non-empty lines for a capitalized line of
// plausible length. Used when the DOM heading lookup fails.
func ParseName(snapshot string) string {
	count := 0
	for _, line := range strings.Split(snapshot, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		count++
		if count > nameScanLines {
			break
		}
		if plausibleName(line) {
			return line
		}
	}
	return ""
}

// chromePhrases are navigation strings that otherwise look like names.
var chromePhrases = []string{"linkedin", "skip to", "main content", "notifications", "sign in", "join now"}

func plausibleName(line string) bool {
	if len(line) < 2 || len(line) > 60 {
		return false
	}
	lower := strings.ToLower(line)
	for _, p := range chromePhrases {
		if strings.Contains(lower, p) {
			return false
		}
	}
	runes := []rune(line)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 5 {
		return false
	}
	for _, r := range line {
		if unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ParseHeadline scans early lines for one carrying a job-title keyword or a
// "Company | Role" separator.
func ParseHeadline(snapshot string) string {
	count := 0
	for _, line := range strings.Split(snapshot, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		count++
		if count > headlineScanLines {
			break
		}
		if len(line) < 5 || len(line) > 200 {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(line, " | ") || strings.Contains(lower, " at ") {
			return line
		}
		for _, kw := range headlineKeywords {
			if strings.Contains(lower, kw) {
				return line
			}
		}
	}
	return ""
}

// ParseAbout takes the text between the literal "About" section header and
// the next recognized header, or a fixed character cap, whichever comes
// first.
func ParseAbout(snapshot string) string {
	lines := strings.Split(snapshot, "\n")
	start := -1
	for i, line := range lines {
		if strings.EqualFold(strings.TrimSpace(line), "about") {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return ""
	}
	var collected []string
	for _, line := range lines[start:] {
		trimmed := strings.TrimSpace(line)
		if isSectionHeader(trimmed) {
			break
		}
		collected = append(collected, line)
	}
	about := strings.TrimSpace(strings.Join(collected, "\n"))
	if len(about) > aboutCharCap {
		about = about[:aboutCharCap]
	}
	return about
}

func isSectionHeader(line string) bool {
	lower := strings.ToLower(line)
	for _, h := range sectionHeaders {
		if lower == h {
			return true
		}
	}
	return false
}

// ParseExperiences regex-scans for "<title> at <company>" pairs,
// deduplicated and capped.
func ParseExperiences(snapshot string) []models.Experience {
	var out []models.Experience
	seen := make(map[string]bool)
	for _, m := range experiencePattern.FindAllStringSubmatch(snapshot, -1) {
		title := strings.TrimSpace(m[1])
		company := strings.TrimSpace(m[2])
		key := strings.ToLower(title) + "|" + strings.ToLower(company)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, models.Experience{Title: title, Company: company})
		if len(out) >= maxExperiences {
			break
		}
	}
	return out
}

// ParseSkills substring-matches the snapshot against the skill catalog.
func ParseSkills(snapshot string) []string {
	lower := strings.ToLower(snapshot)
	var out []string
	for _, skill := range skillCatalog {
		if strings.Contains(lower, strings.ToLower(skill)) {
			out = append(out, skill)
		}
	}
	return out
}
