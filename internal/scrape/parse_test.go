package scrape

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/example/prospector/internal/models"
)

const profileSnapshot = `LinkedIn
Skip to main content
Jane Doe
Senior Software Engineer at Acme Corp
San Francisco Bay Area
500+ connections
About
Passionate engineer with a decade of backend experience.
Currently exploring new paths and open to interesting problems.
Experience
Senior Software Engineer at Acme Corp
Backend Developer at Widget Inc
Education
State University
Skills
Go
PostgreSQL
Docker
`

func TestParseName(t *testing.T) {
	tests := []struct {
		name     string
		snapshot string
		want     string
	}{
		{"full profile", profileSnapshot, "Jane Doe"},
		{"skips chrome lines", "LinkedIn\nNotifications\nJohn Q. Smith\n", "John Q. Smith"},
		{"rejects single word", "Notifications\nHome\n", ""},
		{"rejects digits", "Agent 007 Smith\n", ""},
		{"too deep in the page", "a\nb\nc\nd\ne\nf\ng\nh\ni\nj\nJane Doe\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseName(tt.snapshot)
			if got != tt.want {
				t.Errorf("ParseName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseHeadline(t *testing.T) {
	got := ParseHeadline(profileSnapshot)
	want := "Senior Software Engineer at Acme Corp"
	if got != want {
		t.Errorf("ParseHeadline() = %q, want %q", got, want)
	}

	if got := ParseHeadline("Home\nNotifications\n"); got != "" {
		t.Errorf("ParseHeadline() on chrome text = %q, want empty", got)
	}
}

func TestParseAbout(t *testing.T) {
	got := ParseAbout(profileSnapshot)
	want := "Passionate engineer with a decade of backend experience.\nCurrently exploring new paths and open to interesting problems."
	if got != want {
		t.Errorf("ParseAbout() = %q, want %q", got, want)
	}
}

func TestParseAboutMissingSection(t *testing.T) {
	if got := ParseAbout("Jane Doe\nExperience\nEngineer at Acme\n"); got != "" {
		t.Errorf("ParseAbout() without About section = %q, want empty", got)
	}
}

func TestParseAboutCharCap(t *testing.T) {
	long := "About\n" + strings.Repeat("a", aboutCharCap+500)
	got := ParseAbout(long)
	if len(got) != aboutCharCap {
		t.Errorf("ParseAbout() length = %d, want %d", len(got), aboutCharCap)
	}
}

func TestParseExperiences(t *testing.T) {
	got := ParseExperiences(profileSnapshot)
	want := []models.Experience{
		{Title: "Senior Software Engineer", Company: "Acme Corp"},
		{Title: "Backend Developer", Company: "Widget Inc"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseExperiences() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseExperiencesDedup(t *testing.T) {
	snapshot := "Engineer at Acme\nEngineer at Acme\nEngineer at Acme\n"
	got := ParseExperiences(snapshot)
	if len(got) != 1 {
		t.Errorf("ParseExperiences() = %d entries, want 1", len(got))
	}
}

func TestParseSkills(t *testing.T) {
	got := ParseSkills(profileSnapshot)
	for _, want := range []string{"Go", "PostgreSQL", "Docker"} {
		found := false
		for _, s := range got {
			if s == want {
				found = true
			}
		}
		if !found {
			t.Errorf("ParseSkills() missing %q, got %v", want, got)
		}
	}
}
