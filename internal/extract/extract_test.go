package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEmails(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "plain address",
			text: "My address is jane.doe@example.com for work stuff.",
			want: []string{"jane.doe@example.com"},
		},
		{
			name: "contextual match comes first",
			text: "Other: bob@corp.io. You can reach me at jane@example.com anytime.",
			want: []string{"jane@example.com", "bob@corp.io"},
		},
		{
			name: "deduplicated case insensitively",
			text: "Jane.Doe@Example.com and jane.doe@example.com",
			want: []string{"jane.doe@example.com"},
		},
		{
			name: "plus addressing and subdomains",
			text: "jane+jobs@mail.example.co.uk",
			want: []string{"jane+jobs@mail.example.co.uk"},
		},
		{
			name: "no matches",
			text: "nothing to see here",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Emails(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Emails() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPhones(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"us format", "Call 415-555-0123 today", 1},
		{"parenthesized", "(415) 555-0123", 1},
		{"contextual", "call me at +1 415 555 0123", 1},
		{"too few digits", "ext 555-0123", 0},
		{"dedup by digits", "415-555-0123 or (415) 555-0123", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Phones(tt.text)
			if len(got) != tt.want {
				t.Errorf("Phones(%q) = %v, want %d matches", tt.text, got, tt.want)
			}
		})
	}
}

func TestSocialHandles(t *testing.T) {
	text := `Find my work on github.com/janedoe and designs at dribbble.com/janedoe.
Also GitHub.com/JaneDoe and reddit.com/u/janedoe.`

	want := []string{
		"github.com/janedoe",
		"dribbble.com/janedoe",
		"reddit.com/u/janedoe",
	}
	got := SocialHandles(text)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SocialHandles() mismatch (-want +got):\n%s", diff)
	}
}
