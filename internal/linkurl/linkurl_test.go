package linkurl

import "testing"

func TestIsValidProfile(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.linkedin.com/in/jane-doe", true},
		{"https://linkedin.com/in/jane-doe/", true},
		{"http://www.linkedin.com/in/jane-doe-12345/", true},
		{"https://www.linkedin.com/in/jane-doe?miniProfileUrn=urn", true},
		{"https://www.linkedin.com/company/acme", false},
		{"https://www.linkedin.com/school/mit", false},
		{"https://www.linkedin.com/jobs/view/123", false},
		{"https://www.linkedin.com/feed/", false},
		{"https://www.linkedin.com/search/results/people/", false},
		{"https://www.linkedin.com/groups/12345", false},
		{"https://www.linkedin.com/learning/course", false},
		{"https://www.linkedin.com/pub/dir/jane/doe", false},
		{"https://example.com/in/jane-doe", false},
		{"https://www.linkedin.com/", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := IsValidProfile(tt.url)
			if got != tt.want {
				t.Errorf("IsValidProfile(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.linkedin.com/in/jane-doe", "https://www.linkedin.com/in/jane-doe/"},
		{"http://linkedin.com/in/jane-doe/", "https://www.linkedin.com/in/jane-doe/"},
		{"https://www.linkedin.com/in/jane-doe?miniProfileUrn=urn&foo=bar", "https://www.linkedin.com/in/jane-doe/"},
		{"https://www.linkedin.com/in/Jane-Doe/", "https://www.linkedin.com/in/jane-doe/"},
		{"https://www.linkedin.com/in/jane-doe/details/experience/", "https://www.linkedin.com/in/jane-doe/"},
		{"https://www.linkedin.com/company/acme", ""},
		{"not a url", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := Normalize(tt.url)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	once := Normalize("https://linkedin.com/in/Some-One?x=1")
	twice := Normalize(once)
	if once != twice {
		t.Errorf("Normalize not idempotent: %q vs %q", once, twice)
	}
}
