package search

import "testing"

func TestNameFromAria(t *testing.T) {
	tests := []struct {
		aria string
		want string
	}{
		{"View Jane Q. Doe's profile", "Jane Q. Doe"},
		{"view john smith's profile", "john smith"},
		{"View Jane Doe’s profile", "Jane Doe"},
		{"View Acme Corp profile", "Acme Corp"},
		{"  View Jane Doe's profile  ", "Jane Doe"},
		{"Message Jane Doe", ""},
		{"View profile", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.aria, func(t *testing.T) {
			got := NameFromAria(tt.aria)
			if got != tt.want {
				t.Errorf("NameFromAria(%q) = %q, want %q", tt.aria, got, tt.want)
			}
		})
	}
}

func TestPlausibleName(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"Jane Doe", true},
		{"José García-López", true},
		{"J", false},
		{"12345", false},
		{"", false},
		{"2nd degree connection", false},
		{"Status is online", false},
		{"500+ followers", false},
		{"Jane Doe · 3rd", false},
		{"Open to work", false},
	}

	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			got := PlausibleName(tt.s)
			if got != tt.want {
				t.Errorf("PlausibleName(%q) = %v, want %v", tt.s, got, tt.want)
			}
		})
	}
}

func TestFirstPlausibleLine(t *testing.T) {
	text := "\nStatus is reachable\nJane Doe\nSenior Engineer\n"
	if got := firstPlausibleLine(text, 5); got != "Jane Doe" {
		t.Errorf("firstPlausibleLine() = %q, want %q", got, "Jane Doe")
	}
	if got := firstPlausibleLine("Message\nConnect\n", 5); got != "" {
		t.Errorf("firstPlausibleLine() on chrome = %q, want empty", got)
	}
}
