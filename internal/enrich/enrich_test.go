package enrich

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMergerRoutesLinks(t *testing.T) {
	m := newMerger()
	m.addLinks([]string{
		"https://github.com/janedoe",
		"https://github.com/other", // first one wins
		"https://reddit.com/user/janedoe",
		"https://janedoe.dev",
		"https://janedoe.github.io/portfolio",
		"https://www.linkedin.com/in/janedoe/", // skip domain
		"https://duckduckgo.com/settings",      // skip domain
		"https://janedoe.dev",                  // duplicate
	})

	got := m.result()
	if got.GitHubProfile != "https://github.com/janedoe" {
		t.Errorf("GitHubProfile = %q", got.GitHubProfile)
	}
	if got.RedditActivity != "https://reddit.com/user/janedoe" {
		t.Errorf("RedditActivity = %q", got.RedditActivity)
	}
	wantSites := []string{"https://janedoe.dev", "https://janedoe.github.io/portfolio"}
	if diff := cmp.Diff(wantSites, got.Websites); diff != "" {
		t.Errorf("Websites mismatch (-want +got):\n%s", diff)
	}
	wantPortfolios := []string{"https://janedoe.github.io/portfolio"}
	if diff := cmp.Diff(wantPortfolios, got.PortfolioLinks); diff != "" {
		t.Errorf("PortfolioLinks mismatch (-want +got):\n%s", diff)
	}
}

func TestMergerDedupsContacts(t *testing.T) {
	m := newMerger()
	m.addEmails([]string{"jane@example.com"})
	m.addEmails([]string{"jane@example.com", "other@example.com"})
	m.addPhones([]string{"415-555-0123"})
	m.addPhones([]string{"415-555-0123"})

	got := m.result()
	if len(got.Emails) != 2 {
		t.Errorf("Emails = %v, want 2 entries", got.Emails)
	}
	if len(got.Phones) != 1 {
		t.Errorf("Phones = %v, want 1 entry", got.Phones)
	}
}
