package models

import "time"

// Status is the outreach lifecycle state of a prospect. Transitions are not
// enforced; the convention is new -> contacted -> responded|not-interested.
type Status string

const (
	StatusNew           Status = "new"
	StatusContacted     Status = "contacted"
	StatusResponded     Status = "responded"
	StatusNotInterested Status = "not-interested"
)

// MaxContactAttempts caps the automatic follow-up cadence per prospect.
const MaxContactAttempts = 3

type AttemptType string

const (
	AttemptTypeEmail   AttemptType = "email"
	AttemptTypeMessage AttemptType = "linkedin_message"
)

type AttemptStatus string

const (
	AttemptStatusSent   AttemptStatus = "sent"
	AttemptStatusFailed AttemptStatus = "failed"
)

// ContactAttempt is one recorded outreach event. The sequence on a prospect
// is append-only.
type ContactAttempt struct {
	Type       AttemptType
	TemplateID string
	Date       time.Time
	Status     AttemptStatus
	Content    string
}

// Prospect is a captured person profile. LinkedInURL is stored in canonical
// form and is the dedup key across the store.
type Prospect struct {
	ID                string
	Name              string
	Headline          string
	Location          string
	LinkedInURL       string
	Email             string
	Phone             string
	IsLikelyJobSeeker bool
	JobSeekerScore    *int // nil until remote analysis runs
	Status            Status
	ContactAttempts   []ContactAttempt
	Notes             string
	DateAdded         time.Time
	LastUpdated       time.Time
}

// Stats are aggregate counters recomputed from the prospect collection.
type Stats struct {
	Total     int
	Contacted int
	Responded int
}

type Experience struct {
	Title   string
	Company string
}

// ScrapedProfile is the raw output of one profile-page pass.
type ScrapedProfile struct {
	LinkedInURL string
	Name        string
	Headline    string
	Location    string
	About       string
	Experiences []Experience
	Skills      []string
	Emails      []string
	Phones      []string
	SocialLinks []string
}

// SearchResult is one entry collected from a search page. Headline and
// Location are best-effort and often empty.
type SearchResult struct {
	Name        string
	LinkedInURL string
	Headline    string
	Location    string
}

// Enrichment holds contact channels discovered off-platform.
type Enrichment struct {
	Emails         []string
	Phones         []string
	Websites       []string
	PortfolioLinks []string
	GitHubProfile  string
	RedditActivity string
}

// MessageDraft is one labeled variant returned by the drafting backend.
type MessageDraft struct {
	Version             string
	Tone                string
	Text                string
	PersonalizationHook string
}

// DraftSet is the full drafting response for one prospect.
type DraftSet struct {
	Messages    []MessageDraft
	Recommended string
	Reasoning   string
	TokensUsed  int
	OK          bool
	Error       string
}

// Analysis is the remote scoring result. A zero value with OK=false is the
// fail-soft default when the backend is unreachable.
type Analysis struct {
	Emails         []string
	JobSeekerScore int
	Indicators     []string
	Summary        string
	Confidence     float64
	OK             bool
}
