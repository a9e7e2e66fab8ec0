// Package linkurl normalizes and validates LinkedIn profile URLs. The
// canonical form scheme+host+/in/<identifier>/ is the dedup key used across
// the store and the collectors.
package linkurl

import (
	"net/url"
	"strings"
)

const canonicalHost = "https://www.linkedin.com"

// excludedMarkers are path segments that indicate a non-person page.
var excludedMarkers = []string{
	"/company/",
	"/school/",
	"/groups/",
	"/jobs/",
	"/feed/",
	"/search/",
	"/messaging/",
	"/learning/",
	"/pub/dir/",
}

// Normalize reduces a profile URL (absolute, relative, or with tracking
// params) to canonical form. Returns "" when no /in/<identifier> can be
// found. Normalize is idempotent.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "/") {
		raw = canonicalHost + raw
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	path := u.Path
	i := strings.Index(path, "/in/")
	if i < 0 {
		return ""
	}
	id := path[i+len("/in/"):]
	if j := strings.IndexByte(id, '/'); j >= 0 {
		id = id[:j]
	}
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return ""
	}
	return canonicalHost + "/in/" + id + "/"
}

// IsValidProfile reports whether a URL points at a person profile: it must
// carry the linkedin host, an /in/ segment, and none of the excluded path
// markers.
func IsValidProfile(raw string) bool {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if !strings.Contains(lower, "linkedin.com") {
		return false
	}
	if !strings.Contains(lower, "/in/") {
		return false
	}
	for _, m := range excludedMarkers {
		if strings.Contains(lower, m) {
			return false
		}
	}
	return Normalize(raw) != ""
}
