package outreach

import (
	"strings"

	"github.com/example/prospector/internal/models"
)

// Render fills {{Name}}, {{Title}} and {{Company}} placeholders from a
// prospect. First name only, and headlines are simplified down to the title
// part so messages read naturally.
func Render(t string, p models.Prospect) string {
	firstName := p.Name
	if idx := strings.Index(firstName, " "); idx > 0 {
		firstName = firstName[:idx]
	}

	title := p.Headline
	if idx := strings.Index(title, "@"); idx > 0 {
		title = strings.TrimSpace(title[:idx])
	} else if idx := strings.Index(title, "|"); idx > 0 {
		title = strings.TrimSpace(title[:idx])
	} else if idx := strings.Index(strings.ToLower(title), " at "); idx > 0 {
		title = strings.TrimSpace(title[:idx])
	}
	if len(title) > 50 {
		title = title[:50]
		if idx := strings.LastIndex(title, " "); idx > 20 {
			title = title[:idx]
		}
	}

	company := companyOf(p)

	r := strings.NewReplacer(
		"{{Name}}", firstName,
		"{{Title}}", title,
		"{{Company}}", company,
	)
	return r.Replace(t)
}

func companyOf(p models.Prospect) string {
	if idx := strings.Index(strings.ToLower(p.Headline), " at "); idx >= 0 {
		return strings.TrimSpace(p.Headline[idx+4:])
	}
	return ""
}
