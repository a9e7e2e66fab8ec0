package outreach

import (
	"testing"

	"github.com/example/prospector/internal/models"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		template string
		prospect models.Prospect
		want     string
	}{
		{
			name:     "first name only",
			template: "Hi {{Name}}!",
			prospect: models.Prospect{Name: "Jane Doe"},
			want:     "Hi Jane!",
		},
		{
			name:     "title simplified at separator",
			template: "{{Title}}",
			prospect: models.Prospect{Headline: "Backend Engineer at Acme Corp"},
			want:     "Backend Engineer",
		},
		{
			name:     "title simplified pipe separator",
			template: "{{Title}}",
			prospect: models.Prospect{Headline: "Data Scientist | ML enthusiast"},
			want:     "Data Scientist",
		},
		{
			name:     "company from headline",
			template: "{{Company}}",
			prospect: models.Prospect{Headline: "Engineer at Widget Inc"},
			want:     "Widget Inc",
		},
		{
			name:     "no company available",
			template: "{{Company}}",
			prospect: models.Prospect{Headline: "Freelance Designer"},
			want:     "",
		},
		{
			name:     "all placeholders",
			template: "Hi {{Name}}, saw you do {{Title}} at {{Company}}.",
			prospect: models.Prospect{Name: "John Smith", Headline: "SRE at BigCo"},
			want:     "Hi John, saw you do SRE at BigCo.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.template, tt.prospect)
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}
