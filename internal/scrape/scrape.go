// Package scrape drives a single profile page through a strictly sequential
// pass: navigate, settle, expand, snapshot once, parse. Every extraction
// step degrades to an empty value; the only hard failures are navigation
// errors.
package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"

	"github.com/example/prospector/internal/browser"
	"github.com/example/prospector/internal/config"
	"github.com/example/prospector/internal/extract"
	"github.com/example/prospector/internal/linkurl"
	"github.com/example/prospector/internal/logging"
	"github.com/example/prospector/internal/models"
	"github.com/example/prospector/internal/stealth"
)

// Controls whose label matches expandVocabulary get clicked to reveal
// collapsed sections; navVocabulary labels are action buttons that must be
// left alone.
var (
	expandVocabulary = []string{"see more", "show more", "see all", "show all"}
	navVocabulary    = []string{"message", "connect", "follow", "more actions"}
)

const minReadyTextLen = 500

type Service struct {
	br  *browser.Browser
	cfg *config.Config
	log *logging.Logger
}

func New(br *browser.Browser, cfg *config.Config) *Service {
	return &Service{br: br, cfg: cfg, log: logging.New(cfg.Logging.Level).With("module", "scrape")}
}

// Profile runs the full pass against one profile URL.
func (s *Service) Profile(ctx context.Context, rawURL string) (*models.ScrapedProfile, error) {
	canonical := linkurl.Normalize(rawURL)
	if canonical == "" {
		return nil, fmt.Errorf("not a profile url: %q", rawURL)
	}
	p, err := s.br.NewPage(ctx)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	if err := s.navigate(p, canonical); err != nil {
		return nil, err
	}
	time.Sleep(time.Duration(s.cfg.Scrape.SettleMs) * time.Millisecond)

	s.expandPage(p)
	browser.ScrollTo(p, 0)
	time.Sleep(800 * time.Millisecond)

	clicked := s.expandSections(p)
	s.log.Debug("expanded collapsed sections", "clicked", clicked)

	// Single-read policy: one snapshot of the rendered text, parsed below.
	// Repeated DOM reads across an evolving page cost more and disagree
	// with each other.
	snapshot := browser.PageText(p)

	prof := &models.ScrapedProfile{LinkedInURL: canonical}
	prof.Name = s.domName(p)
	if prof.Name == "" {
		prof.Name = ParseName(snapshot)
	}
	prof.Headline = s.domHeadline(p, prof.Name)
	if prof.Headline == "" {
		prof.Headline = ParseHeadline(snapshot)
	}
	prof.Location = s.domLocation(p)
	prof.About = ParseAbout(snapshot)
	prof.Experiences = ParseExperiences(snapshot)
	prof.Skills = ParseSkills(snapshot)
	prof.Emails = extract.Emails(snapshot)
	prof.Phones = extract.Phones(snapshot)
	prof.SocialLinks = extract.SocialHandles(snapshot)

	s.log.Info("profile scraped", "url", canonical, "name", prof.Name,
		"experiences", len(prof.Experiences), "skills", len(prof.Skills))
	return prof, nil
}

// navigate goes to the target unless already there, then waits for document
// readiness and a minimum text length. A timed-out wait is a soft failure:
// proceed anyway.
func (s *Service) navigate(p *rod.Page, target string) error {
	current := p.MustInfo().URL
	if linkurl.Normalize(current) != target {
		if err := p.Navigate(target); err != nil {
			return fmt.Errorf("navigate: %w", err)
		}
	}
	if err := p.Timeout(15 * time.Second).WaitLoad(); err != nil {
		s.log.Warn("page load wait timed out, proceeding", "err", err)
	}
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if len(browser.PageText(p)) >= minReadyTextLen {
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	s.log.Warn("page text below readiness threshold, proceeding", "url", target)
	return nil
}

// expandPage scrolls in fixed increments until the scrollable height stops
// growing for one iteration or the step cap is hit. The cap keeps infinite
// scroll feeds from trapping the pass.
func (s *Service) expandPage(p *rod.Page) {
	lastHeight := browser.ScrollHeight(p)
	for i := 0; i < s.cfg.Scrape.MaxScrollSteps; i++ {
		browser.ScrollBy(p, s.cfg.Scrape.ScrollStepPx)
		time.Sleep(time.Duration(s.cfg.Scrape.ScrollDelayMs) * time.Millisecond)
		h := browser.ScrollHeight(p)
		if h <= lastHeight {
			break
		}
		lastHeight = h
	}
}

// expandSections clicks every control whose label matches the expand
// vocabulary, skipping action buttons. Individual click failures are
// ignored.
func (s *Service) expandSections(p *rod.Page) int {
	els, err := p.Timeout(5 * time.Second).Elements(`button, [role="button"]`)
	if err != nil {
		return 0
	}
	clicked := 0
	for _, el := range els {
		label := controlLabel(el)
		if label == "" || !matchesAny(label, expandVocabulary) || matchesAny(label, navVocabulary) {
			continue
		}
		if err := stealth.ClickHumanLike(p, el); err != nil {
			continue
		}
		clicked++
		stealth.SleepRandom(200, 600)
	}
	return clicked
}

func controlLabel(el *rod.Element) string {
	text, _ := el.Text()
	label := strings.ToLower(strings.TrimSpace(text))
	if label == "" {
		if aria, err := el.Attribute("aria-label"); err == nil && aria != nil {
			label = strings.ToLower(strings.TrimSpace(*aria))
		}
	}
	return label
}

func matchesAny(label string, vocabulary []string) bool {
	for _, v := range vocabulary {
		if strings.Contains(label, v) {
			return true
		}
	}
	return false
}

// DOM lookups: higher confidence than snapshot scanning when the markup
// cooperates.

func (s *Service) domName(p *rod.Page) string {
	el, err := p.Timeout(3 * time.Second).Element("h1")
	if err != nil {
		return ""
	}
	name, err := el.Text()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(name)
}

func (s *Service) domHeadline(p *rod.Page, name string) string {
	for _, sel := range []string{`div.text-body-medium`, `div[class*="headline"]`} {
		el, err := p.Timeout(2 * time.Second).Element(sel)
		if err != nil {
			continue
		}
		headline, err := el.Text()
		if err != nil {
			continue
		}
		headline = strings.TrimSpace(headline)
		if headline != "" && headline != name {
			return headline
		}
	}
	return ""
}

func (s *Service) domLocation(p *rod.Page) string {
	el, err := p.Timeout(2 * time.Second).Element(`span.text-body-small[class*="break-words"], div.pv-text-details__left-panel span.text-body-small`)
	if err != nil {
		return ""
	}
	loc, err := el.Text()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(loc)
}
