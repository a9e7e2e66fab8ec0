// Package search collects prospect candidates from people-search pages.
// LinkedIn's result markup is unstable, so container discovery casts a broad
// net of OR'd selectors and name extraction runs a fallback chain; recall
// over precision, with a plausibility filter catching the junk.
package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-rod/rod"

	"github.com/example/prospector/internal/browser"
	"github.com/example/prospector/internal/classify"
	"github.com/example/prospector/internal/config"
	"github.com/example/prospector/internal/linkurl"
	"github.com/example/prospector/internal/logging"
	"github.com/example/prospector/internal/models"
	"github.com/example/prospector/internal/stealth"
	"github.com/example/prospector/internal/store"
)

// containerSelectors are tried together; any element matching one is a
// candidate result card.
var containerSelectors = []string{
	`li.reusable-search__result-container`,
	`div.entity-result`,
	`div[data-chameleon-result-urn]`,
	`ul[role="list"] > li`,
}

// scrollFractions of the page height visited to trigger lazy-loaded
// batches.
var scrollFractions = []float64{0, 0.5, 1.0}

const (
	maxPages        = 10
	nameScanLines   = 4
	perStepDelayMs  = 1200
	afterPageDelayA = 2000
	afterPageDelayB = 4000
)

type Service struct {
	br  *browser.Browser
	cfg *config.Config
	st  *store.Store
	log *logging.Logger
}

type Criteria struct {
	Keywords string
	Location string
	Limit    int
}

func New(br *browser.Browser, cfg *config.Config, st *store.Store) *Service {
	return &Service{br: br, cfg: cfg, st: st, log: logging.New(cfg.Logging.Level).With("module", "search")}
}

// CollectAndStore pages through search results, collecting candidates and
// saving new prospects until the limit is reached or results run out.
// Returns the number of newly stored prospects.
func (s *Service) CollectAndStore(ctx context.Context, c Criteria) (int, error) {
	if c.Limit <= 0 {
		c.Limit = s.cfg.Limits.MaxProfilesPerSearch
	}
	kw := c.Keywords
	if c.Location != "" {
		kw += " " + c.Location
	}
	baseSearchURL := fmt.Sprintf("%ssearch/results/people/?keywords=%s&origin=GLOBAL_SEARCH_HEADER",
		s.cfg.LinkedIn.BaseURL, url.QueryEscape(kw))

	p, err := s.br.NewPage(ctx)
	if err != nil {
		return 0, err
	}
	defer p.Close()

	stored := 0
	seen := make(map[string]bool)
	s.log.Info("starting search", "keywords", kw, "limit", c.Limit)

	for pageNum := 1; pageNum <= maxPages && stored < c.Limit; pageNum++ {
		pageURL := fmt.Sprintf("%s&page=%d", baseSearchURL, pageNum)
		if err := p.Navigate(pageURL); err != nil {
			s.log.Warn("failed to navigate to page", "page", pageNum, "err", err)
			break
		}
		if err := p.Timeout(15 * time.Second).WaitLoad(); err != nil {
			s.log.Warn("page load failed", "page", pageNum, "err", err)
			break
		}

		results := s.CollectPage(p)
		s.log.Info("page collected", "page", pageNum, "results", len(results))
		if len(results) == 0 {
			if pageNum == 1 {
				browser.ScreenshotOnError(p, "search_fail", fmt.Errorf("no results"))
			}
			break
		}

		newOnPage := 0
		for _, r := range results {
			if stored >= c.Limit {
				break
			}
			if seen[r.LinkedInURL] {
				continue
			}
			seen[r.LinkedInURL] = true

			cls := classify.Classify(r.Headline)
			rec := models.Prospect{
				Name:              r.Name,
				Headline:          r.Headline,
				Location:          r.Location,
				LinkedInURL:       r.LinkedInURL,
				IsLikelyJobSeeker: cls.IsLikelyJobSeeker,
			}
			_, created, err := s.st.Save(ctx, &rec)
			if err != nil {
				s.log.Warn("failed to store prospect", "url", r.LinkedInURL, "err", err)
				continue
			}
			if created {
				stored++
				newOnPage++
				s.log.Info("prospect stored", "url", r.LinkedInURL, "name", r.Name, "total", stored)
			}
		}
		if newOnPage == 0 {
			s.log.Info("no new prospects on page, ending search", "page", pageNum)
			break
		}
		if stored < c.Limit {
			stealth.SleepRandom(afterPageDelayA, afterPageDelayB)
		}
	}
	return stored, nil
}

// CollectPage runs the per-page algorithm: staged scrolls, container
// discovery, link validation, name fallback chain, first-wins dedup by
// canonical URL. All loops are bounded; it never blocks indefinitely.
func (s *Service) CollectPage(p *rod.Page) []models.SearchResult {
	height := browser.ScrollHeight(p)
	for _, f := range scrollFractions {
		browser.ScrollTo(p, int(float64(height)*f))
		time.Sleep(perStepDelayMs * time.Millisecond)
	}

	containers := s.findContainers(p)
	var out []models.SearchResult
	seen := make(map[string]bool)
	for _, c := range containers {
		r, ok := s.extractResult(c)
		if !ok || seen[r.LinkedInURL] {
			continue
		}
		seen[r.LinkedInURL] = true
		out = append(out, r)
	}
	return out
}

func (s *Service) findContainers(p *rod.Page) rod.Elements {
	for _, sel := range containerSelectors {
		els, err := p.Timeout(5 * time.Second).Elements(sel)
		if err == nil && len(els) > 0 {
			s.log.Debug("containers found", "selector", sel, "count", len(els))
			return els
		}
	}
	return nil
}

// extractResult pulls a profile link and a name out of one result card.
// Cards without a valid profile link are rejected.
func (s *Service) extractResult(c *rod.Element) (models.SearchResult, bool) {
	link, err := c.Timeout(2 * time.Second).Element(`a[href*="/in/"]`)
	if err != nil {
		return models.SearchResult{}, false
	}
	href, err := link.Attribute("href")
	if err != nil || href == nil {
		return models.SearchResult{}, false
	}
	canonical := linkurl.Normalize(*href)
	if canonical == "" || !linkurl.IsValidProfile(canonical) {
		return models.SearchResult{}, false
	}

	r := models.SearchResult{LinkedInURL: canonical}
	r.Name = s.extractName(c, link)
	r.Headline, r.Location = s.extractSubtitles(c)
	return r, true
}

// extractName tries, in priority order: the link's accessible name, the
// link's own text, nearby aria-hidden spans, then the container's first
// lines. Every candidate passes the plausibility filter.
func (s *Service) extractName(c, link *rod.Element) string {
	if aria, err := link.Attribute("aria-label"); err == nil && aria != nil {
		if name := NameFromAria(*aria); name != "" && PlausibleName(name) {
			return name
		}
	}
	if text, err := link.Text(); err == nil {
		if name := firstPlausibleLine(text, nameScanLines); name != "" {
			return name
		}
	}
	if spans, err := c.Timeout(1 * time.Second).Elements(`span[aria-hidden="true"]`); err == nil {
		for _, span := range spans {
			if text, err := span.Text(); err == nil && PlausibleName(text) {
				return text
			}
		}
	}
	if text, err := c.Text(); err == nil {
		return firstPlausibleLine(text, nameScanLines)
	}
	return ""
}

// extractSubtitles is best-effort; search cards carry less structure than
// profile pages and both values are often empty.
func (s *Service) extractSubtitles(c *rod.Element) (headline, location string) {
	if el, err := c.Timeout(1 * time.Second).Element(`div.entity-result__primary-subtitle`); err == nil {
		if t, err := el.Text(); err == nil {
			headline = trimmed(t)
		}
	}
	if el, err := c.Timeout(1 * time.Second).Element(`div.entity-result__secondary-subtitle`); err == nil {
		if t, err := el.Text(); err == nil {
			location = trimmed(t)
		}
	}
	return headline, location
}

func trimmed(s string) string {
	if len(s) > 200 {
		s = s[:200]
	}
	return strings.TrimSpace(s)
}
