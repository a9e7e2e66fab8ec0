// Package enrich discovers off-platform contact channels for a prospect by
// running a fixed set of web-search queries in background pages and then
// visiting the most promising discovered sites. A constant delay separates
// every search and every site visit; it is courtesy pacing, not an adaptive
// rate limiter. Any single failure is logged and skipped, so enrichment
// always returns a (possibly partially empty) result.
package enrich

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-rod/rod"

	"github.com/example/prospector/internal/browser"
	"github.com/example/prospector/internal/config"
	"github.com/example/prospector/internal/extract"
	"github.com/example/prospector/internal/logging"
	"github.com/example/prospector/internal/models"
)

// queryTemplates are filled with the prospect's name and issued in order.
var queryTemplates = []string{
	`"%s" portfolio website`,
	`"%s" github`,
	`"%s" reddit`,
	`"%s" contact email`,
}

// portfolioMarkers tag a discovered URL as a portfolio link.
var portfolioMarkers = []string{"portfolio", "behance.net", "dribbble.com", "github.io", "netlify.app", "vercel.app"}

// skipDomains are never worth a secondary visit.
var skipDomains = []string{
	"linkedin.com", "duckduckgo.com", "google.", "bing.com",
	"facebook.com", "instagram.com", "twitter.com", "x.com", "youtube.com",
	"wikipedia.org",
}

const tabSettleMs = 2500

type Service struct {
	br  *browser.Browser
	cfg *config.Config
	log *logging.Logger
}

func New(br *browser.Browser, cfg *config.Config) *Service {
	return &Service{br: br, cfg: cfg, log: logging.New(cfg.Logging.Level).With("module", "enrich")}
}

// Prospect runs the full enrichment sequence for one record.
func (s *Service) Prospect(ctx context.Context, p models.Prospect) models.Enrichment {
	if strings.TrimSpace(p.Name) == "" {
		s.log.Warn("enrichment skipped: prospect has no name", "id", p.ID)
		return models.Enrichment{}
	}

	merged := newMerger()
	for _, tmpl := range queryTemplates {
		query := fmt.Sprintf(tmpl, p.Name)
		s.searchOnce(ctx, query, merged)
		s.stepDelay()
	}

	// Secondary pass: visit the top discovered sites for embedded contact
	// details.
	sites := merged.websites
	if len(sites) > s.cfg.Limits.MaxEnrichSites {
		sites = sites[:s.cfg.Limits.MaxEnrichSites]
	}
	for _, site := range sites {
		s.visitSite(ctx, site, merged)
		s.stepDelay()
	}

	result := merged.result()
	s.log.Info("enrichment complete", "name", p.Name,
		"emails", len(result.Emails), "websites", len(result.Websites),
		"github", result.GitHubProfile != "")
	return result
}

func (s *Service) searchOnce(ctx context.Context, query string, m *merger) {
	searchURL := s.cfg.Enrich.SearchBaseURL + url.QueryEscape(query)
	page, err := s.br.BackgroundPage(ctx, searchURL)
	if err != nil {
		s.log.Warn("search tab failed", "query", query, "err", err)
		return
	}
	defer page.Close()
	time.Sleep(tabSettleMs * time.Millisecond)

	text := browser.PageText(page)
	m.addEmails(extract.Emails(text))
	m.addPhones(extract.Phones(text))
	m.addLinks(s.resultLinks(page))
}

func (s *Service) visitSite(ctx context.Context, site string, m *merger) {
	page, err := s.br.BackgroundPage(ctx, site)
	if err != nil {
		s.log.Warn("site visit failed", "site", site, "err", err)
		return
	}
	defer page.Close()
	time.Sleep(tabSettleMs * time.Millisecond)

	text := browser.PageText(page)
	m.addEmails(extract.Emails(text))
	m.addPhones(extract.Phones(text))
}

// resultLinks harvests outbound hrefs from a rendered search page.
func (s *Service) resultLinks(page *rod.Page) []string {
	els, err := page.Timeout(5 * time.Second).Elements(`a[href^="http"]`)
	if err != nil {
		return nil
	}
	var out []string
	for _, el := range els {
		href, err := el.Attribute("href")
		if err != nil || href == nil {
			continue
		}
		out = append(out, *href)
		if len(out) >= 40 {
			break
		}
	}
	return out
}

func (s *Service) stepDelay() {
	time.Sleep(time.Duration(s.cfg.Enrich.StepDelayMs) * time.Millisecond)
}

// merger accumulates deduplicated discoveries across queries.
type merger struct {
	emails, phones, websites, portfolios []string
	github, reddit                       string
	seen                                 map[string]bool
}

func newMerger() *merger {
	return &merger{seen: make(map[string]bool)}
}

func (m *merger) addEmails(emails []string) {
	for _, e := range emails {
		if !m.seen["e:"+e] {
			m.seen["e:"+e] = true
			m.emails = append(m.emails, e)
		}
	}
}

func (m *merger) addPhones(phones []string) {
	for _, p := range phones {
		if !m.seen["p:"+p] {
			m.seen["p:"+p] = true
			m.phones = append(m.phones, p)
		}
	}
}

func (m *merger) addLinks(links []string) {
	for _, raw := range links {
		u := strings.TrimSpace(raw)
		lower := strings.ToLower(u)
		switch {
		case strings.Contains(lower, "github.com/"):
			if m.github == "" && !strings.Contains(lower, "github.com/search") {
				m.github = u
			}
			continue
		case strings.Contains(lower, "reddit.com/user/") || strings.Contains(lower, "reddit.com/u/"):
			if m.reddit == "" {
				m.reddit = u
			}
			continue
		}
		if skipDomain(lower) || m.seen["w:"+lower] {
			continue
		}
		m.seen["w:"+lower] = true
		if isPortfolio(lower) {
			m.portfolios = append(m.portfolios, u)
		}
		m.websites = append(m.websites, u)
	}
}

func (m *merger) result() models.Enrichment {
	return models.Enrichment{
		Emails:         m.emails,
		Phones:         m.phones,
		Websites:       m.websites,
		PortfolioLinks: m.portfolios,
		GitHubProfile:  m.github,
		RedditActivity: m.reddit,
	}
}

func skipDomain(lower string) bool {
	for _, d := range skipDomains {
		if strings.Contains(lower, d) {
			return true
		}
	}
	return false
}

func isPortfolio(lower string) bool {
	for _, marker := range portfolioMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
