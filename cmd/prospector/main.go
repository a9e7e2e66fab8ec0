package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/example/prospector/internal/ai"
	"github.com/example/prospector/internal/auth"
	"github.com/example/prospector/internal/browser"
	"github.com/example/prospector/internal/classify"
	"github.com/example/prospector/internal/config"
	"github.com/example/prospector/internal/enrich"
	"github.com/example/prospector/internal/logging"
	"github.com/example/prospector/internal/models"
	"github.com/example/prospector/internal/outreach"
	"github.com/example/prospector/internal/scrape"
	"github.com/example/prospector/internal/search"
	"github.com/example/prospector/internal/store"
)

func main() {
	ctx := context.Background()

	// Global flags
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "config.yaml", "Path to config file")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `prospector - LinkedIn prospecting CLI

Usage:
  prospector [--config config.yaml] <command> [options]

Commands:
  login                          Ensure logged in session (with cookie reuse)
  collect [--keywords K --location L --limit N]
                                  Search and store candidate prospects
  scrape [--url U | --limit N]   Deep-scrape profiles, classify and score them
  enrich [--limit N]             Hunt for off-platform contact info
  draft --id ID                  Generate outreach message variants
  send [--channel message|email --limit N]
                                  Send outreach to eligible prospects
  stats                          Print aggregate prospect counters
  wipe                           Delete all stored prospects

Examples:
  prospector --config config.yaml login
  prospector collect --keywords "open to work" --limit 50
  prospector send --channel email --limit 10
`)
	}

	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Logging.Level)
	log.Info("prospector starting", "version", "0.1.0")
	log.Info("config loaded", "db_path", cfg.Database.Path, "log_level", cfg.Logging.Level)

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Error("db open failed", "err", err)
		os.Exit(1)
	}
	defer st.Close()
	if err := st.Migrate(ctx); err != nil {
		log.Error("db migration failed", "err", err)
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	log.Info("executing command", "command", cmd)
	switch cmd {
	case "login":
		err = runLogin(ctx, cfg)
	case "collect":
		err = runCollect(ctx, cfg, st)
	case "scrape":
		err = runScrape(ctx, cfg, st)
	case "enrich":
		err = runEnrich(ctx, cfg, st)
	case "draft":
		err = runDraft(ctx, cfg, st)
	case "send":
		err = runSend(ctx, cfg, st)
	case "stats":
		err = runStats(ctx, cfg, st)
	case "wipe":
		err = runWipe(ctx, st)
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		log.Error("command failed", "cmd", cmd, "err", err)
		fmt.Fprintf(os.Stderr, "\n❌ Command failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "💡 Tip: Run with PROSPECTOR_LOG_LEVEL=debug for more details\n")
		os.Exit(1)
	}
	log.Info("command completed successfully", "cmd", cmd)
	fmt.Printf("\n✅ %s completed successfully\n", cmd)
}

func runLogin(ctx context.Context, cfg *config.Config) error {
	br, err := browser.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer br.Close()
	au := auth.New(br, cfg)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()
	return au.EnsureLoggedIn(ctx)
}

func runCollect(ctx context.Context, cfg *config.Config, st *store.Store) error {
	fs := flag.NewFlagSet("collect", flag.ContinueOnError)
	var keywords, location string
	var limit int
	fs.StringVar(&keywords, "keywords", cfg.Search.Defaults.Keywords, "Search keywords")
	fs.StringVar(&location, "location", cfg.Search.Defaults.Location, "Location filter")
	fs.IntVar(&limit, "limit", cfg.Limits.MaxProfilesPerSearch, "Max profiles to collect in this run")
	if err := fs.Parse(flag.Args()[1:]); err != nil {
		return err
	}

	br, err := browser.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer br.Close()
	au := auth.New(br, cfg)
	if err := au.EnsureLoggedIn(ctx); err != nil {
		return err
	}

	svc := search.New(br, cfg, st)
	crit := search.Criteria{Keywords: keywords, Location: location, Limit: limit}
	newCount, err := svc.CollectAndStore(ctx, crit)
	if err != nil {
		return err
	}
	logging.New(cfg.Logging.Level).Info("collect complete", "new_prospects", newCount)
	return nil
}

func runScrape(ctx context.Context, cfg *config.Config, st *store.Store) error {
	fs := flag.NewFlagSet("scrape", flag.ContinueOnError)
	var rawURL string
	var limit int
	var comprehensive bool
	fs.StringVar(&rawURL, "url", "", "Scrape a single profile URL instead of the backlog")
	fs.IntVar(&limit, "limit", 10, "Max unanalyzed prospects to scrape in this run")
	fs.BoolVar(&comprehensive, "comprehensive", false, "Also weigh posts and comments in remote analysis")
	if err := fs.Parse(flag.Args()[1:]); err != nil {
		return err
	}
	log := logging.New(cfg.Logging.Level)

	br, err := browser.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer br.Close()
	au := auth.New(br, cfg)
	if err := au.EnsureLoggedIn(ctx); err != nil {
		return err
	}

	sc := scrape.New(br, cfg)
	client := ai.New(cfg.Backend.BaseURL, log)

	var targets []models.Prospect
	if rawURL != "" {
		p := models.Prospect{LinkedInURL: rawURL}
		saved, created, err := st.Save(ctx, &p)
		if err != nil {
			return err
		}
		log.Info("target prepared", "id", saved.ID, "created", created)
		targets = []models.Prospect{saved}
	} else {
		targets, err = st.ListUnanalyzed(ctx, limit)
		if err != nil {
			return err
		}
	}
	if len(targets) == 0 {
		log.Info("nothing to scrape")
		return nil
	}

	for _, p := range targets {
		prof, err := sc.Profile(ctx, p.LinkedInURL)
		if err != nil {
			log.Warn("profile scrape failed, continuing", "url", p.LinkedInURL, "err", err)
			continue
		}

		cls := classify.Classify(prof.Headline + "\n" + prof.About)
		analysis := client.Analyze(ctx, ai.AnalyzeInput{
			Name:     prof.Name,
			Headline: prof.Headline,
			About:    prof.About,
			Emails:   prof.Emails,
		}, comprehensive)

		patch := store.Patch{ID: p.ID}
		if prof.Name != "" {
			patch.Name = &prof.Name
		}
		if prof.Headline != "" {
			patch.Headline = &prof.Headline
		}
		if prof.Location != "" {
			patch.Location = &prof.Location
		}
		if p.Email == "" {
			if email := firstOf(prof.Emails, analysis.Emails); email != "" {
				patch.Email = &email
			}
		}
		if p.Phone == "" && len(prof.Phones) > 0 {
			patch.Phone = &prof.Phones[0]
		}
		likely := cls.IsLikelyJobSeeker
		patch.IsLikelyJobSeeker = &likely
		if analysis.OK {
			score := analysis.JobSeekerScore
			patch.JobSeekerScore = &score
			if analysis.Summary != "" {
				patch.Notes = &analysis.Summary
			}
		}
		if _, err := st.Update(ctx, patch); err != nil {
			log.Warn("prospect update failed", "id", p.ID, "err", err)
			continue
		}
		log.Info("prospect scraped", "id", p.ID, "name", prof.Name,
			"likely_job_seeker", likely, "remote_ok", analysis.OK)
	}
	return nil
}

func runEnrich(ctx context.Context, cfg *config.Config, st *store.Store) error {
	fs := flag.NewFlagSet("enrich", flag.ContinueOnError)
	var limit int
	fs.IntVar(&limit, "limit", 5, "Max prospects to enrich in this run")
	if err := fs.Parse(flag.Args()[1:]); err != nil {
		return err
	}
	log := logging.New(cfg.Logging.Level)

	all, _, err := st.GetAll(ctx)
	if err != nil {
		return err
	}
	var targets []models.Prospect
	for _, p := range all {
		if p.Email == "" {
			targets = append(targets, p)
		}
		if len(targets) >= limit {
			break
		}
	}
	if len(targets) == 0 {
		log.Info("no prospects need enrichment")
		return nil
	}

	br, err := browser.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer br.Close()

	svc := enrich.New(br, cfg)
	for _, p := range targets {
		e := svc.Prospect(ctx, p)
		patch := store.Patch{ID: p.ID}
		if len(e.Emails) > 0 {
			patch.Email = &e.Emails[0]
		}
		if p.Phone == "" && len(e.Phones) > 0 {
			patch.Phone = &e.Phones[0]
		}
		if notes := enrichmentNotes(e); notes != "" {
			merged := strings.TrimSpace(p.Notes + "\n" + notes)
			patch.Notes = &merged
		}
		if _, err := st.Update(ctx, patch); err != nil {
			log.Warn("enrichment update failed", "id", p.ID, "err", err)
			continue
		}
		log.Info("prospect enriched", "id", p.ID,
			"emails", len(e.Emails), "websites", len(e.Websites))
	}
	return nil
}

func enrichmentNotes(e models.Enrichment) string {
	var parts []string
	if e.GitHubProfile != "" {
		parts = append(parts, "GitHub: "+e.GitHubProfile)
	}
	if e.RedditActivity != "" {
		parts = append(parts, "Reddit: "+e.RedditActivity)
	}
	for _, w := range e.PortfolioLinks {
		parts = append(parts, "Portfolio: "+w)
	}
	return strings.Join(parts, "\n")
}

func runDraft(ctx context.Context, cfg *config.Config, st *store.Store) error {
	fs := flag.NewFlagSet("draft", flag.ContinueOnError)
	var id string
	fs.StringVar(&id, "id", "", "Prospect ID to draft for")
	if err := fs.Parse(flag.Args()[1:]); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("--id is required")
	}
	log := logging.New(cfg.Logging.Level)

	p, err := st.Get(ctx, id)
	if err != nil {
		return err
	}
	client := ai.New(cfg.Backend.BaseURL, log)

	score := 0
	if p.JobSeekerScore != nil {
		score = *p.JobSeekerScore
	}
	set := client.Draft(ctx, ai.DraftInput{
		Name:           p.Name,
		Headline:       p.Headline,
		JobSeekerScore: score,
		Stage:          string(p.Status),
		Notes:          p.Notes,
	})
	if !set.OK {
		return fmt.Errorf("drafting failed: %s", set.Error)
	}

	out, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runSend(ctx context.Context, cfg *config.Config, st *store.Store) error {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	var channel string
	var limit int
	fs.StringVar(&channel, "channel", "message", "Delivery channel: message or email")
	fs.IntVar(&limit, "limit", cfg.Limits.MaxSendsPerDay, "Max prospects to contact in this run")
	if err := fs.Parse(flag.Args()[1:]); err != nil {
		return err
	}
	log := logging.New(cfg.Logging.Level)

	prospects, err := st.ListForOutreach(ctx, limit)
	if err != nil {
		return err
	}
	if len(prospects) == 0 {
		log.Info("no prospects eligible for outreach")
		return nil
	}

	render := func(p models.Prospect) outreach.Message {
		tmpl := cfg.Templates.Outreach
		tmplID := "outreach"
		if len(p.ContactAttempts) > 0 {
			tmpl = cfg.Templates.FollowUp
			tmplID = "follow_up"
		}
		return outreach.Message{
			Subject:    outreach.Render(cfg.Templates.OutreachSubject, p),
			Body:       outreach.Render(tmpl, p),
			TemplateID: tmplID,
		}
	}

	svc := outreach.New(st, cfg)
	var delivery outreach.Delivery

	switch channel {
	case "email":
		client := ai.New(cfg.Backend.BaseURL, log)
		password := os.Getenv("PROSPECTOR_BACKEND_PASSWORD")
		if cfg.Backend.Email == "" || password == "" {
			return fmt.Errorf("email channel needs backend.email in config and PROSPECTOR_BACKEND_PASSWORD set")
		}
		if err := client.Login(ctx, cfg.Backend.Email, password); err != nil {
			return fmt.Errorf("backend login: %w", err)
		}
		delivery = outreach.NewEmailDelivery(client)
	case "message":
		br, err := browser.New(ctx, cfg)
		if err != nil {
			return err
		}
		defer br.Close()
		au := auth.New(br, cfg)
		if err := au.EnsureLoggedIn(ctx); err != nil {
			return err
		}
		delivery = outreach.NewMessageDelivery(br, cfg)
	default:
		return fmt.Errorf("unknown channel: %s", channel)
	}

	res, err := svc.SendBatch(ctx, prospects, render, delivery)
	if err != nil {
		return err
	}
	log.Info("send complete", "sent", res.Sent, "failed", res.Failed, "skipped", res.Skipped)
	return nil
}

func runStats(ctx context.Context, cfg *config.Config, st *store.Store) error {
	stats, err := st.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("prospects: %d\ncontacted: %d\nresponded: %d\n",
		stats.Total, stats.Contacted, stats.Responded)
	return nil
}

func runWipe(ctx context.Context, st *store.Store) error {
	fmt.Print("This deletes every stored prospect. Type 'yes' to confirm: ")
	var answer string
	if _, err := fmt.Scanln(&answer); err != nil || answer != "yes" {
		return fmt.Errorf("aborted")
	}
	return st.Clear(ctx)
}

func firstOf(lists ...[]string) string {
	for _, l := range lists {
		if len(l) > 0 && l[0] != "" {
			return l[0]
		}
	}
	return ""
}
