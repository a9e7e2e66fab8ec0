package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LinkedIn struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"linkedin"`
	Backend struct {
		BaseURL string `yaml:"base_url"`
		Email   string `yaml:"email"`
	} `yaml:"backend"`
	Search struct {
		Defaults struct {
			Keywords string `yaml:"keywords"`
			Location string `yaml:"location"`
		} `yaml:"defaults"`
	} `yaml:"search"`
	Limits struct {
		MaxProfilesPerSearch int `yaml:"max_profiles_per_search"`
		MaxSendsPerDay       int `yaml:"max_sends_per_day"`
		MaxEnrichSites       int `yaml:"max_enrich_sites"`
	} `yaml:"limits"`
	Scrape struct {
		SettleMs       int `yaml:"settle_ms"`
		ScrollStepPx   int `yaml:"scroll_step_px"`
		ScrollDelayMs  int `yaml:"scroll_delay_ms"`
		MaxScrollSteps int `yaml:"max_scroll_steps"`
	} `yaml:"scrape"`
	Enrich struct {
		SearchBaseURL string `yaml:"search_base_url"`
		StepDelayMs   int    `yaml:"step_delay_ms"`
	} `yaml:"enrich"`
	Stealth struct {
		Headless          bool   `yaml:"headless"`
		UserAgent         string `yaml:"user_agent"`
		MinDelayMs        int    `yaml:"min_delay_ms"`
		MaxDelayMs        int    `yaml:"max_delay_ms"`
		SendDelayMs       int    `yaml:"send_delay_ms"`
		ViewportWidthMin  int    `yaml:"viewport_width_min"`
		ViewportWidthMax  int    `yaml:"viewport_width_max"`
		ViewportHeightMin int    `yaml:"viewport_height_min"`
		ViewportHeightMax int    `yaml:"viewport_height_max"`
		ActiveStart       string `yaml:"active_start"`
		ActiveEnd         string `yaml:"active_end"`
	} `yaml:"stealth"`
	Templates struct {
		OutreachSubject string `yaml:"outreach_subject"`
		Outreach        string `yaml:"outreach_message_template"`
		FollowUp        string `yaml:"follow_up_message_template"`
	} `yaml:"templates"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load() // optional
	cfg := defaultConfig()
	if b, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	applyEnvOverrides(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultConfig() Config {
	var cfg Config
	cfg.LinkedIn.BaseURL = "https://www.linkedin.com/"
	cfg.Backend.BaseURL = "http://localhost:8090"
	cfg.Limits.MaxProfilesPerSearch = 100
	cfg.Limits.MaxSendsPerDay = 50
	cfg.Limits.MaxEnrichSites = 3
	cfg.Scrape.SettleMs = 2000
	cfg.Scrape.ScrollStepPx = 600
	cfg.Scrape.ScrollDelayMs = 700
	cfg.Scrape.MaxScrollSteps = 20
	cfg.Enrich.SearchBaseURL = "https://duckduckgo.com/html/?q="
	cfg.Enrich.StepDelayMs = 3000
	cfg.Stealth.Headless = false
	cfg.Stealth.MinDelayMs = 120
	cfg.Stealth.MaxDelayMs = 900
	cfg.Stealth.SendDelayMs = 4000
	cfg.Stealth.ViewportWidthMin = 1280
	cfg.Stealth.ViewportWidthMax = 1680
	cfg.Stealth.ViewportHeightMin = 720
	cfg.Stealth.ViewportHeightMax = 1050
	cfg.Stealth.ActiveStart = "09:00"
	cfg.Stealth.ActiveEnd = "18:00"
	cfg.Database.Path = "prospector.db"
	cfg.Logging.Level = "info"
	cfg.Templates.OutreachSubject = "Quick question about your next role"
	cfg.Templates.Outreach = "Hi {{Name}}, saw your background in {{Title}} and thought your profile stood out. Open to a quick chat?"
	cfg.Templates.FollowUp = "Hi {{Name}}, following up in case my last note got buried. Still happy to chat whenever suits."
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PROSPECTOR_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("PROSPECTOR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PROSPECTOR_HEADLESS"); v == "1" || v == "true" {
		cfg.Stealth.Headless = true
	}
	if v := os.Getenv("PROSPECTOR_BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
}

func validate(cfg *Config) error {
	if cfg.LinkedIn.BaseURL == "" {
		return errors.New("linkedin.base_url is required")
	}
	if cfg.Backend.BaseURL == "" {
		return errors.New("backend.base_url is required")
	}
	if cfg.Limits.MaxProfilesPerSearch <= 0 {
		return errors.New("limits.max_profiles_per_search must be > 0")
	}
	if cfg.Limits.MaxSendsPerDay <= 0 {
		return errors.New("limits.max_sends_per_day must be > 0")
	}
	if cfg.Scrape.MaxScrollSteps <= 0 {
		return errors.New("scrape.max_scroll_steps must be > 0")
	}
	return nil
}
