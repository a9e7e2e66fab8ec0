package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/example/prospector/internal/browser"
	"github.com/example/prospector/internal/config"
	"github.com/example/prospector/internal/logging"
)

type Auth struct {
	br  *browser.Browser
	cfg *config.Config
	log *logging.Logger
}

func New(br *browser.Browser, cfg *config.Config) *Auth {
	return &Auth{br: br, cfg: cfg, log: logging.New(cfg.Logging.Level).With("module", "auth")}
}

// EnsureLoggedIn validates a cookie-backed session first and falls back to a
// fresh credential login.
func (a *Auth) EnsureLoggedIn(ctx context.Context) error {
	p, err := a.br.NewPage(ctx)
	if err != nil {
		return err
	}
	defer p.Close()
	if err := a.loadCookies(p); err == nil {
		if a.validateSession(p) {
			a.log.Info("session validated using cookies")
			return nil
		}
	}
	if err := a.login(p); err != nil {
		return err
	}
	if err := a.saveCookies(p); err != nil {
		a.log.Warn("save cookies failed", "err", err)
	}
	return nil
}

func (a *Auth) login(p *rod.Page) error {
	email := os.Getenv("LINKEDIN_EMAIL")
	pass := os.Getenv("LINKEDIN_PASSWORD")
	if email == "" || pass == "" {
		return errors.New("missing LINKEDIN_EMAIL or LINKEDIN_PASSWORD env")
	}

	a.log.Info("attempting login", "email", email)
	if err := p.Navigate(a.cfg.LinkedIn.BaseURL + "login"); err != nil {
		return fmt.Errorf("failed to navigate to login page: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("login page load failed: %w", err)
	}
	time.Sleep(1 * time.Second)

	usernameInput, err := p.Timeout(5 * time.Second).Element("input#username")
	if err != nil {
		browser.ScreenshotOnError(p, "login_page_fail", err)
		return fmt.Errorf("username input not found: %w", err)
	}
	if err := usernameInput.Input(email); err != nil {
		return fmt.Errorf("failed to input email: %w", err)
	}
	time.Sleep(300 * time.Millisecond)

	passwordInput, err := p.Timeout(5 * time.Second).Element("input#password")
	if err != nil {
		return fmt.Errorf("password input not found: %w", err)
	}
	if err := passwordInput.Input(pass); err != nil {
		return fmt.Errorf("failed to input password: %w", err)
	}
	time.Sleep(200 * time.Millisecond)

	submitBtn, err := p.Timeout(5 * time.Second).Element("button[type='submit']")
	if err != nil {
		return fmt.Errorf("submit button not found: %w", err)
	}
	if err := submitBtn.Click("left", 1); err != nil {
		return fmt.Errorf("failed to click submit: %w", err)
	}
	time.Sleep(5 * time.Second)

	currentURL := p.MustInfo().URL
	if strings.Contains(currentURL, "/feed") {
		a.log.Info("login successful", "url", currentURL)
		return nil
	}
	// Logged-in chrome appears even when the redirect lands elsewhere.
	if browser.HasElement(p, "[class*='global-nav']") || browser.HasElement(p, "a[href*='/feed']") {
		a.log.Info("login successful", "detection", "navigation chrome", "url", currentURL)
		return nil
	}
	if !strings.Contains(currentURL, "/login") && !strings.Contains(currentURL, "/uas/login") {
		a.log.Info("login successful", "detection", "left login page", "url", currentURL)
		return nil
	}

	if errEl, err := p.Timeout(2 * time.Second).Element(".alert--error, .form__label--error, .error"); err == nil {
		if errText, _ := errEl.Text(); errText != "" {
			browser.ScreenshotOnError(p, "login_error", errors.New("login failed"))
			return fmt.Errorf("login failed: %s", errText)
		}
	}
	if browser.HasElement(p, "[data-test-id='checkpoint'], .challenge-dialog") {
		browser.ScreenshotOnError(p, "login_checkpoint", errors.New("checkpoint"))
		return errors.New("login blocked by checkpoint/verification - please login manually in browser first")
	}
	browser.ScreenshotOnError(p, "login_fail", errors.New("stuck on login"))
	return errors.New("login failed: still on login page after submitting credentials")
}

func (a *Auth) validateSession(p *rod.Page) bool {
	_ = p.Navigate(a.cfg.LinkedIn.BaseURL + "feed/")
	if err := p.WaitLoad(); err != nil {
		return false
	}
	_, err := p.Timeout(5 * time.Second).Element("a[href*='/feed/']")
	return err == nil
}

func cookiesPath() string {
	return filepath.Join(".cache", "cookies.json")
}

func (a *Auth) loadCookies(p *rod.Page) error {
	b, err := os.ReadFile(cookiesPath())
	if err != nil {
		return err
	}
	var cookies []*proto.NetworkCookie
	if err := json.Unmarshal(b, &cookies); err != nil {
		return err
	}
	for _, c := range cookies {
		_, _ = proto.NetworkSetCookie{Domain: c.Domain, Name: c.Name, Value: c.Value, Path: c.Path, Expires: c.Expires, HTTPOnly: c.HTTPOnly, Secure: c.Secure}.Call(p)
	}
	return nil
}

func (a *Auth) saveCookies(p *rod.Page) error {
	pp := p.Timeout(20 * time.Second)
	cookies, err := proto.StorageGetCookies{}.Call(pp)
	if err != nil {
		time.Sleep(500 * time.Millisecond)
		cookies, err = proto.StorageGetCookies{}.Call(pp)
		if err != nil {
			return err
		}
	}
	b, _ := json.MarshalIndent(cookies.Cookies, "", "  ")
	_ = os.MkdirAll(filepath.Dir(cookiesPath()), 0o755)
	return os.WriteFile(cookiesPath(), b, 0o644)
}
