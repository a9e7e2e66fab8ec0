package browser

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/example/prospector/internal/config"
	"github.com/example/prospector/internal/logging"
)

type Browser struct {
	Rod      *rod.Browser
	Cfg      *config.Config
	log      *logging.Logger
	platform string
}

func New(ctx context.Context, cfg *config.Config) (*Browser, error) {
	log := logging.New(cfg.Logging.Level).With("module", "browser")
	// Leakless disabled to avoid AV false positives on Windows.
	l := launcher.New().Leakless(false).Headless(cfg.Stealth.Headless)
	url, err := l.Launch()
	if err != nil {
		return nil, err
	}
	rb := rod.New().ControlURL(url).MustConnect()
	br := &Browser{Rod: rb, Cfg: cfg, log: log}
	if err := br.init(ctx); err != nil {
		return nil, err
	}
	return br, nil
}

func (b *Browser) init(_ context.Context) error {
	b.Rod = b.Rod.MustIgnoreCertErrors(true)

	p := b.Rod.MustPage("about:blank")

	ua := b.Cfg.Stealth.UserAgent
	if ua == "" {
		uas := []string{
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0",
		}
		ua = uas[rand.Intn(len(uas))]
	}
	platform := "Win32"
	if strings.Contains(ua, "Macintosh") {
		platform = "MacIntel"
	} else if strings.Contains(ua, "Linux") {
		platform = "Linux x86_64"
	}
	b.platform = platform
	_ = proto.EmulationSetUserAgentOverride{UserAgent: ua, Platform: platform}.Call(p)

	w := randRange(b.Cfg.Stealth.ViewportWidthMin, b.Cfg.Stealth.ViewportWidthMax)
	h := randRange(b.Cfg.Stealth.ViewportHeightMin, b.Cfg.Stealth.ViewportHeightMax)
	_ = p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             w,
		Height:            h,
		DeviceScaleFactor: 1,
		Mobile:            false,
	})

	_, _ = p.Eval(stealthFn, platform)
	p.MustClose()
	b.log.Info("browser fingerprint initialized", "ua", ua, "viewport", fmt.Sprintf("%dx%d", w, h))
	return nil
}

// stealthFn masks the most common automation tells.
const stealthFn = `(platform) => {
	Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
	window.chrome = { runtime: {}, loadTimes: function() {}, csi: function() {}, app: {} };
	Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
	Object.defineProperty(navigator, 'platform', { get: () => platform });
	Object.defineProperty(navigator, 'hardwareConcurrency', { get: () => 8 });
}`

// stealthSource is the self-invoking form for document-start injection.
func stealthSource(platform string) string {
	return fmt.Sprintf("(%s)(%q)", stealthFn, platform)
}

func (b *Browser) NewPage(_ context.Context) (*rod.Page, error) {
	p := b.Rod.MustPage("")
	// Long default timeout so slow human-like typing never trips it.
	p = p.Timeout(300 * time.Second)
	p.MustEvalOnNewDocument(stealthSource(b.platform))
	return p, nil
}

// BackgroundPage opens a page for enrichment searches without stealing
// focus. The caller owns closing it.
func (b *Browser) BackgroundPage(_ context.Context, url string) (*rod.Page, error) {
	p, err := b.Rod.Page(proto.TargetCreateTarget{URL: url, Background: true})
	if err != nil {
		return nil, err
	}
	return p.Timeout(60 * time.Second), nil
}

func (b *Browser) Close() {
	if b.Rod != nil {
		_ = b.Rod.Close()
	}
}

func randRange(minV, maxV int) int {
	if minV >= maxV {
		return minV
	}
	return minV + rand.Intn(maxV-minV+1)
}

// Helpers

func WaitVisible(p *rod.Page, sel string, d time.Duration) error {
	if err := p.Timeout(d).WaitLoad(); err != nil {
		return err
	}
	el, err := p.Timeout(d).Element(sel)
	if err != nil {
		return err
	}
	return el.WaitVisible()
}

func Click(p *rod.Page, sel string) error {
	el, err := p.Timeout(10 * time.Second).Element(sel)
	if err != nil {
		return err
	}
	if err := el.WaitVisible(); err != nil {
		return err
	}
	return el.Click("left", 1)
}

// HasElement checks if an element exists.
func HasElement(p *rod.Page, sel string) bool {
	_, err := p.Timeout(2 * time.Second).Element(sel)
	return err == nil
}

// HasElementWithText checks if an element with text exists.
func HasElementWithText(p *rod.Page, text string) bool {
	_, err := p.Timeout(2*time.Second).ElementR("*", text)
	return err == nil
}

// PageText returns the full rendered text of the page.
func PageText(p *rod.Page) string {
	res, err := p.Eval(`() => document.body ? document.body.innerText : ''`)
	if err != nil {
		return ""
	}
	return res.Value.String()
}

// ScrollHeight returns the current total scrollable height.
func ScrollHeight(p *rod.Page) int {
	res, err := p.Eval(`() => document.body ? document.body.scrollHeight : 0`)
	if err != nil {
		return 0
	}
	return res.Value.Int()
}

// ScrollBy scrolls the page vertically by px.
func ScrollBy(p *rod.Page, px int) {
	_, _ = p.Eval(`(dy) => window.scrollBy({top: dy, behavior: 'smooth'})`, px)
}

// ScrollTo scrolls the page to an absolute vertical position.
func ScrollTo(p *rod.Page, y int) {
	_, _ = p.Eval(`(y) => window.scrollTo({top: y, behavior: 'smooth'})`, y)
}

func ScreenshotOnError(p *rod.Page, prefix string, err error) error {
	if p == nil || err == nil {
		return err
	}
	path := fmt.Sprintf("%s-%d.png", prefix, time.Now().Unix())
	bts, _ := p.Screenshot(true, &proto.PageCaptureScreenshot{})
	_ = os.WriteFile(path, bts, 0o644)
	return err
}
