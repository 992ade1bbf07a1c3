package browser

import (
	"context"
	mathrand "math/rand"
	"time"

	"compscout/scraper/config"
	"compscout/scraper/logger"
	"compscout/scraper/pkg/errors"
	"compscout/scraper/services/proxy"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// userAgents is the rotation pool for session identity. One entry is drawn
// per session, not per request, so a single invocation presents a stable
// fingerprint while consecutive runs vary.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
}

// Session drives one headless browser for the duration of a scrape
// invocation. All requests share the single page, so navigation is strictly
// sequential. Close must be called on every exit path.
type Session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	cfg      config.Config
	log      *logger.Logger
}

// NewSession launches the browser, opens one page with the stealth script
// installed, and overrides the user agent with a pool pick. When proxies are
// configured the fastest reachable one is routed through; an unreachable set
// falls back to direct connections.
func NewSession(cfg config.Config) (*Session, error) {
	log := logger.ForFetcher()

	l := launcher.New().Headless(cfg.Headless)
	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	if selector := proxy.NewSelector(cfg.ProxyAddrs); selector.Enabled() {
		if addr, ok := selector.Fastest(proxyProbeTimeout); ok {
			log.Info().Str("proxy", addr).Msg("routing browser through proxy")
			l = l.Proxy("socks5://" + addr)
		} else {
			log.Warn().Msg("no configured proxy reachable, using direct connections")
		}
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, errors.NewSession("failed to launch browser", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, errors.NewSession("failed to connect to browser", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		l.Cleanup()
		return nil, errors.NewSession("failed to open page", err)
	}

	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		log.Warn().Err(err).Msg("stealth injection failed, proceeding without it")
	}

	ua := userAgents[mathrand.Intn(len(userAgents))]
	if err := (proto.NetworkSetUserAgentOverride{UserAgent: ua}).Call(page); err != nil {
		log.Warn().Err(err).Msg("user agent override failed")
	}

	return &Session{
		browser:  browser,
		launcher: l,
		page:     page,
		cfg:      cfg,
		log:      log,
	}, nil
}

// Fetch navigates to the URL with retry and exponential backoff, waits for
// the readiness marker, optionally scrolls for lazy content, and snapshots
// the rendered HTML.
func (s *Session) Fetch(ctx context.Context, req Request) (*Page, error) {
	delays := backoffDelays(s.cfg.RetryBaseDelay, s.cfg.MaxAttempts)

	err := withRetry(ctx, req.URL, delays, s.log, func() error {
		return s.navigate(ctx, req)
	})
	if err != nil {
		return nil, errors.NewNavigation(req.URL, "page did not become ready", err)
	}

	// Let late-running scripts settle before extraction.
	if err := sleepCtx(ctx, s.cfg.RenderWait); err != nil {
		return nil, err
	}

	if req.Scroll {
		s.scrollToBottom(ctx)
	}

	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		return nil, errors.NewNavigation(req.URL, "failed to read rendered page", err)
	}

	page, err := newPage(req.URL, html)
	if err != nil {
		return nil, errors.NewParsing(req.URL, "failed to parse rendered page", err)
	}
	return page, nil
}

// navigate performs one attempt: load the page up to the load event (not
// network idle, which stalls on long-polling scripts), then wait for the
// readiness selector if one was given.
func (s *Session) navigate(ctx context.Context, req Request) error {
	p := s.page.Context(ctx)

	if err := p.Timeout(s.cfg.PageLoadTimeout).Navigate(req.URL); err != nil {
		return err
	}
	if err := p.Timeout(s.cfg.PageLoadTimeout).WaitLoad(); err != nil {
		return err
	}

	if req.WaitFor != "" {
		if err := p.Timeout(s.cfg.SelectorTimeout).WaitElementsMoreThan(req.WaitFor, 0); err != nil {
			return err
		}
	}

	return nil
}

// scrollToBottom runs the configured number of scroll-and-wait cycles to
// trigger lazy-loaded content. Failures are ignored: extraction proceeds
// with whatever loaded.
func (s *Session) scrollToBottom(ctx context.Context) {
	p := s.page.Context(ctx)
	for i := 0; i < s.cfg.ScrollCount; i++ {
		if _, err := p.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
			s.log.Debug().Err(err).Msg("scroll cycle failed")
			return
		}
		if err := sleepCtx(ctx, s.cfg.ScrollDelay); err != nil {
			return
		}
	}
}

// Close tears down the browser unconditionally.
func (s *Session) Close() {
	if err := s.browser.Close(); err != nil {
		s.log.Warn().Err(err).Msg("browser close failed")
	}
	s.launcher.Cleanup()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
