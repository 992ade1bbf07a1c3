package browser

import (
	"context"
	"fmt"
	"io"

	"compscout/scraper/config"
	"compscout/scraper/helpers"
	"compscout/scraper/logger"
	"compscout/scraper/pkg/errors"
	"compscout/scraper/services/proxy"

	"github.com/PuerkitoBio/goquery"
)

// HTTPFetcher retrieves pages over plain HTTP with browser-like headers.
// It cannot run page scripts, so it only suits static pages and tests; the
// readiness marker is checked against the fetched document instead of a
// live DOM. Retry semantics match the browser session.
type HTTPFetcher struct {
	cfg   config.Config
	log   *logger.Logger
	fetch func(url string) (io.Reader, error)
}

// NewHTTPFetcher creates an HTTP-backed fetcher. When proxies are configured
// the fastest reachable one backs the HTTP client; an unreachable set falls
// back to direct connections.
func NewHTTPFetcher(cfg config.Config) *HTTPFetcher {
	f := &HTTPFetcher{
		cfg:   cfg,
		log:   logger.ForFetcher(),
		fetch: helpers.FetchWithRandomHeaders,
	}

	if selector := proxy.NewSelector(cfg.ProxyAddrs); selector.Enabled() {
		addr, ok := selector.Fastest(proxyProbeTimeout)
		if !ok {
			f.log.Warn().Msg("no configured proxy reachable, using direct connections")
			return f
		}
		client, err := helpers.NewProxyClient(addr)
		if err != nil {
			f.log.Warn().Err(err).Str("proxy", addr).Msg("proxy client setup failed, using direct connections")
			return f
		}
		f.log.Info().Str("proxy", addr).Msg("routing requests through proxy")
		f.fetch = func(url string) (io.Reader, error) {
			return helpers.FetchWithRandomHeadersClient(client, url)
		}
	}

	return f
}

// Fetch retrieves the URL with retry and exponential backoff.
func (f *HTTPFetcher) Fetch(ctx context.Context, req Request) (*Page, error) {
	delays := backoffDelays(f.cfg.RetryBaseDelay, f.cfg.MaxAttempts)

	var page *Page
	err := withRetry(ctx, req.URL, delays, f.log, func() error {
		body, err := f.fetch(req.URL)
		if err != nil {
			return err
		}

		doc, err := goquery.NewDocumentFromReader(body)
		if err != nil {
			return err
		}

		if req.WaitFor != "" && doc.Find(req.WaitFor).Length() == 0 {
			return fmt.Errorf("readiness marker %q not present", req.WaitFor)
		}

		html, err := doc.Html()
		if err != nil {
			return err
		}

		page = &Page{URL: req.URL, HTML: html, Doc: doc}
		return nil
	})
	if err != nil {
		if helpers.IsRateLimited(err) {
			return nil, errors.NewRateLimit(req.URL, err)
		}
		return nil, errors.NewNavigation(req.URL, "page did not become ready", err)
	}

	return page, nil
}

// Close is a no-op; the underlying HTTP client holds no session state.
func (f *HTTPFetcher) Close() {}
