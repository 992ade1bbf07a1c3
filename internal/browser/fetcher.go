package browser

import (
	"context"
	"strings"
	"time"

	"compscout/scraper/config"

	"github.com/PuerkitoBio/goquery"
)

// proxyProbeTimeout bounds the connect test per configured proxy.
const proxyProbeTimeout = 5 * time.Second

// Request describes a single page fetch.
type Request struct {
	URL string
	// WaitFor is a readiness selector; when set, the fetch only succeeds
	// once at least one matching element is present.
	WaitFor string
	// Scroll triggers bounded scroll-to-bottom cycles after readiness to
	// surface lazy-loaded content. Best-effort.
	Scroll bool
}

// Page is a fetched page snapshot: the rendered HTML plus a parsed document
// for the extraction strategies to walk.
type Page struct {
	URL  string
	HTML string
	Doc  *goquery.Document
}

// Fetcher retrieves pages. Implementations own whatever underlying resource
// they need (a browser, an HTTP client) for the duration of one scrape
// invocation; Close tears it down.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (*Page, error)
	Close()
}

// NewFetcher creates the fetcher selected by the configuration. Browser mode
// launches a headless browser; failure to do so is fatal for the invocation.
func NewFetcher(cfg config.Config) (Fetcher, error) {
	if cfg.Fetcher == config.FetcherHTTP {
		return NewHTTPFetcher(cfg), nil
	}
	return NewSession(cfg)
}

func newPage(url, html string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return &Page{URL: url, HTML: html, Doc: doc}, nil
}
