package scrape

import (
	"context"
	"time"

	"compscout/scraper/config"
	"compscout/scraper/helpers"
	"compscout/scraper/internal/browser"
	"compscout/scraper/logger"
	"compscout/scraper/services/cache"

	"golang.org/x/time/rate"
)

// Aggregator runs the listing scrape across every configured site. A failed
// site becomes an entry in the result's error list, never a failed run: the
// output is marked partial and the remaining sites still get scraped.
type Aggregator struct {
	cfg     config.Config
	fetcher browser.Fetcher
	blocks  *cache.BlockList
	limiter *rate.Limiter

	// now is the clock used for date resolution; tests pin it.
	now func() time.Time
}

// NewAggregator wires an aggregator over a fetcher. blocks may be nil when
// no cache is configured.
func NewAggregator(cfg config.Config, fetcher browser.Fetcher, blocks *cache.BlockList) *Aggregator {
	return &Aggregator{
		cfg:     cfg,
		fetcher: fetcher,
		blocks:  blocks,
		limiter: rate.NewLimiter(rate.Every(cfg.RateLimitDelay), 1),
		now:     time.Now,
	}
}

// ScrapeListings scrapes every site's listing page and merges the records,
// deduplicated across sites.
func (a *Aggregator) ScrapeListings(ctx context.Context) (*ListingResult, error) {
	competitions, errs, err := a.collect(ctx)
	if err != nil {
		return nil, err
	}

	return &ListingResult{
		Competitions: dedupe(competitions),
		ScrapeDate:   a.now().Format("2006-01-02"),
		Errors:       errs,
		Partial:      len(errs) > 0,
	}, nil
}

// ScrapeURLs collects just the competition URLs per site, for debugging.
func (a *Aggregator) ScrapeURLs(ctx context.Context) (*URLsResult, error) {
	competitions, errs, err := a.collect(ctx)
	if err != nil {
		return nil, err
	}

	result := &URLsResult{Sites: make(map[string][]string), Errors: errs}
	for _, site := range a.cfg.Sites {
		result.Sites[site.Name] = []string{}
	}
	for _, comp := range competitions {
		result.Sites[comp.Site] = append(result.Sites[comp.Site], comp.URL)
	}
	return result, nil
}

// collect visits each site in table order with rate limiting in between.
// Only context cancellation aborts the sweep; per-site failures are recorded
// and the next site still runs after the usual pause. A site that rate
// limited us gets blocked so consecutive runs leave it alone for a while.
func (a *Aggregator) collect(ctx context.Context) ([]Competition, []SourceError, error) {
	competitions := []Competition{}
	errs := []SourceError{}

	for _, site := range a.cfg.Sites {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, nil, err
		}

		log := logger.ForSite(site.Name)

		if a.blocks.IsBlocked(site.Name) {
			log.Warn().Msg("skipping site, blocked after earlier rate limiting")
			errs = append(errs, SourceError{Site: site.Name, Message: "skipped: blocked after earlier rate limiting"})
			continue
		}

		extractor, ok := ForSite(site.Name)
		if !ok {
			errs = append(errs, SourceError{Site: site.Name, Message: "no extraction strategy registered"})
			continue
		}

		log.Info().Str("url", site.ListingURL).Msg("scraping listing page")

		page, err := a.fetcher.Fetch(ctx, browser.Request{
			URL:     site.ListingURL,
			WaitFor: site.WaitFor,
			Scroll:  true,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			if helpers.IsRateLimited(err) {
				if blockErr := a.blocks.Block(site.Name); blockErr != nil {
					log.Warn().Err(blockErr).Msg("failed to record rate limit block")
				}
			}
			log.Error().Err(err).Msg("listing scrape failed")
			errs = append(errs, SourceError{Site: site.Name, Message: err.Error()})
			continue
		}

		listings := extractor.Listings(page, a.now())
		log.Info().Int("count", len(listings)).Msg("extracted listings")
		competitions = append(competitions, listings...)
	}

	return competitions, errs, nil
}

const dedupeKeyLen = 40

// dedupe removes cross-site duplicates of the same competition. The key is
// the normalized title truncated to 40 characters; the first occurrence
// wins, so earlier sites in the table take precedence. Records whose
// normalized title is empty carry no usable key and are dropped.
func dedupe(competitions []Competition) []Competition {
	seen := make(map[string]bool)
	unique := []Competition{}

	for _, comp := range competitions {
		key := comp.NormalizedTitle
		if len(key) > dedupeKeyLen {
			key = key[:dedupeKeyLen]
		}
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, comp)
	}

	return unique
}
