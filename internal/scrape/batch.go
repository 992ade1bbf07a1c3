package scrape

import (
	"context"
	"time"

	"compscout/scraper/config"
	"compscout/scraper/internal/browser"
	"compscout/scraper/logger"
	"compscout/scraper/pkg/errors"

	"golang.org/x/time/rate"
)

// BatchFetcher fetches full competition details for single URLs or batches,
// reusing one fetcher session across the whole batch.
type BatchFetcher struct {
	cfg     config.Config
	fetcher browser.Fetcher
	limiter *rate.Limiter
	log     *logger.Logger

	now func() time.Time
}

// NewBatchFetcher wires a batch fetcher over a fetcher session.
func NewBatchFetcher(cfg config.Config, fetcher browser.Fetcher) *BatchFetcher {
	return &BatchFetcher{
		cfg:     cfg,
		fetcher: fetcher,
		limiter: rate.NewLimiter(rate.Every(cfg.RateLimitDelay), 1),
		log:     logger.ForFetcher(),
		now:     time.Now,
	}
}

// ScrapeDetail fetches and extracts one competition page.
func (b *BatchFetcher) ScrapeDetail(ctx context.Context, url string) (*Competition, error) {
	extractor, ok := ExtractorFor(url)
	if !ok {
		return nil, errors.NewValidation(url, "no extraction strategy matches url")
	}

	page, err := b.fetcher.Fetch(ctx, browser.Request{URL: url})
	if err != nil {
		return nil, err
	}

	comp := extractor.Detail(page, url, b.now())
	return &comp, nil
}

// ScrapeDetails fetches details for each URL in order, pausing between
// requests. A failed URL is recorded and the batch moves on; the pause
// applies after failures too, so a burst of errors never turns into a burst
// of requests.
func (b *BatchFetcher) ScrapeDetails(ctx context.Context, urls []string) (*DetailResult, error) {
	details := []Competition{}
	errs := []SourceError{}

	for i, url := range urls {
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		b.log.Info().Int("n", i+1).Int("total", len(urls)).Str("url", url).Msg("fetching detail page")

		comp, err := b.ScrapeDetail(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			b.log.Error().Err(err).Str("url", url).Msg("detail fetch failed")
			errs = append(errs, SourceError{URL: url, Message: err.Error()})
			continue
		}

		details = append(details, *comp)
	}

	return &DetailResult{
		Details:    details,
		ScrapeDate: b.now().Format("2006-01-02"),
		Errors:     errs,
		Partial:    len(errs) > 0,
	}, nil
}
