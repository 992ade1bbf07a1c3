package worker

import (
	"context"
	"encoding/json"
	"time"

	"compscout/scraper/internal/scrape"
	"compscout/scraper/logger"
	"compscout/scraper/services/publisher"
)

// ScrapeFunc produces one full listing sweep. The worker does not care how:
// in production it is the aggregator's listing scrape over a fresh browser
// session.
type ScrapeFunc func(ctx context.Context) (*scrape.ListingResult, error)

// Worker runs the listing scrape on an interval and publishes every record.
// One sweep runs immediately on start, then one per tick.
type Worker struct {
	ctx       context.Context
	scrape    ScrapeFunc
	publisher publisher.Publisher
	log       *logger.Logger
	interval  time.Duration
}

// NewWorker creates a new worker
func NewWorker(
	ctx context.Context,
	scrapeFn ScrapeFunc,
	pub publisher.Publisher,
	interval time.Duration,
) *Worker {
	return &Worker{
		ctx:       ctx,
		scrape:    scrapeFn,
		publisher: pub,
		log:       logger.ForWorker(),
		interval:  interval,
	}
}

// Start runs sweeps until the context is cancelled.
func (w *Worker) Start() error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.runOnce()

		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		case <-ticker.C:
		}
	}
}

// runOnce performs one sweep: scrape, publish each record to its site's
// stream, then trim the streams. Per-site scrape failures were already
// folded into the result; they are logged here but never stop publishing
// what did come through.
func (w *Worker) runOnce() {
	start := time.Now()

	result, err := w.scrape(w.ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("listing sweep failed")
		return
	}

	for _, siteErr := range result.Errors {
		w.log.Warn().Str("site", siteErr.Site).Str("error", siteErr.Message).Msg("site failed during sweep")
	}

	published := 0
	for _, comp := range result.Competitions {
		record, err := json.Marshal(comp)
		if err != nil {
			w.log.Error().Err(err).Str("url", comp.URL).Msg("failed to encode record")
			continue
		}

		if err := w.publisher.Publish(comp.Site, record); err != nil {
			w.log.Error().Err(err).Str("url", comp.URL).Msg("failed to publish record")
			continue
		}
		published++
	}

	if err := w.publisher.TrimStreams(); err != nil {
		w.log.Error().Err(err).Msg("failed to trim streams")
	}

	w.log.Info().
		Int("competitions", len(result.Competitions)).
		Int("published", published).
		Bool("partial", result.Partial).
		Dur("elapsed", time.Since(start)).
		Msg("sweep finished")
}
