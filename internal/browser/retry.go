package browser

import (
	"context"
	stderrors "errors"
	"time"

	"compscout/scraper/helpers"
	"compscout/scraper/logger"
	"compscout/scraper/pkg/errors"
)

// backoffDelays builds the exponential backoff schedule for a fetch: one
// entry per retry, base * 2^attempt. Three attempts with a 5s base wait
// 5s then 10s.
func backoffDelays(base time.Duration, maxAttempts int) []time.Duration {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	delays := make([]time.Duration, 0, maxAttempts-1)
	for attempt := 0; attempt < maxAttempts-1; attempt++ {
		delays = append(delays, base*(1<<attempt))
	}
	return delays
}

// retryable reports whether another attempt can help. Classified errors
// carry their own verdict; for anything else, rate limiting is the one
// failure that immediate re-requests only make worse.
func retryable(err error) bool {
	var scrapeErr *errors.ScrapeError
	if stderrors.As(err, &scrapeErr) {
		return scrapeErr.IsRetryable()
	}
	return !helpers.IsRateLimited(err)
}

// withRetry runs fn up to len(delays)+1 times, sleeping delays[i] after the
// i-th failure. Non-retryable failures and the last error propagate
// immediately. Context cancellation aborts both the sleep and further
// attempts.
func withRetry(ctx context.Context, url string, delays []time.Duration, log *logger.Logger, fn func() error) error {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !retryable(lastErr) {
			if log != nil {
				log.Warn().
					Str("url", url).
					Err(lastErr).
					Msg("fetch failed, not retrying")
			}
			return lastErr
		}

		if attempt >= maxAttempts-1 {
			break
		}

		if log != nil {
			log.Warn().
				Str("url", url).
				Int("attempt", attempt+1).
				Dur("backoff", delays[attempt]).
				Err(lastErr).
				Msg("fetch attempt failed, retrying")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	if log != nil {
		log.Error().
			Str("url", url).
			Int("attempts", maxAttempts).
			Err(lastErr).
			Msg("all fetch attempts failed")
	}
	return lastErr
}
