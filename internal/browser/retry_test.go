package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	scrapeerrors "compscout/scraper/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDelays(t *testing.T) {
	delays := backoffDelays(5*time.Second, 3)
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second}, delays)

	assert.Empty(t, backoffDelays(5*time.Second, 1))
	assert.Empty(t, backoffDelays(5*time.Second, 0))
}

func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	delays := []time.Duration{time.Millisecond, time.Millisecond}

	attempts := 0
	err := withRetry(context.Background(), "https://example.com", delays, nil, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	delays := []time.Duration{time.Millisecond, time.Millisecond}

	wantErr := errors.New("navigation timed out")
	attempts := 0
	err := withRetry(context.Background(), "https://example.com", delays, nil, func() error {
		attempts++
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryFirstAttemptSuccess(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), "https://example.com", backoffDelays(time.Hour, 3), nil, func() error {
		attempts++
		return nil
	})

	// A first-attempt success must not touch the backoff schedule.
	assert.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestWithRetryStopsOnRateLimit(t *testing.T) {
	delays := []time.Duration{time.Hour, time.Hour}

	wantErr := errors.New("rate limited; retry after 60")
	attempts := 0
	err := withRetry(context.Background(), "https://example.com", delays, nil, func() error {
		attempts++
		return wantErr
	})

	// Hammering a throttled site only extends the block, so the loop must
	// give up after the first attempt.
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, attempts)
}

func TestWithRetryHonoursErrorClassification(t *testing.T) {
	delays := []time.Duration{time.Millisecond, time.Millisecond}

	attempts := 0
	err := withRetry(context.Background(), "https://example.com", delays, nil, func() error {
		attempts++
		return scrapeerrors.NewParsing("https://example.com", "malformed document", nil)
	})
	assert.Error(t, err)
	assert.Equal(t, 1, attempts, "parsing errors are not retryable")

	attempts = 0
	err = withRetry(context.Background(), "https://example.com", delays, nil, func() error {
		attempts++
		return scrapeerrors.NewNavigation("https://example.com", "page did not become ready", errors.New("timeout"))
	})
	assert.Error(t, err)
	assert.Equal(t, 3, attempts, "navigation errors keep retrying")
}

func TestWithRetryRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := withRetry(ctx, "https://example.com", []time.Duration{time.Hour}, nil, func() error {
		return errors.New("transient")
	})

	assert.ErrorIs(t, err, context.Canceled)
}
