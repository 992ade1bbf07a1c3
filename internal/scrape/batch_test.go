package scrape

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBatchFetcher(fetcher *stubFetcher) *BatchFetcher {
	b := NewBatchFetcher(testConfig(), fetcher)
	b.now = func() time.Time { return compsAUNow }
	return b
}

func TestScrapeDetailRoutesByURL(t *testing.T) {
	compURL := "https://www.competitions.com.au/win-bbq-pack"
	nrURL := "https://netrewards.com.au/competitions/dyson-vacuum/"

	fetcher := &stubFetcher{pages: map[string]string{
		compURL: compsAUDetailHTML,
		nrURL:   netRewardsDetailHTML,
	}}
	batch := newTestBatchFetcher(fetcher)

	comp, err := batch.ScrapeDetail(context.Background(), compURL)
	require.NoError(t, err)
	assert.Equal(t, "competitions.com.au", comp.Site)
	assert.Equal(t, "Win a $500 BBQ Pack", comp.Title)

	nr, err := batch.ScrapeDetail(context.Background(), nrURL)
	require.NoError(t, err)
	assert.Equal(t, "netrewards.com.au", nr.Site)
	assert.Equal(t, "Win a Dyson V15 Vacuum", nr.Title)
}

func TestScrapeDetailUnknownSite(t *testing.T) {
	batch := newTestBatchFetcher(&stubFetcher{})

	_, err := batch.ScrapeDetail(context.Background(), "https://example.com/giveaway")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no extraction strategy")
}

func TestScrapeDetailsContinuesPastFailures(t *testing.T) {
	good := "https://www.competitions.com.au/win-bbq-pack"
	bad := "https://www.competitions.com.au/win-gone"
	unknown := "https://example.com/giveaway"

	fetcher := &stubFetcher{
		pages: map[string]string{good: compsAUDetailHTML},
		errs:  map[string]error{bad: errors.New("navigation timed out")},
	}
	batch := newTestBatchFetcher(fetcher)

	result, err := batch.ScrapeDetails(context.Background(), []string{bad, unknown, good})
	require.NoError(t, err)

	assert.True(t, result.Partial)
	assert.Equal(t, "2026-12-10", result.ScrapeDate)

	require.Len(t, result.Errors, 2)
	assert.Equal(t, bad, result.Errors[0].URL)
	assert.Contains(t, result.Errors[0].Message, "navigation timed out")
	assert.Equal(t, unknown, result.Errors[1].URL)

	require.Len(t, result.Details, 1)
	assert.Equal(t, good, result.Details[0].URL)
}

func TestScrapeDetailsEmptyBatch(t *testing.T) {
	batch := newTestBatchFetcher(&stubFetcher{})

	result, err := batch.ScrapeDetails(context.Background(), nil)
	require.NoError(t, err)

	assert.False(t, result.Partial)
	assert.Empty(t, result.Details)
	assert.Empty(t, result.Errors)
}

func TestScrapeDetailsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch := newTestBatchFetcher(&stubFetcher{})
	_, err := batch.ScrapeDetails(ctx, []string{"https://www.competitions.com.au/win-bbq-pack"})
	assert.ErrorIs(t, err, context.Canceled)
}
