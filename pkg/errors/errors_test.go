package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := NewNavigation("https://example.com", "page did not become ready", stderrors.New("timeout"))
	assert.Equal(t, "[navigation] https://example.com: page did not become ready - timeout", err.Error())

	bare := NewValidation("https://example.com", "no extraction strategy matches url")
	assert.Equal(t, "[validation] https://example.com: no extraction strategy matches url", bare.Error())
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewNavigation("https://example.com", "page did not become ready", cause)
	assert.ErrorIs(t, err, cause)

	var scrapeErr *ScrapeError
	wrapped := fmt.Errorf("sweep failed: %w", err)
	require.True(t, stderrors.As(wrapped, &scrapeErr))
	assert.Equal(t, ErrorTypeNavigation, scrapeErr.Type)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, NewNavigation("url", "timed out", nil).IsRetryable())
	assert.False(t, NewRateLimit("url", stderrors.New("retry after 60")).IsRetryable())
	assert.False(t, NewParsing("url", "malformed document", nil).IsRetryable())
	assert.False(t, NewValidation("url", "bad input").IsRetryable())
	assert.False(t, NewConfiguration("invalid configuration", nil).IsRetryable())
}

func TestNewRateLimitKeepsSignature(t *testing.T) {
	err := NewRateLimit("https://example.com", stderrors.New("retry after 60"))
	// The block list trigger matches on this phrase.
	assert.Contains(t, err.Error(), "rate limited")
}
