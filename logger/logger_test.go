package logger

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSetsDefault(t *testing.T) {
	Default = nil
	Init()
	require.NotNil(t, Default)
}

func TestGetLogLevel(t *testing.T) {
	os.Setenv("LOG_LEVEL", "warn")
	assert.Equal(t, zerolog.WarnLevel, getLogLevel())

	os.Setenv("LOG_LEVEL", "not-a-level")
	assert.Equal(t, zerolog.InfoLevel, getLogLevel())

	os.Unsetenv("LOG_LEVEL")
	os.Setenv("COMPSCOUT_ENVIRONMENT", "production")
	assert.Equal(t, zerolog.InfoLevel, getLogLevel())

	os.Unsetenv("COMPSCOUT_ENVIRONMENT")
	assert.Equal(t, zerolog.DebugLevel, getLogLevel())
}

func TestScopedLoggers(t *testing.T) {
	Default = nil

	assert.NotNil(t, ForSite("competitions.com.au"))
	assert.NotNil(t, ForFetcher())
	assert.NotNil(t, ForWorker())
	assert.NotNil(t, ForPublisher())
	assert.NotNil(t, ForProxy())

	// Scoped constructors must initialize the default logger on demand.
	assert.NotNil(t, Default)
}

func TestWithField(t *testing.T) {
	Init()
	scoped := Default.WithField("site", "netrewards.com.au")
	require.NotNil(t, scoped)
	assert.NotSame(t, Default, scoped)
}
