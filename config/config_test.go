package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	cfg := LoadConfig()
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Empty(t, cfg.ProxyAddrs)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, "compscout", cfg.RedisStream)
	assert.Equal(t, FetcherBrowser, cfg.Fetcher)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.RetryBaseDelay)
	assert.Equal(t, time.Hour, cfg.CrawlInterval)
	assert.Len(t, cfg.Sites, 2)
	assert.Equal(t, "competitions.com.au", cfg.Sites[0].Name)
	assert.Equal(t, ".card", cfg.Sites[0].WaitFor)
	assert.Equal(t, "netrewards.com.au", cfg.Sites[1].Name)

	// Test with environment variables
	os.Setenv("REDIS_ADDR", "redis.example.com:6379")
	os.Setenv("REDIS_DB", "1")
	os.Setenv("FETCHER_MODE", "http")
	os.Setenv("FETCH_MAX_ATTEMPTS", "5")
	os.Setenv("CRAWL_INTERVAL_SECONDS", "30")
	os.Setenv("COMPETITIONS_URL", "https://example.com/listing")
	os.Setenv("PROXY_ADDRS", "10.0.0.1:1080, 10.0.0.2:1080,")

	cfg = LoadConfig()
	assert.Equal(t, "redis.example.com:6379", cfg.RedisAddr)
	assert.Equal(t, 1, cfg.RedisDB)
	assert.Equal(t, FetcherHTTP, cfg.Fetcher)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.CrawlInterval)
	assert.Equal(t, "https://example.com/listing", cfg.Sites[0].ListingURL)
	assert.Equal(t, []string{"10.0.0.1:1080", "10.0.0.2:1080"}, cfg.ProxyAddrs)

	// Clean up
	os.Unsetenv("REDIS_ADDR")
	os.Unsetenv("REDIS_DB")
	os.Unsetenv("FETCHER_MODE")
	os.Unsetenv("FETCH_MAX_ATTEMPTS")
	os.Unsetenv("CRAWL_INTERVAL_SECONDS")
	os.Unsetenv("COMPETITIONS_URL")
	os.Unsetenv("PROXY_ADDRS")
}

func TestValidate(t *testing.T) {
	cfg := LoadConfig()
	assert.NoError(t, cfg.Validate())

	bad := cfg
	bad.MaxAttempts = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Fetcher = "carrier-pigeon"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Sites = nil
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Sites = []Site{{Name: "", ListingURL: "https://example.com"}}
	assert.Error(t, bad.Validate())
}
