package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// FetcherMode selects how pages are retrieved
type FetcherMode string

const (
	// FetcherBrowser drives a headless browser (JS-rendered pages)
	FetcherBrowser FetcherMode = "browser"
	// FetcherHTTP uses plain HTTP with browser-like headers
	FetcherHTTP FetcherMode = "http"
)

// Site describes one configured listing source
type Site struct {
	Name       string
	ListingURL string
	// WaitFor is the readiness selector: the page is considered rendered
	// once at least one element matching it is present.
	WaitFor string
}

// Config represents the application configuration
type Config struct {
	// Fetch timing
	PageLoadTimeout time.Duration
	SelectorTimeout time.Duration
	RenderWait      time.Duration
	RateLimitDelay  time.Duration

	// Retry policy
	MaxAttempts    int
	RetryBaseDelay time.Duration

	// Lazy-load scrolling
	ScrollCount int
	ScrollDelay time.Duration

	// Fetcher selection and browser settings
	Fetcher    FetcherMode
	Headless   bool
	BrowserBin string

	// Optional SOCKS5 proxies (host:port); empty means direct connections
	ProxyAddrs []string

	// Listing sources in scrape order
	Sites []Site

	// Block cache (memcache)
	MemcacheAddr string
	BlockTime    time.Duration

	// Publisher (redis streams)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// Worker mode
	CrawlInterval time.Duration

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	crawlInterval, _ := strconv.Atoi(getEnv("CRAWL_INTERVAL_SECONDS", "3600"))
	maxAttempts, _ := strconv.Atoi(getEnv("FETCH_MAX_ATTEMPTS", "3"))
	blockTime, _ := strconv.Atoi(getEnv("SITE_BLOCK_SECONDS", "1800"))

	return Config{
		PageLoadTimeout: 60 * time.Second,
		SelectorTimeout: 60 * time.Second,
		RenderWait:      2 * time.Second,
		RateLimitDelay:  1500 * time.Millisecond,
		MaxAttempts:     maxAttempts,
		RetryBaseDelay:  5 * time.Second,
		ScrollCount:     3,
		ScrollDelay:     time.Second,
		Fetcher:         FetcherMode(getEnv("FETCHER_MODE", string(FetcherBrowser))),
		Headless:        getEnv("BROWSER_HEADLESS", "true") != "false",
		BrowserBin:      getEnv("BROWSER_BIN", ""),
		ProxyAddrs:      splitList(getEnv("PROXY_ADDRS", "")),
		Sites: []Site{
			{
				Name:       "competitions.com.au",
				ListingURL: getEnv("COMPETITIONS_URL", "https://www.competitions.com.au/tag/type/words-or-less-answer/"),
				WaitFor:    ".card",
			},
			{
				Name:       "netrewards.com.au",
				ListingURL: getEnv("NETREWARDS_URL", "https://netrewards.com.au/competitions-category/number-of-words/"),
				WaitFor:    ".competition-item",
			},
		},
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		BlockTime:            time.Duration(blockTime) * time.Second,
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "compscout"),
		RedisStreamMaxLength: streamMaxLen,
		CrawlInterval:        time.Duration(crawlInterval) * time.Second,
		Environment:          getEnv("COMPSCOUT_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the pipeline cannot run with
func (c *Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("FETCH_MAX_ATTEMPTS must be at least 1, got %d", c.MaxAttempts)
	}
	if c.Fetcher != FetcherBrowser && c.Fetcher != FetcherHTTP {
		return fmt.Errorf("unknown fetcher mode %q", c.Fetcher)
	}
	if len(c.Sites) == 0 {
		return fmt.Errorf("no listing sites configured")
	}
	for _, site := range c.Sites {
		if site.Name == "" || site.ListingURL == "" {
			return fmt.Errorf("site entry missing name or listing URL")
		}
	}
	if c.CrawlInterval <= 0 {
		return fmt.Errorf("CRAWL_INTERVAL_SECONDS must be positive")
	}
	return nil
}

// splitList splits a comma-separated environment value, dropping empty items
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
