package cache

import (
	"time"
)

// CacheService is a generic byte cache with expiring keys.
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}

const blockKeyPrefix = "blocked:"

// BlockList remembers sites that rate limited us so consecutive runs can
// skip them until the block expires instead of hammering them again. A nil
// backing cache disables blocking entirely: nothing is ever blocked and
// Block is a no-op.
type BlockList struct {
	cache CacheService
	ttl   time.Duration
}

// NewBlockList creates a block list over the given cache.
func NewBlockList(cache CacheService, ttl time.Duration) *BlockList {
	return &BlockList{cache: cache, ttl: ttl}
}

// IsBlocked reports whether the site is currently blocked. Cache errors,
// including a missing key, read as not blocked.
func (b *BlockList) IsBlocked(site string) bool {
	if b == nil || b.cache == nil {
		return false
	}
	value, err := b.cache.Get(blockKeyPrefix + site)
	return err == nil && len(value) > 0
}

// Block marks the site blocked for the configured duration.
func (b *BlockList) Block(site string) error {
	if b == nil || b.cache == nil {
		return nil
	}
	return b.cache.Set(blockKeyPrefix+site, []byte("1"), b.ttl)
}

// Unblock clears a site's block early.
func (b *BlockList) Unblock(site string) error {
	if b == nil || b.cache == nil {
		return nil
	}
	return b.cache.Delete(blockKeyPrefix + site)
}
