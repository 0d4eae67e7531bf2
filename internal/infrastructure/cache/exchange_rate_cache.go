package cache

import (
	"sync"
	"time"

	"github.com/damon-houk/currency-converter/internal/domain/entity"
)

// DefaultExpiration is how long a dated rate document stays cached
const DefaultExpiration = 24 * time.Hour

// CacheEntry represents a cached rate document with its insertion time
type CacheEntry struct {
	Data      *entity.ExchangeRateData
	Timestamp time.Time
}

// ExchangeRateCache provides a thread-safe in-memory cache for dated rate documents.
// Documents are cloned on the way in and out; callers never share a map with the cache.
type ExchangeRateCache struct {
	cache      map[string]CacheEntry
	expiration time.Duration
	now        func() time.Time
	mutex      sync.RWMutex
}

// NewExchangeRateCache creates a new exchange rate cache
func NewExchangeRateCache(expiration time.Duration) *ExchangeRateCache {
	if expiration <= 0 {
		expiration = DefaultExpiration
	}
	return &ExchangeRateCache{
		cache:      make(map[string]CacheEntry),
		expiration: expiration,
		now:        time.Now,
	}
}

// generateCacheKey creates a cache key from base currency and requested date
func generateCacheKey(base, date string) string {
	return entity.NormalizeCode(base) + ":" + date
}

// Get retrieves a rate document if available and not expired
func (c *ExchangeRateCache) Get(base, date string) *entity.ExchangeRateData {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.cache[generateCacheKey(base, date)]

	// Return nil if entry doesn't exist or is expired
	if !exists || c.now().Sub(entry.Timestamp) > c.expiration {
		return nil
	}

	return entry.Data.Clone()
}

// Put stores a rate document under the date it was requested for
func (c *ExchangeRateCache) Put(data *entity.ExchangeRateData, requestedDate string) {
	if data == nil {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache[generateCacheKey(data.Base, requestedDate)] = CacheEntry{
		Data:      data.Clone(),
		Timestamp: c.now(),
	}
}

// Clear clears all entries from the cache
func (c *ExchangeRateCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[string]CacheEntry)
}

// SetExpiration sets the cache expiration duration
func (c *ExchangeRateCache) SetExpiration(duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.expiration = duration
}

// Size returns the number of items in the cache
func (c *ExchangeRateCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache)
}

// CleanExpired removes expired entries from the cache
func (c *ExchangeRateCache) CleanExpired() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	count := 0
	now := c.now()

	for key, entry := range c.cache {
		if now.Sub(entry.Timestamp) > c.expiration {
			delete(c.cache, key)
			count++
		}
	}

	return count
}
