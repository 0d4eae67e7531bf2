package cache

import (
	"testing"
	"time"

	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeRateCache(t *testing.T) {
	cache := NewExchangeRateCache(time.Hour)
	now := time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	// Test initial state
	assert.Equal(t, 0, cache.Size())

	// Test storing and retrieving
	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	doc := &entity.ExchangeRateData{
		Date:  date,
		Base:  "usd",
		Rates: map[string]float64{"eur": 0.92},
	}

	cache.Put(doc, "2024-03-10")
	assert.Equal(t, 1, cache.Size())

	retrieved := cache.Get("USD", "2024-03-10")
	require.NotNil(t, retrieved)
	assert.Equal(t, doc, retrieved)

	// Test non-existent retrieval
	assert.Nil(t, cache.Get("gbp", "2024-03-10"))
	assert.Nil(t, cache.Get("usd", "2024-03-09"))

	// Test expiration
	now = now.Add(2 * time.Hour)
	assert.Nil(t, cache.Get("usd", "2024-03-10"))

	// Test cleaning expired entries
	count := cache.CleanExpired()
	assert.Equal(t, 1, count)
	assert.Equal(t, 0, cache.Size())

	// Test clearing
	cache.Put(doc, "2024-03-10")
	assert.Equal(t, 1, cache.Size())
	cache.Clear()
	assert.Equal(t, 0, cache.Size())
}

func TestExchangeRateCacheIsolation(t *testing.T) {
	cache := NewExchangeRateCache(0)
	doc := &entity.ExchangeRateData{
		Date:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Base:  "usd",
		Rates: map[string]float64{"eur": 0.9},
	}

	cache.Put(doc, "2024-01-01")

	// Mutating the original after Put does not leak into the cache
	doc.Rates["eur"] = 1.5
	first := cache.Get("usd", "2024-01-01")
	require.NotNil(t, first)
	assert.Equal(t, 0.9, first.Rates["eur"])

	// Mutating a returned copy does not leak either
	first.Rates["eur"] = 2.0
	second := cache.Get("usd", "2024-01-01")
	assert.Equal(t, 0.9, second.Rates["eur"])
}

func TestSetExpiration(t *testing.T) {
	cache := NewExchangeRateCache(time.Hour)
	start := time.Now()
	cache.now = func() time.Time { return start }

	cache.Put(&entity.ExchangeRateData{Base: "eur", Rates: map[string]float64{}}, "2024-01-01")

	cache.now = func() time.Time { return start.Add(10 * time.Minute) }
	assert.NotNil(t, cache.Get("eur", "2024-01-01"))

	cache.SetExpiration(time.Minute)
	assert.Nil(t, cache.Get("eur", "2024-01-01"))
}
