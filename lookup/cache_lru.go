package lookup

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type lruCache struct {
	cache *expirable.LRU[string, ProviderLookupResult]
}

func (l lruCache) Get(_ context.Context, key string) (ProviderLookupResult, bool, error) {
	value, ok := l.cache.Get(key)

	return value, ok, nil
}

// Set ignores ttl: all entries share the one given to NewLRUCache.
func (l lruCache) Set(_ context.Context, key string, value ProviderLookupResult, _ time.Duration) error {
	l.cache.Add(key, value)

	return nil
}

// NewLRUCache creates an in-memory LRU cache with expiration. Unlike
// ristretto, it is strongly consistent.
func NewLRUCache(size int, ttl time.Duration) Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return lruCache{
		cache: expirable.NewLRU[string, ProviderLookupResult](size, nil, ttl),
	}
}
