package lookup

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

type ristrettoCache struct {
	cache *ristretto.Cache
}

func (r ristrettoCache) Get(_ context.Context, key string) (ProviderLookupResult, bool, error) {
	value, ok := r.cache.Get(key)
	if !ok {
		return ProviderLookupResult{}, false, nil
	}

	return value.(ProviderLookupResult), true, nil
}

func (r ristrettoCache) Set(_ context.Context, key string, value ProviderLookupResult, ttl time.Duration) error {
	r.cache.SetWithTTL(key, value, 1, ttl)

	return nil
}

// NewRistrettoCache creates an in-memory cache for itemsCount items.
// Please pay attention that ristretto is eventually consistent: a value
// can be unavailable right after Set.
func NewRistrettoCache(itemsCount uint) (Cache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		MaxCost:     int64(itemsCount),
		NumCounters: 10 * int64(itemsCount),
		Metrics:     false,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create ristretto cache: %w", err)
	}

	return ristrettoCache{cache: cache}, nil
}
