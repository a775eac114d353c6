package lookup

import (
	"context"
	"net"
	"sync/atomic"
	"time"
)

// DefaultCacheTTL is a time to live of cached provider results.
const DefaultCacheTTL = 24 * time.Hour

// CacheStats is a number of cache hits and misses.
type CacheStats struct {
	Hits   uint64
	Misses uint64
}

// CachingProvider wraps a provider with a cache. Only successful
// lookups are cached. Cache failures are logged but never break a
// lookup.
type CachingProvider struct {
	Provider

	cache   Cache
	ttl     time.Duration
	logger  Logger
	metrics *Metrics
	hits    uint64
	misses  uint64
}

func (c *CachingProvider) Lookup(ctx context.Context, ip net.IP) (ProviderLookupResult, error) {
	cacheKey := c.Name() + ":" + ip.String()

	value, ok, err := c.cache.Get(ctx, cacheKey)
	if err != nil {
		c.logger.CacheError(c.Name(), err)
	}

	c.metrics.cacheRequest(c.Name(), ok)

	if ok {
		atomic.AddUint64(&c.hits, 1)

		return value, nil
	}

	atomic.AddUint64(&c.misses, 1)

	result, err := c.Provider.Lookup(ctx, ip)
	if err != nil {
		return ProviderLookupResult{}, err
	}

	if err := c.cache.Set(ctx, cacheKey, result, c.ttl); err != nil {
		c.logger.CacheError(c.Name(), err)
	}

	return result, nil
}

// CacheStats returns a number of hits and misses.
func (c *CachingProvider) CacheStats() CacheStats {
	return CacheStats{
		Hits:   atomic.LoadUint64(&c.hits),
		Misses: atomic.LoadUint64(&c.misses),
	}
}

// Shutdown shutdowns wrapped provider if it supports that.
func (c *CachingProvider) Shutdown() {
	if v, ok := c.Provider.(interface{ Shutdown() }); ok {
		v.Shutdown()
	}
}

// NewCachingProvider wraps a provider with a cache. If ttl is not
// positive, DefaultCacheTTL is used.
func NewCachingProvider(provider Provider,
	cache Cache,
	ttl time.Duration,
	logger Logger,
	metrics *Metrics) *CachingProvider {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return &CachingProvider{
		Provider: provider,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
		metrics:  metrics,
	}
}
