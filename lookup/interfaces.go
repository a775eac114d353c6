package lookup

import (
	"context"
	"net"
	"net/http"
	"time"
)

// Provider is an upstream source of geolocation and network metadata of
// the IP address.
type Provider interface {
	Name() string
	Lookup(context.Context, net.IP) (ProviderLookupResult, error)
}

// HTTPClient is a client which is used by providers to access their
// upstreams. NewHTTPClient returns a rate limited one with a circuit
// breaker.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Cache stores provider results by key. Implementations have to be safe
// for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (ProviderLookupResult, bool, error)
	Set(ctx context.Context, key string, value ProviderLookupResult, ttl time.Duration) error
}

// Logger is used by Engine to report about problems and verdicts.
type Logger interface {
	LookupError(ip net.IP, name string, err error)
	CacheError(name string, err error)
	Inspected(report *Report)
}
