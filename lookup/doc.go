// Package lookup builds inspection reports for IP addresses.
//
// lookup glues the pure heuristics of the intel package with upstream
// geolocation providers. Engine is the main entity here: it classifies
// an address, asks all providers concurrently, merges their answers
// (country by majority, city by a double metaphone vote) and computes
// features, risk verdict, threat report and compliance information.
//
// Providers are opaque collaborators which implement Provider
// interface. They can be wrapped with NewCachingProvider to reduce a
// number of upstream requests and share the same HTTPClient which
// respects rate limits and has a circuit breaker.
//
// Engine is also an http.Handler, so it could be mounted as is.
package lookup
