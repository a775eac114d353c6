// ipintel is a service which tells what is known about an IP address:
// where it is located, who operates it and how risky it looks.
//
// Idea is simple: you have an IP address like 1.2.3.4. First, it is
// classified: private, loopback or documentation addresses cannot be
// geolocated so nobody is asked about them. Public addresses are
// resolved by a set of upstream providers, their answers are merged and
// then a set of heuristics decides if this address belongs to Tor, VPN
// or hosting provider.
//
// Tool itself is organized into 3 logical parts:
//
// Intel
//
// intel is a pure library: address classifier, heuristic feature
// extractor, risk aggregator and static mappers. It does no I/O.
//
// Lookup
//
// lookup has an Engine which wires intel with providers, caches,
// metrics and worker pools. It has its own API and can act as
// http.Handler.
//
// Providers
//
// This package has a set of provider implementations: online services
// like ip-api.com or ipinfo.io and local MaxMind databases.
//
// A main package itself is an example of how to wire both lookup and
// providers. Resulting binary starts http server and you can use it in
// your infrastructure as is.
package main
