package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/9seconds/ipintel/csvdb"
	"github.com/9seconds/ipintel/intel"
	"github.com/9seconds/ipintel/lookup"
	"github.com/9seconds/ipintel/providers"
	"github.com/spf13/afero"
)

func makeRootContext() (context.Context, context.CancelFunc) {
	rootCtx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)

	go func() {
		for range sigChan {
			cancel()
		}
	}()

	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	return rootCtx, cancel
}

func makeProvider(conf *config, v configProvider) (lookup.Provider, error) {
	params := v.GetSpecificParameters()

	switch v.GetName() {
	case providers.NameIPAPICom:
		return providers.NewIPAPICom(makeNewHTTPClient(v), params), nil
	case providers.NameIPAPICo:
		return providers.NewIPAPICo(makeNewHTTPClient(v), params), nil
	case providers.NameIPInfo:
		return providers.NewIPInfo(makeNewHTTPClient(v), params)
	case providers.NameMMDB:
		return providers.NewMMDB(makeRootFs(conf), params)
	case providers.NameFallback:
		return providers.NewFallback(), nil
	}

	return nil, fmt.Errorf("unsupported provider name: %s", v.GetName())
}

func makeRootFs(conf *config) afero.Fs {
	return afero.NewBasePathFs(afero.NewOsFs(), conf.GetRootDirectory())
}

func makeProviders(conf *config, cache lookup.Cache,
	logger lookup.Logger, metrics *lookup.Metrics) ([]lookup.Provider, error) {
	rv := make([]lookup.Provider, 0, len(conf.GetProviders()))

	for _, v := range conf.GetProviders() {
		prov, err := makeProvider(conf, v)
		if err != nil {
			return nil, fmt.Errorf("cannot create %s provider: %w", v.GetName(), err)
		}

		// offline providers are fast enough without a cache
		if cache != nil && !v.NoCache && isOnlineProvider(v.GetName()) {
			prov = lookup.NewCachingProvider(prov, cache, conf.GetCacheTTL(), logger, metrics)
		}

		rv = append(rv, prov)
	}

	return rv, nil
}

func isOnlineProvider(name string) bool {
	switch name {
	case providers.NameMMDB, providers.NameFallback:
		return false
	}

	return true
}

func makeCache(ctx context.Context, conf *config) (lookup.Cache, func(), error) {
	switch conf.GetCacheBackend() {
	case cacheBackendRistretto:
		cache, err := lookup.NewRistrettoCache(uint(conf.GetCacheSize()))

		return cache, func() {}, err
	case cacheBackendLRU:
		ttl := conf.GetCacheTTL()
		if ttl <= 0 {
			ttl = lookup.DefaultCacheTTL
		}

		return lookup.NewLRUCache(conf.GetCacheSize(), ttl), func() {}, nil
	case cacheBackendRedis:
		client, err := lookup.NewRedisClient(ctx, conf.Cache.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot connect to redis: %w", err)
		}

		return lookup.NewRedisCache(client), func() { client.Close() }, nil
	}

	return nil, func() {}, nil
}

// makeThreatTable extends built-in threat table with a custom CSV list
// if path is set. It returns a number of skipped rows.
func makeThreatTable(fs afero.Fs, path string) (*intel.ThreatTable, int, error) {
	if path == "" {
		return intel.DefaultThreatTable(), 0, nil
	}

	file, err := fs.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot open threat list: %w", err)
	}

	defer file.Close()

	networks := intel.DefaultThreatNetworks()

	skipped, err := csvdb.ReadThreatNetworks(file, networks)
	if err != nil {
		return nil, skipped, fmt.Errorf("cannot read threat list: %w", err)
	}

	table, err := intel.NewThreatTable(networks)

	return table, skipped, err
}

func makeNewHTTPClient(conf configProvider) lookup.HTTPClient {
	httpClient := &http.Client{
		Timeout: conf.GetHTTPTimeout(),
	}

	return lookup.NewHTTPClient(httpClient,
		"ipintel/"+version,
		conf.GetRateLimitInterval(),
		conf.GetRateLimitBurst(),
		conf.GetCircuitBreakerOpenThreshold(),
		conf.GetCircuitBreakerHalfOpenTimeout(),
		conf.GetCircuitBreakerResetFailuresTimeout())
}
