package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/hjson/hjson-go/v4"
	"github.com/juju/errors"
)

const (
	DefaultListen                             = "127.0.0.1:8000"
	DefaultHTTPTimeout                        = 10 * time.Second
	DefaultRateLimitInterval                  = 100 * time.Millisecond
	DefaultRateLimitBurst                     = 10
	DefaultCircuitBreakerOpenThreshold        = 5
	DefaultCircuitBreakerHalfOpenTimeout      = time.Minute
	DefaultCircuitBreakerResetFailuresTimeout = 20 * time.Second
	DefaultCacheBackend                       = cacheBackendRistretto
	DefaultCacheSize                          = 100000
	DefaultMetricsPath                        = "/metrics"

	envPrefix = "IPINTEL_"
)

const (
	cacheBackendNone      = "none"
	cacheBackendRistretto = "ristretto"
	cacheBackendLRU       = "lru"
	cacheBackendRedis     = "redis"
)

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalJSON(b []byte) error {
	var v interface{}

	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("cannot unmarshal duration: %w", err)
	}

	vv, ok := v.(string)
	if !ok {
		return fmt.Errorf("incorrect duration: %v", v)
	}

	dur, err := time.ParseDuration(vv)
	if err != nil {
		return fmt.Errorf("cannot parse duration: %w", err)
	}

	d.Duration = dur

	return nil
}

type configBasicAuth struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

func (c configBasicAuth) Enabled() bool {
	return c.User != "" || c.Password != ""
}

type configCache struct {
	Backend  string   `json:"backend"`
	Size     uint     `json:"size"`
	TTL      duration `json:"ttl"`
	RedisURL string   `json:"redis_url"`
}

type configMetrics struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type config struct {
	Listen         string           `json:"listen"`
	RootDirectory  string           `json:"root_directory"`
	WorkerPoolSize uint             `json:"worker_pool_size"`
	ThreatList     string           `json:"threat_list"`
	BasicAuth      configBasicAuth  `json:"basic_auth"`
	Cache          configCache      `json:"cache"`
	Metrics        configMetrics    `json:"metrics"`
	Providers      []configProvider `json:"providers"`
}

func (c config) GetListen() string {
	if c.Listen != "" {
		return c.Listen
	}

	return DefaultListen
}

func (c config) GetRootDirectory() string {
	if c.RootDirectory != "" {
		return c.RootDirectory
	}

	return filepath.Join(os.TempDir(), "ipintel")
}

func (c config) GetWorkerPoolSize() int {
	return int(c.WorkerPoolSize)
}

func (c config) GetCacheBackend() string {
	if c.Cache.Backend != "" {
		return strings.ToLower(c.Cache.Backend)
	}

	return DefaultCacheBackend
}

func (c config) GetCacheSize() int {
	if c.Cache.Size != 0 {
		return int(c.Cache.Size)
	}

	return DefaultCacheSize
}

// GetCacheTTL returns 0 if TTL is not set. In that case caching
// providers use their own default.
func (c config) GetCacheTTL() time.Duration {
	return c.Cache.TTL.Duration
}

func (c config) GetMetricsPath() string {
	if c.Metrics.Path != "" {
		return c.Metrics.Path
	}

	return DefaultMetricsPath
}

func (c config) GetProviders() []configProvider {
	return c.Providers
}

type configProvider struct {
	Name                               string            `json:"name"`
	RateLimitInterval                  duration          `json:"rate_limit_interval"`
	RateLimitBurst                     uint              `json:"rate_limit_burst"`
	HTTPTimeout                        duration          `json:"http_timeout"`
	CircuitBreakerOpenThreshold        uint32            `json:"circuit_breaker_open_threshold"`
	CircuitBreakerHalfOpenTimeout      duration          `json:"circuit_breaker_half_open_timeout"`
	CircuitBreakerResetFailuresTimeout duration          `json:"circuit_breaker_reset_failures_timeout"`
	NoCache                            bool              `json:"no_cache"`
	SpecificParameters                 map[string]string `json:"specific_parameters"`
}

func (c configProvider) GetName() string {
	return c.Name
}

func (c configProvider) GetRateLimitInterval() time.Duration {
	if c.RateLimitInterval.Duration == 0 {
		return DefaultRateLimitInterval
	}

	return c.RateLimitInterval.Duration
}

func (c configProvider) GetRateLimitBurst() int {
	if c.RateLimitBurst == 0 {
		return DefaultRateLimitBurst
	}

	return int(c.RateLimitBurst)
}

func (c configProvider) GetHTTPTimeout() time.Duration {
	if c.HTTPTimeout.Duration == 0 {
		return DefaultHTTPTimeout
	}

	return c.HTTPTimeout.Duration
}

func (c configProvider) GetCircuitBreakerOpenThreshold() uint32 {
	if c.CircuitBreakerOpenThreshold == 0 {
		return DefaultCircuitBreakerOpenThreshold
	}

	return c.CircuitBreakerOpenThreshold
}

func (c configProvider) GetCircuitBreakerHalfOpenTimeout() time.Duration {
	if c.CircuitBreakerHalfOpenTimeout.Duration == 0 {
		return DefaultCircuitBreakerHalfOpenTimeout
	}

	return c.CircuitBreakerHalfOpenTimeout.Duration
}

func (c configProvider) GetCircuitBreakerResetFailuresTimeout() time.Duration {
	if c.CircuitBreakerResetFailuresTimeout.Duration == 0 {
		return DefaultCircuitBreakerResetFailuresTimeout
	}

	return c.CircuitBreakerResetFailuresTimeout.Duration
}

func (c configProvider) GetSpecificParameters() map[string]string {
	if c.SpecificParameters == nil {
		return map[string]string{}
	}

	return c.SpecificParameters
}

// configEnv is an overlay which is applied on top of the config file.
// Only non-empty values are taken.
type configEnv struct {
	Listen            string        `env:"LISTEN"`
	RootDirectory     string        `env:"ROOT_DIRECTORY"`
	WorkerPoolSize    uint          `env:"WORKER_POOL_SIZE"`
	BasicAuthUser     string        `env:"BASIC_AUTH_USER"`
	BasicAuthPassword string        `env:"BASIC_AUTH_PASSWORD"`
	CacheBackend      string        `env:"CACHE_BACKEND"`
	CacheSize         uint          `env:"CACHE_SIZE"`
	CacheTTL          time.Duration `env:"CACHE_TTL"`
	RedisURL          string        `env:"REDIS_URL"`
	MetricsEnabled    bool          `env:"METRICS_ENABLED"`
}

func (c configEnv) apply(conf *config) {
	if c.Listen != "" {
		conf.Listen = c.Listen
	}

	if c.RootDirectory != "" {
		conf.RootDirectory = c.RootDirectory
	}

	if c.WorkerPoolSize != 0 {
		conf.WorkerPoolSize = c.WorkerPoolSize
	}

	if c.BasicAuthUser != "" {
		conf.BasicAuth.User = c.BasicAuthUser
	}

	if c.BasicAuthPassword != "" {
		conf.BasicAuth.Password = c.BasicAuthPassword
	}

	if c.CacheBackend != "" {
		conf.Cache.Backend = c.CacheBackend
	}

	if c.CacheSize != 0 {
		conf.Cache.Size = c.CacheSize
	}

	if c.CacheTTL != 0 {
		conf.Cache.TTL.Duration = c.CacheTTL
	}

	if c.RedisURL != "" {
		conf.Cache.RedisURL = c.RedisURL
	}

	if c.MetricsEnabled {
		conf.Metrics.Enabled = true
	}
}

func decodeConfig(path string, content []byte) (map[string]interface{}, error) {
	rawMap := map[string]interface{}{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(content), &rawMap); err != nil {
			return nil, errors.Annotate(err, "cannot parse toml")
		}
	default:
		if err := hjson.Unmarshal(content, &rawMap); err != nil {
			return nil, errors.Annotate(err, "cannot parse hjson")
		}
	}

	return rawMap, nil
}

func parseConfig(path string, reader io.Reader) (*config, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Annotate(err, "cannot read config file")
	}

	rawMap, err := decodeConfig(path, content)
	if err != nil {
		return nil, err
	}

	conf := config{}
	rawBytes, _ := json.Marshal(rawMap)

	if err := json.Unmarshal(rawBytes, &conf); err != nil {
		return nil, errors.Annotate(err, "incorrect config structure")
	}

	envConf := configEnv{}
	if err := env.ParseWithOptions(&envConf, env.Options{Prefix: envPrefix}); err != nil {
		return nil, errors.Annotate(err, "cannot parse environment variables")
	}

	envConf.apply(&conf)

	if err := validateConfig(&conf); err != nil {
		return nil, errors.Annotate(err, "invalid config")
	}

	return &conf, nil
}

func validateConfig(conf *config) error {
	var err error

	if _, _, err = net.SplitHostPort(conf.GetListen()); err != nil {
		return errors.Annotatef(err, "incorrect host:port for listen %s", conf.GetListen())
	}

	conf.RootDirectory, err = filepath.Abs(conf.GetRootDirectory())
	if err != nil {
		return errors.Annotate(err, "incorrect root directory")
	}

	switch conf.GetCacheBackend() {
	case cacheBackendNone, cacheBackendRistretto, cacheBackendLRU:
	case cacheBackendRedis:
		if conf.Cache.RedisURL == "" {
			return errors.New("redis_url is required for redis cache")
		}
	default:
		return errors.Errorf("unknown cache backend %s", conf.Cache.Backend)
	}

	if len(conf.Providers) == 0 {
		return errors.New("at least one provider has to be configured")
	}

	seenProviderNames := map[string]struct{}{}

	for _, v := range conf.Providers {
		if _, ok := seenProviderNames[v.GetName()]; ok {
			return errors.Errorf("provider %s is duplicated", v.GetName())
		}

		seenProviderNames[v.GetName()] = struct{}{}
	}

	return nil
}
