package lookup

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/9seconds/ipintel/intel"
	"github.com/antzucaro/matchr"
	"github.com/panjf2000/ants/v2"
)

const (
	// DefaultWorkerPoolSize is a size of worker pool which runs batch
	// inspections.
	DefaultWorkerPoolSize = 4096

	workerPoolExpireTime = time.Minute
)

// EngineOptions are optional parameters of NewEngine.
type EngineOptions struct {
	// WorkerPoolSize is a size of worker pool for InspectAll.
	// DefaultWorkerPoolSize is used if it is not positive.
	WorkerPoolSize int

	// Metrics are updated if set.
	Metrics *Metrics

	// ThreatTable is a table of bad networks. A built-in one is used
	// if it is nil.
	ThreatTable *intel.ThreatTable
}

// Engine inspects IP addresses: classifies them, asks providers about
// their location and network and computes risk verdicts.
//
// Engine is safe for concurrent use. It has to be shutdown after
// usage.
type Engine struct {
	logger     Logger
	providers  []Provider
	stats      map[string]*UsageStats
	metrics    *Metrics
	threats    *intel.ThreatTable
	handler    http.Handler
	rwmutex    sync.RWMutex
	closeOnce  sync.Once
	workerPool *ants.PoolWithFunc
	closed     bool
}

type providerResponse struct {
	name   string
	result ProviderLookupResult
	err    error
}

func (e *Engine) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	e.handler.ServeHTTP(w, req)
}

// Inspect builds a report for a single address. Addresses which cannot
// be geolocated (private, loopback etc) get a report with
// classification only and providers are not asked.
func (e *Engine) Inspect(ctx context.Context, address string) (Report, error) {
	e.rwmutex.RLock()
	defer e.rwmutex.RUnlock()

	if e.closed {
		return Report{}, ErrEngineShutdown
	}

	return e.inspect(ctx, address)
}

// InspectAll inspects a batch of addresses with a worker pool. Results
// have the same order as given addresses. Errors are reported per item.
func (e *Engine) InspectAll(ctx context.Context, addresses []string) ([]BatchItem, error) {
	switch {
	case len(addresses) == 0:
		return nil, ErrEmptyBatch
	case len(addresses) > MaxBatchSize:
		return nil, fmt.Errorf("%d addresses, %d max: %w", len(addresses), MaxBatchSize, ErrBatchTooLarge)
	}

	e.rwmutex.RLock()
	defer e.rwmutex.RUnlock()

	if e.closed {
		return nil, ErrEngineShutdown
	}

	e.metrics.batch(len(addresses))

	groupRequest := newPoolGroupRequest(ctx, addresses, e.workerPool)

	for i, v := range addresses {
		if err := groupRequest.Do(i, v); err != nil {
			break
		}
	}

	results := groupRequest.Wait()

	for i := range results {
		if results[i].Report == nil && results[i].Err == nil {
			results[i].Err = ErrContextIsClosed
		}
	}

	return results, nil
}

// UsageStats returns usage statistics of providers sorted by name.
func (e *Engine) UsageStats() []*UsageStats {
	rv := make([]*UsageStats, 0, len(e.providers))

	for _, v := range e.providers {
		stats := e.stats[v.Name()]

		if cached, ok := v.(interface{ CacheStats() CacheStats }); ok {
			stats.setCacheStats(cached.CacheStats())
		}

		rv = append(rv, stats)
	}

	sort.Slice(rv, func(i, j int) bool {
		return rv[i].Name < rv[j].Name
	})

	return rv
}

// Shutdown stops worker pool and providers. All further calls return
// ErrEngineShutdown.
func (e *Engine) Shutdown() {
	e.rwmutex.Lock()
	defer e.rwmutex.Unlock()

	e.closed = true

	e.closeOnce.Do(func() {
		e.workerPool.Release()

		for _, v := range e.providers {
			if vv, ok := v.(interface{ Shutdown() }); ok {
				vv.Shutdown()
			}
		}
	})
}

func (e *Engine) isClosed() bool {
	e.rwmutex.RLock()
	defer e.rwmutex.RUnlock()

	return e.closed
}

func (e *Engine) inspectTask(args interface{}) {
	params := args.(*inspectRequest)
	defer params.wg.Done()

	report, err := e.inspect(params.ctx, params.address)
	if err != nil {
		params.result.Err = err

		return
	}

	params.result.Report = &report
}

func (e *Engine) inspect(ctx context.Context, address string) (Report, error) {
	classification, err := intel.Classify(address)
	if err != nil {
		return Report{}, err
	}

	rv := Report{
		IP:             address,
		Classification: classification,
	}

	if !classification.GeolocationEligible {
		notice := classification.SpecialNotice()
		rv.Notice = &notice

		e.metrics.inspected(&rv)
		e.logger.Inspected(&rv)

		return rv, nil
	}

	ip := intel.ParseIP(address)
	if ip == nil {
		return rv, fmt.Errorf("cannot parse %q: %w", address, intel.ErrInvalidAddress)
	}

	responses := e.lookup(ctx, ip)

	if err := ctx.Err(); err != nil {
		return rv, fmt.Errorf("cannot inspect %s: %w", address, err)
	}

	merged, ok := e.merge(responses)
	if !ok {
		return rv, fmt.Errorf("cannot inspect %s: %w", address, ErrNoData)
	}

	e.fillReport(&rv, merged)

	rv.Details = make([]ProviderDetail, 0, len(responses))

	for _, v := range responses {
		rv.Details = append(rv.Details, ProviderDetail{
			ProviderName: v.name,
			CountryCode:  v.result.CountryCode,
			City:         v.result.City,
			ISP:          v.result.ISP,
			Failed:       v.err != nil,
		})
	}

	e.metrics.inspected(&rv)
	e.logger.Inspected(&rv)

	return rv, nil
}

func (e *Engine) lookup(ctx context.Context, ip net.IP) []providerResponse {
	responses := make([]providerResponse, len(e.providers))
	wg := &sync.WaitGroup{}

	wg.Add(len(e.providers))

	for i, v := range e.providers {
		go func(provider Provider, response *providerResponse) {
			defer wg.Done()

			startedAt := time.Now()
			name := provider.Name()
			result, err := provider.Lookup(ctx, ip)

			e.stats[name].Used(err)
			e.metrics.providerLookup(name, startedAt, err)

			if err != nil {
				e.logger.LookupError(ip, name, err)
			}

			response.name = name
			response.result = result
			response.err = err
		}(v, &responses[i])
	}

	wg.Wait()

	return responses
}

// merge selects a country most providers agree on. City is voted
// among these providers by double metaphone of the name. Network
// attributes are taken from the first agreeing provider which has
// them.
func (e *Engine) merge(responses []providerResponse) (ProviderLookupResult, bool) {
	countries := map[intel.CountryCode][]*ProviderLookupResult{}
	successful := []*ProviderLookupResult{}
	order := []intel.CountryCode{}

	for i := range responses {
		if responses[i].err != nil {
			continue
		}

		current := &responses[i].result
		successful = append(successful, current)

		if !current.CountryCode.Known() {
			continue
		}

		if _, ok := countries[current.CountryCode]; !ok {
			order = append(order, current.CountryCode)
		}

		countries[current.CountryCode] = append(countries[current.CountryCode], current)
	}

	if len(successful) == 0 {
		return ProviderLookupResult{}, false
	}

	group := successful

	maxLen := 0

	for _, country := range order {
		if len(countries[country]) > maxLen {
			group = countries[country]
			maxLen = len(group)
		}
	}

	rv := *group[0]
	rv.City = e.mergeCity(group)

	for _, v := range group[1:] {
		mergeMissing(&rv, v)
	}

	for _, v := range group {
		rv.IsProxy = rv.IsProxy || v.IsProxy
		rv.IsHosting = rv.IsHosting || v.IsHosting
		rv.IsMobile = rv.IsMobile || v.IsMobile
	}

	return rv, true
}

func (e *Engine) mergeCity(results []*ProviderLookupResult) string {
	counters := map[string]int{}
	names := map[string]string{}
	order := []string{}

	for _, v := range results {
		if v.City == "" {
			continue
		}

		normalizedCityName, _ := matchr.DoubleMetaphone(v.City)

		if _, ok := counters[normalizedCityName]; !ok {
			order = append(order, normalizedCityName)
			names[normalizedCityName] = v.City
		}

		counters[normalizedCityName]++
	}

	maxLen := 0
	cityName := ""

	for _, k := range order {
		if counters[k] > maxLen {
			cityName = names[k]
			maxLen = counters[k]
		}
	}

	return cityName
}

func (e *Engine) fillReport(report *Report, merged ProviderLookupResult) {
	features := intel.ExtractFeatures(report.IP, intel.Metadata{
		ISP:      merged.ISP,
		ASN:      merged.ASN,
		Hostname: merged.Hostname,
	})
	features.IsProxy = merged.IsProxy

	alpha2 := merged.CountryCode.String()
	asn, asNumber := intel.ParseASN(merged.ASN)

	if asn == "" {
		asn = merged.ASN
	}

	organization := merged.Organization
	if organization == "" {
		organization = intel.ASNOrganization(asn)
	}

	location := &Location{
		Continent:  intel.ContinentOf(alpha2),
		Currency:   intel.CurrencyOf(alpha2),
		Region:     merged.Region,
		RegionCode: merged.RegionCode,
		City:       merged.City,
		PostalCode: merged.PostalCode,
		Latitude:   merged.Latitude,
		Longitude:  merged.Longitude,
		Timezone:   merged.Timezone,
		Accuracy:   intel.Accuracy(merged.Confidence),
	}

	if merged.CountryCode.Known() {
		details := merged.CountryCode.Details()
		location.Country = Country{
			Alpha2Code:   alpha2,
			Alpha3Code:   details.Alpha3,
			CommonName:   details.Name.Common,
			OfficialName: details.Name.Official,
		}
	}

	compliance := intel.GDPRInfo(alpha2)
	threat := e.threats.Lookup(report.IP)

	report.Location = location
	report.Network = &Network{
		ISP:          merged.ISP,
		Organization: organization,
		ASN:          asn,
		ASNumber:     asNumber,
		Hostname:     merged.Hostname,
		Connection:   intel.ClassifyConnection(merged.ISP, threat.IsVPN),
	}
	report.Security = &Security{
		Features: features,
		Risk:     intel.Score(features),
		Threat:   threat,
	}
	report.Compliance = &compliance
}

func mergeMissing(dst, src *ProviderLookupResult) {
	fillString := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}

	fillString(&dst.Region, src.Region)
	fillString(&dst.RegionCode, src.RegionCode)
	fillString(&dst.PostalCode, src.PostalCode)
	fillString(&dst.Timezone, src.Timezone)
	fillString(&dst.ISP, src.ISP)
	fillString(&dst.Organization, src.Organization)
	fillString(&dst.ASN, src.ASN)
	fillString(&dst.Hostname, src.Hostname)

	if dst.Latitude == 0 && dst.Longitude == 0 {
		dst.Latitude = src.Latitude
		dst.Longitude = src.Longitude
	}

	if dst.Confidence == 0 {
		dst.Confidence = src.Confidence
	}
}

// NewEngine creates a new engine. Providers are asked in parallel;
// their order defines a priority of network metadata on merge.
func NewEngine(providers []Provider, logger Logger, opts EngineOptions) (*Engine, error) {
	rv := &Engine{
		logger:    logger,
		providers: make([]Provider, 0, len(providers)),
		stats:     map[string]*UsageStats{},
		metrics:   opts.Metrics,
		threats:   opts.ThreatTable,
	}

	for _, v := range providers {
		if _, ok := rv.stats[v.Name()]; ok {
			return nil, fmt.Errorf("provider %s is registered twice", v.Name())
		}

		rv.providers = append(rv.providers, v)
		rv.stats[v.Name()] = &UsageStats{Name: v.Name()}
	}

	if rv.threats == nil {
		rv.threats = intel.DefaultThreatTable()
	}

	poolSize := opts.WorkerPoolSize
	if poolSize <= 0 {
		poolSize = DefaultWorkerPoolSize
	}

	pool, err := ants.NewPoolWithFunc(poolSize, rv.inspectTask,
		ants.WithExpiryDuration(workerPoolExpireTime))
	if err != nil {
		return nil, fmt.Errorf("cannot create a worker pool: %w", err)
	}

	rv.workerPool = pool
	rv.handler = newHTTPHandler(rv)

	return rv, nil
}
