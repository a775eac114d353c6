package lookup

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "ipintel"

// Metrics is a set of Prometheus collectors updated by Engine and
// caching providers. Nil value is valid and does nothing.
type Metrics struct {
	inspections     *prometheus.CounterVec
	providerLookups *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
	cacheRequests   *prometheus.CounterVec
	batchSize       prometheus.Histogram
}

func (m *Metrics) inspected(report *Report) {
	if m == nil {
		return
	}

	level := "none"
	if report.Security != nil {
		level = string(report.Security.Risk.Level)
	}

	m.inspections.WithLabelValues(string(report.Classification.Category), level).Inc()
}

func (m *Metrics) providerLookup(name string, startedAt time.Time, err error) {
	if m == nil {
		return
	}

	result := "success"
	if err != nil {
		result = "failure"
	}

	m.providerLookups.WithLabelValues(name, result).Inc()
	m.providerLatency.WithLabelValues(name).Observe(time.Since(startedAt).Seconds())
}

func (m *Metrics) cacheRequest(name string, hit bool) {
	if m == nil {
		return
	}

	result := "miss"
	if hit {
		result = "hit"
	}

	m.cacheRequests.WithLabelValues(name, result).Inc()
}

func (m *Metrics) batch(size int) {
	if m == nil {
		return
	}

	m.batchSize.Observe(float64(size))
}

// NewMetrics creates and registers collectors.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	rv := &Metrics{
		inspections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "inspections_total",
			Help:      "A number of inspected addresses by category and risk level.",
		}, []string{"category", "risk_level"}),
		providerLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "provider_lookups_total",
			Help:      "A number of provider lookups by result.",
		}, []string{"provider", "result"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "provider_lookup_duration_seconds",
			Help:      "A duration of provider lookups.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_requests_total",
			Help:      "A number of cache requests by result.",
		}, []string{"provider", "result"}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "batch_size",
			Help:      "A size of batch requests.",
			Buckets:   prometheus.LinearBuckets(10, 10, MaxBatchSize/10),
		}),
	}

	collectors := []prometheus.Collector{
		rv.inspections,
		rv.providerLookups,
		rv.providerLatency,
		rv.cacheRequests,
		rv.batchSize,
	}

	for _, v := range collectors {
		if err := registerer.Register(v); err != nil {
			return nil, fmt.Errorf("cannot register collector: %w", err)
		}
	}

	return rv, nil
}
