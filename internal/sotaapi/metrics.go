package sotaapi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	UpstreamLatency *prometheus.HistogramVec
	BreakerOpened   prometheus.Counter
	CacheHits       *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		UpstreamLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sota_diploma_upstream_request_duration_seconds",
			Help:    "Latency of SOTA API calls by endpoint and outcome",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint", "outcome"}),
		BreakerOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sota_diploma_upstream_breaker_opened_total",
			Help: "Times the SOTA log circuit breaker opened",
		}),
		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sota_diploma_upstream_cache_hits_total",
			Help: "Roster and activation lookups answered from cache",
		}, []string{"cache"}),
	}
}

func (m *Metrics) ObserveCall(endpoint, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamLatency.WithLabelValues(endpoint, outcome).Observe(d.Seconds())
}

func (m *Metrics) IncrementBreakerOpened() {
	if m == nil {
		return
	}
	m.BreakerOpened.Inc()
}

func (m *Metrics) IncrementCacheHit(cache string) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(cache).Inc()
}
