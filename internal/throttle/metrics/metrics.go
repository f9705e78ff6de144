package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ThrottleAdmitted    prometheus.Counter
	ThrottleRejected    prometheus.Counter
	ThrottleStoreErrors prometheus.Counter
	ThrottleGlobalUsed  prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		ThrottleAdmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sota_diploma_throttle_admitted_total",
			Help: "Total number of requests admitted by the throttle",
		}),
		ThrottleRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sota_diploma_throttle_rejected_total",
			Help: "Total number of requests rejected by the throttle",
		}),
		ThrottleStoreErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sota_diploma_throttle_store_errors_total",
			Help: "Total number of counter store failures during admission",
		}),
		ThrottleGlobalUsed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sota_diploma_throttle_global_bucket_total",
			Help: "Admission checks that fell back to the shared global bucket",
		}),
	}
}

func (m *Metrics) IncrementAdmitted() {
	if m == nil {
		return
	}
	m.ThrottleAdmitted.Inc()
}

func (m *Metrics) IncrementRejected() {
	if m == nil {
		return
	}
	m.ThrottleRejected.Inc()
}

func (m *Metrics) IncrementStoreErrors() {
	if m == nil {
		return
	}
	m.ThrottleStoreErrors.Inc()
}

func (m *Metrics) IncrementGlobalUsed() {
	if m == nil {
		return
	}
	m.ThrottleGlobalUsed.Inc()
}
