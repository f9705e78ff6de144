package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for candidate checks and diploma requests.
type Metrics struct {
	CheckLatency      prometheus.Histogram
	LogFetchLatency   *prometheus.HistogramVec
	Verdicts          *prometheus.CounterVec
	DiplomaRequests   *prometheus.CounterVec
	IntegrityFailures prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		CheckLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sota_diploma_check_duration_seconds",
			Help:    "Duration of a full candidate check including all log fetches",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		LogFetchLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sota_diploma_log_fetch_duration_seconds",
			Help:    "Duration of fetching all years of one log category",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"category"}),
		Verdicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sota_diploma_verdicts_total",
			Help: "Verdicts computed by category and rank",
		}, []string{"category", "rank"}),
		DiplomaRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sota_diploma_requests_total",
			Help: "Diploma requests by outcome",
		}, []string{"outcome"}), // outcome: "created", "duplicate", "rejected"
		IntegrityFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sota_diploma_integrity_failures_total",
			Help: "Submitted candidates whose signature did not verify",
		}),
	}
}

func (m *Metrics) ObserveCheck(d time.Duration) {
	if m != nil {
		m.CheckLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveLogFetch(category string, d time.Duration) {
	if m != nil {
		m.LogFetchLatency.WithLabelValues(category).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementVerdict(category, rank string) {
	if m != nil {
		m.Verdicts.WithLabelValues(category, rank).Inc()
	}
}

func (m *Metrics) IncrementRequest(outcome string) {
	if m != nil {
		m.DiplomaRequests.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncrementIntegrityFailure() {
	if m != nil {
		m.IntegrityFailures.Inc()
	}
}
