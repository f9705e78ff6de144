// Package metrics exposes the process-wide Prometheus registry. Module
// metrics register themselves with promauto; this package serves them.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds service-level metrics shared by all modules.
type Metrics struct {
	BuildInfo *prometheus.GaugeVec
	HTTPCalls *prometheus.CounterVec
}

// New creates and registers the service-level metrics.
func New() *Metrics {
	return &Metrics{
		BuildInfo: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sota_diploma_build_info",
			Help: "Build information of the running diploma service",
		}, []string{"version"}),
		HTTPCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sota_diploma_http_requests_total",
			Help: "HTTP requests served, by route pattern and status class",
		}, []string{"route", "status"}),
	}
}

// SetBuildInfo publishes the running version.
func (m *Metrics) SetBuildInfo(version string) {
	if m == nil {
		return
	}
	m.BuildInfo.WithLabelValues(version).Set(1)
}

// ObserveRequest counts one served request.
func (m *Metrics) ObserveRequest(route, statusClass string) {
	if m == nil {
		return
	}
	m.HTTPCalls.WithLabelValues(route, statusClass).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Instrument counts every request by its chi route pattern so summit codes
// and entry ids do not explode the label space.
func Instrument(m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.ObserveRequest(route, strconv.Itoa(status/100)+"xx")
		})
	}
}
