package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInstrumentCountsByRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(Instrument(m))
	r.Get("/api/summits/*", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/api/summits/OE/OO-001", "/api/summits/OE/ST-001"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.HTTPCalls.WithLabelValues("/api/summits/*", "4xx")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.SetBuildInfo("dev")
	m.ObserveRequest("/", "2xx")
}
