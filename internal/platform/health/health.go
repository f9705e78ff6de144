// Package health reports whether the service and its backends are usable.
package health

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"sotadiploma/pkg/platform/httputil"
)

const checkTimeout = 2 * time.Second

// Check probes one dependency; a nil error means healthy.
type Check func(ctx context.Context) error

// Readiness reports whether a startup task finished.
type Readiness func() bool

type Handler struct {
	checks    map[string]Check
	readiness map[string]Readiness
}

func New() *Handler {
	return &Handler{
		checks:    make(map[string]Check),
		readiness: make(map[string]Readiness),
	}
}

// AddCheck registers a liveness probe. A nil check is ignored so callers can
// pass optional backends directly.
func (h *Handler) AddCheck(name string, check Check) {
	if check != nil {
		h.checks[name] = check
	}
}

func (h *Handler) AddReadiness(name string, ready Readiness) {
	if ready != nil {
		h.readiness[name] = ready
	}
}

type Report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

const (
	StatusUp   = "UP"
	StatusDown = "DOWN"
)

// Live runs every check concurrently.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	report := Report{Status: StatusUp, Checks: make(map[string]string, len(h.checks))}
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, check := range h.checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status := StatusUp
			if err := check(ctx); err != nil {
				status = StatusDown + ": " + err.Error()
			}
			mu.Lock()
			report.Checks[name] = status
			if status != StatusUp {
				report.Status = StatusDown
			}
			mu.Unlock()
		}()
	}
	wg.Wait()
	write(w, report)
}

// Ready reports DOWN until every startup task completed.
func (h *Handler) Ready(w http.ResponseWriter, _ *http.Request) {
	report := Report{Status: StatusUp, Checks: make(map[string]string, len(h.readiness))}
	names := make([]string, 0, len(h.readiness))
	for name := range h.readiness {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if h.readiness[name]() {
			report.Checks[name] = StatusUp
			continue
		}
		report.Checks[name] = StatusDown
		report.Status = StatusDown
	}
	write(w, report)
}

func write(w http.ResponseWriter, report Report) {
	status := http.StatusOK
	if report.Status != StatusUp {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, report)
}
