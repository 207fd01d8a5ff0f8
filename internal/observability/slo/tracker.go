// Package slo tracks the service level indicators of the HTTP API and exports them
// as Prometheus gauges.
package slo

import (
	"context"
	"math"
	"net/http"
	"slices"
	"sync"
	"time"

	"oed-api/internal/handler/http/responsewriter"
)

// maxSamples bounds the latencies kept per window. Later requests still count
// towards availability.
const maxSamples = 10000

// Snapshot holds the indicators computed for one window.
type Snapshot struct {
	Requests     int
	ServerErrors int
	Availability float64
	ErrorRate    float64
	P95          time.Duration
	P99          time.Duration
}

// Tracker collects request outcomes and turns them into SLO gauges once per window.
type Tracker struct {
	mu        sync.Mutex
	requests  int
	errors    int
	latencies []time.Duration
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{latencies: make([]time.Duration, 0, 256)}
}

// Observe records one finished request.
func (t *Tracker) Observe(status int, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.requests++
	if status >= http.StatusInternalServerError {
		t.errors++
	}
	if len(t.latencies) < maxSamples {
		t.latencies = append(t.latencies, d)
	}
}

// Middleware observes every request passing through next.
func (t *Tracker) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := responsewriter.Wrap(w)
		next.ServeHTTP(rw, r)
		t.Observe(rw.StatusCode(), time.Since(start))
	})
}

// Flush computes the indicators of the current window, updates the gauges and starts a
// new window. An empty window leaves the gauges untouched.
func (t *Tracker) Flush() Snapshot {
	t.mu.Lock()
	requests, errs, latencies := t.requests, t.errors, t.latencies
	t.requests, t.errors = 0, 0
	t.latencies = make([]time.Duration, 0, cap(latencies))
	t.mu.Unlock()

	if requests == 0 {
		return Snapshot{}
	}

	slices.Sort(latencies)
	s := Snapshot{
		Requests:     requests,
		ServerErrors: errs,
		ErrorRate:    float64(errs) / float64(requests),
		P95:          percentile(latencies, 0.95),
		P99:          percentile(latencies, 0.99),
	}
	s.Availability = 1 - s.ErrorRate

	UpdateAvailability(s.Availability)
	UpdateErrorRate(s.ErrorRate)
	UpdateLatencyP95(s.P95.Seconds())
	UpdateLatencyP99(s.P99.Seconds())
	return s
}

// Run flushes every interval until ctx is done. It always returns nil so it can run
// inside an errgroup.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			t.Flush()
		}
	}
}

// percentile uses the nearest-rank method on sorted samples.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	rank = max(0, min(rank, len(sorted)-1))
	return sorted[rank]
}
