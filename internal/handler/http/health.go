// Package http holds the HTTP plumbing of the OED data API: health probes, the
// Prometheus middleware, request logging, panic recovery and timeouts. Endpoint
// handlers live in subpackages.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"oed-api/internal/handler/http/respond"
	"oed-api/internal/observability/metrics"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status      string                 `json:"status"`      // worst check status
	Timestamp   string                 `json:"timestamp"`   // RFC 3339, UTC
	Checks      map[string]CheckStatus `json:"checks"`      // Status of each check item
	Name        string                 `json:"name"`        // PROJECT_NAME
	Description string                 `json:"description"` // DESCRIPTION
	Version     string                 `json:"version"`     // VERSION
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`            // "healthy", "degraded" or "unhealthy"
	Message string         `json:"message,omitempty"` // Optional status message
	Details map[string]any `json:"details,omitempty"` // Optional additional details
}

// AppInfo is the application metadata reported by /health.
type AppInfo struct {
	Name        string
	Description string
	Version     string
}

// BreakerStater exposes the state of the database circuit breaker.
type BreakerStater interface {
	State() gobreaker.State
}

const (
	healthTimeout = 5 * time.Second
	readyTimeout  = 2 * time.Second

	// pool utilization at which /health reports the database as degraded
	poolSaturation = 80.0
)

// HealthHandler reports database connectivity, pool statistics and the circuit breaker
// state. It answers 503 when a check is unhealthy and 200 otherwise, degraded included.
type HealthHandler struct {
	DB      *sql.DB
	Breaker BreakerStater // optional
	App     AppInfo
}

type healthCheck struct {
	name string
	run  func(ctx context.Context) CheckStatus
}

func (h *HealthHandler) checks() []healthCheck {
	list := []healthCheck{{"database", h.checkDatabase}}
	if h.Breaker != nil {
		list = append(list, healthCheck{"circuit_breaker", func(context.Context) CheckStatus { return h.checkBreaker() }})
	}
	return list
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	list := h.checks()
	results := make([]CheckStatus, len(list))
	var g errgroup.Group
	for i, c := range list {
		g.Go(func() error {
			results[i] = c.run(ctx)
			return nil
		})
	}
	_ = g.Wait()

	checks := make(map[string]CheckStatus, len(list))
	overall := statusHealthy
	for i, c := range list {
		checks[c.name] = results[i]
		overall = worse(overall, results[i].Status)
	}

	code := http.StatusOK
	if overall == statusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:      overall,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Checks:      checks,
		Name:        h.App.Name,
		Description: h.App.Description,
		Version:     h.App.Version,
	})
}

var severity = map[string]int{statusHealthy: 0, statusDegraded: 1, statusUnhealthy: 2}

func worse(a, b string) string {
	if severity[b] > severity[a] {
		return b
	}
	return a
}

// checkDatabase pings the database and reports pool statistics. The pool gauges
// exported on /metrics are refreshed as a side effect.
func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	if h.DB == nil {
		return CheckStatus{Status: statusUnhealthy, Message: "not configured"}
	}
	if err := h.DB.PingContext(ctx); err != nil {
		msg := respond.SanitizeError(err)
		slog.Warn("health: database ping failed", slog.String("error", msg))
		return CheckStatus{Status: statusUnhealthy, Message: msg}
	}

	stats := h.DB.Stats()
	metrics.UpdateDBConnectionStats(stats)
	check := CheckStatus{
		Status: statusHealthy,
		Details: map[string]any{
			"max_open_connections": stats.MaxOpenConnections,
			"open_connections":     stats.OpenConnections,
			"in_use":               stats.InUse,
			"idle":                 stats.Idle,
			"wait_count":           stats.WaitCount,
			"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
		},
	}

	switch {
	case stats.MaxOpenConnections == 0:
		check.Status = statusDegraded
		check.Message = "connection pool is unbounded"
	default:
		used := float64(stats.InUse) / float64(stats.MaxOpenConnections) * 100
		check.Details["utilization_percent"] = used
		if used >= poolSaturation {
			check.Status = statusDegraded
			check.Message = fmt.Sprintf("connection pool utilization at %.0f%%", used)
		}
	}
	return check
}

// checkBreaker reports the breaker state. An open breaker is degraded rather than
// unhealthy: it recovers on its own once the database answers again.
func (h *HealthHandler) checkBreaker() CheckStatus {
	state := h.Breaker.State()
	check := CheckStatus{
		Status:  statusHealthy,
		Details: map[string]any{"state": state.String()},
	}
	if state != gobreaker.StateClosed {
		check.Status = statusDegraded
		check.Message = "database circuit breaker is " + state.String()
	}
	return check
}

// ReadyHandler answers 200 "ready" once the database accepts connections.
type ReadyHandler struct {
	DB *sql.DB
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	switch {
	case h.DB == nil:
		plain(w, http.StatusServiceUnavailable, "database not configured")
	case h.DB.PingContext(ctx) != nil:
		plain(w, http.StatusServiceUnavailable, "database not ready")
	default:
		plain(w, http.StatusOK, "ready")
	}
}

// LiveHandler answers 200 "alive" without touching the database.
type LiveHandler struct{}

func (LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	plain(w, http.StatusOK, "alive")
}

func plain(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}
