package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oed-api/internal/observability/metrics"
)

var testApp = AppInfo{Name: "OED Data API", Description: "enzyme kinetics", Version: "test-version"}

func newPingMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func serveHealth(t *testing.T, h http.Handler) (int, HealthResponse, http.Header) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var response HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	return rec.Code, response, rec.Header()
}

type stubBreaker gobreaker.State

func (s stubBreaker) State() gobreaker.State { return gobreaker.State(s) }

/* ───────── /health ───────── */

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		pingErr        error
		expectedStatus int
		expectedState  string
	}{
		{"healthy database", nil, http.StatusOK, "healthy"},
		{"database connection error", sql.ErrConnDone, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newPingMock(t)
			db.SetMaxOpenConns(10)
			mock.ExpectPing().WillReturnError(tt.pingErr)

			code, response, _ := serveHealth(t, &HealthHandler{DB: db, App: testApp})

			assert.Equal(t, tt.expectedStatus, code)
			assert.Equal(t, tt.expectedState, response.Status)
			assert.Equal(t, "OED Data API", response.Name)
			assert.Equal(t, "enzyme kinetics", response.Description)
			assert.Equal(t, "test-version", response.Version)
			_, err := time.Parse(time.RFC3339, response.Timestamp)
			assert.NoError(t, err)
			assert.Contains(t, response.Checks, "database")
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHealthHandler_PingErrorIsSanitized(t *testing.T) {
	db, mock := newPingMock(t)
	mock.ExpectPing().WillReturnError(errors.New("dial postgres://oed:hunter2@db:5432/oed_data: refused"))

	code, response, _ := serveHealth(t, &HealthHandler{DB: db, App: testApp})

	assert.Equal(t, http.StatusServiceUnavailable, code)
	msg := response.Checks["database"].Message
	assert.NotContains(t, msg, "hunter2")
	assert.Contains(t, msg, "oed:****@db")
}

func TestHealthHandler_NoDatabaseConfigured(t *testing.T) {
	code, response, _ := serveHealth(t, &HealthHandler{App: testApp})

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", response.Status)
	assert.Equal(t, "not configured", response.Checks["database"].Message)
}

func TestHealthHandler_PoolStatistics(t *testing.T) {
	tests := []struct {
		name            string
		maxOpen         int
		wantStatus      string
		wantMessage     string
		wantUtilization bool
	}{
		{"unbounded pool is degraded", 0, "degraded", "connection pool is unbounded", false},
		{"idle pool", 10, "healthy", "", true},
		{"single connection pool", 1, "healthy", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newPingMock(t)
			db.SetMaxOpenConns(tt.maxOpen)
			mock.ExpectPing()

			code, response, _ := serveHealth(t, &HealthHandler{DB: db, App: testApp})

			// degraded still answers 200
			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, tt.wantStatus, response.Status)

			dbCheck := response.Checks["database"]
			assert.Equal(t, tt.wantStatus, dbCheck.Status)
			assert.Equal(t, tt.wantMessage, dbCheck.Message)
			assert.Equal(t, float64(tt.maxOpen), dbCheck.Details["max_open_connections"])
			_, hasUtilization := dbCheck.Details["utilization_percent"]
			assert.Equal(t, tt.wantUtilization, hasUtilization)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWorse(t *testing.T) {
	assert.Equal(t, statusHealthy, worse(statusHealthy, statusHealthy))
	assert.Equal(t, statusDegraded, worse(statusHealthy, statusDegraded))
	assert.Equal(t, statusUnhealthy, worse(statusDegraded, statusUnhealthy))
	assert.Equal(t, statusUnhealthy, worse(statusUnhealthy, statusDegraded))
}

func TestHealthHandler_UpdatesPoolGauges(t *testing.T) {
	db, mock := newPingMock(t)
	mock.ExpectPing()
	metrics.DBConnectionsIdle.Set(-1)

	serveHealth(t, &HealthHandler{DB: db, App: testApp})

	assert.Equal(t, float64(db.Stats().Idle), testutil.ToFloat64(metrics.DBConnectionsIdle))
}

func TestHealthHandler_CircuitBreaker(t *testing.T) {
	// an open breaker with a reachable database still answers 200
	tests := []struct {
		name      string
		state     gobreaker.State
		wantCheck string
	}{
		{"closed", gobreaker.StateClosed, "healthy"},
		{"half-open", gobreaker.StateHalfOpen, "degraded"},
		{"open", gobreaker.StateOpen, "degraded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newPingMock(t)
			db.SetMaxOpenConns(10)
			mock.ExpectPing()

			code, response, _ := serveHealth(t, &HealthHandler{DB: db, Breaker: stubBreaker(tt.state), App: testApp})

			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, tt.wantCheck, response.Status)
			check := response.Checks["circuit_breaker"]
			assert.Equal(t, tt.wantCheck, check.Status)
			assert.Equal(t, tt.state.String(), check.Details["state"])
		})
	}
}

func TestHealthHandler_NoBreakerCheckWhenDisabled(t *testing.T) {
	db, mock := newPingMock(t)
	mock.ExpectPing()

	_, response, _ := serveHealth(t, &HealthHandler{DB: db, App: testApp})

	assert.NotContains(t, response.Checks, "circuit_breaker")
}

func TestHealthHandler_Headers(t *testing.T) {
	db, mock := newPingMock(t)
	mock.ExpectPing()

	_, _, header := serveHealth(t, &HealthHandler{DB: db, App: testApp})

	assert.Equal(t, "no-cache, no-store, must-revalidate", header.Get("Cache-Control"))
	assert.Equal(t, "application/json", header.Get("Content-Type"))
}

/* ───────── /ready ───────── */

func TestReadyHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		pingErr        error
		expectedStatus int
		expectedBody   string
	}{
		{"ready", nil, http.StatusOK, "ready"},
		{"database not ready", sql.ErrConnDone, http.StatusServiceUnavailable, "database not ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newPingMock(t)
			mock.ExpectPing().WillReturnError(tt.pingErr)

			rec := httptest.NewRecorder()
			(&ReadyHandler{DB: db}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedBody, rec.Body.String())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReadyHandler_NoDatabaseConfigured(t *testing.T) {
	rec := httptest.NewRecorder()
	(&ReadyHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "database not configured", rec.Body.String())
}

func TestReadyHandler_Timeout(t *testing.T) {
	db, mock := newPingMock(t)
	// longer than the 2 second readiness budget
	mock.ExpectPing().WillDelayFor(3 * time.Second)

	rec := httptest.NewRecorder()
	(&ReadyHandler{DB: db}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

/* ───────── /live ───────── */

func TestLiveHandler_ServeHTTP(t *testing.T) {
	rec := httptest.NewRecorder()
	LiveHandler{}.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
}
