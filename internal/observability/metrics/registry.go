// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Query metrics track the OED data queries
var (
	// QueryTotalRows holds the matching row count of the most recent /data request
	QueryTotalRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "oed_query_total_rows",
			Help: "Total matching rows of the most recent data query",
		},
	)

	// QueryRowsReturned measures how many rows a data query returned
	QueryRowsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "oed_query_rows_returned",
			Help:    "Number of rows returned per data query",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
	)

	// QueryErrorsTotal counts failed queries by operation (fetch, count, distinct)
	QueryErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oed_query_errors_total",
			Help: "Total number of failed OED queries",
		},
		[]string{"type"},
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oed_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		},
		[]string{"operation"},
	)

	// DBConnectionsActive tracks active database connections
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

// Circuit breaker metrics
var (
	// BreakerState is 0 while closed, 1 half-open and 2 open
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "oed_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// BreakerRejectionsTotal counts calls refused without reaching the database
	BreakerRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oed_circuit_breaker_rejections_total",
			Help: "Total number of calls rejected by an open or saturated circuit breaker",
		},
		[]string{"name"},
	)
)
