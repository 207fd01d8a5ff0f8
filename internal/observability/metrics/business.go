package metrics

import (
	"database/sql"
	"time"
)

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "fetch", "count", "distinct").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordQueryError records a failed query of the given operation.
func RecordQueryError(operation string) {
	QueryErrorsTotal.WithLabelValues(operation).Inc()
}

// RecordQueryResult records the matching total and the returned row count of a data query.
func RecordQueryResult(total int64, returned int) {
	QueryTotalRows.Set(float64(total))
	QueryRowsReturned.Observe(float64(returned))
}

// UpdateDBConnectionStats copies pool statistics into the connection gauges.
func UpdateDBConnectionStats(stats sql.DBStats) {
	DBConnectionsActive.Set(float64(stats.InUse))
	DBConnectionsIdle.Set(float64(stats.Idle))
}

// RecordBreakerState publishes the state of the named circuit breaker.
// States follow gobreaker's numbering: closed, half-open, open.
func RecordBreakerState(name string, state int) {
	BreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordBreakerRejection counts one call refused by the named circuit breaker.
func RecordBreakerRejection(name string) {
	BreakerRejectionsTotal.WithLabelValues(name).Inc()
}
