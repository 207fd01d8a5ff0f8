// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes the query and database metrics of the service:
//   - Database query duration per operation
//   - Matching and returned row counts of data queries
//   - Query failures per operation
//   - Connection pool usage
//
// HTTP request metrics live with the HTTP middleware in internal/handler/http.
// All metrics are registered with the Prometheus default registry and exposed via
// the /metrics endpoint.
//
// Example usage:
//
//	import "oed-api/internal/observability/metrics"
//
//	start := time.Now()
//	rows, err := db.QueryContext(ctx, query, args...)
//	metrics.RecordDBQuery("fetch", time.Since(start))
//	if err != nil {
//	    metrics.RecordQueryError("fetch")
//	}
package metrics
