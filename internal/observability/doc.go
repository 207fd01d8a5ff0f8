// Package observability groups the logging, metrics and tracing infrastructure of the
// OED data API.
//
// Subpackages:
//   - logging: slog constructors and request/trace id propagation
//   - metrics: Prometheus collectors for database queries and the connection pool
//   - tracing: OpenTelemetry tracer and HTTP server middleware
//
// Example usage:
//
//	import (
//	    "oed-api/internal/observability/logging"
//	    "oed-api/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger("info")
//	    logger.Info("application started")
//
//	    metrics.RecordDBQuery("count", time.Since(start))
//	}
package observability
