// Package tracing provides OpenTelemetry tracing integration.
//
// Middleware opens a server span per HTTP request, continuing any W3C trace context sent
// by the client, and returns the trace id in the X-Trace-Id header. The repository layer
// opens a client span per SQL statement through GetTracer.
//
// Spans are exported by whatever provider is installed with otel.SetTracerProvider;
// cmd/api installs an SDK provider with a W3C propagator.
//
// Example usage:
//
//	handler := tracing.Middleware(mux)
//
//	func (repo *OEDRepo) Count(ctx context.Context, q entity.Query) (int64, error) {
//	    ctx, span := tracing.GetTracer().Start(ctx, "db.count")
//	    defer span.End()
//	    // ...
//	}
package tracing
