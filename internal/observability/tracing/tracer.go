package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TracerName identifies spans emitted by this service.
const TracerName = "oed-api"

// tracer is the global tracer instance. It resolves through the global provider, so a
// provider installed later with otel.SetTracerProvider is picked up.
var tracer = otel.Tracer(TracerName)

// GetTracer returns the global tracer for creating spans.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "db.count")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}
