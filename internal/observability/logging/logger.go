package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"oed-api/internal/handler/http/requestid"
)

// ParseLevel maps a LOG_LEVEL value (debug, info, warn, error) to a slog.Level.
// Unknown values fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a new structured logger with JSON output on stdout.
// Supported levels: debug, info, warn, error. Default level: info.
func NewLogger(level string) *slog.Logger {
	return NewJSONLogger(os.Stdout, level)
}

// NewJSONLogger creates a JSON logger writing to w.
func NewJSONLogger(w io.Writer, level string) *slog.Logger {
	lvl := ParseLevel(level)
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: lvl,
		// source location only in debug mode
		AddSource: lvl <= slog.LevelDebug,
	}))
}

// ForRequest returns logger with the request_id and trace_id found in ctx attached.
// Missing IDs are left out rather than logged empty.
func ForRequest(ctx context.Context, logger *slog.Logger) *slog.Logger {
	var attrs []any
	if id := requestid.FromContext(ctx); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.HasTraceID() {
		attrs = append(attrs, slog.String("trace_id", sc.TraceID().String()))
	}
	if len(attrs) == 0 {
		return logger
	}
	return logger.With(attrs...)
}
