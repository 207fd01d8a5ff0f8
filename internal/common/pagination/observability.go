package pagination

import (
	"log/slog"
	"time"
)

// The logger passed in is expected to carry the request and trace IDs already.

// LogRequest logs the paging parameters of a data request.
func LogRequest(logger *slog.Logger, params Params) {
	logger.Info("Data request", "params", params.String())
}

// LogResponse logs the paging outcome with duration and status.
func LogResponse(logger *slog.Logger, page Page, returnedCount int, duration time.Duration, statusCode int) {
	logger.Info("Data response",
		"total", page.Total,
		"offset", page.Offset,
		"limit", page.Limit,
		"auto_paginated", page.AutoPaginated,
		"returned_count", returnedCount,
		"duration_ms", duration.Milliseconds(),
		"status", statusCode)
}

// LogError logs a failed data request. errMsg must already be sanitized.
func LogError(logger *slog.Logger, params Params, errMsg, errorType string) {
	logger.Error("Data request error",
		"params", params.String(),
		"error", errMsg,
		"error_type", errorType)
}
