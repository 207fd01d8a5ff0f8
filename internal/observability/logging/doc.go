// Package logging builds the service's slog loggers.
//
// Output is JSON on stdout at the level named by LOG_LEVEL; source locations are added
// only at debug. Request handlers derive a per-request logger with ForRequest so every
// entry carries request_id and trace_id:
//
//	logger := logging.NewLogger(cfg.LogLevel)
//	slog.SetDefault(logger)
//
//	func (h DataHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
//	    logger := logging.ForRequest(r.Context(), h.Logger)
//	    logger.Info("Data request")
//	}
package logging
