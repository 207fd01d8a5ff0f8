package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig holds the configuration for CORS middleware.
type CORSConfig struct {
	// Validator decides which origins are allowed.
	Validator OriginValidator

	// AllowedMethods is sent in preflight responses.
	AllowedMethods []string

	// AllowedHeaders is sent in preflight responses.
	AllowedHeaders []string

	// AllowCredentials adds Access-Control-Allow-Credentials: true.
	// With a "*" origin list the request origin is echoed instead of "*".
	AllowCredentials bool

	// MaxAge is how long preflight results can be cached, in seconds.
	MaxAge int

	// Logger receives policy violations (Warn) and preflights (Debug). Optional.
	Logger *slog.Logger
}

// DefaultCORSConfig returns the policy of the public data API: read-only methods,
// any request header and a one day preflight cache.
func DefaultCORSConfig(origins []string) CORSConfig {
	return CORSConfig{
		Validator:        NewWhitelistValidator(origins),
		AllowedMethods:   []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Accept", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
}

// CORS returns an HTTP middleware that handles CORS for cross-origin requests.
//
// Behavior:
//   - No Origin header: same-origin request, passed through untouched
//   - Origin not allowed: passed through without CORS headers (the browser blocks it)
//   - Allowed OPTIONS preflight: CORS headers set, 204 returned, next not called
//   - Allowed actual request: CORS headers set, passed to next
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	methods := strings.Join(config.AllowedMethods, ", ")
	headers := strings.Join(config.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(config.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !config.Validator.IsAllowed(origin) {
				if config.Logger != nil {
					config.Logger.Warn("CORS: origin not allowed",
						slog.String("origin", origin),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("remote_addr", r.RemoteAddr))
				}
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			if config.Validator.AllowsAny() && !config.AllowCredentials {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
			if config.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", methods)
				if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" && config.Validator.AllowsAny() {
					h.Set("Access-Control-Allow-Headers", requested)
				} else {
					h.Set("Access-Control-Allow-Headers", headers)
				}
				h.Set("Access-Control-Max-Age", maxAge)

				if config.Logger != nil {
					config.Logger.Debug("CORS: preflight request",
						slog.String("origin", origin),
						slog.String("requested_method", r.Header.Get("Access-Control-Request-Method")),
						slog.String("requested_headers", r.Header.Get("Access-Control-Request-Headers")))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
