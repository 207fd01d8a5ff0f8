package middleware

// OriginValidator decides which origins may read cross-origin responses.
type OriginValidator interface {
	// IsAllowed reports whether origin is permitted. Empty origins are never allowed.
	IsAllowed(origin string) bool

	// AllowsAny reports whether every origin is permitted ("*" configured).
	AllowsAny() bool

	// GetAllowedOrigins returns a copy of the configured origins for logging.
	GetAllowedOrigins() []string
}
