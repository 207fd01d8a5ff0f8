package middleware

import (
	"slices"
	"strings"
)

// Wildcard origin entry allowing every origin.
const anyOrigin = "*"

// WhitelistValidator implements exact-match origin validation.
// Origins are compared case-insensitively with trailing slashes removed.
// A "*" entry allows any origin.
//
// Example usage:
//
//	validator := NewWhitelistValidator([]string{"http://localhost:3000", "https://example.com"})
//	allowed := validator.IsAllowed("http://localhost:3000") // true
type WhitelistValidator struct {
	allowedOrigins []string
	any            bool
}

// NewWhitelistValidator creates a validator for the given origins.
// Blank entries are skipped.
func NewWhitelistValidator(origins []string) *WhitelistValidator {
	v := &WhitelistValidator{allowedOrigins: make([]string, 0, len(origins))}
	for _, origin := range origins {
		origin = normalizeOrigin(origin)
		if origin == "" {
			continue
		}
		if origin == anyOrigin {
			v.any = true
		}
		v.allowedOrigins = append(v.allowedOrigins, origin)
	}
	return v
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(origin)), "/")
}

// IsAllowed checks if the given origin is in the whitelist.
func (v *WhitelistValidator) IsAllowed(origin string) bool {
	origin = normalizeOrigin(origin)
	if origin == "" {
		return false
	}
	if v.any {
		return true
	}
	return slices.Contains(v.allowedOrigins, origin)
}

// AllowsAny reports whether "*" was configured.
func (v *WhitelistValidator) AllowsAny() bool {
	return v.any
}

// GetAllowedOrigins returns a copy of the normalized origins.
func (v *WhitelistValidator) GetAllowedOrigins() []string {
	return slices.Clone(v.allowedOrigins)
}
