package config

import (
	"fmt"
	"net/url"
	"slices"
)

// FieldError reports an invalid setting by its environment variable name.
type FieldError struct {
	Field   string
	Message string
}

func newFieldError(key, message string) *FieldError {
	return &FieldError{Field: envName(key), Message: message}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

var logLevels = []string{"debug", "info", "warn", "warning", "error"}

func (s *Settings) validate() []error {
	var errs []error
	add := func(key, msg string) { errs = append(errs, newFieldError(key, msg)) }

	if s.DatabaseURLOverride != "" {
		u, err := url.Parse(s.DatabaseURLOverride)
		if err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
			add("database_url", "must be a postgres:// or postgresql:// URL")
		}
	} else {
		if s.DBUser == "" {
			add("oed_db_user", "is required")
		}
		if s.DBPassword == "" {
			add("oed_db_password", "is required")
		}
		if s.DBHost == "" {
			add("oed_db_host", "is required")
		}
		if s.DBPort <= 0 || s.DBPort > 65535 {
			add("oed_db_port", "must be between 1 and 65535")
		}
		if s.DBName == "" {
			add("oed_db_name", "is required")
		}
	}

	if s.AutoPaginationThreshold <= 0 {
		add("auto_pagination_threshold", "must be greater than 0")
	}
	if s.HTTPAddr == "" {
		add("http_addr", "is required")
	}
	if !slices.Contains(logLevels, s.LogLevel) {
		add("log_level", "must be one of debug, info, warn, error")
	}
	if s.RequestTimeout < 0 {
		add("request_timeout", "must not be negative")
	}
	if s.DBMaxOpenConns < 0 {
		add("db_max_open_conns", "must not be negative")
	}
	if s.DBMaxIdleConns < 0 {
		add("db_max_idle_conns", "must not be negative")
	}
	if s.RateLimitRPS < 0 {
		add("rate_limit_rps", "must not be negative")
	}
	if s.RateLimitEnabled() && s.RateLimitBurst < 1 {
		add("rate_limit_burst", "must be at least 1 when rate limiting is enabled")
	}
	if s.RateLimitTrustProxy && len(s.RateLimitTrustedProxies) == 0 {
		add("rate_limit_trusted_proxies", "is required when RATE_LIMIT_TRUST_PROXY is true")
	}
	if s.TracingEnabled && s.OTLPEndpoint == "" {
		add("otel_exporter_otlp_endpoint", "is required when TRACING_ENABLED is true")
	}
	return errs
}
