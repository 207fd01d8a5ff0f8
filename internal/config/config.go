// Package config loads the service settings from the environment and an optional
// .env file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings is the validated service configuration.
type Settings struct {
	ProjectName string
	Description string
	Version     string

	HTTPAddr        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	GzipEnabled     bool
	LogLevel        string

	CORSOrigins []string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     int
	DBName     string
	// DatabaseURLOverride replaces the URL assembled from the OED_DB_* settings.
	DatabaseURLOverride string

	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBConnMaxIdleTime time.Duration
	DBBreakerEnabled  bool

	AutoPaginationThreshold int

	RateLimitRPS            float64
	RateLimitBurst          int
	RateLimitTrustProxy     bool
	RateLimitTrustedProxies []string

	TracingEnabled bool
	OTLPEndpoint   string
}

// DatabaseURL returns the connection URL for the OED database. User and password
// are escaped.
func (s *Settings) DatabaseURL() string {
	if s.DatabaseURLOverride != "" {
		return s.DatabaseURLOverride
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(s.DBUser, s.DBPassword),
		Host:   net.JoinHostPort(s.DBHost, strconv.Itoa(s.DBPort)),
		Path:   "/" + s.DBName,
	}
	return u.String()
}

// RateLimitEnabled reports whether per-IP rate limiting is configured.
func (s *Settings) RateLimitEnabled() bool {
	return s.RateLimitRPS > 0
}

// Option customises Load.
type Option func(*loader)

type loader struct {
	envFile string
}

// WithEnvFile reads dotenv-formatted settings from path instead of ".env".
// An empty path disables file loading.
func WithEnvFile(path string) Option {
	return func(l *loader) { l.envFile = path }
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("project_name", "OED Data API")
	v.SetDefault("description", "API for accessing enzyme kinetic data from the OED database")
	v.SetDefault("version", "0.1.0")

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("request_timeout", "60s")
	v.SetDefault("shutdown_timeout", "30s")
	v.SetDefault("gzip_enabled", true)
	v.SetDefault("log_level", "info")

	v.SetDefault("cors_origins", "*")

	v.SetDefault("oed_db_user", "")
	v.SetDefault("oed_db_password", "")
	v.SetDefault("oed_db_host", "")
	v.SetDefault("oed_db_port", 5432)
	v.SetDefault("oed_db_name", "oed_data")
	v.SetDefault("database_url", "")

	v.SetDefault("db_max_open_conns", 25)
	v.SetDefault("db_max_idle_conns", 10)
	v.SetDefault("db_conn_max_lifetime", "1h")
	v.SetDefault("db_conn_max_idle_time", "30m")
	v.SetDefault("db_breaker_enabled", true)

	v.SetDefault("auto_pagination_threshold", 1000)

	v.SetDefault("rate_limit_rps", 0.0)
	v.SetDefault("rate_limit_burst", 20)
	v.SetDefault("rate_limit_trust_proxy", false)
	v.SetDefault("rate_limit_trusted_proxies", "")

	v.SetDefault("tracing_enabled", false)
	v.SetDefault("otel_exporter_otlp_endpoint", "localhost:4317")
}

// Load reads settings from the environment, falling back to the .env file and then
// to defaults. Environment variables win over the file. Every invalid field is
// reported in the returned error.
func Load(opts ...Option) (*Settings, error) {
	l := &loader{envFile: ".env"}
	for _, opt := range opts {
		opt(l)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if l.envFile != "" {
		v.SetConfigFile(l.envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read env file %s: %w", l.envFile, err)
			}
		}
	}

	var errs []error
	duration := func(key string) time.Duration {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			errs = append(errs, newFieldError(key, "must be a duration such as 30s or 1h"))
		}
		return d
	}

	s := &Settings{
		ProjectName: v.GetString("project_name"),
		Description: v.GetString("description"),
		Version:     v.GetString("version"),

		HTTPAddr:        v.GetString("http_addr"),
		RequestTimeout:  duration("request_timeout"),
		ShutdownTimeout: duration("shutdown_timeout"),
		GzipEnabled:     v.GetBool("gzip_enabled"),
		LogLevel:        strings.ToLower(v.GetString("log_level")),

		DBUser:              v.GetString("oed_db_user"),
		DBPassword:          v.GetString("oed_db_password"),
		DBHost:              v.GetString("oed_db_host"),
		DBPort:              v.GetInt("oed_db_port"),
		DBName:              v.GetString("oed_db_name"),
		DatabaseURLOverride: v.GetString("database_url"),

		DBMaxOpenConns:    v.GetInt("db_max_open_conns"),
		DBMaxIdleConns:    v.GetInt("db_max_idle_conns"),
		DBConnMaxLifetime: duration("db_conn_max_lifetime"),
		DBConnMaxIdleTime: duration("db_conn_max_idle_time"),
		DBBreakerEnabled:  v.GetBool("db_breaker_enabled"),

		AutoPaginationThreshold: v.GetInt("auto_pagination_threshold"),

		RateLimitRPS:        v.GetFloat64("rate_limit_rps"),
		RateLimitBurst:      v.GetInt("rate_limit_burst"),
		RateLimitTrustProxy: v.GetBool("rate_limit_trust_proxy"),

		TracingEnabled: v.GetBool("tracing_enabled"),
		OTLPEndpoint:   v.GetString("otel_exporter_otlp_endpoint"),
	}

	origins, err := parseList(v.GetString("cors_origins"))
	if err != nil {
		errs = append(errs, newFieldError("cors_origins", err.Error()))
	}
	s.CORSOrigins = origins

	proxies, err := parseList(v.GetString("rate_limit_trusted_proxies"))
	if err != nil {
		errs = append(errs, newFieldError("rate_limit_trusted_proxies", err.Error()))
	}
	s.RateLimitTrustedProxies = proxies

	errs = append(errs, s.validate()...)
	for _, err := range errs {
		var fe *FieldError
		if errors.As(err, &fe) {
			recordValidationError(fe.Field)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	recordLoad()
	return s, nil
}

// parseList accepts a JSON array (["a","b"]) or a comma-separated list.
func parseList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var items []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, fmt.Errorf("must be a JSON array of strings or a comma-separated list")
		}
	} else {
		items = strings.Split(raw, ",")
	}

	out := items[:0]
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out, nil
}
