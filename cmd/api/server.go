package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"github.com/klauspost/compress/gzip"

	"oed-api/internal/common/pagination"
	"oed-api/internal/config"
	hhttp "oed-api/internal/handler/http"
	"oed-api/internal/handler/http/middleware"
	hoed "oed-api/internal/handler/http/oed"
	"oed-api/internal/handler/http/requestid"
	pgRepo "oed-api/internal/infra/adapter/persistence/postgres"
	"oed-api/internal/observability/slo"
	"oed-api/internal/observability/tracing"
	"oed-api/internal/resilience/circuitbreaker"
	oedUC "oed-api/internal/usecase/oed"
)

// ServerComponents holds the HTTP handler and the background work it needs.
type ServerComponents struct {
	Handler http.Handler
	// RateLimiter is nil when rate limiting is disabled.
	RateLimiter *middleware.RateLimiter
	SLO         *slo.Tracker
}

// setupServer builds the OED service, routes and middleware chain on top of database.
func setupServer(cfg *config.Settings, logger *slog.Logger, database *sql.DB) (*ServerComponents, error) {
	var (
		querier pgRepo.Querier = database
		breaker hhttp.BreakerStater
	)
	if cfg.DBBreakerEnabled {
		cb := circuitbreaker.NewDBCircuitBreaker(database)
		querier, breaker = cb, cb
		logger.Info("database circuit breaker enabled")
	}

	pageCfg := pagination.Config{AutoThreshold: cfg.AutoPaginationThreshold}
	if err := pageCfg.Validate(); err != nil {
		return nil, fmt.Errorf("setupServer: %w", err)
	}
	svc := &oedUC.Service{
		Repo:       pgRepo.NewOEDRepo(querier),
		Pagination: pageCfg,
	}

	mux := setupRoutes(cfg, logger, database, breaker, svc)

	var limiter *middleware.RateLimiter
	if cfg.RateLimitEnabled() {
		extractor, err := newIPExtractor(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("setupServer: %w", err)
		}
		limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, rateLimitIdleTTL, extractor)
		logger.Info("rate limiting enabled",
			slog.Float64("rps", cfg.RateLimitRPS),
			slog.Int("burst", cfg.RateLimitBurst))
	} else {
		logger.Warn("rate limiting is disabled")
	}

	tracker := slo.NewTracker()
	handler, err := applyMiddleware(cfg, logger, mux, limiter, tracker)
	if err != nil {
		return nil, fmt.Errorf("setupServer: %w", err)
	}
	return &ServerComponents{Handler: handler, RateLimiter: limiter, SLO: tracker}, nil
}

// setupRoutes registers the data API and the operational endpoints.
func setupRoutes(
	cfg *config.Settings,
	logger *slog.Logger,
	database *sql.DB,
	breaker hhttp.BreakerStater,
	svc *oedUC.Service,
) *http.ServeMux {
	mux := http.NewServeMux()
	hoed.Register(mux, svc, logger)

	mux.Handle("GET /health", &hhttp.HealthHandler{
		DB:      database,
		Breaker: breaker,
		App: hhttp.AppInfo{
			Name:        cfg.ProjectName,
			Description: cfg.Description,
			Version:     cfg.Version,
		},
	})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	return mux
}

func newIPExtractor(cfg *config.Settings, logger *slog.Logger) (middleware.IPExtractor, error) {
	proxyCfg, err := middleware.ParseTrustedProxies(cfg.RateLimitTrustProxy, cfg.RateLimitTrustedProxies)
	if err != nil {
		return nil, err
	}
	if proxyCfg.Enabled {
		logger.Info("rate limiting: trusted proxy mode enabled",
			slog.Int("trusted_proxies_count", len(proxyCfg.AllowedCIDRs)))
		return middleware.NewTrustedProxyExtractor(*proxyCfg), nil
	}
	logger.Info("rate limiting: using RemoteAddr, proxy headers ignored")
	return &middleware.RemoteAddrExtractor{}, nil
}

// applyMiddleware wraps the mux with the middleware chain.
// Order, outermost first: Recover → Request ID → Tracing → Logging → SLO → Input
// Validation → Body Limit → Gzip → CORS → Rate Limit → Timeout → Metrics.
// Metrics sits directly on the mux so the matched route pattern is visible.
func applyMiddleware(
	cfg *config.Settings,
	logger *slog.Logger,
	mux *http.ServeMux,
	limiter *middleware.RateLimiter,
	tracker *slo.Tracker,
) (http.Handler, error) {
	corsCfg := middleware.DefaultCORSConfig(cfg.CORSOrigins)
	corsCfg.Logger = logger
	logger.Info("CORS enabled",
		slog.Any("allowed_origins", corsCfg.Validator.GetAllowedOrigins()),
		slog.Any("allowed_methods", corsCfg.AllowedMethods))

	chain := []hhttp.Middleware{
		hhttp.Recover(logger),
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Logging(logger),
		tracker.Middleware,
		hhttp.InputValidation(),
		hhttp.LimitRequestBody(1 << 20),
	}

	if cfg.GzipEnabled {
		gz, err := gzhttp.NewWrapper(gzhttp.CompressionLevel(gzip.BestSpeed))
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip wrapper: %w", err)
		}
		chain = append(chain, func(next http.Handler) http.Handler { return gz(next) })
	}

	chain = append(chain, middleware.CORS(corsCfg))
	if limiter != nil {
		chain = append(chain, limiter.Middleware)
	}
	chain = append(chain, hhttp.Timeout(cfg.RequestTimeout))

	return hhttp.Chain(hhttp.MetricsMiddleware(mux), chain...), nil
}
