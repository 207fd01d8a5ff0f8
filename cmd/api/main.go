package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"oed-api/internal/config"
	hhttp "oed-api/internal/handler/http"
	"oed-api/internal/handler/http/respond"
	"oed-api/internal/infra/db"
	"oed-api/internal/observability/logging"
	"oed-api/internal/observability/tracing"
	"oed-api/internal/resilience/retry"
)

const (
	rateLimitIdleTTL         = 10 * time.Minute
	rateLimitCleanupInterval = time.Minute
	sloWindow                = time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// no logger yet; the level itself comes from config
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := initLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

// initLogger builds the JSON logger and installs it as the process default.
func initLogger(cfg *config.Settings) *slog.Logger {
	logger := logging.NewLogger(cfg.LogLevel).With(
		slog.String("service", cfg.ProjectName),
		slog.String("version", cfg.Version),
	)
	slog.SetDefault(logger)
	return logger
}

func run(ctx context.Context, cfg *config.Settings, logger *slog.Logger) error {
	shutdownTracing, err := tracing.InitProvider(ctx, tracing.Config{
		Enabled:        cfg.TracingEnabled,
		ServiceName:    cfg.ProjectName,
		ServiceVersion: cfg.Version,
		Endpoint:       cfg.OTLPEndpoint,
	})
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("tracer shutdown failed", slog.Any("error", err))
		}
	}()

	database, err := initDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	components, err := setupServer(cfg, logger, database)
	if err != nil {
		return err
	}
	return runServer(ctx, cfg, logger, components)
}

// initDatabase opens the pool, retrying while the database is still coming up.
func initDatabase(ctx context.Context, cfg *config.Settings, logger *slog.Logger) (*sql.DB, error) {
	connCfg := db.ConnectionConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	}

	var database *sql.DB
	attempt := 0
	err := retry.WithBackoff(ctx, retry.StartupConfig(), func() error {
		attempt++
		conn, err := db.Open(ctx, cfg.DatabaseURL(), connCfg)
		if err != nil {
			logger.Warn("database not reachable",
				slog.Int("attempt", attempt),
				slog.String("error", respond.SanitizeError(err)))
			return err
		}
		database = conn
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("database connected",
		slog.String("host", cfg.DBHost),
		slog.String("database", cfg.DBName),
		slog.Int("max_open_conns", cfg.DBMaxOpenConns))
	return database, nil
}

// runServer serves until ctx is cancelled, then drains in-flight requests.
func runServer(ctx context.Context, cfg *config.Settings, logger *slog.Logger, components *ServerComponents) error {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", cfg.HTTPAddr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if components.RateLimiter != nil {
		g.Go(func() error {
			return hhttp.RunRateLimitCleanup(gctx, components.RateLimiter, rateLimitCleanupInterval)
		})
	}

	g.Go(func() error {
		return components.SLO.Run(gctx, sloWindow)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", slog.Any("error", err))
			return err
		}
		logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}
