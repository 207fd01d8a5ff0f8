// Package retry retries an operation with exponential backoff and jitter.
// The API retries only while establishing its database pool; request-path queries are
// never retried.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Config describes a backoff schedule.
type Config struct {
	MaxAttempts  int // first attempt included
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// Jitter adds up to this fraction of each delay, in [0, 1].
	Jitter float64
}

// StartupConfig is used while connecting to PostgreSQL at boot, when the database
// container may still be starting. Roughly 30 seconds in total.
func StartupConfig() Config {
	return Config{
		MaxAttempts:  8,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     8 * time.Second,
		Multiplier:   2,
		Jitter:       0.1,
	}
}

// Delay returns the wait after the given failed attempt (1-based), jitter excluded.
func (c Config) Delay(attempt int) time.Duration {
	d := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt-1))
	if c.MaxDelay > 0 && d > float64(c.MaxDelay) {
		return c.MaxDelay
	}
	return time.Duration(d)
}

func (c Config) jittered(attempt int) time.Duration {
	d := c.Delay(attempt)
	j := min(max(c.Jitter, 0), 1)
	if j == 0 {
		return d
	}
	// #nosec G404 -- jitter does not need cryptographic randomness.
	return d + time.Duration(rand.Float64()*j*float64(d))
}

// WithBackoff calls fn until it succeeds, fails with an error IsRetryable rejects,
// MaxAttempts is reached or ctx is done.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			if attempt > 1 {
				slog.Info("operation succeeded after retry", slog.Int("attempt", attempt))
			}
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		if attempt >= cfg.MaxAttempts {
			return fmt.Errorf("giving up after %d attempts: %w", attempt, err)
		}

		wait := cfg.jittered(attempt)
		slog.Debug("retrying",
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait))

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("retry aborted: %w", errors.Join(ctx.Err(), err))
		case <-t.C:
		}
	}
}

// SQLSTATE codes PostgreSQL reports while it is booting, shutting down or saturated.
var transientSQLStates = map[string]bool{
	"57P03": true, // cannot_connect_now
	"57P01": true, // admin_shutdown
	"53300": true, // too_many_connections
	"08006": true, // connection_failure
	"08001": true, // sqlclient_unable_to_establish_sqlconnection
}

// IsRetryable reports whether err looks like a database that is not up yet.
// Cancellation and anything unrecognized are final. A deadline error is an attempt
// that timed out; WithBackoff still stops once its own context is done.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var (
		pgErr  *pgconn.PgError
		dnsErr *net.DNSError
		netErr net.Error
	)
	switch {
	case errors.As(err, &pgErr):
		return transientSQLStates[pgErr.Code]
	case errors.As(err, &dnsErr):
		// the database host may not be registered yet
		return dnsErr.IsNotFound || dnsErr.IsTemporary || dnsErr.IsTimeout
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ETIMEDOUT), errors.Is(err, syscall.ENETUNREACH):
		return true
	case errors.As(err, &netErr):
		return netErr.Timeout()
	}
	return false
}
