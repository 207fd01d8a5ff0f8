package http

import (
	"context"
	"log/slog"
	"time"
)

// Cleaner is implemented by rate limiters that hold per-client state.
type Cleaner interface {
	// CleanupExpired drops idle entries and returns how many remain.
	CleanupExpired() int
}

// RunRateLimitCleanup periodically drops idle rate limiter buckets until ctx is done.
// It always returns nil so it can run inside an errgroup.
func RunRateLimitCleanup(ctx context.Context, limiter Cleaner, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("rate limit cleanup started", slog.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			slog.Info("rate limit cleanup stopped")
			return nil
		case <-ticker.C:
			remaining := limiter.CleanupExpired()
			slog.Debug("rate limit cleanup completed", slog.Int("active_clients", remaining))
		}
	}
}
