package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"oed-api/internal/handler/http/respond"
)

var rateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "http_rate_limited_total",
	Help: "Total number of requests rejected by the per-IP rate limiter",
})

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per client IP.
type RateLimiter struct {
	rps         rate.Limit
	burst       int
	idleTTL     time.Duration
	ipExtractor IPExtractor

	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second per IP with the
// given burst. Buckets unused for idleTTL are dropped by CleanupExpired.
//
// Example:
//
//	limiter := NewRateLimiter(10, 20, 10*time.Minute, &RemoteAddrExtractor{})
//	handler = limiter.Middleware(handler)
func NewRateLimiter(rps float64, burst int, idleTTL time.Duration, ipExtractor IPExtractor) *RateLimiter {
	if ipExtractor == nil {
		ipExtractor = &RemoteAddrExtractor{}
	}
	return &RateLimiter{
		rps:         rate.Limit(rps),
		burst:       burst,
		idleTTL:     idleTTL,
		ipExtractor: ipExtractor,
		visitors:    make(map[string]*visitor),
		now:         time.Now,
	}
}

// Middleware rejects requests over the limit with 429 and a Retry-After header.
// When the client IP cannot be determined the request is let through.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, err := rl.ipExtractor.ExtractIP(r)
		if err != nil {
			slog.Warn("rate limiter: IP extraction failed",
				slog.String("error", err.Error()),
				slog.String("remote_addr", r.RemoteAddr))
			next.ServeHTTP(w, r)
			return
		}

		lim := rl.limiter(ip)
		res := lim.ReserveN(rl.now(), 1)
		if delay := res.DelayFrom(rl.now()); !res.OK() || delay > 0 {
			res.CancelAt(rl.now())
			rateLimitedTotal.Inc()
			slog.Warn("rate limit exceeded",
				slog.String("ip", ip),
				slog.String("path", r.URL.Path))
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(delay)))
			respond.JSON(w, http.StatusTooManyRequests, map[string]string{"error": "Too Many Requests"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = rl.now()
	return v.limiter
}

// CleanupExpired drops buckets of clients idle for longer than idleTTL and returns how
// many remain.
func (rl *RateLimiter) CleanupExpired() int {
	cutoff := rl.now().Add(-rl.idleTTL)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
		}
	}
	return len(rl.visitors)
}

func retryAfterSeconds(d time.Duration) int {
	s := int((d + time.Second - 1) / time.Second)
	if s < 1 {
		return 1
	}
	return s
}
