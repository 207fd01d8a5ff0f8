// Package circuitbreaker guards PostgreSQL queries with github.com/sony/gobreaker.
// While the breaker is open, queries fail immediately with gobreaker.ErrOpenState
// instead of waiting on a pool that cannot connect.
package circuitbreaker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"oed-api/internal/observability/metrics"
)

// Config controls when a breaker trips and how it recovers.
type Config struct {
	Name string

	// HalfOpenProbes is how many calls may pass while half-open.
	HalfOpenProbes uint32
	// Window resets the closed-state counters. Zero keeps them until the state changes.
	Window time.Duration
	// Cooldown is how long the breaker stays open before probing.
	Cooldown time.Duration

	// The breaker trips once at least MinRequests calls were seen in the window and
	// the failure ratio reached FailureRatio.
	MinRequests  uint32
	FailureRatio float64

	// IsSuccessful classifies an error returned by the guarded call.
	// Nil uses IgnoreCancellation.
	IsSuccessful func(err error) bool
}

// IgnoreCancellation treats a caller that went away as a success.
// Deadline errors still count: a query that outlives its request timeout is a database problem.
func IgnoreCancellation(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}

// CircuitBreaker is a named gobreaker.CircuitBreaker that reports its state to Prometheus.
type CircuitBreaker struct {
	name    string
	breaker *gobreaker.CircuitBreaker
}

// New builds a breaker from cfg.
func New(cfg Config) *CircuitBreaker {
	isSuccessful := cfg.IsSuccessful
	if isSuccessful == nil {
		isSuccessful = IgnoreCancellation
	}

	cb := &CircuitBreaker{name: cfg.Name}
	cb.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.HalfOpenProbes,
		Interval:    cfg.Window,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.Requests >= cfg.MinRequests &&
				float64(c.TotalFailures)/float64(c.Requests) >= cfg.FailureRatio
		},
		IsSuccessful:  isSuccessful,
		OnStateChange: onStateChange,
	})
	metrics.RecordBreakerState(cfg.Name, int(gobreaker.StateClosed))
	return cb
}

func onStateChange(name string, from, to gobreaker.State) {
	metrics.RecordBreakerState(name, int(to))
	slog.Warn("circuit breaker state changed",
		slog.String("circuit", name),
		slog.String("from", from.String()),
		slog.String("to", to.String()))
}

// Execute runs fn unless the breaker refuses the call.
func (cb *CircuitBreaker) Execute(fn func() (any, error)) (any, error) {
	v, err := cb.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.RecordBreakerRejection(cb.name)
	}
	return v, err
}

func (cb *CircuitBreaker) State() gobreaker.State { return cb.breaker.State() }

func (cb *CircuitBreaker) Name() string { return cb.name }

func (cb *CircuitBreaker) IsOpen() bool { return cb.breaker.State() == gobreaker.StateOpen }
