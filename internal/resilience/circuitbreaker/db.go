package circuitbreaker

import (
	"context"
	"database/sql"
	"time"
)

// DBConfig trips after five straight failures and probes again after 30 seconds.
func DBConfig() Config {
	return Config{
		Name:           "database",
		HalfOpenProbes: 3,
		Window:         time.Minute,
		Cooldown:       30 * time.Second,
		MinRequests:    5,
		FailureRatio:   1.0,
	}
}

// DBCircuitBreaker puts the read-only pool behind a breaker.
// It satisfies the repository's Querier interface.
type DBCircuitBreaker struct {
	*CircuitBreaker
	db *sql.DB
}

func NewDBCircuitBreaker(db *sql.DB) *DBCircuitBreaker {
	return NewDBCircuitBreakerWithConfig(db, DBConfig())
}

func NewDBCircuitBreakerWithConfig(db *sql.DB, cfg Config) *DBCircuitBreaker {
	return &DBCircuitBreaker{CircuitBreaker: New(cfg), db: db}
}

// QueryContext runs the query through the breaker.
// Only the error from issuing the query is classified; errors raised later while
// scanning rows never reach the breaker.
func (d *DBCircuitBreaker) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	v, err := d.Execute(func() (any, error) {
		return d.db.QueryContext(ctx, query, args...)
	})
	if err != nil {
		return nil, err
	}
	return v.(*sql.Rows), nil
}

// DB returns the unguarded pool. Health checks ping it directly.
func (d *DBCircuitBreaker) DB() *sql.DB {
	return d.db
}
