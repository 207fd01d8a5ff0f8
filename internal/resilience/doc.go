// Package resilience provides the fault tolerance patterns used around PostgreSQL.
//
// Subpackages:
//   - circuitbreaker: fails query execution fast while the database is unavailable
//   - retry: exponential backoff with jitter, used while opening the pool at startup
//
// Usage Example:
//
//	err := retry.WithBackoff(ctx, retry.StartupConfig(), func() error {
//	    pool, err = db.Open(ctx, dsn, poolCfg)
//	    return err
//	})
//
//	guarded := circuitbreaker.NewDBCircuitBreaker(pool)
//	repo := postgres.NewOEDRepo(guarded)
package resilience
