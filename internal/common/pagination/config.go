// Package pagination implements the server-side auto-pagination policy of the /data
// endpoint: when a caller asks for every matching row and the match count exceeds a
// threshold, the result is capped and navigation links are returned.
package pagination

import "fmt"

// DefaultAutoThreshold is the row count above which unbounded queries are capped.
const DefaultAutoThreshold = 1000

// Config holds pagination configuration settings.
type Config struct {
	// AutoThreshold caps unbounded queries whose total exceeds it.
	AutoThreshold int
}

// DefaultConfig returns the default pagination configuration.
func DefaultConfig() Config {
	return Config{AutoThreshold: DefaultAutoThreshold}
}

// Validate reports a non-positive threshold.
func (c Config) Validate() error {
	if c.AutoThreshold <= 0 {
		return fmt.Errorf("auto pagination threshold must be positive, got %d", c.AutoThreshold)
	}
	return nil
}
