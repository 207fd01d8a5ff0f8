package pagination

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts /data requests.
	// Labels: status (HTTP status code), mode (unbounded, limited, auto)
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oed_data_requests_total",
			Help: "Total number of data requests by pagination mode",
		},
		[]string{"status", "mode"},
	)

	// AutoPaginationTotal counts requests capped by the auto-pagination threshold.
	AutoPaginationTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "oed_auto_pagination_total",
			Help: "Total number of requests capped by auto-pagination",
		},
	)

	// DurationSeconds tracks request duration distribution.
	// Labels: operation (handler, service)
	DurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oed_data_duration_seconds",
			Help:    "Data request duration distribution",
			Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0, 10.0},
		},
		[]string{"operation"},
	)

	// ErrorsTotal counts data request errors by type.
	// Labels: type (validation, database)
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oed_data_errors_total",
			Help: "Total number of data request errors",
		},
		[]string{"type"},
	)
)

// Mode returns the metric label describing how p was bounded.
func (p Page) Mode() string {
	switch {
	case p.AutoPaginated:
		return "auto"
	case p.QueryLimit != nil:
		return "limited"
	default:
		return "unbounded"
	}
}

// RecordRequest records a data request metric.
func RecordRequest(statusCode int, p Page) {
	RequestsTotal.WithLabelValues(strconv.Itoa(statusCode), p.Mode()).Inc()
	if p.AutoPaginated {
		AutoPaginationTotal.Inc()
	}
}

// RecordDuration records operation duration in seconds.
func RecordDuration(operation string, duration float64) {
	DurationSeconds.WithLabelValues(operation).Observe(duration)
}

// RecordError records an error metric.
// errorType should be one of: "validation", "database"
func RecordError(errorType string) {
	ErrorsTotal.WithLabelValues(errorType).Inc()
}
