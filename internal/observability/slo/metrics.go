package slo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SLO targets for the data API. Latency targets allow for full-table counts.
const (
	// AvailabilitySLO is the target share of non-5xx responses, in percent.
	AvailabilitySLO = 99.9

	// LatencyP95SLO is the 95th percentile latency target in seconds.
	LatencyP95SLO = 0.500

	// LatencyP99SLO is the 99th percentile latency target in seconds.
	LatencyP99SLO = 2.0

	// ErrorRateSLO is the maximum 5xx ratio.
	ErrorRateSLO = 0.001
)

// SLO gauges, refreshed by Tracker.Flush from the requests of the last window.
var (
	// SLOAvailability is (requests - 5xx) / requests.
	SLOAvailability = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_availability_ratio",
			Help: "Availability ratio (0-1) over the last window, target: 0.999",
		},
	)

	SLOLatencyP95 = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_latency_p95_seconds",
			Help: "p95 latency in seconds over the last window, target: 0.5",
		},
	)

	SLOLatencyP99 = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_latency_p99_seconds",
			Help: "p99 latency in seconds over the last window, target: 2.0",
		},
	)

	// SLOErrorRate is 5xx / requests.
	SLOErrorRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_error_rate_ratio",
			Help: "5xx error ratio (0-1) over the last window, target: 0.001",
		},
	)
)

// UpdateAvailability sets the availability gauge.
func UpdateAvailability(ratio float64) {
	SLOAvailability.Set(ratio)
}

// UpdateLatencyP95 sets the p95 latency gauge, in seconds.
func UpdateLatencyP95(seconds float64) {
	SLOLatencyP95.Set(seconds)
}

// UpdateLatencyP99 sets the p99 latency gauge, in seconds.
func UpdateLatencyP99(seconds float64) {
	SLOLatencyP99.Set(seconds)
}

// UpdateErrorRate sets the error rate gauge.
func UpdateErrorRate(ratio float64) {
	SLOErrorRate.Set(ratio)
}
