package config

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoadTimestamp is the Unix time of the last successful Load.
	LoadTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "oed_config_load_timestamp_seconds",
		Help: "Unix timestamp of the last successful configuration load",
	})

	// ValidationErrorsTotal counts rejected settings by environment variable.
	ValidationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oed_config_validation_errors_total",
		Help: "Total number of configuration validation errors by field",
	}, []string{"field"})
)

func recordLoad() {
	LoadTimestamp.SetToCurrentTime()
}

func recordValidationError(field string) {
	ValidationErrorsTotal.WithLabelValues(field).Inc()
}

func envName(key string) string {
	return strings.ToUpper(key)
}
