package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// authRequestsTotal counts token checks by middleware mode and result.
	authRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_requests_total",
			Help: "Total authentication checks by mode and result",
		},
		[]string{"mode", "result"}, // result: success | failure | anonymous
	)

	// authDuration tracks token validation duration.
	authDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auth_duration_seconds",
			Help:    "Token validation duration by mode",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
		[]string{"mode"},
	)
)

// RecordAuthRequest records an authentication check.
func RecordAuthRequest(mode, result string) {
	authRequestsTotal.WithLabelValues(mode, result).Inc()
}

// RecordAuthDuration records token validation duration.
func RecordAuthDuration(mode string, durationSeconds float64) {
	authDuration.WithLabelValues(mode).Observe(durationSeconds)
}
