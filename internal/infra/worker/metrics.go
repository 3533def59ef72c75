package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"briefly/internal/pkg/config"
)

// Metrics holds the retention worker collectors.
type Metrics struct {
	Config *config.ConfigMetrics

	PurgeRuns        *prometheus.CounterVec
	PurgeDuration    prometheus.Histogram
	LastSuccess      prometheus.Gauge
	LastDeletedCount prometheus.Gauge
}

// NewMetrics registers the worker collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Config: config.NewConfigMetrics("retention_worker", reg),
		PurgeRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "retention_purge_runs_total",
			Help: "Total number of retention purge runs by outcome",
		}, []string{"status"}),
		PurgeDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "retention_purge_duration_seconds",
			Help:    "Duration of retention purge runs",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		}),
		LastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Name: "retention_purge_last_success_timestamp",
			Help: "Unix timestamp of the last successful retention purge",
		}),
		LastDeletedCount: f.NewGauge(prometheus.GaugeOpts{
			Name: "retention_purge_last_deleted",
			Help: "Number of summaries deleted by the last successful purge",
		}),
	}
}

// RecordSuccess records a completed purge.
func (m *Metrics) RecordSuccess(seconds float64, deleted int64) {
	m.PurgeRuns.WithLabelValues("success").Inc()
	m.PurgeDuration.Observe(seconds)
	m.LastSuccess.SetToCurrentTime()
	m.LastDeletedCount.Set(float64(deleted))
}

// RecordFailure records a failed purge.
func (m *Metrics) RecordFailure(seconds float64) {
	m.PurgeRuns.WithLabelValues("failure").Inc()
	m.PurgeDuration.Observe(seconds)
}
