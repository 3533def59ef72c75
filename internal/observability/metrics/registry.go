// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)
)

// Summarization metrics
var (
	// SummarizeRequestsTotal counts orchestrator calls by source and outcome
	SummarizeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summarize_requests_total",
			Help: "Total number of summarization requests",
		},
		[]string{"source", "outcome"}, // outcome: success, cache_hit, error
	)

	// SummarizeDuration measures end-to-end orchestrator latency
	SummarizeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "summarize_duration_seconds",
			Help:    "Time taken to produce a summary result",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
		[]string{"source"},
	)

	// BackendCallDuration measures a single backend call
	BackendCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "summarizer_backend_duration_seconds",
			Help:    "Time taken by a summarization backend call",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"backend"},
	)

	// BackendFailuresTotal counts failed backend calls
	BackendFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summarizer_backend_failures_total",
			Help: "Total number of failed summarization backend calls",
		},
		[]string{"backend"},
	)

	// SummaryLength tracks generated summary length in characters
	SummaryLength = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "summarizer_summary_length_characters",
			Help:    "Length of generated summaries in characters",
			Buckets: []float64{50, 100, 200, 400, 800, 1600, 3200},
		},
		[]string{"backend"},
	)
)

// Cache metrics
var (
	// CacheOperationsTotal counts cache lookups and writes by result
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summary_cache_operations_total",
			Help: "Total number of summary cache operations",
		},
		[]string{"operation", "result"}, // get: hit, miss, error; set: ok, error
	)
)

// Extraction metrics
var (
	// ExtractionTotal counts extraction attempts by source kind and result
	ExtractionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extraction_total",
			Help: "Total number of text extraction attempts",
		},
		[]string{"kind", "result"},
	)

	// ExtractionFallbackTotal counts URL extractions served by the generic strategy
	ExtractionFallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extraction_fallback_total",
			Help: "Total number of URL extractions that fell back to the generic strategy",
		},
		[]string{"strategy"},
	)

	// ExtractionDuration measures extraction time by source kind
	ExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "extraction_duration_seconds",
			Help:    "Time taken to extract text from a source",
			Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
		[]string{"kind"},
	)
)

// Persistence metrics
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// SummariesPurgedTotal counts history rows removed by the retention worker
	SummariesPurgedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "summaries_purged_total",
			Help: "Total number of stored summaries removed by retention",
		},
	)

	// SummariesStoredTotal counts persisted summaries by source type
	SummariesStoredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summaries_stored_total",
			Help: "Total number of summaries persisted to history",
		},
		[]string{"source_type"},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query (e.g. "insert_summary", "list_summaries").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
