// Package observability groups the service's logging, metrics, tracing and
// SLO tracking.
//
// Subpackages:
//   - logging: slog construction and request-scoped loggers
//   - metrics: Prometheus collectors for summarization, cache, extraction,
//     backends and history
//   - tracing: OpenTelemetry provider setup and HTTP middleware
//   - slo: rolling-window summarization SLO gauges
//
// Example:
//
//	logger := logging.NewLogger()
//	logger.Info("application started")
//	metrics.RecordCacheGet("hit")
package observability
