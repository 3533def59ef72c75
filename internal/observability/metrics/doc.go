// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, size)
//   - Summarization metrics (orchestrator outcomes, backend latency and failures)
//   - Cache and extraction metrics
//   - Database query and retention metrics
//
// All metrics are registered with the Prometheus default registry and exposed
// via the /metrics endpoint.
//
// Example usage:
//
//	import "briefly/internal/observability/metrics"
//
//	start := time.Now()
//	out, err := backend.Summarize(ctx, text, params)
//	metrics.RecordBackendCall(backend.Name(), time.Since(start), len(out.SummaryText), err)
package metrics
