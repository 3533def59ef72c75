package metrics

import "time"

// Summarization outcomes used as the "outcome" label.
const (
	OutcomeSuccess  = "success"
	OutcomeCacheHit = "cache_hit"
	OutcomeError    = "error"
)

// RecordSummarize records one orchestrator call.
func RecordSummarize(source, outcome string, duration time.Duration) {
	SummarizeRequestsTotal.WithLabelValues(source, outcome).Inc()
	SummarizeDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordBackendCall records the duration of a backend call and, on success,
// the length of the produced summary in characters.
func RecordBackendCall(backend string, duration time.Duration, summaryLength int, err error) {
	BackendCallDuration.WithLabelValues(backend).Observe(duration.Seconds())
	if err != nil {
		BackendFailuresTotal.WithLabelValues(backend).Inc()
		return
	}
	SummaryLength.WithLabelValues(backend).Observe(float64(summaryLength))
}

// RecordCacheGet records a cache lookup. result is "hit", "miss" or "error".
func RecordCacheGet(result string) {
	CacheOperationsTotal.WithLabelValues("get", result).Inc()
}

// RecordCacheSet records a cache write.
func RecordCacheSet(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	CacheOperationsTotal.WithLabelValues("set", result).Inc()
}

// RecordExtraction records an extraction attempt for a source kind.
//
// Example:
//
//	start := time.Now()
//	out, err := extractor.FromPDF(data)
//	RecordExtraction("pdf", time.Since(start), err)
func RecordExtraction(kind string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	ExtractionTotal.WithLabelValues(kind, result).Inc()
	ExtractionDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordExtractionFallback records a URL extraction that was served by the
// generic strategy after the named structured strategy failed.
func RecordExtractionFallback(strategy string) {
	ExtractionFallbackTotal.WithLabelValues(strategy).Inc()
}

// RecordSummaryStored records a summary written to history.
func RecordSummaryStored(sourceType string) {
	SummariesStoredTotal.WithLabelValues(sourceType).Inc()
}

// RecordSummariesPurged records rows removed by a retention run.
func RecordSummariesPurged(count int64) {
	if count > 0 {
		SummariesPurgedTotal.Add(float64(count))
	}
}
