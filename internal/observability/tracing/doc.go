// Package tracing provides OpenTelemetry tracing integration.
//
// Init installs the process-wide tracer provider and propagators, Middleware
// opens a server span per HTTP request and StartSpan opens internal spans for
// the summarization pipeline.
//
//	shutdown, err := tracing.Init(0.1)
//	if err != nil { ... }
//	defer shutdown(context.Background())
//
//	ctx, span := tracing.StartSpan(ctx, "summarize.text")
//	defer span.End()
package tracing
