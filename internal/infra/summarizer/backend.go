// Package summarizer provides the summarization backend adapters.
// Every backend (Hugging Face style inference endpoints, Claude, OpenAI, Gemini
// and a local lead-sentence extractor) is exposed through the Backend interface
// and shares one adapter core that applies the per-backend circuit breaker,
// call timeout, timing, structured logging and Prometheus metrics.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"briefly/internal/domain/entity"
	"briefly/internal/observability/metrics"
	"briefly/internal/resilience/circuitbreaker"
	"briefly/internal/utils/text"
)

var (
	// ErrEmptySummary is returned when a backend answers without summary text.
	ErrEmptySummary = errors.New("backend returned empty summary")

	// ErrMalformedResponse is returned when a backend answer cannot be decoded.
	ErrMalformedResponse = errors.New("backend returned malformed response")

	// ErrCircuitOpen is returned when the backend's circuit breaker rejects a call.
	ErrCircuitOpen = errors.New("backend unavailable: circuit breaker open")
)

// Params bounds the length of a summary. Zero values select the backend defaults.
type Params struct {
	MaxLength int
	MinLength int
}

// Backend is a single summarization engine.
// Implementations must be safe for concurrent use and must not retry on their own.
type Backend interface {
	Name() string
	Summarize(ctx context.Context, text string, params Params) (entity.BackendOutput, error)
}

// MetricsRecorder records the outcome of one backend call.
type MetricsRecorder interface {
	RecordCall(backend string, duration time.Duration, summaryLength int, err error)
}

type prometheusRecorder struct{}

func (prometheusRecorder) RecordCall(backend string, duration time.Duration, summaryLength int, err error) {
	metrics.RecordBackendCall(backend, duration, summaryLength, err)
}

// NewPrometheusRecorder returns the MetricsRecorder backed by the process registry.
func NewPrometheusRecorder() MetricsRecorder {
	return prometheusRecorder{}
}

// engine performs exactly one call to the underlying summarization service.
type engine interface {
	summarize(ctx context.Context, input string, p Params) (string, error)
}

// adapter turns an engine into a Backend.
type adapter struct {
	config          Config
	engine          engine
	circuitBreaker  *circuitbreaker.CircuitBreaker
	metricsRecorder MetricsRecorder
}

func newAdapter(cfg Config, e engine, recorder MetricsRecorder) *adapter {
	if recorder == nil {
		recorder = NewPrometheusRecorder()
	}
	return &adapter{
		config:          cfg,
		engine:          e,
		circuitBreaker:  circuitbreaker.New(circuitbreaker.BackendConfig(cfg.Name)),
		metricsRecorder: recorder,
	}
}

// Name implements Backend.
func (a *adapter) Name() string {
	return a.config.Name
}

// Summarize implements Backend.
func (a *adapter) Summarize(ctx context.Context, input string, params Params) (entity.BackendOutput, error) {
	p := a.resolve(params)

	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	requestID := uuid.New().String()
	prepared := input
	if a.config.MaxInputRunes > 0 && text.CountRunes(input) > a.config.MaxInputRunes {
		prepared = text.Truncate(input, a.config.MaxInputRunes)
		slog.WarnContext(ctx, "input truncated for backend",
			slog.String("request_id", requestID),
			slog.String("backend", a.config.Name),
			slog.Int("original_length", text.CountRunes(input)),
			slog.Int("truncated_length", text.CountRunes(prepared)))
	}

	slog.DebugContext(ctx, "starting backend summarization",
		slog.String("request_id", requestID),
		slog.String("backend", a.config.Name),
		slog.String("kind", string(a.config.Kind)),
		slog.Int("input_length", text.CountRunes(prepared)),
		slog.Int("max_length", p.MaxLength),
		slog.Int("min_length", p.MinLength))

	start := time.Now()
	summary, err := circuitbreaker.Run(a.circuitBreaker, func() (string, error) {
		out, err := a.engine.summarize(ctx, prepared, p)
		if err != nil {
			return "", err
		}
		out = strings.TrimSpace(out)
		if out == "" {
			return "", ErrEmptySummary
		}
		return out, nil
	})
	duration := time.Since(start)

	if err != nil {
		if circuitbreaker.IsRejected(err) {
			slog.WarnContext(ctx, "backend circuit breaker open, request rejected",
				slog.String("backend", a.config.Name),
				slog.String("state", a.circuitBreaker.State().String()))
			err = fmt.Errorf("%w: %w", ErrCircuitOpen, err)
		}
		slog.ErrorContext(ctx, "backend summarization failed",
			slog.String("request_id", requestID),
			slog.String("backend", a.config.Name),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		a.metricsRecorder.RecordCall(a.config.Name, duration, 0, err)
		return entity.BackendOutput{}, fmt.Errorf("%s: %w", a.config.Name, err)
	}

	summaryLength := entity.CountWords(summary)
	a.metricsRecorder.RecordCall(a.config.Name, duration, summaryLength, nil)

	slog.InfoContext(ctx, "backend summarization completed",
		slog.String("request_id", requestID),
		slog.String("backend", a.config.Name),
		slog.Int("summary_words", summaryLength),
		slog.Duration("duration", duration))

	return entity.BackendOutput{
		BackendName:           a.config.Name,
		SummaryText:           summary,
		ProcessingTimeSeconds: entity.RoundSeconds(duration),
	}, nil
}

func (a *adapter) resolve(params Params) Params {
	p := params
	if p.MaxLength <= 0 {
		p.MaxLength = a.config.MaxLength
	}
	if p.MinLength <= 0 {
		p.MinLength = a.config.MinLength
	}
	if p.MinLength > p.MaxLength {
		p.MinLength = p.MaxLength
	}
	return p
}

// buildPrompt renders the instruction shared by the LLM backends.
// Length bounds are expressed in words.
func buildPrompt(input string, p Params) string {
	return fmt.Sprintf(
		"Summarize the following text in %d to %d words. "+
			"Reply with the summary only, without a preamble.\n\n%s",
		p.MinLength, p.MaxLength, input)
}
