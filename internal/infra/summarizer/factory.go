package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

// Options customises how backends are built.
type Options struct {
	// HTTPClient is used by the HTTP based engines. Nil selects a default client.
	HTTPClient *http.Client

	// MetricsRecorder receives call outcomes. Nil selects Prometheus.
	MetricsRecorder MetricsRecorder
}

// New builds the backend described by cfg.
func New(ctx context.Context, cfg Config, opts Options) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var e engine
	switch cfg.Kind {
	case KindInference:
		e = newInferenceEngine(cfg, opts.HTTPClient)
	case KindClaude:
		e = newClaudeEngine(cfg)
	case KindOpenAI:
		e = newOpenAIEngine(cfg, opts.HTTPClient)
	case KindGemini:
		g, err := newGeminiEngine(ctx, cfg, opts.HTTPClient)
		if err != nil {
			return nil, fmt.Errorf("backend %s: %w", cfg.Name, err)
		}
		e = g
	case KindNoop:
		e = noopEngine{}
	}

	slog.Info("initialized summarization backend",
		slog.String("backend", cfg.Name),
		slog.String("kind", string(cfg.Kind)),
		slog.String("model", cfg.Model),
		slog.Int("max_length", cfg.MaxLength),
		slog.Int("min_length", cfg.MinLength),
		slog.Duration("timeout", cfg.Timeout))

	return newAdapter(cfg, e, opts.MetricsRecorder), nil
}

// NewBackends builds every backend in cfgs, in order.
func NewBackends(ctx context.Context, cfgs []Config, opts Options) ([]Backend, error) {
	if err := ValidateSet(cfgs); err != nil {
		return nil, err
	}
	backends := make([]Backend, 0, len(cfgs))
	for _, cfg := range cfgs {
		b, err := New(ctx, cfg, opts)
		if err != nil {
			return nil, err
		}
		backends = append(backends, b)
	}
	return backends, nil
}
