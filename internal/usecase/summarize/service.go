package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"briefly/internal/domain/entity"
	"briefly/internal/infra/cache"
	"briefly/internal/infra/extractor"
	"briefly/internal/infra/summarizer"
	"briefly/internal/observability/metrics"
	"briefly/internal/observability/slo"
	"briefly/internal/observability/tracing"
)

// Word thresholds per source. Raw text is checked by the API layer.
const (
	MinTextWords = 50
	MinURLWords  = 50
	MinFileWords = 20
)

// Accepted upload MIME types.
const (
	MIMEPlainText = "text/plain"
	MIMEPDF       = "application/pdf"
	MIMEDOCX      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var fileKinds = map[string]entity.SourceKind{
	MIMEPlainText: entity.SourceKindText,
	MIMEPDF:       entity.SourceKindPDF,
	MIMEDOCX:      entity.SourceKindDOCX,
}

// Cache stores summary results by content key. Implementations degrade to a
// miss on read failure and to a no-op on write failure.
type Cache interface {
	Get(ctx context.Context, key string) (*entity.SummaryResult, bool)
	Set(ctx context.Context, key string, result *entity.SummaryResult, ttl time.Duration)
	Delete(ctx context.Context, key string) error
}

// Extractor turns a source into normalized text.
type Extractor interface {
	Extract(ctx context.Context, src extractor.Source) (*entity.ExtractedText, error)
}

// Config tunes the service.
type Config struct {
	// CacheTTL is passed to Cache.Set. Zero lets the cache apply its default.
	CacheTTL time.Duration

	// Params is passed to every backend. Zero values keep each backend's defaults.
	Params summarizer.Params

	// SLO receives request outcomes. Nil disables tracking.
	SLO *slo.Tracker
}

// Service summarizes text, web pages and uploaded documents with every
// configured backend. It is safe for concurrent use.
type Service struct {
	backends  []summarizer.Backend
	names     []string
	cache     Cache
	extractor Extractor
	config    Config
}

// NewService creates a Service. At least one backend is required and names
// must be unique. A nil cache disables caching.
func NewService(backends []summarizer.Backend, c Cache, ext Extractor, cfg Config) (*Service, error) {
	if len(backends) == 0 {
		return nil, summarizer.ErrNoBackends
	}
	names := make([]string, 0, len(backends))
	seen := make(map[string]struct{}, len(backends))
	for _, b := range backends {
		if _, dup := seen[b.Name()]; dup {
			return nil, fmt.Errorf("%w: %s", summarizer.ErrDuplicateBackend, b.Name())
		}
		seen[b.Name()] = struct{}{}
		names = append(names, b.Name())
	}
	sort.Strings(names)

	if c == nil {
		c = noCache{}
	}
	return &Service{
		backends:  backends,
		names:     names,
		cache:     c,
		extractor: ext,
		config:    cfg,
	}, nil
}

// Backends returns the configured backend names, sorted.
func (s *Service) Backends() []string {
	return append([]string(nil), s.names...)
}

// SummarizeText summarizes text with every backend, serving repeated texts
// from the cache. Any backend failure fails the whole call.
func (s *Service) SummarizeText(ctx context.Context, text string) (*entity.SummaryResult, error) {
	ctx, span := tracing.StartSpan(ctx, "summarize.text",
		attribute.Int("text.words", entity.CountWords(text)))
	defer span.End()

	start := time.Now()
	result, hit, err := s.summarize(ctx, text)
	s.observe(ctx, span, "text", start, hit, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Summary pairs a result with the normalized text it was produced from.
type Summary struct {
	Result *entity.SummaryResult
	Text   string
}

// SummarizeURL extracts the article at rawURL and summarizes it.
// The returned copy carries the page title and the extracted word count;
// the cached value remains the plain text result.
func (s *Service) SummarizeURL(ctx context.Context, rawURL string) (*entity.SummaryResult, error) {
	out, err := s.ExtractAndSummarizeURL(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return out.Result, nil
}

// ExtractAndSummarizeURL is SummarizeURL that also returns the extracted text.
func (s *Service) ExtractAndSummarizeURL(ctx context.Context, rawURL string) (*Summary, error) {
	ctx, span := tracing.StartSpan(ctx, "summarize.url", attribute.String("url", rawURL))
	defer span.End()

	start := time.Now()
	out, hit, err := s.summarizeURL(ctx, rawURL)
	s.observe(ctx, span, "url", start, hit, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) summarizeURL(ctx context.Context, rawURL string) (*Summary, bool, error) {
	extracted, err := s.extractor.Extract(ctx, extractor.Source{Kind: entity.SourceKindURL, URL: rawURL})
	if err != nil {
		return nil, false, fmt.Errorf("extract url: %w", err)
	}
	if extracted.WordCount < MinURLWords {
		return nil, false, &InsufficientContentError{Words: extracted.WordCount, Minimum: MinURLWords}
	}

	result, hit, err := s.summarize(ctx, extracted.Text)
	if err != nil {
		return nil, false, err
	}

	out := result.Clone()
	out.OriginalLength = extracted.WordCount
	out.ExtractedTitle = extracted.Title
	return &Summary{Result: out, Text: extracted.Text}, hit, nil
}

// SummarizeFile extracts an uploaded document and summarizes it.
// contentType may carry parameters such as "; charset=utf-8", which are ignored.
func (s *Service) SummarizeFile(ctx context.Context, data []byte, contentType string) (*entity.SummaryResult, error) {
	out, err := s.ExtractAndSummarizeFile(ctx, data, contentType)
	if err != nil {
		return nil, err
	}
	return out.Result, nil
}

// ExtractAndSummarizeFile is SummarizeFile that also returns the extracted text.
func (s *Service) ExtractAndSummarizeFile(ctx context.Context, data []byte, contentType string) (*Summary, error) {
	ctx, span := tracing.StartSpan(ctx, "summarize.file",
		attribute.String("file.content_type", contentType),
		attribute.Int("file.size", len(data)))
	defer span.End()

	start := time.Now()
	out, hit, err := s.summarizeFile(ctx, data, contentType)
	s.observe(ctx, span, "file", start, hit, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) summarizeFile(ctx context.Context, data []byte, contentType string) (*Summary, bool, error) {
	kind, err := FileKind(contentType)
	if err != nil {
		return nil, false, err
	}

	extracted, err := s.extractor.Extract(ctx, extractor.Source{Kind: kind, Data: data})
	if err != nil {
		return nil, false, fmt.Errorf("extract %s: %w", kind, err)
	}
	if extracted.IsBlank() {
		return nil, false, ErrEmptyExtraction
	}
	if extracted.WordCount < MinFileWords {
		return nil, false, &InsufficientContentError{Words: extracted.WordCount, Minimum: MinFileWords}
	}

	result, hit, err := s.summarize(ctx, extracted.Text)
	if err != nil {
		return nil, false, err
	}
	return &Summary{Result: result, Text: extracted.Text}, hit, nil
}

// FileKind maps an upload content type to the extractor kind.
func FileKind(contentType string) (entity.SourceKind, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	}
	kind, ok := fileKinds[strings.ToLower(mediaType)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, contentType)
	}
	return kind, nil
}

var extensionTypes = map[string]string{
	".txt":  MIMEPlainText,
	".pdf":  MIMEPDF,
	".docx": MIMEDOCX,
}

// ContentTypeByExtension returns the accepted MIME type implied by the
// extension of filename.
func ContentTypeByExtension(filename string) (string, bool) {
	t, ok := extensionTypes[strings.ToLower(filepath.Ext(filename))]
	return t, ok
}

// Invalidate drops the cached result for text.
func (s *Service) Invalidate(ctx context.Context, text string) error {
	if err := s.cache.Delete(ctx, cache.Key(text)); err != nil {
		return fmt.Errorf("invalidate cached summary: %w", err)
	}
	return nil
}

// summarize is the cache-first core shared by every source.
func (s *Service) summarize(ctx context.Context, text string) (*entity.SummaryResult, bool, error) {
	key := cache.Key(text)

	if cached, ok := s.cache.Get(ctx, key); ok {
		// the key ignores the backend set, so an entry written under another
		// SUMMARY_BACKENDS value is recomputed and overwritten
		if slices.Equal(cached.BackendNames(), s.names) {
			return cached, true, nil
		}
		slog.DebugContext(ctx, "cached summary has a different backend set, recomputing",
			slog.Any("cached", cached.BackendNames()),
			slog.Any("configured", s.names))
	}

	outputs := make([]entity.BackendOutput, len(s.backends))
	g, gctx := errgroup.WithContext(ctx)
	for i, b := range s.backends {
		g.Go(func() error {
			out, err := b.Summarize(gctx, text, s.config.Params)
			if err != nil {
				return &BackendError{Backend: b.Name(), Err: err}
			}
			out.BackendName = b.Name()
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	result := &entity.SummaryResult{
		OriginalLength: entity.CountWords(text),
		BackendResults: make(map[string]entity.BackendOutput, len(outputs)),
	}
	for _, out := range outputs {
		result.BackendResults[out.BackendName] = out
	}

	s.cache.Set(ctx, key, result, s.config.CacheTTL)
	return result, false, nil
}

func (s *Service) observe(ctx context.Context, span trace.Span, source string, start time.Time, hit bool, err error) {
	duration := time.Since(start)

	outcome := metrics.OutcomeSuccess
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
	case hit:
		outcome = metrics.OutcomeCacheHit
	}
	metrics.RecordSummarize(source, outcome, duration)
	span.SetAttributes(attribute.String("summarize.outcome", outcome))
	s.trackSLO(duration, err)

	if err != nil {
		tracing.RecordError(span, err)
		level := slog.LevelWarn
		var be *BackendError
		if errors.As(err, &be) {
			level = slog.LevelError
		}
		slog.Log(ctx, level, "summarization failed",
			slog.String("source", source),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return
	}

	slog.InfoContext(ctx, "summarization completed",
		slog.String("source", source),
		slog.Bool("cache_hit", hit),
		slog.Duration("duration", duration))
}

// trackSLO counts successes and the failures the service is accountable
// for: backend errors and timeouts. Rejected input and cancelled requests
// are left out.
func (s *Service) trackSLO(d time.Duration, err error) {
	if s.config.SLO == nil {
		return
	}
	switch {
	case err == nil:
		s.config.SLO.Observe(d, false)
	case errors.Is(err, ErrBackendFailure), errors.Is(err, context.DeadlineExceeded):
		s.config.SLO.Observe(d, true)
	}
}

type noCache struct{}

func (noCache) Get(context.Context, string) (*entity.SummaryResult, bool)         { return nil, false }
func (noCache) Set(context.Context, string, *entity.SummaryResult, time.Duration) {}
func (noCache) Delete(context.Context, string) error                              { return nil }
