// Package extractor turns raw input (plain text, a web page, a PDF or a DOCX
// document) into normalized plain text with metadata.
//
// Web pages are fetched once. A structured article extractor (go-readability
// or go-trafilatura) is tried first; if it cannot find an article the page is
// flattened by a generic goquery pass instead. Only fetch failures are errors.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"briefly/internal/domain/entity"
	"briefly/internal/observability/metrics"
	"briefly/internal/resilience/circuitbreaker"
)

// Source is one input to extract. URL is used for SourceKindURL, Data otherwise.
type Source struct {
	Kind entity.SourceKind
	Data []byte
	URL  string
}

// Extractor is safe for concurrent use.
type Extractor struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         Config
	structured     structuredFunc
}

// NewExtractor creates an Extractor with its own HTTP client and URL-fetch circuit breaker.
func NewExtractor(cfg Config) *Extractor {
	return &Extractor{
		client:         newHTTPClient(cfg),
		circuitBreaker: circuitbreaker.New(circuitbreaker.URLFetchConfig()),
		config:         cfg,
		structured:     structuredStrategy(cfg.Strategy),
	}
}

// Extract dispatches on src.Kind.
func (e *Extractor) Extract(ctx context.Context, src Source) (*entity.ExtractedText, error) {
	switch src.Kind {
	case entity.SourceKindText:
		return e.FromText(src.Data), nil
	case entity.SourceKindURL:
		return e.FromURL(ctx, src.URL)
	case entity.SourceKindPDF:
		return e.FromPDF(src.Data)
	case entity.SourceKindDOCX:
		return e.FromDOCX(src.Data)
	default:
		return nil, fail(fmt.Errorf("unknown source kind %q", src.Kind))
	}
}

// FromText decodes raw bytes as UTF-8. It never fails.
func (e *Extractor) FromText(data []byte) *entity.ExtractedText {
	start := time.Now()
	out := fromPlainText(data)
	metrics.RecordExtraction(string(entity.SourceKindText), time.Since(start), nil)
	return out
}

// FromURL fetches a web page and extracts its main text and title.
// Errors always match ErrExtractionFailed.
func (e *Extractor) FromURL(ctx context.Context, urlStr string) (*entity.ExtractedText, error) {
	start := time.Now()
	out, outcome, err := e.extractURL(ctx, urlStr)
	metrics.RecordExtraction(string(entity.SourceKindURL), time.Since(start), err)

	if err != nil {
		slog.WarnContext(ctx, "url extraction failed",
			slog.String("url", urlStr),
			slog.String("outcome", string(outcome)),
			slog.Any("error", err))
		return nil, err
	}

	slog.DebugContext(ctx, "url extracted",
		slog.String("url", urlStr),
		slog.String("outcome", string(outcome)),
		slog.Int("words", out.WordCount),
		slog.Duration("duration", time.Since(start)))
	return out, nil
}

func (e *Extractor) extractURL(ctx context.Context, urlStr string) (*entity.ExtractedText, Outcome, error) {
	p, err := e.fetch(ctx, urlStr)
	if err != nil {
		return nil, OutcomeFetchFailed, fail(err)
	}

	a, outcome, structuredErr := parsePage(p, e.structured)
	if outcome == OutcomeStructuredFailed {
		metrics.RecordExtractionFallback(e.config.Strategy)
		slog.WarnContext(ctx, "structured extraction failed, using generic text",
			slog.String("url", urlStr),
			slog.String("strategy", e.config.Strategy),
			slog.Any("error", structuredErr))
	}

	var title *string
	if a.title != "" {
		title = &a.title
	}
	return entity.NewExtractedText(a.text, title), outcome, nil
}

// FromPDF extracts the text of every page. Errors always match ErrExtractionFailed.
func (e *Extractor) FromPDF(data []byte) (*entity.ExtractedText, error) {
	return e.document(entity.SourceKindPDF, data, fromPDF)
}

// FromDOCX extracts paragraph text. Errors always match ErrExtractionFailed.
func (e *Extractor) FromDOCX(data []byte) (*entity.ExtractedText, error) {
	return e.document(entity.SourceKindDOCX, data, fromDOCX)
}

func (e *Extractor) document(kind entity.SourceKind, data []byte, parse func([]byte) (*entity.ExtractedText, error)) (*entity.ExtractedText, error) {
	start := time.Now()

	var (
		out *entity.ExtractedText
		err error
	)
	if int64(len(data)) > e.config.MaxDocumentSize {
		err = fmt.Errorf("%w: document exceeds %d bytes", ErrBodyTooLarge, e.config.MaxDocumentSize)
	} else {
		out, err = parse(data)
	}
	metrics.RecordExtraction(string(kind), time.Since(start), err)

	if err != nil {
		if !errors.Is(err, ErrExtractionFailed) {
			err = fail(err)
		}
		return nil, err
	}
	return out, nil
}
