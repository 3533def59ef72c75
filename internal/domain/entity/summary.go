// Package entity defines the core domain entities and validation logic for the application.
// It contains the summarization value objects (SummaryResult, BackendOutput, ExtractedText),
// the persisted SummaryRecord with its feedback, and domain-specific errors.
package entity

import (
	"math"
	"sort"
	"strings"
	"time"
)

// SourceKind identifies how raw input is turned into text.
type SourceKind string

const (
	SourceKindText SourceKind = "text"
	SourceKindURL  SourceKind = "url"
	SourceKindPDF  SourceKind = "pdf"
	SourceKindDOCX SourceKind = "docx"
)

// SourceType is the coarse origin of a stored summary.
// The values match the summaries.source_type check constraint.
type SourceType string

const (
	SourceTypeText SourceType = "text"
	SourceTypeURL  SourceType = "url"
	SourceTypeFile SourceType = "file"
)

// Valid reports whether t is one of the known source types.
func (t SourceType) Valid() bool {
	switch t {
	case SourceTypeText, SourceTypeURL, SourceTypeFile:
		return true
	}
	return false
}

// BackendOutput is the result of a single summarization backend call.
// ProcessingTimeSeconds only describes the call that produced the value;
// it carries no freshness meaning when the output is served from cache.
type BackendOutput struct {
	BackendName           string  `json:"backend_name"`
	SummaryText           string  `json:"summary_text"`
	ProcessingTimeSeconds float64 `json:"processing_time_seconds"`
}

// SummaryResult is the immutable outcome of summarizing one normalized text.
// BackendResults holds exactly one entry per configured backend.
type SummaryResult struct {
	OriginalLength int                      `json:"original_length"`
	BackendResults map[string]BackendOutput `json:"backend_results"`
	ExtractedTitle *string                  `json:"extracted_title,omitempty"`
}

// Clone returns a deep copy so callers can overlay fields without touching
// a value shared with the cache.
func (r *SummaryResult) Clone() *SummaryResult {
	if r == nil {
		return nil
	}
	out := &SummaryResult{
		OriginalLength: r.OriginalLength,
		BackendResults: make(map[string]BackendOutput, len(r.BackendResults)),
	}
	for name, res := range r.BackendResults {
		out.BackendResults[name] = res
	}
	if r.ExtractedTitle != nil {
		title := *r.ExtractedTitle
		out.ExtractedTitle = &title
	}
	return out
}

// BackendNames returns the backend names present in the result, sorted.
func (r *SummaryResult) BackendNames() []string {
	names := make([]string, 0, len(r.BackendResults))
	for name := range r.BackendResults {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExtractedText is the normalized text produced from a source, with metadata.
// It lives for one request and is never persisted by the summarization core.
type ExtractedText struct {
	Text      string
	Title     *string
	WordCount int
	PageCount int
}

// NewExtractedText builds an ExtractedText, computing the word count from text.
func NewExtractedText(text string, title *string) *ExtractedText {
	return &ExtractedText{
		Text:      text,
		Title:     title,
		WordCount: CountWords(text),
	}
}

// IsBlank reports whether the extracted text has no non-whitespace content.
func (e *ExtractedText) IsBlank() bool {
	return strings.TrimSpace(e.Text) == ""
}

// CountWords counts whitespace-delimited tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// RoundSeconds converts a duration to seconds rounded to two decimals.
func RoundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}

// SummaryRecord is a persisted summarization, including user feedback.
type SummaryRecord struct {
	ID              string
	UserID          *string
	SourceType      SourceType
	SourceURL       *string
	OriginalText    string
	OriginalLength  int
	Title           *string
	BackendResults  map[string]BackendOutput
	SelectedBackend *string
	UserRating      *int
	FeedbackText    *string
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// Feedback is a user's verdict on a stored summary.
type Feedback struct {
	SummaryID       string
	SelectedBackend string
	Rating          *int
	Text            *string
}
