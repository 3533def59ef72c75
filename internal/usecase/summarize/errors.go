// Package summarize orchestrates text extraction, the content cache and the
// concurrent fan-out to every configured summarization backend.
package summarize

import (
	"errors"
	"fmt"

	"briefly/internal/infra/extractor"
)

// Sentinel errors for summarization use case operations.
var (
	// ErrUnsupportedFileType indicates an upload whose MIME type is not accepted.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrExtractionFailed indicates that the source could not be turned into text:
	// the page could not be fetched or the document could not be opened.
	ErrExtractionFailed = extractor.ErrExtractionFailed

	// ErrEmptyExtraction indicates a document that yielded no text at all.
	ErrEmptyExtraction = errors.New("no text could be extracted")

	// ErrInsufficientContent indicates text below the word threshold for its source.
	ErrInsufficientContent = errors.New("insufficient content to summarize")

	// ErrBackendFailure indicates that a summarization backend failed.
	// No partial result is returned when it occurs.
	ErrBackendFailure = errors.New("summarization backend failed")
)

// BackendError names the backend that failed a summarization.
// It matches both ErrBackendFailure and the underlying cause.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s failed: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() []error {
	return []error{ErrBackendFailure, e.Err}
}

// InsufficientContentError reports the word count that fell below Minimum.
type InsufficientContentError struct {
	Words   int
	Minimum int
}

func (e *InsufficientContentError) Error() string {
	return fmt.Sprintf("insufficient content: %d words, at least %d required", e.Words, e.Minimum)
}

func (e *InsufficientContentError) Unwrap() error {
	return ErrInsufficientContent
}
