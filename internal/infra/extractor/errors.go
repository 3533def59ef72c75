package extractor

import (
	"errors"
	"fmt"
)

// ErrExtractionFailed is returned when a source cannot be turned into text:
// a network-level URL failure, an unreadable PDF or a corrupt DOCX.
// Every other error in this package wraps it.
var ErrExtractionFailed = errors.New("text extraction failed")

var (
	// ErrInvalidURL indicates the URL is malformed or uses a scheme other than http/https.
	ErrInvalidURL = errors.New("invalid URL or unsupported scheme")

	// ErrPrivateIP indicates the URL resolves to a loopback, private or link-local address.
	ErrPrivateIP = errors.New("private IP access denied")

	// ErrTooManyRedirects indicates the redirect chain exceeded the configured limit.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response or document exceeded the configured size.
	ErrBodyTooLarge = errors.New("content too large")

	// ErrTimeout indicates the fetch did not complete within the configured timeout.
	ErrTimeout = errors.New("request timeout")

	// ErrUnexpectedStatus indicates the server answered with a non-200 status.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrCircuitOpen indicates URL fetching is temporarily disabled after repeated failures.
	ErrCircuitOpen = errors.New("url fetching temporarily unavailable")
)

// fail marks err as an extraction failure while keeping the specific cause matchable.
func fail(err error) error {
	return fmt.Errorf("%w: %w", ErrExtractionFailed, err)
}
