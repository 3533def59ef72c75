// Package history stores completed summarizations and the feedback users
// leave on them, and purges records past the retention period.
package history

import "errors"

// Sentinel errors for history operations.
var (
	// ErrSummaryNotFound indicates that no summary with the given ID is visible to the caller.
	ErrSummaryNotFound = errors.New("summary not found")

	// ErrInvalidSummaryID indicates that the summary ID is not a UUID.
	ErrInvalidSummaryID = errors.New("invalid summary ID")

	// ErrInvalidRating indicates a rating outside 1..5.
	ErrInvalidRating = errors.New("invalid rating")

	// ErrUnknownBackend indicates that the selected backend did not produce the summary.
	ErrUnknownBackend = errors.New("unknown backend")
)
