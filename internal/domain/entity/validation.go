package entity

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

// maxURLLength defines the maximum allowed length for URLs to prevent DoS attacks.
const maxURLLength = 2048

// Rating bounds for user feedback.
const (
	MinRating = 1
	MaxRating = 5
)

// ValidateURL checks that a submitted URL is well-formed, uses http or https and has a host.
// Network-level checks (private address resolution) are the fetcher's job.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "url", Message: "URL is required"}
	}

	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   "url",
			Message: fmt.Sprintf("url must not exceed %d characters", maxURLLength),
		}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: "url", Message: "URL is invalid"}
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "URL must use http or https scheme"}
	}

	if parsedURL.Host == "" {
		return &ValidationError{Field: "url", Message: "URL must have a valid host"}
	}

	return nil
}

// ValidateRating checks an optional 1..5 rating.
func ValidateRating(rating *int) error {
	if rating == nil {
		return nil
	}
	if *rating < MinRating || *rating > MaxRating {
		return &ValidationError{
			Field:   "rating",
			Message: fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating),
		}
	}
	return nil
}

// ValidateSummaryID checks that id is a UUID.
func ValidateSummaryID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &ValidationError{Field: "id", Message: "summary id is invalid"}
	}
	return nil
}

// Validate checks the record before it is stored.
func (r *SummaryRecord) Validate() error {
	if err := ValidateSummaryID(r.ID); err != nil {
		return err
	}
	if !r.SourceType.Valid() {
		return &ValidationError{Field: "source_type", Message: "source type must be one of text, url, file"}
	}
	if r.OriginalText == "" {
		return &ValidationError{Field: "original_text", Message: "original text is required"}
	}
	if len(r.BackendResults) == 0 {
		return &ValidationError{Field: "backend_results", Message: "backend results are required"}
	}
	return ValidateRating(r.UserRating)
}
