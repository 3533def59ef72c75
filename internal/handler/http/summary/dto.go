// Package summary provides the HTTP handlers for summarization and the
// summary history endpoints.
package summary

import (
	"time"

	"briefly/internal/domain/entity"
)

// SummaryResponse is a summarization result, plus the history identifiers
// when the result was stored.
type SummaryResponse struct {
	OriginalLength int                             `json:"original_length"`
	BackendResults map[string]entity.BackendOutput `json:"backend_results"`
	ExtractedTitle *string                         `json:"extracted_title,omitempty"`
	SummaryID      *string                         `json:"summary_id,omitempty"`
	CreatedAt      *time.Time                      `json:"created_at,omitempty"`
}

func newSummaryResponse(result *entity.SummaryResult, record *entity.SummaryRecord) SummaryResponse {
	resp := SummaryResponse{
		OriginalLength: result.OriginalLength,
		BackendResults: result.BackendResults,
		ExtractedTitle: result.ExtractedTitle,
	}
	if record != nil {
		id, createdAt := record.ID, record.CreatedAt
		resp.SummaryID = &id
		resp.CreatedAt = &createdAt
	}
	return resp
}

// RecordDTO is a stored summary as returned by the history endpoints.
type RecordDTO struct {
	ID              string                          `json:"id"`
	SourceType      entity.SourceType               `json:"source_type"`
	SourceURL       *string                         `json:"source_url,omitempty"`
	OriginalText    string                          `json:"original_text"`
	OriginalLength  int                             `json:"original_length"`
	Title           *string                         `json:"title,omitempty"`
	BackendResults  map[string]entity.BackendOutput `json:"backend_results"`
	SelectedBackend *string                         `json:"selected_backend,omitempty"`
	UserRating      *int                            `json:"user_rating,omitempty"`
	FeedbackText    *string                         `json:"feedback_text,omitempty"`
	CreatedAt       time.Time                       `json:"created_at"`
	UpdatedAt       *time.Time                      `json:"updated_at,omitempty"`
}

func newRecordDTO(r *entity.SummaryRecord) RecordDTO {
	return RecordDTO{
		ID:              r.ID,
		SourceType:      r.SourceType,
		SourceURL:       r.SourceURL,
		OriginalText:    r.OriginalText,
		OriginalLength:  r.OriginalLength,
		Title:           r.Title,
		BackendResults:  r.BackendResults,
		SelectedBackend: r.SelectedBackend,
		UserRating:      r.UserRating,
		FeedbackText:    r.FeedbackText,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

type textRequest struct {
	Text string `json:"text"`
}

type urlRequest struct {
	URL string `json:"url"`
}

type feedbackRequest struct {
	SelectedBackend string  `json:"selected_backend"`
	Rating          *int    `json:"rating"`
	FeedbackText    *string `json:"feedback_text"`
}
