package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"briefly/internal/common/pagination"
	"briefly/internal/domain/entity"
	"briefly/internal/observability/metrics"
	"briefly/internal/repository"
)

// RecordInput describes one completed summarization.
type RecordInput struct {
	UserID     *string
	SourceType entity.SourceType
	SourceURL  *string
	Text       string
	Result     *entity.SummaryResult
}

// ListResult is one page of a user's history.
type ListResult struct {
	Data       []*entity.SummaryRecord
	Pagination pagination.Metadata
}

// Service records summaries and manages their feedback.
type Service struct {
	repo repository.SummaryRepository
	now  func() time.Time
}

// NewService creates a history service backed by repo.
func NewService(repo repository.SummaryRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Record persists a summarization and returns the stored record.
func (s *Service) Record(ctx context.Context, in RecordInput) (*entity.SummaryRecord, error) {
	if in.Result == nil {
		return nil, fmt.Errorf("record summary: %w", entity.ErrInvalidInput)
	}
	record := &entity.SummaryRecord{
		ID:             uuid.NewString(),
		UserID:         in.UserID,
		SourceType:     in.SourceType,
		SourceURL:      in.SourceURL,
		OriginalText:   in.Text,
		OriginalLength: in.Result.OriginalLength,
		Title:          in.Result.ExtractedTitle,
		BackendResults: in.Result.BackendResults,
		CreatedAt:      s.now().UTC(),
	}
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("record summary: %w", err)
	}

	start := time.Now()
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("record summary: %w", err)
	}
	metrics.RecordDBQuery("summary_create", time.Since(start))
	metrics.RecordSummaryStored(string(in.SourceType))

	slog.DebugContext(ctx, "summary recorded",
		slog.String("summary_id", record.ID),
		slog.String("source_type", string(record.SourceType)))
	return record, nil
}

// Get returns a summary owned by userID.
// Records of other users are reported as not found.
func (s *Service) Get(ctx context.Context, userID, id string) (*entity.SummaryRecord, error) {
	if err := entity.ValidateSummaryID(id); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSummaryID, err)
	}
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get summary: %w", err)
	}
	if record == nil || record.UserID == nil || *record.UserID != userID {
		return nil, ErrSummaryNotFound
	}
	return record, nil
}

// List returns one page of userID's summaries, newest first.
func (s *Service) List(ctx context.Context, userID string, params pagination.Params) (*ListResult, error) {
	start := time.Now()
	total, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count summaries: %w", err)
	}

	records, err := s.repo.ListByUser(ctx, userID, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	metrics.RecordDBQuery("summary_list", time.Since(start))

	return &ListResult{
		Data:       records,
		Pagination: pagination.NewMetadata(params, len(records), total),
	}, nil
}

// SubmitFeedback stores userID's verdict on one of their summaries.
// The selected backend must be one that produced the summary.
func (s *Service) SubmitFeedback(ctx context.Context, userID string, fb entity.Feedback) error {
	if err := entity.ValidateRating(fb.Rating); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRating, err)
	}
	record, err := s.Get(ctx, userID, fb.SummaryID)
	if err != nil {
		return err
	}
	if _, ok := record.BackendResults[fb.SelectedBackend]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBackend, fb.SelectedBackend)
	}

	if err := s.repo.UpdateFeedback(ctx, fb); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrSummaryNotFound
		}
		return fmt.Errorf("submit feedback: %w", err)
	}

	slog.InfoContext(ctx, "feedback recorded",
		slog.String("summary_id", fb.SummaryID),
		slog.String("selected_backend", fb.SelectedBackend))
	return nil
}

// Purge deletes summaries created more than olderThan ago.
func (s *Service) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("purge: retention must be positive: %w", entity.ErrInvalidInput)
	}
	cutoff := s.now().UTC().Add(-olderThan)

	n, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge: %w", err)
	}
	metrics.RecordSummariesPurged(n)

	slog.InfoContext(ctx, "summaries purged",
		slog.Int64("deleted", n),
		slog.Time("cutoff", cutoff))
	return n, nil
}
