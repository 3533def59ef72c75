// Package repository declares the persistence ports used by the use cases.
package repository

import (
	"context"
	"time"

	"briefly/internal/domain/entity"
)

// SummaryRepository stores summarization history and user feedback.
// Get returns (nil, nil) when the record does not exist. UpdateFeedback
// returns an error matching entity.ErrNotFound when no record was updated.
type SummaryRepository interface {
	Create(ctx context.Context, record *entity.SummaryRecord) error
	Get(ctx context.Context, id string) (*entity.SummaryRecord, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.SummaryRecord, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	UpdateFeedback(ctx context.Context, feedback entity.Feedback) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
