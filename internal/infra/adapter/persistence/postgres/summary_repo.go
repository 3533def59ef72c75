package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"briefly/internal/domain/entity"
	"briefly/internal/repository"
)

const summaryColumns = `id, user_id, source_type, source_url, original_text, original_length,
       title, backend_results, selected_backend, user_rating, feedback_text,
       created_at, updated_at`

type SummaryRepo struct{ db *sql.DB }

func NewSummaryRepo(db *sql.DB) repository.SummaryRepository {
	return &SummaryRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSummary(s rowScanner) (*entity.SummaryRecord, error) {
	var (
		record  entity.SummaryRecord
		results []byte
	)
	if err := s.Scan(
		&record.ID, &record.UserID, &record.SourceType, &record.SourceURL,
		&record.OriginalText, &record.OriginalLength, &record.Title, &results,
		&record.SelectedBackend, &record.UserRating, &record.FeedbackText,
		&record.CreatedAt, &record.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(results, &record.BackendResults); err != nil {
		return nil, fmt.Errorf("unmarshal backend_results: %w", err)
	}
	return &record, nil
}

func (repo *SummaryRepo) Create(ctx context.Context, record *entity.SummaryRecord) error {
	results, err := json.Marshal(record.BackendResults)
	if err != nil {
		return fmt.Errorf("Create: marshal backend_results: %w", err)
	}

	const query = `
INSERT INTO summaries (id, user_id, source_type, source_url, original_text, original_length,
                       title, backend_results, selected_backend, user_rating, feedback_text, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = repo.db.ExecContext(ctx, query,
		record.ID, record.UserID, record.SourceType, record.SourceURL,
		record.OriginalText, record.OriginalLength, record.Title, results,
		record.SelectedBackend, record.UserRating, record.FeedbackText, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *SummaryRepo) Get(ctx context.Context, id string) (*entity.SummaryRecord, error) {
	const query = `
SELECT ` + summaryColumns + `
FROM summaries
WHERE id = $1
LIMIT 1`
	record, err := scanSummary(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return record, nil
}

func (repo *SummaryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.SummaryRecord, error) {
	const query = `
SELECT ` + summaryColumns + `
FROM summaries
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`
	rows, err := repo.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ListByUser: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]*entity.SummaryRecord, 0, limit)
	for rows.Next() {
		record, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByUser: Scan: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByUser: rows.Err: %w", err)
	}
	return records, nil
}

func (repo *SummaryRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	const query = `SELECT COUNT(*) FROM summaries WHERE user_id = $1`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountByUser: %w", err)
	}
	return count, nil
}

func (repo *SummaryRepo) UpdateFeedback(ctx context.Context, feedback entity.Feedback) error {
	const query = `
UPDATE summaries SET
       selected_backend = $1,
       user_rating      = $2,
       feedback_text    = $3,
       updated_at       = NOW()
WHERE id = $4`
	res, err := repo.db.ExecContext(ctx, query,
		feedback.SelectedBackend, feedback.Rating, feedback.Text, feedback.SummaryID,
	)
	if err != nil {
		return fmt.Errorf("UpdateFeedback: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("UpdateFeedback: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *SummaryRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM summaries WHERE created_at < $1`
	res, err := repo.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("DeleteOlderThan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteOlderThan: RowsAffected: %w", err)
	}
	return n, nil
}
