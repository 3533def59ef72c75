package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"briefly/internal/domain/entity"
	"briefly/internal/infra/adapter/persistence/sqlite"
	"briefly/internal/infra/db"
	"briefly/internal/repository"
)

func newSQLiteRepo(t *testing.T) repository.SummaryRepository {
	t.Helper()
	ctx := context.Background()

	conn, dialect, err := db.Open(ctx, "sqlite://"+filepath.Join(t.TempDir(), "briefly.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.MigrateUp(ctx, conn, dialect))

	return sqlite.NewSummaryRepo(conn)
}

func newRecord(userID string, createdAt time.Time) *entity.SummaryRecord {
	return &entity.SummaryRecord{
		ID:             uuid.NewString(),
		UserID:         &userID,
		SourceType:     entity.SourceTypeText,
		OriginalText:   "some original text",
		OriginalLength: 3,
		BackendResults: map[string]entity.BackendOutput{
			"bart":    {BackendName: "bart", SummaryText: "short", ProcessingTimeSeconds: 1.25},
			"pegasus": {BackendName: "pegasus", SummaryText: "shorter", ProcessingTimeSeconds: 0.5},
		},
		CreatedAt: createdAt,
	}
}

func TestSummaryRepo_SQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	rec := newRecord("alice", time.Now().UTC().Truncate(time.Second))
	require.NoError(t, repo.Create(ctx, rec))

	got, err := repo.Get(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "alice", *got.UserID)
	assert.Equal(t, entity.SourceTypeText, got.SourceType)
	assert.Nil(t, got.SourceURL)
	assert.Nil(t, got.UserRating)
	assert.Nil(t, got.UpdatedAt)
	assert.Equal(t, rec.BackendResults, got.BackendResults)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))

	missing, err := repo.Get(ctx, uuid.NewString())
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSummaryRepo_SQLite_Feedback(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	rec := newRecord("alice", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, rec))

	rating := 4
	text := "pegasus was crisper"
	err := repo.UpdateFeedback(ctx, entity.Feedback{
		SummaryID: rec.ID, SelectedBackend: "pegasus", Rating: &rating, Text: &text,
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got.SelectedBackend)
	assert.Equal(t, "pegasus", *got.SelectedBackend)
	assert.Equal(t, 4, *got.UserRating)
	assert.Equal(t, text, *got.FeedbackText)
	assert.NotNil(t, got.UpdatedAt)

	err = repo.UpdateFeedback(ctx, entity.Feedback{SummaryID: uuid.NewString(), SelectedBackend: "bart"})
	assert.True(t, errors.Is(err, entity.ErrNotFound))
}

func TestSummaryRepo_SQLite_RatingConstraint(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	rec := newRecord("alice", time.Now().UTC())
	bad := 9
	rec.UserRating = &bad
	assert.Error(t, repo.Create(ctx, rec))
}

func TestSummaryRepo_SQLite_ListCountPurge(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	now := time.Now().UTC().Truncate(time.Second)
	old := newRecord("alice", now.Add(-48*time.Hour))
	mid := newRecord("alice", now.Add(-1*time.Hour))
	fresh := newRecord("alice", now)
	other := newRecord("bob", now)
	for _, rec := range []*entity.SummaryRecord{old, mid, fresh, other} {
		require.NoError(t, repo.Create(ctx, rec))
	}

	list, err := repo.ListByUser(ctx, "alice", 2, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, fresh.ID, list[0].ID)
	assert.Equal(t, mid.ID, list[1].ID)

	page2, err := repo.ListByUser(ctx, "alice", 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, old.ID, page2[0].ID)

	count, err := repo.CountByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	purged, err := repo.DeleteOlderThan(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	count, err = repo.CountByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
