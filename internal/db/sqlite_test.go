package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-matcher/internal/types"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_SaveAndList(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	for i, score := range []int{40, 75, 90} {
		rec := ScoreRecord{
			ID:              uuid.New(),
			ResumeID:        "resume-1",
			JobTitle:        "Platform Engineer",
			Company:         "Acme",
			Score:           score,
			Strategy:        "local",
			MatchedKeywords: []string{"Go"},
			MissingKeywords: []string{"Rust"},
			CreatedAt:       base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.SaveScore(ctx, rec))
	}

	got, err := store.ListScores(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 90, got[0].Score, "newest first")
	assert.Equal(t, 75, got[1].Score)
	assert.Equal(t, []string{"Go"}, got[0].MatchedKeywords)
	assert.Equal(t, []string{"Rust"}, got[0].MissingKeywords)
	assert.Equal(t, "Acme", got[0].Company)
	assert.True(t, base.Add(2*time.Minute).Equal(got[0].CreatedAt))
}

func TestSQLiteStore_Defaults(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.SaveScore(ctx, ScoreRecord{Score: 10, Strategy: "remote"}))

	got, err := store.ListScores(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEqual(t, uuid.Nil, got[0].ID)
	assert.False(t, got[0].CreatedAt.IsZero())
	assert.Equal(t, []string{}, got[0].MatchedKeywords)
	assert.Equal(t, []string{}, got[0].MissingKeywords)
}

func TestSQLiteStore_Empty(t *testing.T) {
	got, err := openTestSQLite(t).ListScores(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSQLiteStore_DuplicateID(t *testing.T) {
	store := openTestSQLite(t)
	rec := ScoreRecord{ID: uuid.New(), Score: 1, Strategy: "local"}
	require.NoError(t, store.SaveScore(context.Background(), rec))
	assert.Error(t, store.SaveScore(context.Background(), rec))
}

func TestNewScoreRecord(t *testing.T) {
	score := types.ATSScore{Score: 64, MatchedKeywords: []string{"Go"}, MissingKeywords: []string{"Rust"}}
	rec := NewScoreRecord(score, "semantic+local")

	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, 64, rec.Score)
	assert.Equal(t, "semantic+local", rec.Strategy)
	assert.Equal(t, []string{"Go"}, rec.MatchedKeywords)
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "h.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	require.NoError(t, store.Close())

	_, err = Open(ctx, "mysql", "dsn")
	assert.ErrorContains(t, err, "unsupported store driver")
}
