package repository

import (
	"context"
	"database/sql"
	"testing"
	"tennis-dashboard/internal/config"
	"tennis-dashboard/internal/database"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(&config.Config{
		DBPath: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestRepo(t *testing.T) (*CacheRepository, *time.Time) {
	t.Helper()
	repo := NewCacheRepository(newTestDB(t), zerolog.Nop())
	now := time.Date(2025, 9, 7, 20, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	return repo, &now
}

func TestCacheMiss(t *testing.T) {
	repo, _ := newTestRepo(t)

	body, ok, err := repo.Get(context.Background(), "rankings", time.Minute)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, body)
}

func TestCachePutThenGet(t *testing.T) {
	repo, now := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "rankings", []byte(`[{"rank":1}]`)))
	*now = now.Add(30 * time.Second)

	body, ok, err := repo.Get(ctx, "rankings", time.Minute)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"rank":1}]`, string(body))
}

func TestCacheExpires(t *testing.T) {
	repo, now := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "live", []byte(`[]`)))
	*now = now.Add(2 * time.Minute)

	_, ok, err := repo.Get(ctx, "live", time.Minute)

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCachePutOverwrites(t *testing.T) {
	repo, now := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "player:1", []byte(`{"v":1}`)))
	*now = now.Add(2 * time.Minute)
	require.NoError(t, repo.Put(ctx, "player:1", []byte(`{"v":2}`)))

	body, ok, err := repo.Get(ctx, "player:1", time.Minute)

	require.NoError(t, err)
	assert.True(t, ok, "overwrite refreshes fetched_at")
	assert.JSONEq(t, `{"v":2}`, string(body))
}

func TestCachePurge(t *testing.T) {
	repo, now := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "old", []byte(`1`)))
	*now = now.Add(20 * time.Minute)
	require.NoError(t, repo.Put(ctx, "fresh", []byte(`2`)))

	n, err := repo.Purge(ctx, 10*time.Minute)

	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, ok, err := repo.Get(ctx, "old", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = repo.Get(ctx, "fresh", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCacheClosedDB(t *testing.T) {
	db := newTestDB(t)
	repo := NewCacheRepository(db, zerolog.Nop())
	require.NoError(t, db.Close())

	_, _, err := repo.Get(context.Background(), "k", time.Minute)
	assert.Error(t, err)
	assert.Error(t, repo.Put(context.Background(), "k", []byte(`1`)))
}
