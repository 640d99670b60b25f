package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// CacheRepository stores raw upstream responses keyed by request so the
// external tennis API is hit at most once per TTL.
type CacheRepository struct {
	db     *sql.DB
	logger zerolog.Logger
	now    func() time.Time
}

func NewCacheRepository(sqlDB *sql.DB, logger zerolog.Logger) *CacheRepository {
	return &CacheRepository{
		db:     sqlDB,
		logger: logger.With().Str("component", "cache_repository").Logger(),
		now:    time.Now,
	}
}

// Get returns the cached body for key if it is younger than ttl.
func (r *CacheRepository) Get(ctx context.Context, key string, ttl time.Duration) ([]byte, bool, error) {
	var body []byte
	var fetchedAt int64
	err := r.db.QueryRowContext(ctx,
		`SELECT body, fetched_at FROM api_cache WHERE cache_key = ?`, key,
	).Scan(&body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Debug().Str("key", key).Msg("cache miss")
		return nil, false, nil
	}
	if err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("failed to read cache entry")
		return nil, false, fmt.Errorf("failed to read cache entry %s: %w", key, err)
	}

	age := r.now().Sub(time.UnixMilli(fetchedAt))
	if age > ttl {
		r.logger.Debug().Str("key", key).Dur("age", age).Msg("cache entry expired")
		return nil, false, nil
	}

	r.logger.Debug().Str("key", key).Dur("age", age).Msg("cache hit")
	return body, true, nil
}

func (r *CacheRepository) Put(ctx context.Context, key string, body []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO api_cache (cache_key, body, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT (cache_key) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		key, body, r.now().UnixMilli(),
	)
	if err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("failed to write cache entry")
		return fmt.Errorf("failed to write cache entry %s: %w", key, err)
	}
	return nil
}

// Purge deletes entries older than olderThan and reports how many went.
func (r *CacheRepository) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := r.now().Add(-olderThan).UnixMilli()
	res, err := r.db.ExecContext(ctx, `DELETE FROM api_cache WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged rows: %w", err)
	}
	if n > 0 {
		r.logger.Info().Int64("purged", n).Msg("cache purged")
	}
	return n, nil
}
