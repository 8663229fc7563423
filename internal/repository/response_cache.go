package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// CacheRepository stores raw upstream bodies keyed by request, stamped with
// the time they were fetched. Derived data is never stored here.
type CacheRepository struct {
	db     *sql.DB
	logger zerolog.Logger
	now    func() time.Time
}

func NewCacheRepository(sqlDB *sql.DB, logger zerolog.Logger) *CacheRepository {
	return &CacheRepository{
		db:     sqlDB,
		logger: logger,
		now:    time.Now,
	}
}

// Get returns the body cached under key if it is younger than ttl.
func (r *CacheRepository) Get(ctx context.Context, key string, ttl time.Duration) ([]byte, bool, error) {
	var body []byte
	var fetchedAt int64
	err := r.db.QueryRowContext(ctx,
		`SELECT body, fetched_at FROM response_cache WHERE cache_key = ?`, key,
	).Scan(&body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	age := r.now().Sub(time.UnixMilli(fetchedAt))
	if age >= ttl {
		r.logger.Debug().Str("key", key).Dur("age", age).Msg("cache entry expired")
		return nil, false, nil
	}
	return body, true, nil
}

func (r *CacheRepository) Put(ctx context.Context, key string, body []byte) error {
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to generate nanoid: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO response_cache (id, cache_key, body, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (cache_key) DO UPDATE SET
			body = excluded.body,
			fetched_at = excluded.fetched_at`,
		id, key, body, r.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}
	return nil
}

// Clear drops every entry, used when the caller switches API version or mode.
func (r *CacheRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM response_cache`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Purge removes entries older than maxAge and reports how many went.
func (r *CacheRepository) Purge(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := r.now().Add(-maxAge).UnixMilli()
	res, err := r.db.ExecContext(ctx, `DELETE FROM response_cache WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged rows: %w", err)
	}
	return n, nil
}
