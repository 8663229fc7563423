package service

import (
	"context"
	"fmt"
	"time"
	"zamboni-stats/internal/api"
	"zamboni-stats/internal/config"
	"zamboni-stats/internal/constants"
	"zamboni-stats/internal/domain"
	"zamboni-stats/internal/repository"

	"github.com/rs/zerolog"
)

// Fetcher reads upstream bodies through the response cache.
type Fetcher struct {
	client *api.Client
	cache  *repository.CacheRepository
	ttl    time.Duration
	logger zerolog.Logger
}

func NewFetcher(client *api.Client, cache *repository.CacheRepository, cfg *config.Config, logger zerolog.Logger) *Fetcher {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}
	return &Fetcher{client: client, cache: cache, ttl: ttl, logger: logger}
}

func (f *Fetcher) Client() *api.Client {
	return f.client
}

// CacheKey is the URL, plus the mode for versions that key payloads by mode.
func CacheKey(target string, s domain.Session) string {
	if s.Version.MultiMode() {
		return target + "?mode=" + s.ModeKey()
	}
	return target
}

// Fetch returns the body at target, served from cache while it is fresh unless
// opts.Force is set. Cache failures are logged and never fail the fetch.
func (f *Fetcher) Fetch(ctx context.Context, s domain.Session, target string, opts domain.FetchOptions) ([]byte, error) {
	key := CacheKey(target, s)
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = f.ttl
	}

	if !opts.Force {
		dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
		body, ok, err := f.cache.Get(dbCtx, key, ttl)
		cancel()
		if err != nil {
			f.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		if ok {
			f.logger.Debug().Str("key", key).Msg("cache hit")
			return body, nil
		}
	}

	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	body, err := f.client.Get(apiCtx, target)
	if err != nil {
		f.logger.Error().Err(err).Str("url", target).Msg("failed to fetch upstream")
		return nil, fmt.Errorf("failed to fetch %s: %w", target, err)
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer dbCancel()
	if err := f.cache.Put(dbCtx, key, body); err != nil {
		f.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return body, nil
}

// Reset drops every cached body.
func (f *Fetcher) Reset(ctx context.Context) error {
	return f.cache.Clear(ctx)
}

// PurgeLoop removes stale entries every interval until ctx is done.
func (f *Fetcher) PurgeLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := f.cache.Purge(ctx, constants.PlayersCacheTTL)
			if err != nil {
				f.logger.Warn().Err(err).Msg("cache purge failed")
				continue
			}
			if n > 0 {
				f.logger.Debug().Int64("purged", n).Msg("cache purged")
			}
		}
	}
}
