package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"zamboni-stats/internal/api"
	"zamboni-stats/internal/config"
	"zamboni-stats/internal/constants"
	"zamboni-stats/internal/domain"
	"zamboni-stats/internal/stats"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// GameService serves the recent-games feed, player history and leaderboards.
type GameService struct {
	fetcher        *Fetcher
	defaultVersion domain.APIVersion
	logger         zerolog.Logger
	now            func() time.Time
}

func NewGameService(fetcher *Fetcher, cfg *config.Config, logger zerolog.Logger) *GameService {
	return &GameService{
		fetcher:        fetcher,
		defaultVersion: cfg.DefaultVersion,
		logger:         logger,
		now:            time.Now,
	}
}

// Games returns the most recent derived games, newest first.
func (s *GameService) Games(ctx context.Context, session domain.Session, force bool) ([]domain.DerivedGame, error) {
	session, err := session.Normalize(s.defaultVersion)
	if err != nil {
		return nil, err
	}

	reports, games, err := s.fetchReportsAndGames(ctx, session, force)
	if err != nil {
		return nil, err
	}

	derived := stats.AggregateGames(reports, games)
	feed := stats.RecentGames(derived, constants.GamesFeedLimit)

	s.logger.Info().
		Str("version", string(session.Version)).
		Str("mode", session.Mode).
		Int("reports", len(reports)).
		Int("games", len(derived)).
		Msg("games aggregated")
	return feed, nil
}

// PlayerHistory returns the player's last games from their own perspective.
func (s *GameService) PlayerHistory(ctx context.Context, session domain.Session, gamertag string, force bool) ([]domain.HistoryEntry, error) {
	gamertag = strings.TrimSpace(gamertag)
	if gamertag == "" {
		return nil, fmt.Errorf("%w: gamertag is required", domain.ErrInvalidSession)
	}
	session, err := session.Normalize(s.defaultVersion)
	if err != nil {
		return nil, err
	}

	reports, games, err := s.fetchReportsAndGames(ctx, session, force)
	if err != nil {
		return nil, err
	}

	derived := stats.AggregateGames(reports, games)
	history := stats.BuildPlayerHistory(gamertag, derived, reports)

	s.logger.Info().
		Str("version", string(session.Version)).
		Str("gamertag", gamertag).
		Int("entries", len(history)).
		Msg("player history built")
	return history, nil
}

// Leaderboards ranks players over the window ending now.
func (s *GameService) Leaderboards(ctx context.Context, session domain.Session, rng domain.Range, force bool) (domain.Leaderboards, error) {
	session, err := session.Normalize(s.defaultVersion)
	if err != nil {
		return domain.Leaderboards{}, err
	}

	client := s.fetcher.Client()
	body, err := s.fetcher.Fetch(ctx, session, client.RawReportsURL(session), domain.FetchOptions{Force: force, TTL: constants.LeaderboardTTL})
	if err != nil {
		return domain.Leaderboards{}, err
	}
	reports, err := api.DecodeReports(body, session)
	if err != nil {
		s.logger.Error().Err(err).Str("version", string(session.Version)).Msg("failed to decode reports")
		return domain.Leaderboards{}, fmt.Errorf("failed to decode reports: %w", err)
	}

	lb := stats.ComputeLeaderboards(reports, rng, s.now())
	s.logger.Info().
		Str("version", string(session.Version)).
		Str("range", string(rng)).
		Int("reports", len(reports)).
		Msg("leaderboards computed")
	return lb, nil
}

func (s *GameService) fetchReportsAndGames(ctx context.Context, session domain.Session, force bool) ([]domain.RawReport, []domain.RawGame, error) {
	client := s.fetcher.Client()

	g, gCtx := errgroup.WithContext(ctx)
	var reports []domain.RawReport
	var games []domain.RawGame

	g.Go(func() error {
		body, err := s.fetcher.Fetch(gCtx, session, client.RawReportsURL(session), domain.FetchOptions{Force: force, TTL: constants.ReportsCacheTTL})
		if err != nil {
			return err
		}
		reports, err = api.DecodeReports(body, session)
		if err != nil {
			return fmt.Errorf("failed to decode reports: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		body, err := s.fetcher.Fetch(gCtx, session, client.RawGamesURL(session), domain.FetchOptions{Force: force, TTL: constants.GamesCacheTTL})
		if err != nil {
			return err
		}
		games, err = api.DecodeGames(body, session)
		if err != nil {
			return fmt.Errorf("failed to decode games: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("version", string(session.Version)).Msg("failed to fetch reports and games")
		return nil, nil, fmt.Errorf("failed to fetch reports and games: %w", err)
	}

	s.logger.Debug().
		Str("version", string(session.Version)).
		Int("report_count", len(reports)).
		Int("game_count", len(games)).
		Msg("reports and games fetched")
	return reports, games, nil
}
