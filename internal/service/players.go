package service

import (
	"context"
	"fmt"
	"strings"
	"zamboni-stats/internal/api"
	"zamboni-stats/internal/config"
	"zamboni-stats/internal/constants"
	"zamboni-stats/internal/domain"
	"zamboni-stats/internal/stats"

	"github.com/rs/zerolog"
)

// PlayerService serves the player directory, profiles and server status.
type PlayerService struct {
	fetcher        *Fetcher
	defaultVersion domain.APIVersion
	logger         zerolog.Logger
}

func NewPlayerService(fetcher *Fetcher, cfg *config.Config, logger zerolog.Logger) *PlayerService {
	return &PlayerService{fetcher: fetcher, defaultVersion: cfg.DefaultVersion, logger: logger}
}

func (s *PlayerService) Players(ctx context.Context, session domain.Session, query string, force bool) ([]string, error) {
	session, err := session.Normalize(s.defaultVersion)
	if err != nil {
		return nil, err
	}

	target := s.fetcher.Client().PlayersURL(session)
	body, err := s.fetcher.Fetch(ctx, session, target, domain.FetchOptions{Force: force, TTL: constants.PlayersCacheTTL})
	if err != nil {
		return nil, err
	}
	names, err := api.DecodePlayers(body)
	if err != nil {
		s.logger.Error().Err(err).Str("version", string(session.Version)).Msg("failed to decode players")
		return nil, fmt.Errorf("failed to decode players: %w", err)
	}

	players := stats.FilterPlayers(names, query)
	s.logger.Debug().Str("query", query).Int("total", len(names)).Int("matched", len(players)).Msg("players listed")
	return players, nil
}

func (s *PlayerService) Profile(ctx context.Context, session domain.Session, gamertag string, force bool) (*domain.Profile, error) {
	gamertag = strings.TrimSpace(gamertag)
	if gamertag == "" {
		return nil, fmt.Errorf("%w: gamertag is required", domain.ErrInvalidSession)
	}
	session, err := session.Normalize(s.defaultVersion)
	if err != nil {
		return nil, err
	}

	target := s.fetcher.Client().ProfileURL(session, gamertag)
	body, err := s.fetcher.Fetch(ctx, session, target, domain.FetchOptions{Force: force, TTL: constants.ProfileCacheTTL})
	if err != nil {
		return nil, err
	}
	profile, err := api.DecodeProfile(body)
	if err != nil {
		s.logger.Error().Err(err).Str("gamertag", gamertag).Msg("failed to decode profile")
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	if profile.PlayerName == "" {
		profile.PlayerName = gamertag
	}

	s.logger.Info().Str("gamertag", gamertag).Int("total_games", profile.TotalGames).Msg("profile fetched")
	return profile, nil
}

// Status reads the version's server status. A failure here means the server
// is unreachable and is returned as-is for the caller to report.
func (s *PlayerService) Status(ctx context.Context, session domain.Session, force bool) (*domain.ServerStatus, error) {
	session, err := session.Normalize(s.defaultVersion)
	if err != nil {
		return nil, err
	}

	target := s.fetcher.Client().StatusURL(session)
	body, err := s.fetcher.Fetch(ctx, session, target, domain.FetchOptions{Force: force, TTL: constants.StatusCacheTTL})
	if err != nil {
		return nil, err
	}
	status, err := api.DecodeStatus(body)
	if err != nil {
		s.logger.Error().Err(err).Str("version", string(session.Version)).Msg("failed to decode status")
		return nil, fmt.Errorf("failed to decode status: %w", err)
	}
	return status, nil
}
