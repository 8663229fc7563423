package main

import (
	"context"
	"os"
	"strings"
	"zamboni-stats/internal/domain"
	"zamboni-stats/internal/render"

	"github.com/spf13/cobra"
)

var flagRange string

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "Show the most recent games",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return watch(cmd.Context(), func(ctx context.Context, force bool) error {
			games, err := current.games.Games(ctx, session(), force)
			if err != nil {
				return err
			}
			render.Games(os.Stdout, games)
			return nil
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <gamertag>",
	Short: "Show a player's last games",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gamertag := strings.Join(args, " ")
		return watch(cmd.Context(), func(ctx context.Context, force bool) error {
			entries, err := current.games.PlayerHistory(ctx, session(), gamertag, force)
			if err != nil {
				return err
			}
			render.History(os.Stdout, gamertag, entries)
			return nil
		})
	},
}

var leaderboardCmd = &cobra.Command{
	Use:     "leaderboard",
	Aliases: []string{"leaderboards", "lb"},
	Short:   "Rank players by goals, win rate and more",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rng := domain.ParseRange(flagRange)
		return watch(cmd.Context(), func(ctx context.Context, force bool) error {
			lb, err := current.games.Leaderboards(ctx, session(), rng, force)
			if err != nil {
				return err
			}
			render.Leaderboards(os.Stdout, lb)
			return nil
		})
	},
}

var playersCmd = &cobra.Command{
	Use:   "players [query]",
	Short: "List known gamertags, optionally filtered",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var query string
		if len(args) == 1 {
			query = args[0]
		}
		players, err := current.players.Players(cmd.Context(), session(), query, flagForce)
		if err != nil {
			return err
		}
		render.Players(os.Stdout, players)
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile <gamertag>",
	Short: "Show a player's profile totals",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := current.players.Profile(cmd.Context(), session(), strings.Join(args, " "), flagForce)
		if err != nil {
			return err
		}
		render.Profile(os.Stdout, profile)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the version's server is online",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := session().Normalize(current.cfg.DefaultVersion)
		if err != nil {
			return err
		}
		return watch(cmd.Context(), func(ctx context.Context, force bool) error {
			status, err := current.players.Status(ctx, s, force)
			if err != nil {
				current.logger.Debug().Err(err).Msg("status unreachable")
			}
			render.Status(os.Stdout, s.Version, status)
			return nil
		})
	},
}

func init() {
	leaderboardCmd.Flags().StringVar(&flagRange, "range", string(domain.RangeAllTime), "window: day, weekly, monthly or all time")

	for _, c := range []*cobra.Command{gamesCmd, historyCmd, leaderboardCmd, statusCmd} {
		c.Flags().DurationVar(&flagWatch, "watch", 0, "refresh at this interval until interrupted (e.g. 10s)")
	}
}
