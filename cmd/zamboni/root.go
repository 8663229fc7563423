package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"time"
	"zamboni-stats/internal/api"
	"zamboni-stats/internal/config"
	"zamboni-stats/internal/database"
	"zamboni-stats/internal/domain"
	"zamboni-stats/internal/logger"
	"zamboni-stats/internal/repository"
	"zamboni-stats/internal/service"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagVersion  string
	flagMode     string
	flagForce    bool
	flagWatch    time.Duration
	flagLogLevel string
)

// app holds the services a command runs against.
type app struct {
	cfg     *config.Config
	db      *sql.DB
	games   *service.GameService
	players *service.PlayerService
	logger  zerolog.Logger
}

var current *app

var rootCmd = &cobra.Command{
	Use:           "zamboni",
	Short:         "Zamboni game-server stats",
	Long:          "Query recent games, player history, leaderboards, profiles and server status from the Zamboni report APIs.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if current != nil {
			current.db.Close()
		}
	},
}

// Execute runs the root command. Interrupting stops any --watch loop.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagVersion, "version", "", "API version: nhl10, nhl11, nhl14 or nhllegacy (default DEFAULT_VERSION)")
	rootCmd.PersistentFlags().StringVar(&flagMode, "mode", domain.ModeVS, "game mode for multi-mode versions: VS, SO or OTP")
	rootCmd.PersistentFlags().BoolVar(&flagForce, "force", false, "bypass the response cache")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "log level written to stderr")

	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(statusCmd)
}

func newApp() (*app, error) {
	log := logger.Console(os.Stderr, logger.ParseLevel(flagLogLevel))

	cfg, err := config.Load(log)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	db, err := database.Open(cfg.DBPath, log)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	fetcher := service.NewFetcher(api.NewClient(cfg, log), repository.NewCacheRepository(db, log), cfg, log)
	return &app{
		cfg:     cfg,
		db:      db,
		games:   service.NewGameService(fetcher, cfg, log),
		players: service.NewPlayerService(fetcher, cfg, log),
		logger:  log,
	}, nil
}

func session() domain.Session {
	return domain.Session{Version: domain.APIVersion(flagVersion), Mode: flagMode}
}

// watch runs fn once, then again every flagWatch until interrupted.
// Refreshes after the first run respect the cache TTL.
func watch(ctx context.Context, fn func(ctx context.Context, force bool) error) error {
	if err := fn(ctx, flagForce); err != nil {
		return err
	}
	if flagWatch <= 0 {
		return nil
	}

	ticker := time.NewTicker(flagWatch)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			fmt.Fprintf(os.Stdout, "\n--- %s ---\n", time.Now().Format("15:04:05"))
			if err := fn(ctx, false); err != nil {
				current.logger.Warn().Err(err).Msg("refresh failed")
			}
		}
	}
}
