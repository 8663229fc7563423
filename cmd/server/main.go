package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"zamboni-stats/internal/config"
	"zamboni-stats/internal/constants"
	fxmodules "zamboni-stats/internal/fx"
	"zamboni-stats/internal/middleware"
	"zamboni-stats/internal/server"
	"zamboni-stats/internal/service"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runServer),
	).Run()
}

func runServer(
	lc fx.Lifecycle,
	statsServer *server.StatsServer,
	proxy *server.Proxy,
	fetcher *service.Fetcher,
	cfg *config.Config,
	db *sql.DB,
	logger zerolog.Logger,
) {
	mux := http.NewServeMux()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	wrap := func(h http.Handler) http.Handler {
		return middleware.RequestID(logger)(middleware.Recover(c.Handler(h)))
	}

	path, handler := statsServer.Handler()
	mux.Handle(path, wrap(handler))

	if cfg.ProxyEnabled {
		proxy.Mount(mux, wrap)
		logger.Info().Strs("paths", server.ProxyPaths).Str("upstream", cfg.UpstreamBase).Msg("relay enabled")
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: mux,
	}

	purgeCtx, stopPurge := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go fetcher.PurgeLoop(purgeCtx, constants.CachePurgeEvery)
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			stopPurge()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
