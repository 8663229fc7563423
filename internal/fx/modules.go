package fx

import (
	"zamboni-stats/internal/api"
	"zamboni-stats/internal/config"
	"zamboni-stats/internal/database"
	"zamboni-stats/internal/logger"
	"zamboni-stats/internal/repository"
	"zamboni-stats/internal/server"
	"zamboni-stats/internal/service"

	"go.uber.org/fx"
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	// cache
	fx.Provide(repository.NewCacheRepository),
	// upstream
	fx.Provide(api.NewClient),
	fx.Provide(service.NewFetcher),
	// svc
	fx.Provide(service.NewGameService),
	fx.Provide(service.NewPlayerService),
	// server
	fx.Provide(server.NewStatsServer),
	fx.Provide(server.NewProxy),
)
