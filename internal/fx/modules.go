package fx

import (
	"context"
	"database/sql"
	"tennis-dashboard/internal/api"
	"tennis-dashboard/internal/config"
	"tennis-dashboard/internal/constants"
	"tennis-dashboard/internal/database"
	"tennis-dashboard/internal/live"
	"tennis-dashboard/internal/logger"
	"tennis-dashboard/internal/repository"
	"tennis-dashboard/internal/server"
	"tennis-dashboard/internal/service"
	"tennis-dashboard/internal/telemetry"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideDatabase(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (*sql.DB, error) {
	db, err := database.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			return nil
		},
	})
	return db, nil
}

func ProvideTennisAPI(client *api.TennisClient) service.TennisAPI {
	return client
}

func ProvideTennisData(svc *service.TennisService) server.TennisData {
	return svc
}

func ProvideEngine(lc fx.Lifecycle, store *live.Store, cfg *config.Config, logger zerolog.Logger) *live.Engine {
	engine := live.NewEngine(store, live.SystemClock{}, live.NewRandomSource(), cfg.TickInterval, logger)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			engine.Close()
			return nil
		},
	})
	return engine
}

func RunCachePurger(lc fx.Lifecycle, svc *service.TennisService) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				svc.RunPurger(ctx, constants.CachePurgeTick)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(ProvideDatabase),
	telemetry.Module,
	// repos
	fx.Provide(repository.NewCacheRepository),
	// api client
	fx.Provide(api.NewTennisClient),
	fx.Provide(ProvideTennisAPI),
	// svc
	fx.Provide(service.NewTennisService),
	fx.Provide(ProvideTennisData),
	fx.Invoke(RunCachePurger),
	// live match
	fx.Provide(live.NewSeedStore),
	fx.Provide(ProvideEngine),
	// server
	fx.Provide(server.NewDashboardServer),
)
