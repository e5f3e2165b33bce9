// README: Wires config, infra, stores, and services; shared by the API server and the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/begoneskadedjur/kundportal-sub014/internal/config"
	"github.com/begoneskadedjur/kundportal-sub014/internal/http/handlers"
	"github.com/begoneskadedjur/kundportal-sub014/internal/infra"
	"github.com/begoneskadedjur/kundportal-sub014/internal/maps"
	"github.com/begoneskadedjur/kundportal-sub014/internal/modules/availability"
	"github.com/begoneskadedjur/kundportal-sub014/internal/modules/calendar"
	"github.com/begoneskadedjur/kundportal-sub014/internal/modules/staff"
	"github.com/begoneskadedjur/kundportal-sub014/internal/modules/travel"
)

type App struct {
	Availability *availability.Service
	DB           *pgxpool.Pool
	Redis        *redis.Client
	Logger       *zap.Logger
}

// New connects to Postgres (required) and Redis (only when the provider gate is on).
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	var (
		redisClient *redis.Client
		gate        travel.Gate
	)
	if cfg.Redis.GateEnabled {
		redisClient = infra.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		gate = travel.NewRedisGate(redisClient)
	}

	var provider travel.Provider
	if cfg.Maps.APIKey != "" {
		routes, err := maps.NewRouteService(cfg.Maps.APIKey, cfg.Maps.Language)
		if err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("maps client: %w", err)
		}
		provider = routes
	} else {
		logger.Warn("GOOGLE_MAPS_API_KEY not set, every travel time uses the default",
			zap.Int("default_minutes", cfg.Scheduling.DefaultTravelMinutes))
	}
	oracle := travel.NewOracle(provider, gate, cfg.Scheduling, logger.Named("travel"))

	staffStore := staff.NewStore(dbPool)
	resolver := staff.NewResolver(staffStore, logger.Named("staff"))

	bookingStore := calendar.NewBookingStore(dbPool, cfg.Scheduling.NonBlockingStatuses)
	absenceStore := calendar.NewAbsenceStore(dbPool)
	fetcher := calendar.NewFetcher(bookingStore, absenceStore, cfg.Scheduling.NonBlockingStatuses, cfg.Scheduling.FetchConcurrency)

	svc := availability.NewService(resolver, fetcher, oracle, cfg.Scheduling, logger.Named("availability"))

	return &App{Availability: svc, DB: dbPool, Redis: redisClient, Logger: logger}, nil
}

// HealthChecks lists the dependencies GET /health reports on.
func (a *App) HealthChecks() map[string]handlers.PingFunc {
	checks := map[string]handlers.PingFunc{
		"postgres": a.DB.Ping,
		"redis":    nil,
	}
	if a.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() }
	}
	return checks
}

func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	a.DB.Close()
}
