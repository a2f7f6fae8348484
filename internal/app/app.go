package app

import (
	"context"
	"database/sql"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"tollway/internal/cache"
	appconfig "tollway/internal/config"
	httpserver "tollway/internal/http"
	"tollway/internal/http/handlers"
	"tollway/internal/http/middleware"
	"tollway/internal/password"
	"tollway/internal/repository"
	"tollway/internal/service"
	"tollway/libs/db"
	libredis "tollway/libs/redis"
)

// App wires application dependencies.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	redis  *goredis.Client
	logger *zap.Logger
}

// New builds application graph.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgresDB(cfg.Database.DSN, cfg.Database.MaxOpenConns)
	if err != nil {
		return nil, err
	}

	if err := repository.EnsureSchema(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	// Rankings caching is optional: no Redis address means no cache.
	var redisClient *goredis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			logger.Warn("redis unavailable, rankings cache disabled", zap.Error(err))
			redisClient = nil
		}
	}

	userRepo := repository.NewUserRepository(sqlDB)
	vehicleRepo := repository.NewVehicleRepository(sqlDB)
	stationRepo := repository.NewStationRepository(sqlDB)
	passRepo := repository.NewPassRepository(sqlDB)
	settlementRepo := repository.NewSettlementRepository(sqlDB)
	analyticsRepo := repository.NewAnalyticsRepository(sqlDB)

	hasher := password.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokenSvc := service.NewTokenService(cfg.JWT.Secret, cfg.JWTExpiration())
	authSvc := service.NewAuthService(userRepo, hasher, tokenSvc, logger)

	ingestSvc := service.NewIngestService(
		sqlDB,
		stationRepo,
		passRepo,
		settlementRepo,
		userRepo,
		vehicleRepo,
		service.DataFiles{
			Stations:     cfg.DataPath(cfg.Data.Stations),
			Passes:       cfg.DataPath(cfg.Data.Passes),
			Transceivers: cfg.DataPath(cfg.Data.Transceivers),
			Users:        cfg.DataPath(cfg.Data.Users),
			Vehicles:     cfg.DataPath(cfg.Data.Vehicles),
		},
		logger,
	)

	if err := ingestSvc.SeedReferenceData(ctx); err != nil {
		logger.Warn("reference data seed failed", zap.Error(err))
	}

	rankingsCache := cache.NewRankingsCache(redisClient, cfg.Redis.RankingsTTL, logger)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, settlementRepo, rankingsCache, logger)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandlers:      handlers.NewAuthHandlers(authSvc, logger),
		AdminHandlers:     handlers.NewAdminHandlers(ingestSvc, authSvc, cfg.Database.DSN, logger),
		PassHandlers:      handlers.NewPassHandlers(analyticsSvc, stationRepo, logger),
		AnalyticsHandlers: handlers.NewAnalyticsHandlers(analyticsSvc, logger),
		HealthHandler:     handlers.NewHealthHandler(),
	}, middleware.AuthMiddleware(tokenSvc))

	server := httpserver.NewServer(
		cfg.HTTPAddress(),
		router,
		logger,
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
	)

	return &App{
		server: server,
		db:     sqlDB,
		redis:  redisClient,
		logger: logger,
	}, nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
