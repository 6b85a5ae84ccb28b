package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	applog "github.com/pageza/foodgram/backend/internal/log"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/router"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	applog.Init(applog.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, ServiceName: "foodgram-api"})
	logger := applog.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
	logger.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := applog.L()
	logger.Info().Str("env", string(cfg.Env)).Str("db_driver", cfg.Database.Driver).Msg("starting foodgram api")

	if cfg.Env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.RegisterValidators(); err != nil {
		return err
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := database.RunMigrations(ctx, db, cfg.Database.MigrationsDir); err != nil {
		return err
	}

	var (
		redisClient *redis.Client
		blacklist   service.TokenBlacklist
		limiter     *middleware.RateLimiter
	)
	if cfg.Redis.Enabled() {
		redisClient, err = database.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		blacklist = service.NewRedisTokenBlacklist(redisClient)
		limiter = middleware.NewRecipeCreationRateLimiter(redisClient, cfg.RateLimit)
	} else {
		logger.Warn().Msg("redis not configured: rate limiting and token revocation are disabled")
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	authService := service.NewAuthService(db, cfg.JWT, blacklist)
	memberships := service.NewMembershipService(db)
	follows := service.NewFollowService(db)
	recipes := service.NewRecipeService(db, memberships, follows, service.NewImageService(store))

	opts := router.Options{
		Logger:                logger,
		CORSOrigins:           cfg.API.CORSOrigins,
		TokenValidator:        authService,
		RecipeCreationLimiter: limiter,
	}
	if local, ok := store.(*storage.LocalStore); ok {
		opts.MediaRoot = local.BasePath()
		opts.MediaURL = local.BaseURL()
	}

	engine := router.SetupRouter(router.Handlers{
		Auth:    api.NewAuthHandler(authService),
		Users:   api.NewUserHandler(authService, follows, cfg.API.PageSize),
		Recipes: api.NewRecipeHandler(recipes, memberships, service.NewShoppingListService(db), cfg.API.PageSize),
		Catalog: api.NewCatalogHandler(service.NewCatalogService(db)),
		Health:  api.NewHealthHandler(db, redisClient),
	}, opts)

	return server.New(cfg.Server, engine).Run(ctx)
}
