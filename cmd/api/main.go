package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"metamarket-api/internal/cache"
	"metamarket-api/internal/catalog"
	"metamarket-api/internal/config"
	"metamarket-api/internal/handler"
	"metamarket-api/internal/kvstore"
	"metamarket-api/internal/middleware"
	"metamarket-api/internal/repository"
	"metamarket-api/internal/router"
	"metamarket-api/internal/service"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	logger, err := newLogger(cfg.App.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if debug {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zcfg.Build()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting",
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment))

	ctx := context.Background()

	// Redis is only dialled when a component needs it
	var redisClient *redis.Client
	if cfg.KV.Backend == "redis" || cfg.Cache.Type == "redis" {
		client, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Address(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer client.Close()
		redisClient = client
		logger.Info("redis client initialized", zap.String("addr", cfg.Redis.Address()))
	}

	kvRepo, err := openKV(cfg, redisClient, logger)
	if err != nil {
		return err
	}
	defer kvRepo.Close()

	catalogCache := openCache(cfg, redisClient, logger)
	defer catalogCache.Close()

	demo, err := service.NewDemoAccount(cfg.Auth.DemoEmail, cfg.Auth.DemoPassword, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	// Initialize services
	bridge := kvstore.New(kvRepo, logger)
	registry := service.NewRegistry(bridge, service.SystemClock(), service.AuthOptions{
		Demo:    demo,
		Latency: cfg.Auth.Latency,
	}, logger)
	tournaments := service.NewTournamentStore(ctx, bridge, logger)
	catalogClient := catalog.NewClient(catalog.Options{
		BaseURL:   cfg.Catalog.BaseURL,
		RateLimit: cfg.Catalog.RateLimit,
		Burst:     cfg.Catalog.Burst,
		Timeout:   cfg.Catalog.Timeout,
		CacheTTL:  cfg.Cache.TTL,
	}, catalogCache, logger)

	janitor := service.NewJanitor(registry, service.JanitorConfig{
		IdleTimeout:   cfg.Session.IdleTimeout,
		SweepInterval: cfg.Session.SweepInterval,
	}, logger)
	janitor.Start()
	defer janitor.Stop()

	// Initialize handlers
	healthHandler := handler.New(cfg.App.Name, cfg.App.Version, handler.ReadyCheck{
		Name: "kv_" + cfg.KV.Backend,
		Check: func(ctx context.Context) error {
			_, err := kvRepo.GetStats(ctx)
			return err
		},
	})

	r := router.New(router.Config{
		Handler:           healthHandler,
		WatchlistHandler:  handler.NewWatchlistHandler(registry),
		AuthHandler:       handler.NewAuthHandler(registry),
		CartHandler:       handler.NewCartHandler(registry),
		CatalogHandler:    handler.NewCatalogHandler(catalogClient, logger),
		TournamentHandler: handler.NewTournamentHandler(tournaments, logger),
		AdminHandler:      handler.NewAdminHandler(kvRepo, cfg.KV.Backend, catalogCache, registry),
		APIKeyMiddleware: middleware.NewAPIKeyMiddleware(middleware.APIKeyConfig{
			Keys:   cfg.App.APIKeys,
			Logger: logger,
		}),
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Address()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("server stopped")
	return nil
}

// openKV opens the backend selected by KV_BACKEND.
func openKV(cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) (repository.KVRepository, error) {
	logger = logger.Named("repository")

	switch cfg.KV.Backend {
	case "memory":
		logger.Warn("using in-memory kv store, state is lost on restart")
		return repository.NewMemoryKVRepository(), nil
	case "redis":
		return repository.NewRedisKVRepository(redisClient, cfg.KV.RedisPrefix, logger), nil
	case "mysql":
		return repository.NewMySQLKVRepository(cfg.KV.MySQLDSN(), logger)
	case "postgres":
		return repository.NewPostgresKVRepository(cfg.KV.PostgresDSN(), logger)
	default: // sqlite
		return repository.NewSQLiteKVRepository(cfg.KV.Path, logger)
	}
}

// openCache builds the catalog response cache selected by CACHE_TYPE.
func openCache(cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) cache.Cache {
	switch cfg.Cache.Type {
	case "none":
		return cache.NopCache{}
	case "redis":
		logger.Info("catalog cache: redis", zap.String("prefix", cfg.Cache.Prefix))
		return cache.NewRedisCache(redisClient, cfg.Cache.Prefix)
	default:
		logger.Info("catalog cache: memory", zap.Duration("ttl", cfg.Cache.TTL))
		return cache.NewMemoryCache(time.Minute)
	}
}
