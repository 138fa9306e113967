package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"salon-system/api"
	"salon-system/config"
	"salon-system/database"
	"salon-system/logging"
	"salon-system/metrics"
	"salon-system/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("config:", err)
	}

	logger := logging.New(cfg.LogLevel)

	logger.Info("attempting to connect to database...")
	// Initialize database connection
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("database connect", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Error("database migrate", "error", err)
			os.Exit(1)
		}
		logger.Info("migrations complete")
	}

	opts := []api.Option{
		api.WithLogger(logger),
		api.WithMetrics(metrics.New(prometheus.DefaultRegisterer), prometheus.DefaultGatherer),
		api.WithJWTSecret(cfg.JWTSecret),
		api.WithLocale(cfg.Locale),
		api.WithCORSOrigins(cfg.CORSOrigins),
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, catalog cache will fall through to postgres", "addr", cfg.RedisAddr, "error", err)
		}
		cancel()

		cache := service.NewCachedCatalog(service.NewAccessor(db), rdb, cfg.CatalogCacheTTL, logger)
		opts = append(opts, api.WithCatalogCache(cache))
	}

	server := api.NewAPI(db, opts...)
	server.RegisterRoutes()

	logger.Info("server starting", "port", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), server.Handler()); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
