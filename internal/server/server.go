// Package server wires config, MongoDB, the optional Redis cache and the gin
// router into a running HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"provision-store/internal/cache"
	"provision-store/internal/config"
	"provision-store/internal/database"
	"provision-store/internal/handlers"
	"provision-store/internal/metrics"
	"provision-store/internal/middleware"
	"provision-store/internal/models"
	"provision-store/internal/services"
	"provision-store/internal/store"
)

const shutdownTimeout = 10 * time.Second

// NewRouter builds the engine with the middleware chain and every route.
func NewRouter(cfg config.Config, deps handlers.Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(gin.Recovery())
	r.Use(metrics.Middleware())

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	handlers.RegisterRoutes(r, deps)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func Start(ctx context.Context, cfg config.Config) error {
	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(cfg.DBName)
	slog.Info("mongodb connected", "database", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		slog.Warn("product index warning", "error", err)
	}
	if err := database.EnsureBillIndexes(db); err != nil {
		slog.Warn("bill index warning", "error", err)
	}
	if err := database.EnsureBillCounter(db); err != nil {
		return fmt.Errorf("seed bill counter: %w", err)
	}

	atomic := database.UseTransactions(ctx, client, cfg.MongoTransactions)
	slog.Info("bill creation mode", "transactions", atomic)

	var statsCache *cache.StatsCache
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			slog.Warn("redis unavailable, stats cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			defer rdb.Close()
			statsCache = cache.NewStatsCache(rdb, cfg.StatsCacheTTL)
			slog.Info("stats cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.StatsCacheTTL)
		}
	}

	productStore := store.NewProductStore(db)
	billStore := store.NewBillStore(db)

	deps := handlers.Deps{
		Products:  services.NewProductService(productStore, statsCacheOrNil(statsCache)),
		Bills:     services.NewBillService(billStore, productStore, store.NewTxRunner(client, atomic), statsCacheOrNil(statsCache)),
		Stats:     services.NewDashboardService(productStore, billStore, statsCacheOrNil(statsCache), cfg.LowStockThreshold),
		Mongo:     client,
		JWTSecret: cfg.JWTSecret,
		Admin:     models.Admin{Email: cfg.AdminEmail, PasswordHash: cfg.AdminPasswordHash},
		AccessTTL: cfg.AccessTokenTTL,
	}
	if !cfg.AuthEnabled() {
		slog.Warn("JWT_SECRET not set, write routes are unauthenticated")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(cfg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// statsCacheOrNil keeps a nil *StatsCache from turning into a non-nil
// interface value.
func statsCacheOrNil(c *cache.StatsCache) services.StatsCache {
	if c == nil {
		return nil
	}
	return c
}
