package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"shopco-storefront/internal/address"
	"shopco-storefront/internal/api"
	"shopco-storefront/internal/cart"
	"shopco-storefront/internal/config"
	"shopco-storefront/internal/logger"
	"shopco-storefront/internal/middleware"
	"shopco-storefront/internal/order"
	"shopco-storefront/internal/product"
	"shopco-storefront/internal/session"
	"shopco-storefront/internal/storage"
	"shopco-storefront/internal/transport"
	"shopco-storefront/internal/user"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	shutdownTimeout = 30 * time.Second
	limiterSweep    = time.Minute
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv, cfg.LogLevel)
	defer logger.Sync()
	log := logger.L()

	// Prices go out as JSON numbers, the way the remote API sends them.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
	log.Info("graceful shutdown complete")
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.L()

	kv, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	client, err := api.NewClient(api.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.APITimeout})
	if err != nil {
		return err
	}

	registry, err := session.NewRegistry(cfg.SessionCacheSize, session.Deps{
		Store:     kv,
		Carts:     cart.NewRepository(client),
		Orders:    order.NewRepository(client),
		Users:     user.NewRepository(client),
		Addresses: address.NewRepository(client),
		ReturnURL: cfg.PublicBaseURL + "/orders",
	})
	if err != nil {
		return fmt.Errorf("session registry: %w", err)
	}
	// Runs after the server has drained so no request sees a closed workspace.
	defer registry.Close()

	limiter := middleware.NewRateLimiter()
	go limiter.Cleanup(ctx, limiterSweep)

	// Closed when Shutdown starts so open event streams end.
	streams := make(chan struct{})

	srv := &http.Server{
		Addr: ":" + cfg.AppPort,
		Handler: transport.NewRouter(transport.RouterConfig{
			Workspaces:     registry,
			Products:       product.NewService(product.NewRepository(client)),
			Limiter:        limiter,
			AllowedOrigins: cfg.AllowedOrigins,
			SecureCookie:   cfg.IsProduction(),
			Shutdown:       streams,
		}),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	srv.RegisterOnShutdown(func() { close(streams) })

	errCh := make(chan error, 1)
	go func() {
		log.Info("storefront listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.AppEnv),
			zap.String("storage", cfg.StorageDriver),
			zap.String("api", cfg.APIBaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down gracefully, press Ctrl+C again to force")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	return nil
}

// openStore builds the persistence backend named by STORAGE_DRIVER. The
// returned func releases its connection.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, func(), error) {
	noop := func() {}

	switch cfg.StorageDriver {
	case config.StorageMemory:
		return storage.NewMemoryStore(), noop, nil

	case config.StorageFile:
		kv, err := storage.NewFileStore(cfg.StorageDir)
		if err != nil {
			return nil, nil, fmt.Errorf("file storage: %w", err)
		}
		return kv, noop, nil

	case config.StoragePostgres:
		db, err := storage.OpenPostgres(cfg.DBURL)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewPostgresStore(db), func() { db.Close() }, nil

	case config.StorageRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return storage.NewRedisStore(rdb), func() { rdb.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
