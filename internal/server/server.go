// Package server runs the HTTP listener with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/config"
	// register schema migrations
	_ "github.com/shashiranjanraj/storefront/database/migrations"
	"github.com/shashiranjanraj/storefront/internal/kernel"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/migration"
	"github.com/shashiranjanraj/storefront/pkg/ratelimit"
)

// OpenDB loads config and connects to the configured database.
func OpenDB() (*gorm.DB, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	return database.Open(database.Options{
		Driver: config.DatabaseDriver(),
		DSN:    config.DatabaseDSN(),
	})
}

// Start serves until SIGINT/SIGTERM, then drains in-flight requests and
// closes the database and Redis connections within SHUTDOWN_TIMEOUT.
func Start() error {
	db, err := OpenDB()
	if err != nil {
		return err
	}

	if config.AutoMigrate() {
		if err := migration.New(db).Run(); err != nil {
			_ = database.Close(db)
			return err
		}
	}

	limiter, closeLimiter := buildLimiter()

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           kernel.NewHTTPKernel(db, limiter).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Connections close only after the listener has drained.
	ops := map[string]gfshutdown.Operation{
		"storefront": func(ctx context.Context) error {
			errs := []error{srv.Shutdown(ctx)}
			if closeLimiter != nil {
				errs = append(errs, closeLimiter())
			}
			errs = append(errs, database.Close(db))
			return errors.Join(errs...)
		},
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("storefront listening", "addr", srv.Addr, "env", config.AppEnv(), "db_driver", config.DatabaseDriver())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	wait := gfshutdown.GracefulShutdown(context.Background(), config.ShutdownTimeout(), ops)

	select {
	case err := <-serveErr:
		_ = database.Close(db)
		return fmt.Errorf("server: listen: %w", err)
	case code := <-wait:
		logger.Info("storefront stopped", "exit_code", code)
		if code != 0 {
			return fmt.Errorf("server: shutdown finished with exit code %d", code)
		}
		return nil
	}
}

// buildLimiter uses Redis when REDIS_ADDR is set and reachable, otherwise
// an in-process limiter. The returned close func is nil for the latter.
func buildLimiter() (ratelimit.Limiter, func() error) {
	perMinute := config.RateLimitPerMinute()

	if addr := config.RedisAddr(); addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		client, err := ratelimit.NewRedisClient(ctx, addr, config.RedisPassword())
		if err == nil {
			logger.Info("rate limiter: redis", "addr", addr, "per_minute", perMinute)
			return ratelimit.NewRedis(client, perMinute, time.Minute), client.Close
		}
		logger.Warn("rate limiter: redis unavailable, using in-process counters", "addr", addr, "error", err)
	}

	return ratelimit.NewMemory(perMinute, time.Minute), nil
}
