package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Dan9191/task-service/internal/auth"
	"github.com/Dan9191/task-service/internal/config"
	"github.com/Dan9191/task-service/internal/handler"
	"github.com/Dan9191/task-service/internal/ratelimit"
	"github.com/Dan9191/task-service/internal/repository"
	"github.com/Dan9191/task-service/internal/service"
	"github.com/Dan9191/task-service/internal/telemetry"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	shutdownTracing, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		logger.WithError(err).Error("Failed to set up tracing")
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.WithError(err).Warn("Failed to flush traces")
		}
	}()

	// Initialize database
	db, err := repository.Open(ctx, cfg.DBConn, repository.PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		logger.WithError(err).Error("Failed to connect to database")
		return err
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := repository.Migrate(ctx, db, "up"); err != nil {
			logger.WithError(err).Error("Failed to apply migrations")
			return err
		}
	}

	limiter, closeLimiter, err := newAuthLimiter(cfg, logger)
	if err != nil {
		return err
	}
	defer closeLimiter()

	// Initialize layers
	repo := repository.NewRepository(db)
	authSvc := service.NewAuthService(
		repo,
		auth.NewPasswordHasher(cfg.BcryptCost),
		auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiresIn, cfg.JWTLeeway),
		logger,
	)
	taskSvc := service.NewTaskService(repo, logger, cfg.DefaultPageSize, cfg.MaxPageSize)
	h := handler.NewHandler(authSvc, taskSvc, repo, logger)

	router := handler.NewRouter(h, handler.RouterOptions{
		CORSOrigin:     cfg.CORSOrigin,
		RequestTimeout: cfg.RequestTimeout,
		AuthLimiter:    limiter,
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.WithError(err).Error("Server failed")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// newAuthLimiter picks the Redis limiter when REDIS_ADDR is set, memory
// otherwise. A zero limit disables rate limiting.
func newAuthLimiter(cfg *config.Config, logger *logrus.Logger) (ratelimit.Limiter, func(), error) {
	noop := func() {}
	if cfg.RateLimitPerMinute == 0 {
		return nil, noop, nil
	}
	if cfg.RedisAddr == "" {
		return ratelimit.NewMemory(cfg.RateLimitPerMinute, time.Minute), noop, nil
	}

	client, err := ratelimit.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to redis")
		return nil, noop, err
	}
	logger.WithField("addr", cfg.RedisAddr).Info("Using redis rate limiter")
	return ratelimit.NewRedis(client, cfg.RedisKeyPrefix, cfg.RateLimitPerMinute, time.Minute), client.Close, nil
}
