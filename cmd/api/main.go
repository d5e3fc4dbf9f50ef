package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "github.com/lorrc/accounts-backend/internal/adapters/primary/http"
	mw "github.com/lorrc/accounts-backend/internal/adapters/primary/http/middleware"
	"github.com/lorrc/accounts-backend/internal/adapters/secondary/libsql"
	"github.com/lorrc/accounts-backend/internal/auth"
	"github.com/lorrc/accounts-backend/internal/config"
	"github.com/lorrc/accounts-backend/internal/core/services"
	"github.com/lorrc/accounts-backend/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	// 3. Connection factory for the remote store. Each repository call
	// dials its own short-lived handle; there is no pool to warm up, so
	// startup only verifies the endpoint is reachable.
	factory := libsql.NewConnectionFactory(cfg.Database.URL, cfg.Database.AuthToken)

	ctx := context.Background()
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := factory.Ping(pingCtx); err != nil {
		cancel()
		logger.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	cancel()
	logger.Info("database endpoint reachable")

	// 4. Security Components
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)

	// 5. Rate Limiters
	var generalRateLimiter, authRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})

		authRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.AuthRPS,
			BurstSize:         cfg.RateLimit.AuthBurst,
			CleanupInterval:   time.Minute,
			TTL:               5 * time.Minute,
		})
	}

	// 6. Dependency Injection (Wiring the Hexagon)
	errorHandler := httpAdapter.NewErrorHandler(logger)

	userRepo := libsql.NewUserRepository()
	accountService := services.NewAccountService(factory, userRepo, logger)

	authHandler := httpAdapter.NewAuthHandler(accountService, tokenManager, errorHandler, logger)
	accountHandler := httpAdapter.NewAccountHandler(accountService, errorHandler, logger)
	healthHandler := httpAdapter.NewHealthHandler(factory, cfg.App.Version)

	router := httpAdapter.NewRouter(httpAdapter.RouterDeps{
		AuthHandler:        authHandler,
		AccountHandler:     accountHandler,
		HealthHandler:      healthHandler,
		TokenManager:       tokenManager,
		GeneralRateLimiter: generalRateLimiter,
		AuthRateLimiter:    authRateLimiter,
		RequestLogger:      mw.RequestLogger(logger),
		RecoveryLogger:     mw.RecoveryLogger(logger),
		AllowedOrigins:     []string{"*"},
	})

	// 7. HTTP Server with graceful shutdown
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.Server.Port)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
			_ = server.Close()
		}
	}

	logger.Info("service stopped")
}
