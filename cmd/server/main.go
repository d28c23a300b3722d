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

	"go.uber.org/zap"

	"hobbyte/internal/config"
	"hobbyte/internal/database"
	"hobbyte/internal/engine"
	"hobbyte/internal/handlers"
	"hobbyte/internal/logging"
	"hobbyte/internal/repository"
	"hobbyte/internal/scheduler"
	"hobbyte/internal/security"
	"hobbyte/internal/service"
	"hobbyte/migrations"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	logger.Info("database connection established", zap.String("type", cfg.DatabaseType))

	if err := db.RunMigrations(migrations.Files); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("migrations completed")

	if cfg.TokenSecret == "" {
		logger.Warn("TOKEN_SECRET is not set, bearer tokens will not survive a restart")
	}
	tokens, err := security.NewTokenIssuer(cfg.TokenSecret, cfg.SessionDuration)
	if err != nil {
		return err
	}

	// Repositories and services
	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(db, tokens, cfg.SessionDuration)
	userService := service.NewUserService(userRepo)
	gameService := service.NewGameService(db, engine.DefaultRandom, service.GameLimits{
		MaxOpenGames: cfg.MaxOpenGames,
		MaxBoardSize: cfg.MaxBoardSize,
	}, logger)

	router := handlers.NewRouter(handlers.Handlers{
		Auth:       handlers.NewAuthHandler(authService, logger),
		Admin:      handlers.NewAdminHandler(userService, logger),
		User:       handlers.NewUserHandler(authService, userService, logger),
		Game:       handlers.NewGameHandler(gameService, logger),
		Middleware: handlers.NewMiddleware(authService, security.NewRateLimiter(10, time.Minute), logger),
	}, handlers.RouterOptions{ClientOrigin: cfg.ClientOrigin, TrustProxy: cfg.TrustProxy}, logger)

	jobs := scheduler.New(logger)
	if err := jobs.AddSessionCleanup(authService); err != nil {
		return err
	}
	jobs.Start()
	defer jobs.Stop()

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logger.Info("server shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
