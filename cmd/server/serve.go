package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/donghyeon639/SYU-Spring-web/internal/delivery/http"
	"github.com/donghyeon639/SYU-Spring-web/internal/ratelimit"
	"github.com/donghyeon639/SYU-Spring-web/internal/service"
	"github.com/donghyeon639/SYU-Spring-web/internal/sessionstore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the schema and start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}

	// Database connection
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	// Sessions live in Redis when configured, in process memory otherwise.
	var storage fiber.Storage
	if cfg.RedisURL != "" {
		redisStorage, err := sessionstore.New(ctx, cfg.RedisURL, logger)
		if err != nil {
			return err
		}
		defer redisStorage.Close()
		storage = redisStorage
	} else {
		logger.Warn().Msg("REDIS_URL not set, sessions are kept in memory")
	}

	// Dependency Injection: Services
	svc := service.New(store, logger)

	limit := ratelimit.DefaultConfig()
	limit.Rate = rate.Limit(cfg.LoginRate)
	limit.Burst = cfg.LoginBurst

	app, err := http.NewApp(http.Config{
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		SessionStorage: storage,
		SessionTTL:     cfg.SessionTTL,
		CookieSecure:   cfg.CookieSecure,
		LoginLimit:     limit,
	}, svc, store, logger)
	if err != nil {
		return err
	}

	// Graceful shutdown
	listenErr := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("db", cfg.DBDriver).Msg("server starting")
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-listenErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	case <-quit:
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
		return err
	}
	logger.Info().Msg("server exited gracefully")
	return nil
}
