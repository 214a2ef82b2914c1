// Package main provides the entry point for the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/planzo/planzo-api/internal/app"
	"github.com/planzo/planzo-api/internal/config"
	dbconfig "github.com/planzo/planzo-api/internal/database/config"
	"github.com/planzo/planzo-api/internal/database/database"
	"github.com/planzo/planzo-api/internal/database/migrate"
	"github.com/planzo/planzo-api/internal/health"
	"github.com/planzo/planzo-api/internal/mail"
	"github.com/planzo/planzo-api/internal/scheduler"
	"github.com/planzo/planzo-api/internal/session"
	taskRepository "github.com/planzo/planzo-api/internal/task/repository"
	"github.com/planzo/planzo-api/internal/user/token"
	"github.com/planzo/planzo-api/pkg/logger"
)

const connectTimeout = 2 * time.Minute

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	sugar, err := logger.NewWithConfig(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = sugar.Sync() }()

	if err := run(cfg, sugar); err != nil {
		sugar.Fatalw("server stopped with error", "error", err)
	}
}

func run(cfg config.Config, sugar *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbCfg := dbconfig.LoadConfigFromEnv()
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	db, err := database.Open(connectCtx, dbCfg, database.LoadOptionsFromEnv(), sugar)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			sugar.Warnw("failed to close database", "error", err)
		}
	}()

	if err := migrate.Migrate(db, migrate.GetMigrationsPath(), sugar); err != nil {
		return err
	}

	sessions, checks, closeSessions, err := newSessionStore(ctx, cfg.Redis, sugar)
	if err != nil {
		return err
	}
	defer closeSessions()

	mailer := mail.New(cfg.Mail, sugar)

	if cfg.Scheduler.Enabled {
		jobs := scheduler.New(cfg.Scheduler, taskRepository.New(db, sugar), mailer, sugar)
		if err := jobs.Start(); err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			jobs.Stop(stopCtx)
		}()
	}

	router := app.NewRouter(cfg, app.Deps{
		DB:           db,
		Tokens:       token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Sessions:     sessions,
		Mailer:       mailer,
		HealthChecks: checks,
	}, sugar)

	srv := &http.Server{
		Addr:              cfg.Server.GetAddress(),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		sugar.Infow("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	sugar.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newSessionStore returns the redis store when REDIS_URL is set and the
// process-local store otherwise.
func newSessionStore(
	ctx context.Context,
	cfg config.RedisConfig,
	sugar *zap.SugaredLogger,
) (session.Store, []health.Check, func(), error) {
	if !cfg.Enabled() {
		sugar.Infow("session store: memory")
		return session.NewMemoryStore(), nil, func() {}, nil
	}

	client, err := session.NewRedisClient(ctx, cfg.URL)
	if err != nil {
		return nil, nil, nil, err
	}
	sugar.Infow("session store: redis")

	check := health.Check{
		Name: "redis",
		Ping: func(ctx context.Context) error { return client.Ping(ctx).Err() },
	}
	closeFn := func() {
		if err := client.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			sugar.Warnw("failed to close redis client", "error", err)
		}
	}
	return session.NewRedisStore(client), []health.Check{check}, closeFn, nil
}
