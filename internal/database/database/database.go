// Package database opens and inspects the PostgreSQL connection.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/planzo/planzo-api/internal/database/config"
	"github.com/planzo/planzo-api/internal/database/pool"
	"github.com/planzo/planzo-api/pkg/retry"
)

// ErrNilDB is returned by helpers that receive no connection.
var ErrNilDB = errors.New("database connection is nil")

// SlowQueryThreshold is the duration above which queries are logged as slow.
const SlowQueryThreshold = 200 * time.Millisecond

// Options groups everything Open needs besides the DSN.
type Options struct {
	Retry retry.Config
	Pool  pool.Config
}

// LoadOptionsFromEnv reads retry and pool settings from the environment.
func LoadOptionsFromEnv() Options {
	return Options{
		Retry: config.LoadRetryConfigFromEnv(),
		Pool:  pool.LoadConfigFromEnv(),
	}
}

// Open connects to PostgreSQL, retrying transient failures, and applies the
// pool settings. Connection errors never carry the password.
func Open(ctx context.Context, cfg config.Config, opts Options, logger *zap.SugaredLogger) (*gorm.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	retryCfg := opts.Retry
	retryCfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		logger.Warnw("database not ready, retrying",
			"attempt", attempt,
			"delay", delay.String(),
			"host", cfg.Host,
			"error", config.SanitizeError(err, cfg),
		)
	}

	gormCfg := &gorm.Config{Logger: NewGormLogger(logger)}
	db, err := retry.DoWithResult(ctx, retryCfg, func() (*gorm.DB, error) {
		conn, err := gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
		if err != nil {
			return nil, err
		}
		if err := HealthCheck(ctx, conn); err != nil {
			_ = Close(conn)
			return nil, err
		}
		return conn, nil
	})
	if err != nil {
		return nil, config.SanitizeError(err, cfg)
	}

	if err := pool.SetupConnectionPool(db, opts.Pool); err != nil {
		_ = Close(db)
		return nil, fmt.Errorf("failed to setup connection pool: %w", err)
	}

	logger.Infow("database connected",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.DBName,
		"max_open_conns", opts.Pool.MaxOpenConns,
	)
	return db, nil
}

// NewGormLogger routes gorm warnings and slow queries through zap.
func NewGormLogger(logger *zap.SugaredLogger) gormlogger.Interface {
	return gormlogger.New(
		zap.NewStdLog(logger.Desugar().Named("gorm")),
		gormlogger.Config{
			SlowThreshold:             SlowQueryThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// HealthCheck pings the database.
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := underlying(db)
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close closes the connection pool. A nil db is a no-op.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := underlying(db)
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

// Stats returns connection pool statistics.
func Stats(db *gorm.DB) (sql.DBStats, error) {
	sqlDB, err := underlying(db)
	if err != nil {
		return sql.DBStats{}, err
	}
	return sqlDB.Stats(), nil
}

func underlying(db *gorm.DB) (*sql.DB, error) {
	if db == nil {
		return nil, ErrNilDB
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB, nil
}
