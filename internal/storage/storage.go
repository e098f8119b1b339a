// Package storage opens the creature repository selected by configuration.
package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/critter/internal/config"
	"github.com/cory-johannsen/critter/internal/game/keeper"
	"github.com/cory-johannsen/critter/internal/storage/postgres"
	"github.com/cory-johannsen/critter/internal/storage/sqlite"
)

// Open connects to the configured backend.
//
// Precondition: cfg must have passed Validate.
// Postcondition: Returns a repository and a close function, or a non-nil error.
// The postgres schema must already be migrated; sqlite migrates itself.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (keeper.Repository, func(), error) {
	start := time.Now()
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		if err := pool.Health(ctx, 5*time.Second); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("database health check: %w", err)
		}
		logger.Info("database connected",
			zap.String("driver", cfg.Storage.Driver),
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(start)),
		)
		return postgres.NewCreatureRepository(pool.DB()), pool.Close, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		logger.Info("database opened",
			zap.String("driver", cfg.Storage.Driver),
			zap.String("path", cfg.Storage.SQLitePath),
			zap.Duration("elapsed", time.Since(start)),
		)
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn("closing sqlite store", zap.Error(err))
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
