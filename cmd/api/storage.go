package main

import (
	"context"
	"fmt"

	"github.com/angelmondragon/spa-storefront/pkg/config"
	"github.com/angelmondragon/spa-storefront/pkg/db"
	"github.com/angelmondragon/spa-storefront/pkg/logger"
	"github.com/angelmondragon/spa-storefront/pkg/migrate"
	"github.com/angelmondragon/spa-storefront/pkg/redis"
	"github.com/angelmondragon/spa-storefront/pkg/storage"
)

// openStorage builds the cart key-value backend selected by config. The
// returned cleanup closes any client it opened.
func openStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger) (storage.KV, func(), error) {
	noop := func() {}

	switch cfg.Storage.Backend {
	case config.StorageBackendRedis:
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, noop, fmt.Errorf("bootstrap redis: %w", err)
		}
		return storage.NewRedis(redisClient), func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}, nil

	case config.StorageBackendSQL:
		dbClient, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, noop, fmt.Errorf("bootstrap database: %w", err)
		}
		cleanup := func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}
		if err := migrate.MaybeRun(ctx, cfg, logg, dbClient); err != nil {
			cleanup()
			return nil, noop, fmt.Errorf("run migrations: %w", err)
		}
		return storage.NewSQL(dbClient.DB()), cleanup, nil

	default:
		return storage.NewMemory(cfg.Storage.MemoryQuotaBytes), noop, nil
	}
}
