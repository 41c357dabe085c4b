package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/spa-storefront/pkg/config"
	"github.com/angelmondragon/spa-storefront/pkg/db"
	"github.com/angelmondragon/spa-storefront/pkg/logger"
)

// MaybeRun applies the embedded migrations when the sql storage backend is
// selected and auto-migration is enabled.
func MaybeRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if cfg.Storage.Backend != config.StorageBackendSQL || !cfg.App.AutoMigrate {
		return nil
	}

	sqlDB, err := client.SQLDB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	dialect := Dialect(cfg.DB)
	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dialect": dialect})
		logg.Info(ctx, "running goose migrations (auto-run)")
	}

	if err := RunEmbedded(ctx, sqlDB, dialect, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "goose migrations completed")
	}
	return nil
}
