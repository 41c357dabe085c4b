package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/pressly/goose/v3"

	"github.com/angelmondragon/spa-storefront/pkg/config"
)

const DefaultDir = "pkg/migrate/migrations"

//go:embed migrations/*.sql
var embedded embed.FS

// EmbeddedDir is the migrations directory inside the embedded filesystem.
const EmbeddedDir = "migrations"

// Embedded returns the migrations compiled into the binary.
func Embedded() fs.FS {
	return embedded
}

// Dialect maps the configured driver to the goose dialect name.
func Dialect(cfg config.DBConfig) string {
	if cfg.IsSQLite() {
		return "sqlite3"
	}
	return "postgres"
}

// Run executes a goose command against migrations on disk.
func Run(ctx context.Context, db *sql.DB, dialect, dir string, command string, args ...string) error {
	return run(ctx, nil, db, dialect, dir, command, args...)
}

// RunEmbedded executes a goose command against the embedded migrations.
func RunEmbedded(ctx context.Context, db *sql.DB, dialect string, command string, args ...string) error {
	return run(ctx, embedded, db, dialect, EmbeddedDir, command, args...)
}

func run(ctx context.Context, fsys fs.FS, db *sql.DB, dialect, dir string, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	// RunContext prints status output to stdout (goose internal)
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// MigrateToVersion migrates up/down to the requested version by comparing current DB version.
func MigrateToVersion(ctx context.Context, db *sql.DB, dialect, dir string, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	current, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current == target:
		return nil
	case current < target:
		if err := goose.UpToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
		return nil
	default:
		if err := goose.DownToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
		return nil
	}
}
