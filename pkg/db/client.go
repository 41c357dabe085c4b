package db

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"

	"github.com/angelmondragon/spa-storefront/pkg/config"
	"github.com/angelmondragon/spa-storefront/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Client wraps the shared GORM connection.
type Client struct {
	conn *gorm.DB
}

// Pinger exposes the health check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New boots a GORM client using the provided configuration.
func New(ctx context.Context, cfg config.DBConfig, logg *logger.Logger) (*Client, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	gormCfg := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	}

	conn, err := gorm.Open(dialectorFor(cfg), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("opening db connection: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql db handle: %w", err)
	}

	applyPoolSettings(sqlDB, cfg)

	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if logg != nil {
		ctx = logg.WithField(ctx, "driver", cfg.Driver)
		logg.Info(ctx, "database connection established")
	}

	return &Client{conn: conn}, nil
}

// NewFromGorm wraps an existing connection.
func NewFromGorm(conn *gorm.DB) *Client {
	return &Client{conn: conn}
}

func dialectorFor(cfg config.DBConfig) gorm.Dialector {
	if cfg.IsSQLite() {
		return sqlite.Open(cfg.DSN)
	}
	return postgres.New(postgres.Config{
		DSN:                  cfg.DSN,
		PreferSimpleProtocol: true,
	})
}

func applyPoolSettings(sqlDB *sql.DB, cfg config.DBConfig) {
	if cfg.IsSQLite() {
		// sqlite serializes writers; a single connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
		return
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
}

// DB returns the underlying GORM connection.
func (c *Client) DB() *gorm.DB {
	return c.conn
}

// SQLDB returns the pooled database/sql handle.
func (c *Client) SQLDB() (*sql.DB, error) {
	return c.conn.DB()
}

// Ping verifies the datasource is reachable.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close shuts down the pooled connections.
func (c *Client) Close() error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
