package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Storage  StorageConfig
	DB       DBConfig
	Redis    RedisConfig
	Stripe   StripeConfig
	Checkout CheckoutConfig
	Catalog  CatalogConfig
	CORS     CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if cfg.Storage.Backend == StorageBackendSQL {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if cfg.Storage.Backend == StorageBackendRedis && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("either %s or %s is required for the redis storage backend", EnvRedisURL, EnvRedisAddr)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SPA_APP_ENV" required:"true"`
	Port         string `envconfig:"SPA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SPA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SPA_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"SPA_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig selects where cart records live.
type StorageConfig struct {
	Backend          string `envconfig:"SPA_STORAGE_BACKEND" default:"memory"`
	MemoryQuotaBytes int    `envconfig:"SPA_STORAGE_MEMORY_QUOTA_BYTES" default:"5242880"`
}

func (s *StorageConfig) validate() error {
	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	switch s.Backend {
	case StorageBackendMemory, StorageBackendRedis, StorageBackendSQL:
		return nil
	default:
		return fmt.Errorf("%s must be one of %s, %s, %s", EnvStorageBackend, StorageBackendMemory, StorageBackendRedis, StorageBackendSQL)
	}
}

type DBConfig struct {
	DSN    string `envconfig:"SPA_DB_DSN"`
	Driver string `envconfig:"SPA_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SPA_DB_HOST"`
	Port     int    `envconfig:"SPA_DB_PORT" default:"5432"`
	User     string `envconfig:"SPA_DB_USER"`
	Password string `envconfig:"SPA_DB_PASSWORD"`
	Name     string `envconfig:"SPA_DB_NAME"`
	SSLMode  string `envconfig:"SPA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SPA_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"SPA_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"SPA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SPA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"SPA_REDIS_URL"`
	Address      string        `envconfig:"SPA_REDIS_ADDR"`
	Password     string        `envconfig:"SPA_REDIS_PASSWORD"`
	DB           int           `envconfig:"SPA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SPA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SPA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SPA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SPA_REDIS_READ_TIMEOUT" default:"2s"`
	WriteTimeout time.Duration `envconfig:"SPA_REDIS_WRITE_TIMEOUT" default:"2s"`
}

type StripeConfig struct {
	APIKey string `envconfig:"SPA_STRIPE_API_KEY"`
	Env    string `envconfig:"SPA_STRIPE_ENV" default:"test"`
}

// Enabled reports whether a Stripe key was supplied.
func (s StripeConfig) Enabled() bool {
	return strings.TrimSpace(s.APIKey) != ""
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

// CheckoutConfig holds the hosted checkout redirect targets.
type CheckoutConfig struct {
	SuccessURL string `envconfig:"SPA_CHECKOUT_SUCCESS_URL" default:"http://localhost:3000/checkout/success"`
	CancelURL  string `envconfig:"SPA_CHECKOUT_CANCEL_URL" default:"http://localhost:3000/cart"`
	Currency   string `envconfig:"SPA_CHECKOUT_CURRENCY" default:"gbp"`
}

type CatalogConfig struct {
	Path string `envconfig:"SPA_CATALOG_PATH"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SPA_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
