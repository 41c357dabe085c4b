package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}
	if cfg.Storage.Backend != StorageBackendMemory {
		t.Fatalf("expected memory backend by default, got %q", cfg.Storage.Backend)
	}
	if cfg.Storage.MemoryQuotaBytes != 5*1024*1024 {
		t.Fatalf("unexpected memory quota %d", cfg.Storage.MemoryQuotaBytes)
	}
	if cfg.Checkout.Currency != "gbp" {
		t.Fatalf("unexpected checkout currency %q", cfg.Checkout.Currency)
	}
	if cfg.Stripe.Enabled() {
		t.Fatalf("stripe should be disabled without an api key")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageBackend, "cookie")

	if _, err := Load(); err == nil {
		t.Fatal("expected unknown storage backend to fail")
	}
}

func TestLoad_RedisBackendRequiresAddress(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageBackend, "REDIS")

	if _, err := Load(); err == nil {
		t.Fatal("expected redis backend without url to fail")
	}

	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Storage.Backend != StorageBackendRedis {
		t.Fatalf("backend should be normalized, got %q", cfg.Storage.Backend)
	}
}

func TestLoad_SQLBackendBuildsDSN(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageBackend, "sql")
	t.Setenv(EnvDBHost, "db.internal")
	t.Setenv(EnvDBUser, "spa")
	t.Setenv(EnvDBName, "storefront")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "postgres://spa@db.internal:5432/storefront?sslmode=disable"
	if cfg.DB.DSN != want {
		t.Fatalf("expected dsn %q, got %q", want, cfg.DB.DSN)
	}
}

func TestLoad_SQLiteRequiresDSN(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageBackend, "sql")
	t.Setenv(EnvDBDriver, "sqlite")

	if _, err := Load(); err == nil {
		t.Fatal("expected sqlite without dsn to fail")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "8081")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}
