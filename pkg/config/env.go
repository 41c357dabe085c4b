package config

const EnvPrefix = "SPA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StorageBackendMemory = "memory"
	StorageBackendRedis  = "redis"
	StorageBackendSQL    = "sql"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv         = "SPA_APP_ENV"
	EnvPort           = "SPA_APP_PORT"
	EnvStorageBackend = "SPA_STORAGE_BACKEND"
	EnvStorageQuota   = "SPA_STORAGE_MEMORY_QUOTA_BYTES"
	EnvDBDSN          = "SPA_DB_DSN"
	EnvDBDriver       = "SPA_DB_DRIVER"
	EnvDBHost         = "SPA_DB_HOST"
	EnvDBUser         = "SPA_DB_USER"
	EnvDBName         = "SPA_DB_NAME"
	EnvRedisURL       = "SPA_REDIS_URL"
	EnvRedisAddr      = "SPA_REDIS_ADDR"
	EnvStripeAPIKey   = "SPA_STRIPE_API_KEY"
	EnvCORSOrigins    = "SPA_CORS_ALLOWED_ORIGINS"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
