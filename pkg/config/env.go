package config

// EnvPrefix scopes every environment variable the service reads.
const EnvPrefix = "greenhaven"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "GREENHAVEN_APP_ENV"
	EnvPort     = "GREENHAVEN_APP_PORT"
	EnvLogLevel = "GREENHAVEN_LOG_LEVEL"

	EnvDBDSN  = "GREENHAVEN_DB_DSN"
	EnvDBHost = "GREENHAVEN_DB_HOST"
	EnvDBUser = "GREENHAVEN_DB_USER"
	EnvDBName = "GREENHAVEN_DB_NAME"

	EnvRedisURL = "GREENHAVEN_REDIS_URL"

	EnvSquareAccessToken = "GREENHAVEN_SQUARE_ACCESS_TOKEN"
	EnvSquareLocationID  = "GREENHAVEN_SQUARE_LOCATION_ID"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
