package config

// EnvPrefix is passed to envconfig; explicit tags carry the full names.
const EnvPrefix = "LECHON"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "LECHON_APP_ENV"
	EnvPort       = "LECHON_APP_PORT"
	EnvRedisURL   = "LECHON_REDIS_URL"
	EnvJWTSecret  = "LECHON_JWT_SECRET"
	EnvJWTIssuer  = "LECHON_JWT_ISSUER"
	EnvJWTExpMins = "LECHON_JWT_EXPIRATION_MINUTES"
)

const (
	EnvDBDSN  = "LECHON_DB_DSN"
	EnvDBHost = "LECHON_DB_HOST"
	EnvDBUser = "LECHON_DB_USER"
	EnvDBName = "LECHON_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
