package config

const (
	EnvPrefix = "FURIA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv = "FURIA_APP_ENV"
	EnvPort   = "FURIA_APP_PORT"

	EnvDBDSN  = "FURIA_DB_DSN"
	EnvDBHost = "FURIA_DB_HOST"
	EnvDBUser = "FURIA_DB_USER"
	EnvDBName = "FURIA_DB_NAME"

	EnvRedisURL = "FURIA_REDIS_URL"

	EnvJWTSecret = "FURIA_JWT_SECRET"
	EnvJWTIssuer = "FURIA_JWT_ISSUER"

	EnvWompiPublicKey       = "FURIA_WOMPI_PUBLIC_KEY"
	EnvWompiIntegritySecret = "FURIA_WOMPI_INTEGRITY_SECRET"
	EnvWompiEventsSecret    = "FURIA_WOMPI_EVENTS_SECRET"
	EnvWompiBaseURL         = "FURIA_WOMPI_BASE_URL"
	EnvWompiAllowUnverified = "FURIA_WOMPI_ALLOW_UNVERIFIED_EVENTS"
	EnvRedirectURL          = "FURIA_REDIRECT_URL"
	EnvCheckoutTTL          = "FURIA_CHECKOUT_TTL"
	EnvTelegramChatID       = "FURIA_TELEGRAM_CHAT_ID"
	EnvSMTPHost             = "FURIA_SMTP_HOST"
	EnvCartCleanupInterval  = "FURIA_CART_CLEANUP_INTERVAL"
	EnvWebhookDedupeTTL     = "FURIA_WEBHOOK_DEDUPE_TTL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
