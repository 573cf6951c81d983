package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Payments     PaymentsConfig
	Webhooks     WebhooksConfig
	SMTP         SMTPConfig
	Telegram     TelegramConfig
	Cart         CartConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Payments.validate(cfg.App); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadSection fills a single section such as JWTConfig, for tools that do not
// need the whole service configuration.
func LoadSection(section any) error {
	if err := envconfig.Process(EnvPrefix, section); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	return nil
}

type AppConfig struct {
	Env          string   `envconfig:"FURIA_APP_ENV" required:"true"`
	Port         string   `envconfig:"FURIA_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"FURIA_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"FURIA_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"FURIA_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FURIA_DB_DSN"`
	Driver string `envconfig:"FURIA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FURIA_DB_HOST"`
	LegacyPort     int    `envconfig:"FURIA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FURIA_DB_USER"`
	LegacyPassword string `envconfig:"FURIA_DB_PASSWORD"`
	LegacyName     string `envconfig:"FURIA_DB_NAME"`
	LegacySSLMode  string `envconfig:"FURIA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FURIA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FURIA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FURIA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FURIA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite dialector was requested.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"FURIA_REDIS_URL"`
	Address      string        `envconfig:"FURIA_REDIS_ADDR"`
	Password     string        `envconfig:"FURIA_REDIS_PASSWORD"`
	DB           int           `envconfig:"FURIA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FURIA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FURIA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FURIA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FURIA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FURIA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig holds the shared secret used to verify admin session tokens.
type JWTConfig struct {
	Secret        string        `envconfig:"FURIA_JWT_SECRET" required:"true"`
	Issuer        string        `envconfig:"FURIA_JWT_ISSUER" required:"true"`
	AdminTokenTTL time.Duration `envconfig:"FURIA_JWT_ADMIN_TTL" default:"12h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FURIA_AUTO_MIGRATE" default:"false"`
}

// PaymentsConfig describes the payment gateway integration. IntegritySecret signs
// outbound checkout parameters, EventsSecret verifies inbound webhooks.
type PaymentsConfig struct {
	PublicKey             string        `envconfig:"FURIA_WOMPI_PUBLIC_KEY" required:"true"`
	PrivateKey            string        `envconfig:"FURIA_WOMPI_PRIVATE_KEY"`
	IntegritySecret       string        `envconfig:"FURIA_WOMPI_INTEGRITY_SECRET" required:"true"`
	EventsSecret          string        `envconfig:"FURIA_WOMPI_EVENTS_SECRET"`
	BaseURL               string        `envconfig:"FURIA_WOMPI_BASE_URL" required:"true"`
	RedirectURL           string        `envconfig:"FURIA_REDIRECT_URL" required:"true"`
	CheckoutURL           string        `envconfig:"FURIA_WOMPI_CHECKOUT_URL" default:"https://checkout.wompi.co/p/"`
	Currency              string        `envconfig:"FURIA_CHECKOUT_CURRENCY" default:"COP"`
	CheckoutTTL           time.Duration `envconfig:"FURIA_CHECKOUT_TTL" default:"15m"`
	AllowUnverifiedEvents bool          `envconfig:"FURIA_WOMPI_ALLOW_UNVERIFIED_EVENTS" default:"false"`
}

func (p PaymentsConfig) validate(app AppConfig) error {
	if p.EventsSecret != "" && p.EventsSecret == p.IntegritySecret {
		return fmt.Errorf("%s must differ from %s", EnvWompiEventsSecret, EnvWompiIntegritySecret)
	}
	if p.EventsSecret != "" {
		return nil
	}
	if app.IsProd() {
		return fmt.Errorf("%s is required in %s", EnvWompiEventsSecret, AppEnvProd)
	}
	if !p.AllowUnverifiedEvents {
		return fmt.Errorf("%s is required unless %s=true", EnvWompiEventsSecret, EnvWompiAllowUnverified)
	}
	return nil
}

type WebhooksConfig struct {
	DedupeTTL time.Duration `envconfig:"FURIA_WEBHOOK_DEDUPE_TTL" default:"72h"`
}

type SMTPConfig struct {
	Host     string `envconfig:"FURIA_SMTP_HOST"`
	Port     int    `envconfig:"FURIA_SMTP_PORT" default:"587"`
	Username string `envconfig:"FURIA_SMTP_USER"`
	Password string `envconfig:"FURIA_SMTP_PASS"`
	From     string `envconfig:"FURIA_SMTP_FROM" default:"noreply@furia-rock.com"`
	Secure   bool   `envconfig:"FURIA_SMTP_SECURE" default:"false"`
}

// Enabled reports whether enough SMTP settings exist to send mail.
func (s SMTPConfig) Enabled() bool {
	return strings.TrimSpace(s.Host) != ""
}

type TelegramConfig struct {
	BotToken string `envconfig:"FURIA_TELEGRAM_BOT_TOKEN"`
	ChatID   int64  `envconfig:"FURIA_TELEGRAM_CHAT_ID"`
}

func (t TelegramConfig) Enabled() bool {
	return strings.TrimSpace(t.BotToken) != "" && t.ChatID != 0
}

type CartConfig struct {
	CleanupInterval time.Duration `envconfig:"FURIA_CART_CLEANUP_INTERVAL" default:"24h"`
	Retention       time.Duration `envconfig:"FURIA_CART_RETENTION" default:"360h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
