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
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Square       SquareConfig
	Checkout     CheckoutConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GREENHAVEN_APP_ENV" required:"true"`
	Port         string `envconfig:"GREENHAVEN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GREENHAVEN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GREENHAVEN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"GREENHAVEN_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"GREENHAVEN_DB_DSN"`
	Driver string `envconfig:"GREENHAVEN_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GREENHAVEN_DB_HOST"`
	LegacyPort     int    `envconfig:"GREENHAVEN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GREENHAVEN_DB_USER"`
	LegacyPassword string `envconfig:"GREENHAVEN_DB_PASSWORD"`
	LegacyName     string `envconfig:"GREENHAVEN_DB_NAME"`
	LegacySSLMode  string `envconfig:"GREENHAVEN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GREENHAVEN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GREENHAVEN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GREENHAVEN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GREENHAVEN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GREENHAVEN_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GREENHAVEN_REDIS_ADDR"`
	Password     string        `envconfig:"GREENHAVEN_REDIS_PASSWORD"`
	DB           int           `envconfig:"GREENHAVEN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GREENHAVEN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GREENHAVEN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GREENHAVEN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GREENHAVEN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GREENHAVEN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SquareConfig struct {
	AccessToken   string `envconfig:"GREENHAVEN_SQUARE_ACCESS_TOKEN"`
	Env           string `envconfig:"GREENHAVEN_SQUARE_ENV" default:"sandbox"`
	LocationID    string `envconfig:"GREENHAVEN_SQUARE_LOCATION_ID"`
}

// Environment returns the normalized Square environment (sandbox/production).
func (s SquareConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "sandbox"
	}
	return env
}

type CheckoutConfig struct {
	RedirectURL string `envconfig:"GREENHAVEN_CHECKOUT_REDIRECT_URL"`
}

type RateLimitConfig struct {
	Window time.Duration `envconfig:"GREENHAVEN_RATE_LIMIT_WINDOW" default:"1m"`
	Limit  int64         `envconfig:"GREENHAVEN_RATE_LIMIT_LIMIT" default:"120"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GREENHAVEN_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GREENHAVEN_AUTO_MIGRATE" default:"false"`
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
