package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "vitrina"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "VITRINA_DB_DSN"
	EnvDBHost = "VITRINA_DB_HOST"
	EnvDBUser = "VITRINA_DB_USER"
	EnvDBName = "VITRINA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Gateway      GatewayConfig
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
	Env          string `envconfig:"VITRINA_APP_ENV" required:"true"`
	Port         string `envconfig:"VITRINA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VITRINA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VITRINA_LOG_WARN_STACK" default:"false"`
	PublicURL    string `envconfig:"VITRINA_PUBLIC_URL" default:"http://localhost:8080"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VITRINA_DB_DSN"`
	Driver string `envconfig:"VITRINA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VITRINA_DB_HOST"`
	LegacyPort     int    `envconfig:"VITRINA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VITRINA_DB_USER"`
	LegacyPassword string `envconfig:"VITRINA_DB_PASSWORD"`
	LegacyName     string `envconfig:"VITRINA_DB_NAME"`
	LegacySSLMode  string `envconfig:"VITRINA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VITRINA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VITRINA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VITRINA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VITRINA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VITRINA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VITRINA_REDIS_ADDR"`
	Password     string        `envconfig:"VITRINA_REDIS_PASSWORD"`
	DB           int           `envconfig:"VITRINA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VITRINA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VITRINA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VITRINA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VITRINA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VITRINA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"VITRINA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"VITRINA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"VITRINA_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"VITRINA_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the server-side session lifetime configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type GatewayConfig struct {
	BaseURL         string        `envconfig:"VITRINA_GATEWAY_BASE_URL" default:"https://api.mercadopago.com"`
	AccessToken     string        `envconfig:"VITRINA_GATEWAY_ACCESS_TOKEN"`
	Timeout         time.Duration `envconfig:"VITRINA_GATEWAY_TIMEOUT" default:"10s"`
	DefaultCurrency string        `envconfig:"VITRINA_GATEWAY_DEFAULT_CURRENCY" default:"COP"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VITRINA_AUTO_MIGRATE" default:"false"`
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
