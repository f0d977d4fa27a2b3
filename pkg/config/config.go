package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "AKWA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "AKWA_DB_DSN"
	EnvDBHost = "AKWA_DB_HOST"
	EnvDBUser = "AKWA_DB_USER"
	EnvDBName = "AKWA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Cron         CronConfig
	Inventory    InventoryConfig
	Blockchain   BlockchainConfig
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
	Env          string `envconfig:"AKWA_APP_ENV" required:"true"`
	Port         string `envconfig:"AKWA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AKWA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AKWA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"AKWA_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"AKWA_DB_DSN"`
	Driver string `envconfig:"AKWA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AKWA_DB_HOST"`
	LegacyPort     int    `envconfig:"AKWA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AKWA_DB_USER"`
	LegacyPassword string `envconfig:"AKWA_DB_PASSWORD"`
	LegacyName     string `envconfig:"AKWA_DB_NAME"`
	LegacySSLMode  string `envconfig:"AKWA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AKWA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AKWA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AKWA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AKWA_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	// TxMaxAttempts bounds transaction retries at the commit boundary.
	TxMaxAttempts int `envconfig:"AKWA_DB_TX_MAX_ATTEMPTS" default:"3"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AKWA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AKWA_REDIS_ADDR"`
	Password     string        `envconfig:"AKWA_REDIS_PASSWORD"`
	DB           int           `envconfig:"AKWA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AKWA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AKWA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AKWA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AKWA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AKWA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"AKWA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"AKWA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"AKWA_JWT_EXPIRATION_MINUTES" default:"60"`
}

// AccessTokenTTL returns the configured access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type CronConfig struct {
	// Interval between sweep cycles; expiry staleness is bounded by it.
	Interval time.Duration `envconfig:"AKWA_CRON_INTERVAL" default:"60s"`
	// SweepBatchSize caps how many reservations one expiry sweep processes.
	SweepBatchSize int `envconfig:"AKWA_CRON_SWEEP_BATCH_SIZE" default:"500"`
}

type InventoryConfig struct {
	// LowStockRatio is the available/total threshold below which a
	// low_stock alert is raised.
	LowStockRatio float64 `envconfig:"AKWA_INVENTORY_LOW_STOCK_RATIO" default:"0.10"`
	// DefaultReservationTTL applies when a reserve request omits a TTL.
	DefaultReservationTTL time.Duration `envconfig:"AKWA_INVENTORY_RESERVATION_TTL" default:"24h"`
}

type BlockchainConfig struct {
	Enabled  bool          `envconfig:"AKWA_BLOCKCHAIN_ENABLED" default:"false"`
	Endpoint string        `envconfig:"AKWA_BLOCKCHAIN_ENDPOINT"`
	Timeout  time.Duration `envconfig:"AKWA_BLOCKCHAIN_TIMEOUT" default:"10s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"AKWA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"AKWA_AUTO_MIGRATE" default:"false"`
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
