package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Stripe   StripeConfig
	Store    StoreConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	WSPort      string

	// BootstrapAdminEmail is granted the admin role on registration.
	BootstrapAdminEmail string

	// CompletionConcurrency bounds the per-user fan-out of a project completion.
	CompletionConcurrency int
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	MigrationsDir string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type StripeConfig struct {
	SecretKey  string
	SuccessURL string
	CancelURL  string
}

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type StoreConfig struct {
	Driver      string
	SeedCatalog bool
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// Load reads configuration from the environment. A .env file in the working
// directory, or the file named by ENV_FILE, is loaded first when present.
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{}

	var missing []string
	req := func(key string) string {
		s := strings.TrimSpace(v.GetString(key))
		if s == "" {
			missing = append(missing, key)
		}
		return s
	}
	opt := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	cfg.App = AppConfig{
		AppName:             req("APP_NAME"),
		Environment:         req("APP_ENV"),
		HTTPPort:            req("HTTP_PORT"),
		WSPort:              opt("WS_PORT"),
		BootstrapAdminEmail: strings.ToLower(opt("BOOTSTRAP_ADMIN_EMAIL")),

		CompletionConcurrency: v.GetInt("COMPLETION_CONCURRENCY"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),

		ConnectTimeout:        v.GetDuration("DB_CONNECT_TIMEOUT"),
		PoolMaxConns:          v.GetInt32("DB_POOL_MAX_CONNS"),
		PoolMinConns:          v.GetInt32("DB_POOL_MIN_CONNS"),
		PoolMaxConnLifetime:   v.GetDuration("DB_POOL_MAX_CONN_LIFETIME"),
		PoolMaxConnIdleTime:   v.GetDuration("DB_POOL_MAX_CONN_IDLE_TIME"),
		PoolHealthCheckPeriod: v.GetDuration("DB_POOL_HEALTH_CHECK_PERIOD"),

		MigrationsDir: opt("MIGRATIONS_DIR"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		TTL:      v.GetDuration("REDIS_TTL"),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  v.GetDuration("JWT_ACCESS_EXPIRES_IN"),
		RefreshExpiresIn: v.GetDuration("JWT_REFRESH_EXPIRES_IN"),
	}

	cfg.Stripe = StripeConfig{
		SecretKey:  opt("STRIPE_SECRET_KEY"),
		SuccessURL: opt("STRIPE_SUCCESS_URL"),
		CancelURL:  opt("STRIPE_CANCEL_URL"),
	}

	cfg.Store = StoreConfig{
		Driver:      strings.ToLower(opt("STORE_DRIVER")),
		SeedCatalog: v.GetBool("SEED_CATALOG"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	switch cfg.Store.Driver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return Config{}, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.Store.Driver)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("WS_PORT", "8081")
	v.SetDefault("COMPLETION_CONCURRENCY", 8)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_CONNECT_TIMEOUT", 5*time.Second)
	v.SetDefault("DB_POOL_MAX_CONNS", 10)
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_TTL", 24*time.Hour)
	v.SetDefault("JWT_ACCESS_EXPIRES_IN", 15*time.Minute)
	v.SetDefault("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour)
	v.SetDefault("STRIPE_SUCCESS_URL", "http://localhost:3000/bonus/success?session_id={CHECKOUT_SESSION_ID}")
	v.SetDefault("STRIPE_CANCEL_URL", "http://localhost:3000/bonus/cancel")
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
}

func loadDotEnv() error {
	path := strings.TrimSpace(os.Getenv("ENV_FILE"))
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}
