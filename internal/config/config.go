package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	defaultAppName         = "DemoCredit"
	defaultAppEnv          = "development"
	defaultPort            = "3333"
	defaultLogLevel        = "info"
	defaultShutdownDelay   = 10 * time.Second
	defaultAccessTokenTTL  = 15 * time.Minute
	defaultTxTimeout       = 5 * time.Second
	defaultLoginRateLimit  = 5
	devJWTSecret           = "dev-secret-change-me"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
)

var (
	defaultMaxDeposit    = decimal.NewFromInt(5_000_000)
	defaultMaxWithdrawal = decimal.NewFromInt(2_000_000)
	defaultMaxTransfer   = decimal.NewFromInt(1_000_000)
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	ShutdownPeriod time.Duration
	AutoMigrate    bool

	JWTSecret      string
	AccessTokenTTL time.Duration
	LoginRateLimit int

	MaxDeposit    decimal.Decimal
	MaxWithdrawal decimal.Decimal
	MaxTransfer   decimal.Decimal
	TxTimeout     time.Duration
}

// Load reads an optional .env file and then populates a Config from the environment.
func Load() (Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv populates a Config from the process environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         strings.ToLower(getEnv("APP_ENV", defaultAppEnv)),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		ShutdownPeriod: defaultShutdownDelay,
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AccessTokenTTL: defaultAccessTokenTTL,
		LoginRateLimit: defaultLoginRateLimit,
		MaxDeposit:     defaultMaxDeposit,
		MaxWithdrawal:  defaultMaxWithdrawal,
		MaxTransfer:    defaultMaxTransfer,
		TxTimeout:      defaultTxTimeout,
	}

	if v := os.Getenv(shutdownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownSecondsEnvVar, err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(shutdownDurationEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownDurationEnvVar, err)
		}
		cfg.ShutdownPeriod = d
	}

	var err error
	if cfg.AccessTokenTTL, err = durationEnv("JWT_EXPIRES_IN", cfg.AccessTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.TxTimeout, err = durationEnv("TX_TIMEOUT", cfg.TxTimeout); err != nil {
		return Config{}, err
	}
	if cfg.MaxDeposit, err = decimalEnv("MAX_DEPOSIT", cfg.MaxDeposit); err != nil {
		return Config{}, err
	}
	if cfg.MaxWithdrawal, err = decimalEnv("MAX_WITHDRAWAL", cfg.MaxWithdrawal); err != nil {
		return Config{}, err
	}
	if cfg.MaxTransfer, err = decimalEnv("MAX_TRANSFER", cfg.MaxTransfer); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("LOGIN_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOGIN_RATE_LIMIT: %w", err)
		}
		cfg.LoginRateLimit = n
	}

	if v := os.Getenv("AUTO_MIGRATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid AUTO_MIGRATE: %w", err)
		}
		cfg.AutoMigrate = b
	}

	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL must be set")
		}
		if cfg.RedisURL == "" {
			return Config{}, errors.New("REDIS_URL must be set")
		}
		if cfg.JWTSecret == "" {
			return Config{}, errors.New("JWT_SECRET must be set")
		}
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = devJWTSecret
	}

	return cfg, nil
}

// IsDev reports whether the service runs in a local/development environment,
// where Postgres and Redis may be replaced by in-memory backends.
func (c Config) IsDev() bool {
	switch c.AppEnv {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func decimalEnv(key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
