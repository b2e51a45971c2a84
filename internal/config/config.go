// Package config loads runtime settings from .env files and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/database"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/revenue"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Storage  string `validate:"oneof=postgres memory"`
	Database database.Config
	Fees     FeeConfig
	Midtrans MidtransConfig
	Refunds  RefundConfig
}

type ServerConfig struct {
	Port            string        `validate:"required,numeric"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

type LogConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=text json"`
}

// FeeConfig holds the platform rates. DefaultTaxRate applies to events that
// do not set their own.
type FeeConfig struct {
	DefaultTaxRate    decimal.Decimal
	CommissionRate    decimal.Decimal
	ProcessorFeeRate  decimal.Decimal
	ProcessorFeeFixed decimal.Decimal
}

// Rates returns the platform rates with the default tax rate.
func (f FeeConfig) Rates() revenue.Rates {
	return revenue.Rates{
		TaxRate:           f.DefaultTaxRate,
		CommissionRate:    f.CommissionRate,
		ProcessorFeeRate:  f.ProcessorFeeRate,
		ProcessorFeeFixed: f.ProcessorFeeFixed,
	}
}

type MidtransConfig struct {
	ServerKey  string
	Production bool
}

// Enabled reports whether refunds can reach the provider.
func (m MidtransConfig) Enabled() bool { return m.ServerKey != "" }

type RefundConfig struct {
	SweepSchedule string        `validate:"required"`
	QueueSize     int           `validate:"min=1"`
	RunTimeout    time.Duration `validate:"gt=0"`
}

var validate = validator.New()

// Load reads .env.local and .env when present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	var errs []string
	dec := func(key, fallback string) decimal.Decimal {
		d, err := decimal.NewFromString(getEnv(key, fallback))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: not a number", key))
		}
		return d
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "text")),
		},
		Storage: strings.ToLower(getEnv("STORAGE", StoragePostgres)),
		Database: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "eventbooking"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(getEnvAsInt("DB_MAX_CONNS", 20)),
		},
		Fees: FeeConfig{
			DefaultTaxRate:    dec("DEFAULT_TAX_RATE", "0"),
			CommissionRate:    dec("COMMISSION_RATE", "0.02"),
			ProcessorFeeRate:  dec("PROCESSOR_FEE_RATE", "0.029"),
			ProcessorFeeFixed: dec("PROCESSOR_FEE_FIXED", "0.30"),
		},
		Midtrans: MidtransConfig{
			ServerKey:  getEnv("MIDTRANS_SERVER_KEY", ""),
			Production: getEnvAsBool("MIDTRANS_PRODUCTION", false),
		},
		Refunds: RefundConfig{
			SweepSchedule: getEnv("REFUND_SWEEP_SCHEDULE", "@every 1m"),
			QueueSize:     getEnvAsInt("REFUND_QUEUE_SIZE", 64),
			RunTimeout:    getEnvAsDuration("REFUND_RUN_TIMEOUT", 5*time.Minute),
		},
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Fees.Rates().Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}
