package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Module provides the application configuration.
var Module = fx.Provide(Load)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	DefaultOrgID int64

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SMS SMSConfig

	Sweep SweepConfig

	ImportMaxUploadBytes int64
}

// SMSConfig configures the outbound SMS provider.
type SMSConfig struct {
	Provider   string // "gateway", "log" or "noop"
	GatewayURL string
	AccountID  string
	AuthToken  string
	FromNumber string
}

// SweepConfig configures the delinquency sweep cadence.
type SweepConfig struct {
	Interval   time.Duration
	JobTimeout time.Duration
	LockTTL    time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:      getenv("APP_SERVICE", "rentfolio"),
		AppVersion:   getenv("APP_VERSION", "0.1.0"),
		Environment:  getenv("ENVIRONMENT", "development"),
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		DefaultOrgID: getenvInt64("DEFAULT_ORG", 0),
		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "rentfolio"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),

		SMS: SMSConfig{
			Provider:   strings.ToLower(getenv("SMS_PROVIDER", "log")),
			GatewayURL: strings.TrimSpace(getenv("SMS_GATEWAY_URL", "")),
			AccountID:  strings.TrimSpace(getenv("SMS_ACCOUNT_ID", "")),
			AuthToken:  strings.TrimSpace(getenv("SMS_AUTH_TOKEN", "")),
			FromNumber: strings.TrimSpace(getenv("SMS_FROM_NUMBER", "")),
		},

		Sweep: SweepConfig{
			Interval:   getenvDuration("SWEEP_INTERVAL", 24*time.Hour),
			JobTimeout: getenvDuration("SWEEP_JOB_TIMEOUT", 10*time.Minute),
			LockTTL:    getenvDuration("SWEEP_LOCK_TTL", 30*time.Minute),
		},

		ImportMaxUploadBytes: getenvInt64("IMPORT_MAX_UPLOAD_BYTES", 25<<20),
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getenv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getenvInt64(key string, fallback int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return value
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
