package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field has a sensible default; only DATABASE_URL is required.
type Config struct {
	// Server
	HTTPPort        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Database
	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// Redis (rate-limit counter backend)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Mail provider
	MailBaseURL string
	MailAPIKey  string
	MailTimeout time.Duration

	// Payment provider
	CheckoutBaseURL string
	CheckoutAPIKey  string
	CheckoutTimeout time.Duration

	// Queue drain pipeline
	DrainBatchSize int
	DrainInterval  time.Duration
	SendRate       int // provider calls per second during a drain

	// Stale-claim recovery
	StaleAfter    time.Duration
	SweepInterval time.Duration

	// Rate limiting. Each guarded endpoint gets its own window, threshold
	// and failure policy ("fail_open" or "fail_closed"). LimiterTimeout
	// bounds every counter-backend round trip.
	LimiterTimeout  time.Duration
	CheckoutLimit   int64
	CheckoutWindow  time.Duration
	CheckoutPolicy  string
	LogInsertLimit  int64
	LogInsertWindow time.Duration
	LogInsertPolicy string
}

func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		ReadTimeout:     getDuration("READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		DatabaseURL: dbURL,
		DBMaxConns:  int32(getInt("DB_MAX_CONNS", 25)),
		DBMinConns:  int32(getInt("DB_MIN_CONNS", 5)),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),

		MailBaseURL: getEnv("MAIL_BASE_URL", "https://smtp.maileroo.com/api/v2/emails/template"),
		MailAPIKey:  getEnv("MAIL_API_KEY", ""),
		MailTimeout: getDuration("MAIL_TIMEOUT", 10*time.Second),

		CheckoutBaseURL: getEnv("CHECKOUT_BASE_URL", "https://api.stripe.com/v1/checkout/sessions"),
		CheckoutAPIKey:  getEnv("CHECKOUT_API_KEY", ""),
		CheckoutTimeout: getDuration("CHECKOUT_TIMEOUT", 10*time.Second),

		DrainBatchSize: getInt("DRAIN_BATCH_SIZE", 20),
		DrainInterval:  getDuration("DRAIN_INTERVAL", 30*time.Second),
		SendRate:       getInt("SEND_RATE_PER_SEC", 10),

		StaleAfter:    getDuration("STALE_AFTER", 5*time.Minute),
		SweepInterval: getDuration("SWEEP_INTERVAL", time.Minute),

		LimiterTimeout:  getDuration("LIMITER_TIMEOUT", 300*time.Millisecond),
		CheckoutLimit:   int64(getInt("CHECKOUT_RATE_LIMIT", 10)),
		CheckoutWindow:  getDuration("CHECKOUT_RATE_WINDOW", time.Minute),
		CheckoutPolicy:  getEnv("CHECKOUT_RATE_POLICY", "fail_open"),
		LogInsertLimit:  int64(getInt("LOG_RATE_LIMIT", 20)),
		LogInsertWindow: getDuration("LOG_RATE_WINDOW", time.Minute),
		LogInsertPolicy: getEnv("LOG_RATE_POLICY", "fail_closed"),
	}, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
