package config

import (
	"fmt"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	// Zone data for TIMEZONE on hosts without a system database.
	_ "time/tzdata"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection
	DataBackend string

	// Database
	SQLiteDBPath string

	// AMQP, disabled when the URL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Display and calendar
	Currency string
	Timezone string

	// Engine
	InsightWindowDays int
	AmountBound       float64

	// Snapshot cache
	SnapshotCacheSize int
	SnapshotCacheTTL  time.Duration

	// Worker
	WorkerConcurrency int

	// Write requests allowed per client per minute
	RateLimitPerMinute int

	LogLevel string
}

var currencyCode = regexp.MustCompile(`^[A-Za-z]{3}$`)

func Load() *Config {
	cfg := &Config{
		Port:        getEnv("PORT", "8081"),
		DataBackend: getEnv("DATA_BACKEND", "sqlite"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/fintrack.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "fintrack"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_changes"),

		Currency: strings.ToUpper(getEnv("CURRENCY", "INR")),
		Timezone: getEnv("TIMEZONE", "UTC"),

		InsightWindowDays: getEnvInt("INSIGHT_WINDOW_DAYS", 30),
		AmountBound:       getEnvFloat("AMOUNT_BOUND", 1e9),

		SnapshotCacheSize: getEnvInt("SNAPSHOT_CACHE_SIZE", 1000),
		SnapshotCacheTTL:  getEnvDuration("SNAPSHOT_CACHE_TTL", 5*time.Minute),

		WorkerConcurrency: getEnvInt("WORKER_CONCURRENCY", 4),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	return cfg
}

// Location returns the configured time zone, or UTC when it cannot be
// loaded. Validate reports unknown zones.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AMQPEnabled reports whether change events should be published.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate AMQP configuration if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if !currencyCode.MatchString(c.Currency) {
		errors = append(errors, fmt.Sprintf("invalid currency '%s': must be a three-letter code", c.Currency))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if c.InsightWindowDays < 1 || c.InsightWindowDays > 366 {
		errors = append(errors, fmt.Sprintf("invalid insight window %d: must be between 1 and 366 days", c.InsightWindowDays))
	}
	if !(c.AmountBound > 0) || math.IsInf(c.AmountBound, 0) {
		errors = append(errors, fmt.Sprintf("invalid amount bound %v: must be positive", c.AmountBound))
	}

	if c.SnapshotCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid snapshot cache size %d: must be at least 1", c.SnapshotCacheSize))
	}
	if c.SnapshotCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid snapshot cache TTL %v: must be at least 1 second", c.SnapshotCacheTTL))
	} else if c.SnapshotCacheTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid snapshot cache TTL %v: must be at most 24 hours", c.SnapshotCacheTTL))
	}

	if c.WorkerConcurrency < 1 || c.WorkerConcurrency > 64 {
		errors = append(errors, fmt.Sprintf("invalid worker concurrency %d: must be between 1 and 64", c.WorkerConcurrency))
	}

	if c.RateLimitPerMinute < 1 || c.RateLimitPerMinute > 10000 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be between 1 and 10000", c.RateLimitPerMinute))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
