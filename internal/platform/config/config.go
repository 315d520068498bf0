package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr               string
	DatabaseURL        string
	JWTSecret          string
	Environment        string
	RunMigrations      bool
	MigrationsDir      string
	MaxBodyBytes       int64
	RateLimitPerMinute int
	MetricsEnabled     bool

	// Retention windows. The admin-action and policy-violation purge delays
	// are configuration rather than fixed legal constants; the defaults are
	// the console's standard 3-year business window and 7-year audit window.
	BusinessDataRetentionDays int
	AuditRetentionDays        int
	RetractionWindowDays      int

	// Bulk deletion inter-item throttle.
	BulkThrottle time.Duration

	// Cron expression for the physical purge sweep. Empty disables the
	// sweeper.
	PurgeSweepSchedule string
}

func Load() Config {
	return Config{
		Addr:                      getEnv("APP_ADDR", ":8080"),
		DatabaseURL:               getEnv("DATABASE_URL", ""),
		JWTSecret:                 getEnv("JWT_SECRET", ""),
		Environment:               getEnv("APP_ENV", "development"),
		RunMigrations:             getEnvBool("RUN_MIGRATIONS", true),
		MigrationsDir:             getEnv("MIGRATIONS_DIR", "migrations"),
		MaxBodyBytes:              int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:        getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		MetricsEnabled:            getEnvBool("METRICS_ENABLED", true),
		BusinessDataRetentionDays: getEnvInt("BUSINESS_DATA_RETENTION_DAYS", 1095),
		AuditRetentionDays:        getEnvInt("AUDIT_RETENTION_DAYS", 2555),
		RetractionWindowDays:      getEnvInt("RETRACTION_WINDOW_DAYS", 30),
		BulkThrottle:              getEnvDuration("BULK_THROTTLE", 200*time.Millisecond),
		PurgeSweepSchedule:        getEnv("PURGE_SWEEP_SCHEDULE", "0 3 * * *"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.BusinessDataRetentionDays <= 0 {
		return fmt.Errorf("BUSINESS_DATA_RETENTION_DAYS must be positive")
	}
	if c.AuditRetentionDays < c.BusinessDataRetentionDays {
		return fmt.Errorf("AUDIT_RETENTION_DAYS must cover the business data window")
	}
	if c.RetractionWindowDays < 0 {
		return fmt.Errorf("RETRACTION_WINDOW_DAYS must not be negative")
	}
	if c.BulkThrottle < 0 {
		return fmt.Errorf("BULK_THROTTLE must not be negative")
	}
	return nil
}
