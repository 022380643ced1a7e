package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr                 string
	DatabaseURL          string
	JWTSecret            string
	JWTTTL               time.Duration
	Environment          string
	CORSOrigins          []string
	SeedAdminEmail       string
	SeedAdminPassword    string
	RunMigrations        bool
	RunSeed              bool
	MaxBodyBytes         int64
	RateLimitPerMinute   int
	PayslipDir           string
	DefaultWorkingDays   int
	OvertimeHourlyRate   float64
	LeaveAccrualInterval time.Duration
	EmailEnabled         bool
	EmailFrom            string
	SMTPHost             string
	SMTPPort             int
	SMTPUser             string
	SMTPPassword         string
	MetricsEnabled       bool
}

func Load() Config {
	return Config{
		Addr:                 getEnv("APP_ADDR", ":8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		JWTTTL:               getEnvDuration("JWT_TTL", 12*time.Hour),
		Environment:          getEnv("APP_ENV", "development"),
		CORSOrigins:          splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		SeedAdminEmail:       getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword:    getEnv("SEED_ADMIN_PASSWORD", ""),
		RunMigrations:        getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:              getEnvBool("RUN_SEED", true),
		MaxBodyBytes:         int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:   getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		PayslipDir:           getEnv("PAYSLIP_DIR", "storage/payslips"),
		DefaultWorkingDays:   getEnvInt("DEFAULT_WORKING_DAYS", 22),
		OvertimeHourlyRate:   getEnvFloat("OVERTIME_HOURLY_RATE", 0),
		LeaveAccrualInterval: getEnvDuration("LEAVE_ACCRUAL_INTERVAL", 24*time.Hour),
		EmailEnabled:         getEnvBool("EMAIL_ENABLED", false),
		EmailFrom:            getEnv("EMAIL_FROM", "no-reply@example.com"),
		SMTPHost:             getEnv("SMTP_HOST", ""),
		SMTPPort:             getEnvInt("SMTP_PORT", 587),
		SMTPUser:             getEnv("SMTP_USER", ""),
		SMTPPassword:         getEnv("SMTP_PASSWORD", ""),
		MetricsEnabled:       getEnvBool("METRICS_ENABLED", true),
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.DefaultWorkingDays <= 0 || c.DefaultWorkingDays > 31 {
		return fmt.Errorf("DEFAULT_WORKING_DAYS must be between 1 and 31")
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
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

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
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
