// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port     string
	DBDriver string
	DBPath   string
	// DatabaseURL is required when DBDriver is postgres.
	DatabaseURL string

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	LogLevel  string
	LogFormat string

	// ReminderSchedule is a five-field cron expression. Empty disables reminders.
	ReminderSchedule  string
	ReminderLookahead time.Duration

	SMTP SMTPConfig

	CORSOrigins []string
}

// SMTPConfig configures the email reminder notifier.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether email reminders should be sent.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

// Addr returns the host:port of the SMTP server.
func (c SMTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads an optional .env file, then the environment, and validates the result.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to read .env file", "error", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without reading .env.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:              fallback(os.Getenv("PORT"), "8080"),
		DBDriver:          strings.ToLower(fallback(os.Getenv("DB_DRIVER"), DriverSQLite)),
		DBPath:            fallback(os.Getenv("DB_PATH"), "./data/mefinance.db"),
		DatabaseURL:       strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:         strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:         fallback(os.Getenv("JWT_ISSUER"), "mefinance"),
		JWTTTL:            time.Duration(positiveInt("JWT_TTL_HOURS", 24)) * time.Hour,
		LogLevel:          fallback(os.Getenv("LOG_LEVEL"), "info"),
		LogFormat:         fallback(os.Getenv("LOG_FORMAT"), "text"),
		ReminderSchedule:  fallback(os.Getenv("REMINDER_SCHEDULE"), "0 8 * * *"),
		ReminderLookahead: time.Duration(positiveInt("REMINDER_LOOKAHEAD_HOURS", 72)) * time.Hour,
		SMTP: SMTPConfig{
			Host:     strings.TrimSpace(os.Getenv("SMTP_HOST")),
			Port:     positiveInt("SMTP_PORT", 587),
			Username: strings.TrimSpace(os.Getenv("SMTP_USERNAME")),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     strings.TrimSpace(os.Getenv("SMTP_FROM")),
		},
		CORSOrigins: parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
	}

	if strings.EqualFold(strings.TrimSpace(os.Getenv("REMINDER_SCHEDULE")), "off") {
		cfg.ReminderSchedule = ""
	}

	switch cfg.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func positiveInt(key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
