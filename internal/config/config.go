package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration. It is built once in main and
// passed into constructors; nothing in this package is read at call sites.
type Config struct {
	AppEnv     string
	ServerPort int

	DatabasePath string
	UploadDir    string

	SessionSecret string
	SessionStore  string // "memory" or "sqlite"
	SessionTTL    time.Duration
	JWTSecret     string
	BcryptCost    int

	SendgridKey string
	FromEmail   string
	FromName    string
	MailTimeout time.Duration

	AIAPIKey  string
	AIBaseURL string
	AIModel   string
	AITimeout time.Duration

	// Timezone is the IANA zone the reminder job fires in. It is always
	// explicit so deployments do not inherit the host's local zone.
	Timezone     string
	ReminderCron string
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load() // missing .env is fine

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
	}

	cost, err := strconv.Atoi(getEnv("BCRYPT_COST", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	cfg := &Config{
		AppEnv:     getEnv("APP_ENV", "development"),
		ServerPort: port,

		DatabasePath: getEnv("DATABASE_PATH", "./classdesk.db"),
		UploadDir:    getEnv("UPLOAD_DIR", "/tmp/uploads"),

		SessionSecret: getEnv("SESSION_SECRET", "defaultSecret123"),
		SessionStore:  getEnv("SESSION_STORE", "memory"),
		SessionTTL:    getDuration("SESSION_TTL", 24*time.Hour),
		JWTSecret:     getEnv("JWT_SECRET", "defaultSecret123"),
		BcryptCost:    cost,

		SendgridKey: getEnv("SENDGRID_API_KEY", ""),
		FromEmail:   getEnv("FROM_EMAIL", "noreply@classdesk.local"),
		FromName:    getEnv("FROM_NAME", "Classdesk"),
		MailTimeout: getDuration("MAIL_TIMEOUT", 10*time.Second),

		AIAPIKey:  getEnv("AI_API_KEY", ""),
		AIBaseURL: getEnv("AI_BASE_URL", "https://api.openai.com/v1"),
		AIModel:   getEnv("AI_MODEL", "gpt-4o-mini"),
		AITimeout: getDuration("AI_TIMEOUT", 30*time.Second),

		Timezone:     getEnv("TIMEZONE", "Europe/Madrid"),
		ReminderCron: getEnv("REMINDER_CRON", "0 9 * * *"),
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}

	return cfg, nil
}

// Location returns the configured reminder timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		// Validated in Load; fall back rather than panic mid-run.
		return time.UTC
	}
	return loc
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
