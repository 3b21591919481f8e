package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Required secrets. The service refuses to start without them; there is
	// deliberately no built-in default for anything that protects PII.
	FieldKey      string // ONBOARD_FIELD_KEY: secret behind the PII field cipher
	DraftSalt     string // ONBOARD_DRAFT_SALT: salt for draft identifier derivation
	SessionSecret string // ONBOARD_SESSION_SECRET: HS256 secret for admin sessions (min 32 bytes)

	Issuer     string        // Optional: issuer claim for session tokens (default: onboard)
	SessionTTL time.Duration // Optional: admin session lifetime (default: 24h)

	BaseURL string        // Optional: public base URL used in onboarding links (default: http://localhost:8080)
	LinkTTL time.Duration // Optional: onboarding link lifetime; 0 means links only expire on completion

	DatabaseFile string // Optional: path to SQLite database file (default: ./onboard.db)

	BootstrapAdminEmail    string // Optional: seed admin email for an empty database
	BootstrapAdminName     string // Optional: seed admin display name
	BootstrapAdminPassword string // Optional: seed admin password

	MailRegion string // Optional: AWS region for SES; empty disables outbound mail
	MailSender string // Optional: SES-verified sender address

	SalaryPlan  string // Optional: JSON salary component override
	CompanyName string // Optional: company name printed on rendered packets

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	LinkRetention        time.Duration // How long expired links are kept (default: 30 days)
}

func LoadConfig() Config {
	return Config{
		FieldKey:      os.Getenv("ONBOARD_FIELD_KEY"),
		DraftSalt:     os.Getenv("ONBOARD_DRAFT_SALT"),
		SessionSecret: os.Getenv("ONBOARD_SESSION_SECRET"),

		Issuer:     getEnvOrDefault("ONBOARD_ISSUER", "onboard"),
		SessionTTL: getEnvDurationOrDefault("ONBOARD_SESSION_TTL", 24*time.Hour),

		BaseURL: getEnvOrDefault("ONBOARD_BASE_URL", "http://localhost:8080"),
		LinkTTL: getEnvDurationOrDefault("ONBOARD_LINK_TTL", 0),

		DatabaseFile: getEnvOrDefault("ONBOARD_DATABASE_FILE", "onboard.db"),

		BootstrapAdminEmail:    os.Getenv("ONBOARD_BOOTSTRAP_ADMIN_EMAIL"),
		BootstrapAdminName:     getEnvOrDefault("ONBOARD_BOOTSTRAP_ADMIN_NAME", "Administrator"),
		BootstrapAdminPassword: os.Getenv("ONBOARD_BOOTSTRAP_ADMIN_PASSWORD"),

		MailRegion: os.Getenv("ONBOARD_MAIL_REGION"),
		MailSender: os.Getenv("ONBOARD_MAIL_SENDER"),

		SalaryPlan:  os.Getenv("ONBOARD_SALARY_PLAN"),
		CompanyName: os.Getenv("ONBOARD_COMPANY_NAME"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		LinkRetention:        getEnvDurationOrDefault("ONBOARD_LINK_RETENTION", 30*24*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
