package app

import (
	"os"
	"strconv"
	"time"

	"github.com/tradutor-app/auth/internal/auth/service"
	"github.com/tradutor-app/auth/pkg/jwtx"
)

type Config struct {
	Issuer    string // Required: issuer claim for tokens
	JWTSecret string // HMAC signing secret; generated per-process when unset

	Algorithm            string        // Optional: JWT signing algorithm (HS256, HS384, HS512) (default: HS256)
	AccessTokenTTL       time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTokenTTL      time.Duration // Optional: refresh token lifetime (default: 7 days)
	ResetTokenTTL        time.Duration // Optional: password reset token lifetime (default: 30m)
	DatabaseFile         string        // Optional: path to SQLite database file (default: ./auth.db)
	PepperFile           string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	FrontendResetURL     string        // Optional: frontend page that collects the new password
	SMTPHost             string        // Optional: SMTP relay host; LogMailer is used when unset
	SMTPPort             string        // Optional: SMTP relay port (default: 587)
	SMTPUser             string        // Optional: SMTP username
	SMTPPass             string        // Optional: SMTP password
	SMTPUseTLS           bool          // Optional: connect to the relay over implicit TLS
	EmailFrom            string        // Optional: From address on reset emails
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:               os.Getenv("AUTH_ISSUER"),
		JWTSecret:            os.Getenv("AUTH_JWT_SECRET"),
		Algorithm:            getEnvOrDefault("AUTH_JWT_ALGORITHM", "HS256"),
		AccessTokenTTL:       getEnvDurationOrDefault("AUTH_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTokenTTL:      getEnvDurationOrDefault("AUTH_REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),
		ResetTokenTTL:        getEnvDurationOrDefault("AUTH_RESET_TOKEN_TTL", service.DefaultResetTokenTTL),
		DatabaseFile:         getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		PepperFile:           getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),
		FrontendResetURL:     getEnvOrDefault("FRONTEND_RESET_URL", "http://localhost:3000/reset-password"),
		SMTPHost:             os.Getenv("SMTP_HOST"),
		SMTPPort:             getEnvOrDefault("SMTP_PORT", "587"),
		SMTPUser:             os.Getenv("SMTP_USER"),
		SMTPPass:             os.Getenv("SMTP_PASSWORD"),
		SMTPUseTLS:           getEnvBoolOrDefault("SMTP_TLS", false),
		EmailFrom:            getEnvOrDefault("EMAIL_FROM", "noreply@localhost"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	if cfg.Issuer == "" {
		cfg.Issuer = "tradutor-auth"
	}

	return cfg
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
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

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
