package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	// Lead storage. Empty DatabaseURL means the in-memory store is used.
	DatabaseURL string

	// CRM API key. Required for the CRM intake shape and the recent-leads
	// listing; the public contact form never needs it.
	CRMAPIKey string

	// Admin JWT secret for lead-management endpoints (status updates, erasure).
	AdminJWTSecret string

	// SendGrid email configuration. Missing API key disables both email channels.
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	AdminEmail        string
	AdminCCEmail      string

	// Twilio SMS configuration. Missing credentials disable the SMS channel.
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	SalesPhoneNumber string

	// Google Sheets sync configuration. Missing credentials disable the channel.
	SheetsCredentialsJSON string
	SheetsSpreadsheetID   string
	SheetsRange           string

	// Chat session store. Empty RedisAddr falls back to the in-memory store.
	RedisAddr     string
	RedisPassword string
	SessionTTL    time.Duration

	// Per-attempt timeout for outbound notification channels.
	ChannelTimeout time.Duration

	// Intake rate limiting (public form abuse guard).
	RateLimitPerSecond float64
	RateLimitBurst     int

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		CRMAPIKey:      getEnv("CRM_API_KEY", ""),
		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", "noreply@crewsight.com"),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "CrewSight"),
		AdminEmail:        getEnv("ADMIN_NOTIFICATION_EMAIL", ""),
		AdminCCEmail:      getEnv("ADMIN_CC_EMAIL", "sales@crewsight.com"),

		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber: getEnv("TWILIO_FROM_NUMBER", ""),
		SalesPhoneNumber: getEnv("SALES_PHONE_NUMBER", ""),

		SheetsCredentialsJSON: getEnv("GOOGLE_SHEETS_CREDENTIALS_JSON", ""),
		SheetsSpreadsheetID:   getEnv("GOOGLE_SHEETS_SPREADSHEET_ID", ""),
		SheetsRange:           getEnv("GOOGLE_SHEETS_RANGE", "Leads!A:L"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SessionTTL:    getEnvAsDuration("CHAT_SESSION_TTL", 24*time.Hour),

		ChannelTimeout: getEnvAsDuration("NOTIFY_CHANNEL_TIMEOUT", 10*time.Second),

		RateLimitPerSecond: getEnvAsFloat("INTAKE_RATE_LIMIT_PER_SECOND", 2),
		RateLimitBurst:     getEnvAsInt("INTAKE_RATE_LIMIT_BURST", 10),

		CORSAllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
