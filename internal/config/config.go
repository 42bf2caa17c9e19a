package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Catalog sources.
const (
	CatalogSourceFixture  = "fixture"
	CatalogSourcePostgres = "postgres"
)

// Email providers.
const (
	EmailProviderStub     = "stub"
	EmailProviderSendGrid = "sendgrid"
	EmailProviderSES      = "ses"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string
	Timezone string

	CatalogSource      string
	CatalogFixturePath string
	DatabaseURL        string

	RedisAddr         string
	RedisPassword     string
	RedisTLS          bool
	BookingSessionTTL time.Duration

	AvailabilityHorizonDays int
	AvailabilityMaxResults  int

	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int

	// Email
	EmailProvider           string
	SendGridAPIKey          string
	EmailFromAddress        string
	EmailFromName           string
	ClinicNotificationEmail string

	// AWS (SES)
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: getEnv("TIMEZONE", "Australia/Sydney"),

		CatalogSource:      strings.ToLower(strings.TrimSpace(getEnv("CATALOG_SOURCE", CatalogSourceFixture))),
		CatalogFixturePath: getEnv("CATALOG_FIXTURE_PATH", ""),
		DatabaseURL:        getEnv("DATABASE_URL", ""),

		RedisAddr:         getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisTLS:          getEnvAsBool("REDIS_TLS", false),
		BookingSessionTTL: getEnvAsDuration("BOOKING_SESSION_TTL", 2*time.Hour),

		AvailabilityHorizonDays: getEnvAsInt("AVAILABILITY_HORIZON_DAYS", 45),
		AvailabilityMaxResults:  getEnvAsInt("AVAILABILITY_MAX_RESULTS", 5),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),

		EmailProvider:           strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", EmailProviderStub))),
		SendGridAPIKey:          getEnv("SENDGRID_API_KEY", ""),
		EmailFromAddress:        getEnv("EMAIL_FROM_ADDRESS", "bookings@dentalsuite.example"),
		EmailFromName:           getEnv("EMAIL_FROM_NAME", "DentalSuite"),
		ClinicNotificationEmail: getEnv("CLINIC_NOTIFICATION_EMAIL", ""),

		AWSRegion:           getEnv("AWS_REGION", "ap-southeast-2"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
	}
}

// Location resolves the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	if c == nil || c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
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

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
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

// getEnvAsList splits a comma-separated variable, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
