package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ApiBaseUrl string
	ApiTimeout time.Duration

	WebBaseUrl string // hosted web app, used for login redirects and payment pages

	PollAttempts int           // max enrollment polls after payment
	PollInterval time.Duration // delay between polls

	PaymentCallbackPort string // local port the hosted payment page redirects back to

	CacheDBName string // sqlite file for the local progress/watch cache

	AutosaveSpec string // cron spec for the watch autosave flusher
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	// Initialize AppConfig with values from environment variables
	AppConfig = &Config{
		ApiBaseUrl: getEnv("API_BASE_URL", "http://localhost:5000/api"),
		ApiTimeout: getEnvDuration("API_TIMEOUT", 15*time.Second),

		WebBaseUrl: getEnv("WEB_BASE_URL", "http://localhost:5173"),

		PollAttempts: getEnvInt("POLL_ATTEMPTS", 10),
		PollInterval: getEnvDuration("POLL_INTERVAL", 2*time.Second),

		PaymentCallbackPort: getEnv("PAYMENT_CALLBACK_PORT", "4242"),

		CacheDBName: getEnv("CACHE_DB_NAME", "lmsCache.db"),

		AutosaveSpec: getEnv("AUTOSAVE_SPEC", "@every 30s"),
	}

	// Validate critical configuration
	if AppConfig.PollAttempts < 1 {
		log.Println("Warning: POLL_ATTEMPTS must be at least 1. Falling back to 10.")
		AppConfig.PollAttempts = 10
	}
	if AppConfig.CacheDBName == "lmsCache.db" {
		log.Println("Warning: Using default CACHE_DB_NAME. Update it in your environment.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

// getEnvDuration retrieves an environment variable as a duration or returns the default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to duration: %v", key, err)
		return defaultValue
	}
	return d
}
