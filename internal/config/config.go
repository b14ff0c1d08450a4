// Package config loads server configuration from environment variables.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Web server
	Port string

	// Storage. Empty DBPath selects the in-memory store.
	DBPath string

	// Balance cache. Empty RedisAddr selects the in-process cache.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Session
	JWTSecret string

	// Assistant. Empty key disables the assistant endpoints.
	OpenAIAPIKey string

	// SMS delivery
	SMSEnabled        bool
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string
}

// Load reads configuration from the environment, with a .env file as
// fallback. All settings have working development defaults.
func Load() *Config {
	// Non-fatal if missing
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnvDefault("REDIS_DB", "0"))

	return &Config{
		Port:              getEnvDefault("PORT", "3001"),
		DBPath:            os.Getenv("DB_PATH"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           redisDB,
		JWTSecret:         getEnvDefault("JWT_SECRET", "dev-only-change-me"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		SMSEnabled:        os.Getenv("ENABLE_SMS") == "true",
		TwilioAccountSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioPhoneNumber: os.Getenv("TWILIO_PHONE_NUMBER"),
	}
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
