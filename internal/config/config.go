package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort       int
	DatabasePath     string
	SessionSecret    string
	SessionTTL       time.Duration
	GeminiAPIKey     string
	GeminiModel      string
	GeminiEndpoint   string
	InferenceTimeout time.Duration
	MaxImageBytes    int64
	SweepSchedule    string // standard cron expression
	LogLevel         string
	AppEnv           string
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	inferenceTimeout, err := time.ParseDuration(getEnv("INFERENCE_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid INFERENCE_TIMEOUT: %w", err)
	}

	maxImageBytes, err := strconv.ParseInt(getEnv("MAX_IMAGE_BYTES", "8388608"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_IMAGE_BYTES: %w", err)
	}

	return &Config{
		ServerPort:       port,
		DatabasePath:     getEnv("DATABASE_PATH", "./users.db"),
		SessionSecret:    getEnv("SESSION_SECRET", "change_this_secret"),
		SessionTTL:       sessionTTL,
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiEndpoint:   getEnv("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com"),
		InferenceTimeout: inferenceTimeout,
		MaxImageBytes:    maxImageBytes,
		SweepSchedule:    getEnv("SWEEP_SCHEDULE", "*/5 * * * *"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		AppEnv:           getEnv("APP_ENV", "development"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
