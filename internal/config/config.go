package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	TwelveAPIKey    string        // TWELVE_API_KEY
	BaseURL         string        // TWELVE_BASE_URL
	RequestTimeout  time.Duration // REQUEST_TIMEOUT (seconds)
	RequestsPerSec  int           // REQUESTS_PER_SEC
	CacheTTL        time.Duration // CACHE_TTL (seconds)
	ListenAddr      string        // LISTEN_ADDR
	DBPath          string        // DB_PATH
	RefreshCron     string        // REFRESH_CRON
	RefreshDisabled bool          // REFRESH_DISABLED
	LogLevel        string        // LOG_LEVEL
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := &Config{
		TwelveAPIKey:    os.Getenv("TWELVE_API_KEY"),
		BaseURL:         getEnvWithDefault("TWELVE_BASE_URL", "https://api.twelvedata.com"),
		RequestTimeout:  time.Duration(getEnvIntWithDefault("REQUEST_TIMEOUT", 30)) * time.Second,
		RequestsPerSec:  getEnvIntWithDefault("REQUESTS_PER_SEC", 5),
		CacheTTL:        time.Duration(getEnvIntWithDefault("CACHE_TTL", 60)) * time.Second,
		ListenAddr:      getEnvWithDefault("LISTEN_ADDR", ":8080"),
		DBPath:          getEnvWithDefault("DB_PATH", "./data/etfpulse.db"),
		RefreshCron:     getEnvWithDefault("REFRESH_CRON", "@every 5m"),
		RefreshDisabled: getEnvBoolWithDefault("REFRESH_DISABLED", false),
		LogLevel:        getEnvWithDefault("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
