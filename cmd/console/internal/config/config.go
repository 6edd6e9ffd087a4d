// Package config resolves the admin console's settings from the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds console configuration.
type Config struct {
	APIURL          string        // base URL of services/api
	TokenPath       string        // where the admin token is kept between runs
	LogPath         string        // the TUI owns the terminal, so logs go to a file
	DatasetPath     string        // optional fallback dataset override
	RefreshInterval time.Duration // background re-fetch period
	Offline         bool          // serve the fallback dataset, no API calls
}

// Load reads TRIPMARKET_* variables, after an optional .env file.
func Load() *Config {
	_ = godotenv.Load()

	dir := defaultDir()
	return &Config{
		APIURL:          getEnv("TRIPMARKET_API_URL", "http://localhost:8080"),
		TokenPath:       getEnv("TRIPMARKET_TOKEN_PATH", filepath.Join(dir, "token.json")),
		LogPath:         getEnv("TRIPMARKET_LOG_PATH", filepath.Join(dir, "console.log")),
		DatasetPath:     getEnv("TRIPMARKET_DATASET", ""),
		RefreshInterval: getEnvDuration("TRIPMARKET_REFRESH_INTERVAL", 30*time.Second),
		Offline:         getEnvBool("TRIPMARKET_OFFLINE", false),
	}
}

func defaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "tripmarket")
	}
	return ".tripmarket"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
