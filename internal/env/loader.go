// Package env provides utilities for loading environment variables
// from .env files and reading overrides with fallbacks.
package env

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names recognized by eventlens. These override
// the corresponding config file values when set.
const (
	// VarDBPath overrides database.path
	VarDBPath = "EVENTLENS_DB_PATH"

	// VarLogLevel overrides log.level
	VarLogLevel = "EVENTLENS_LOG_LEVEL"

	// VarLogFormat overrides log.format
	VarLogFormat = "EVENTLENS_LOG_FORMAT"
)

// LoadEnvFiles loads environment variables from a .env file in the
// working directory when one exists. A missing file is not an error;
// the file is a convenience for local development, not a requirement.
func LoadEnvFiles() error {
	const envFile = ".env"

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		return nil
	}

	if err := godotenv.Overload(envFile); err != nil {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	return nil
}

// GetEnvWithFallback gets an environment variable with a fallback value
func GetEnvWithFallback(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
