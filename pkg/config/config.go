// Package config provides configuration management for bookkeeper.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	Storage  StorageConfig
	Document DocumentConfig
	Log      LogConfig
	Debug    bool
}

// StorageConfig represents where data and rendered documents live.
type StorageConfig struct {
	Root         string
	DBPath       string
	DocumentsDir string
}

// DocumentConfig represents rendering defaults.
type DocumentConfig struct {
	LogoPath     string
	ProfilesPath string
	Profile      string
	AccentColor  string
}

// LogConfig represents logger settings.
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	debug := os.Getenv("DEBUG") == "true"
	level := getEnvOrDefault("LOG_LEVEL", "info")
	if debug {
		level = "debug"
	}

	config := &Config{
		Storage: StorageConfig{
			Root:         getEnvOrDefault("BOOKKEEPER_ROOT", "."),
			DBPath:       os.Getenv("BOOKKEEPER_DB_PATH"),
			DocumentsDir: os.Getenv("BOOKKEEPER_DOCUMENTS_DIR"),
		},
		Document: DocumentConfig{
			LogoPath:     os.Getenv("BOOKKEEPER_LOGO_PATH"),
			ProfilesPath: os.Getenv("BOOKKEEPER_PROFILES"),
			Profile:      getEnvOrDefault("BOOKKEEPER_PROFILE", "business"),
			AccentColor:  getEnvOrDefault("BOOKKEEPER_ACCENT_COLOR", "#2b5797"),
		},
		Log: LogConfig{
			Level:  level,
			Format: getEnvOrDefault("LOG_FORMAT", "console"),
			Output: getEnvOrDefault("LOG_OUTPUT", "stderr"),
		},
		Debug: debug,
	}

	return config, nil
}

// Validate checks that every required key, given as "section.field", is set.
func (c *Config) Validate(required ...string) error {
	var missing []string

	for _, key := range required {
		var value string
		switch key {
		case "storage.root":
			value = c.Storage.Root
		case "storage.dbPath":
			value = c.Storage.DBPath
		case "storage.documentsDir":
			value = c.Storage.DocumentsDir
		case "document.logoPath":
			value = c.Document.LogoPath
		case "document.profilesPath":
			value = c.Document.ProfilesPath
		case "document.profile":
			value = c.Document.Profile
		default:
			return fmt.Errorf("unknown configuration key: %s", key)
		}

		if value == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s\nPlease check your .env file or environment variables", strings.Join(missing, ", "))
	}

	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
