package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"mdinsert/internal/pipeline"
)

// Config holds all configuration for the application.
type Config struct {
	InsertParentPath   string
	InsertPath         string
	InsertPriority     int
	MarkdownExtensions []string
	MarkdownSafeMode   bool
	DBPath             string
	APIHost            string
	APIPort            string
	CORSAllowedOrigins []string
	LogLevel           slog.Level
	LogFormat          string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the rest.
// If a .env file exists in the current directory or a parent, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		InsertParentPath:   getEnv("INSERT_PARENT_PATH", "."),
		InsertPath:         getEnv("INSERT_PATH", "."),
		MarkdownExtensions: splitList(getEnv("MARKDOWN_EXTENSIONS", "gfm,linkify,tasklist")),
		DBPath:             getEnv("DB_PATH", "./data/mdinsert.db"),
		APIHost:            getEnv("API_HOST", "127.0.0.1"),
		APIPort:            getEnv("API_PORT", "9000"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	priority, err := strconv.Atoi(getEnv("INSERT_PRIORITY", "100"))
	if err != nil {
		return nil, fmt.Errorf("INSERT_PRIORITY must be a valid integer: %w", err)
	}
	if priority == 0 {
		return nil, fmt.Errorf("INSERT_PRIORITY must not be 0; leave it unset for the default of 100")
	}
	cfg.InsertPriority = priority

	for _, name := range cfg.MarkdownExtensions {
		if !pipeline.KnownExtension(name) {
			return nil, fmt.Errorf("MARKDOWN_EXTENSIONS contains unknown extension %q", name)
		}
	}

	safeMode, err := strconv.ParseBool(getEnv("MARKDOWN_SAFE_MODE", "false"))
	if err != nil {
		return nil, fmt.Errorf("MARKDOWN_SAFE_MODE must be a boolean: %w", err)
	}
	cfg.MarkdownSafeMode = safeMode

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	info, err := os.Stat(cfg.InsertParentPath)
	if err != nil {
		return nil, fmt.Errorf("INSERT_PARENT_PATH is not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("INSERT_PARENT_PATH must be a directory: %s", cfg.InsertParentPath)
	}

	// Create the database directory if it doesn't exist
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
