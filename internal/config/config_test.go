package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// setEnv sets an environment variable, ignoring errors (for test setup)
func setEnv(key, value string) {
	_ = os.Setenv(key, value)
}

// unsetEnv unsets an environment variable, ignoring errors (for test cleanup)
func unsetEnv(key string) {
	_ = os.Unsetenv(key)
}

var envVars = []string{
	"INSERT_PARENT_PATH", "INSERT_PATH", "INSERT_PRIORITY",
	"MARKDOWN_EXTENSIONS", "MARKDOWN_SAFE_MODE",
	"DB_PATH", "API_PORT", "LOG_LEVEL", "LOG_FORMAT",
}

func TestLoad(t *testing.T) {
	// Save original env vars
	originalEnv := make(map[string]string)
	for _, key := range envVars {
		originalEnv[key] = os.Getenv(key)
		unsetEnv(key)
	}
	defer func() {
		for key, value := range originalEnv {
			if value != "" {
				setEnv(key, value)
			} else {
				unsetEnv(key)
			}
		}
	}()

	tests := []struct {
		name        string
		setupEnv    func(*testing.T)
		wantErr     bool
		checkConfig func(*Config) bool
	}{
		{
			name:     "default values",
			setupEnv: func(t *testing.T) {},
			wantErr:  false,
			checkConfig: func(cfg *Config) bool {
				return cfg.InsertParentPath == "." &&
					cfg.InsertPath == "." &&
					cfg.InsertPriority == 100 &&
					reflect.DeepEqual(cfg.MarkdownExtensions, []string{"gfm", "linkify", "tasklist"}) &&
					!cfg.MarkdownSafeMode &&
					cfg.DBPath == "./data/mdinsert.db" &&
					cfg.APIHost == "127.0.0.1" &&
					cfg.APIPort == "9000" &&
					cfg.CORSAllowedOrigins == nil &&
					cfg.LogLevel == slog.LevelInfo &&
					cfg.LogFormat == "text"
			},
		},
		{
			name: "custom values",
			setupEnv: func(t *testing.T) {
				parent := t.TempDir()
				setEnv("INSERT_PARENT_PATH", parent)
				setEnv("INSERT_PATH", "snippets")
				setEnv("INSERT_PRIORITY", "250")
				setEnv("MARKDOWN_EXTENSIONS", " table, footnote ,,")
				setEnv("MARKDOWN_SAFE_MODE", "true")
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "custom", "db.db"))
				setEnv("API_HOST", "0.0.0.0")
				setEnv("API_PORT", "8080")
				setEnv("CORS_ALLOWED_ORIGINS", "https://docs.example, http://localhost:3000")
				setEnv("LOG_LEVEL", "debug")
				setEnv("LOG_FORMAT", "JSON")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.InsertPath == "snippets" &&
					cfg.InsertPriority == 250 &&
					reflect.DeepEqual(cfg.MarkdownExtensions, []string{"table", "footnote"}) &&
					cfg.MarkdownSafeMode &&
					filepath.Base(cfg.DBPath) == "db.db" &&
					cfg.APIHost == "0.0.0.0" &&
					cfg.APIPort == "8080" &&
					reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"https://docs.example", "http://localhost:3000"}) &&
					cfg.LogLevel == slog.LevelDebug &&
					cfg.LogFormat == "json"
			},
		},
		{
			name: "invalid INSERT_PRIORITY",
			setupEnv: func(t *testing.T) {
				setEnv("INSERT_PRIORITY", "high")
			},
			wantErr: true,
		},
		{
			name: "zero INSERT_PRIORITY",
			setupEnv: func(t *testing.T) {
				setEnv("INSERT_PRIORITY", "0")
			},
			wantErr: true,
		},
		{
			name: "negative INSERT_PRIORITY",
			setupEnv: func(t *testing.T) {
				setEnv("INSERT_PRIORITY", "-5")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.InsertPriority == -5
			},
		},
		{
			name: "unknown MARKDOWN_EXTENSIONS entry",
			setupEnv: func(t *testing.T) {
				setEnv("MARKDOWN_EXTENSIONS", "table,mermaid")
			},
			wantErr: true,
		},
		{
			name: "invalid MARKDOWN_SAFE_MODE",
			setupEnv: func(t *testing.T) {
				setEnv("MARKDOWN_SAFE_MODE", "sometimes")
			},
			wantErr: true,
		},
		{
			name: "invalid LOG_LEVEL",
			setupEnv: func(t *testing.T) {
				setEnv("LOG_LEVEL", "loud")
			},
			wantErr: true,
		},
		{
			name: "invalid LOG_FORMAT",
			setupEnv: func(t *testing.T) {
				setEnv("LOG_FORMAT", "xml")
			},
			wantErr: true,
		},
		{
			name: "missing INSERT_PARENT_PATH directory",
			setupEnv: func(t *testing.T) {
				setEnv("INSERT_PARENT_PATH", filepath.Join(t.TempDir(), "missing"))
			},
			wantErr: true,
		},
		{
			name: "INSERT_PARENT_PATH is a file",
			setupEnv: func(t *testing.T) {
				file := filepath.Join(t.TempDir(), "file.md")
				if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
					t.Fatalf("Failed to create file: %v", err)
				}
				setEnv("INSERT_PARENT_PATH", file)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Change to a temp directory without .env file to avoid loading it
			tmpDir := t.TempDir()
			originalWd, _ := os.Getwd()
			_ = os.Chdir(tmpDir)
			defer func() {
				_ = os.Chdir(originalWd)
			}()

			for _, key := range envVars {
				unsetEnv(key)
			}
			defer func() {
				for _, key := range envVars {
					unsetEnv(key)
				}
			}()

			tt.setupEnv(t)

			cfg, err := Load()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Load() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("Load() unexpected error: %v", err)
				return
			}

			if cfg == nil {
				t.Fatal("Load() returned nil config")
			}

			if tt.checkConfig != nil && !tt.checkConfig(cfg) {
				t.Errorf("Load() config validation failed: %+v", cfg)
			}
		})
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	for _, key := range envVars {
		t.Setenv(key, "")
		unsetEnv(key)
	}

	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("INSERT_PATH=from-dotenv\nAPI_PORT=7000\n"), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}
	nested := filepath.Join(tmpDir, "docs", "guide")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}

	originalWd, _ := os.Getwd()
	_ = os.Chdir(nested)
	defer func() {
		_ = os.Chdir(originalWd)
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.InsertPath != "from-dotenv" || cfg.APIPort != "7000" {
		t.Errorf("Load() = %+v, want values from .env", cfg)
	}
}

func TestLoad_CreatesDataDirectory(t *testing.T) {
	for _, key := range envVars {
		t.Setenv(key, "")
		unsetEnv(key)
	}

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test", "db.db")
	setEnv("DB_PATH", dbPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	dir := filepath.Dir(dbPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Errorf("Load() should create data directory: %v", err)
	}

	if cfg.DBPath != dbPath {
		t.Errorf("Load() DBPath = %v, want %v", cfg.DBPath, dbPath)
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		defaultValue string
		want         string
	}{
		{name: "env var set", value: "set-value", defaultValue: "default", want: "set-value"},
		{name: "empty env var uses default", value: "", defaultValue: "default", want: "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_ENV_VAR", tt.value)
			if got := getEnv("TEST_ENV_VAR", tt.defaultValue); got != tt.want {
				t.Errorf("getEnv(%q) = %q, want %q", tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	if got := splitList(" a, ,b ,"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("splitList() = %q, want [a b]", got)
	}
	if got := splitList(""); got != nil {
		t.Errorf("splitList(\"\") = %q, want nil", got)
	}
}
