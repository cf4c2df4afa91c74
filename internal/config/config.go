package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/store"
)

// DefaultSheetURL is the school's published spreadsheet script.
const DefaultSheetURL = "https://script.google.com/macros/s/AKfycbwUEynctnLs0FtwcCSYqfSIyDbHONbFaqJYXbBD5CYwf_7jsxUheQr8O7yAjAKDDZOpyA/exec"

const (
	EnvConfigDir   = "MAKLUMAT_CONFIG_DIR"
	EnvSheetURL    = "MAKLUMAT_SHEET_URL"
	EnvFallbackCSV = "MAKLUMAT_FALLBACK_CSV"
	EnvLogLevel    = "MAKLUMAT_LOG_LEVEL"
	EnvHTTPTimeout = "MAKLUMAT_HTTP_TIMEOUT_SECONDS"
	EnvAddr        = "MAKLUMAT_ADDR"
	EnvFormat      = "MAKLUMAT_FORMAT"
)

type Config struct {
	// Dir holds the settings database and the TUI log.
	Dir string
	// SheetURL is the endpoint used when no URL has been stored with "remote connect".
	SheetURL string
	// FallbackCSV optionally replaces the built-in roster snapshot.
	FallbackCSV string
	LogLevel    string
	HTTPTimeout time.Duration
	// Addr is where "serve" listens.
	Addr   string
	Format string
}

// Load reads configuration from the environment. A .env file in the working directory and
// one in the state directory are loaded first if present; real environment variables win.
func Load() (*Config, error) {
	loadDotenv(".env")

	dir, err := store.ConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	loadDotenv(filepath.Join(dir, ".env"))

	cfg := &Config{
		Dir:         dir,
		SheetURL:    getEnv(EnvSheetURL, DefaultSheetURL),
		FallbackCSV: getEnv(EnvFallbackCSV, ""),
		LogLevel:    getEnv(EnvLogLevel, "info"),
		HTTPTimeout: time.Duration(getEnvAsInt(EnvHTTPTimeout, 30)) * time.Second,
		Addr:        getEnv(EnvAddr, "127.0.0.1:8088"),
		Format:      getEnv(EnvFormat, "json"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Dir) == "" {
		return errors.New(EnvConfigDir + " resolved to an empty path")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvHTTPTimeout)
	}
	switch c.Format {
	case "json", "table":
	default:
		return fmt.Errorf("%s must be json or table, got %q", EnvFormat, c.Format)
	}
	return nil
}

// LogPath is where the TUI writes its log while it owns the terminal.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, "maklumat.log")
}

// loadDotenv loads path if it exists. godotenv never overrides variables already set.
func loadDotenv(path string) {
	if st, err := os.Stat(path); err != nil || st.IsDir() {
		return
	}
	_ = godotenv.Load(path)
}

func getEnv(key string, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
