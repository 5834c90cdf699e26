// Package settings contains everything related to library configuration.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Settings holds the library configuration.
type Settings struct {
	MinGroup  int
	ExportDir string
	NoColor   bool
}

// Default values
const (
	defaultMinGroup = 5
)

// Load reads configuration from .env files and environment variables.
func Load() (*Settings, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	s := &Settings{
		MinGroup:  getEnvInt("VIVAINSIGHTS_MIN_GROUP", defaultMinGroup),
		ExportDir: getEnvString("VIVAINSIGHTS_EXPORT_DIR", getDefaultExportDir()),
		NoColor:   getEnvBool("VIVAINSIGHTS_NO_COLOR", getEnvBool("NO_COLOR", false)),
	}

	if s.MinGroup < 1 {
		return nil, fmt.Errorf("VIVAINSIGHTS_MIN_GROUP must be at least 1, got %d", s.MinGroup)
	}

	// Ensure export directory exists
	if err := ensureDir(s.ExportDir); err != nil {
		return nil, err
	}

	return s, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "vivainsights", ".env"),
			filepath.Join(home, ".vivainsights", ".env"),
		)
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
	}

	return paths
}

// getDefaultExportDir returns the default directory for exported files.
func getDefaultExportDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
// Any non-empty value other than "0" and "false" counts as true.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		return true
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
