// Package config provides configuration management for fwinventory.
//
// Settings come from, in increasing precedence: built-in defaults, the
// config file, a .env file and the process environment.
//
// Config file locations (priority order):
//  1. $FWINVENTORY_CONFIG
//  2. ./fwinventory.yaml
//  3. $XDG_CONFIG_HOME/fwinventory/config.yaml
//  4. ~/.config/fwinventory/config.yaml
//  5. /etc/fwinventory/config.yaml
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// EnvDatabasePath overrides database.path
	EnvDatabasePath = "FWINVENTORY_DB"
	// EnvLogLevel overrides logging.level
	EnvLogLevel = "FWINVENTORY_LOG_LEVEL"
	// EnvLogFormat overrides logging.format
	EnvLogFormat = "FWINVENTORY_LOG_FORMAT"
)

const (
	defaultDatabasePath = "./fwinventory.db"
	defaultBusyTimeout  = 5 * time.Second
	defaultPageSize     = 100
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Load finds and loads the config file, or returns defaults if none found.
// Environment overrides are applied in both cases.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		cfg := DefaultConfig()
		cfg.applyEnv()
		return cfg, "", cfg.Validate()
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, path, nil
}

// LoadDotEnv loads KEY=value pairs from the given files (default ".env")
// into the environment without overriding variables already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Database: DatabaseConfig{
			Path:        defaultDatabasePath,
			BusyTimeout: Duration(defaultBusyTimeout),
			PageSize:    defaultPageSize,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Database.Path == "" {
		c.Database.Path = defaultDatabasePath
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = Duration(defaultBusyTimeout)
	}
	if c.Database.PageSize == 0 {
		c.Database.PageSize = defaultPageSize
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// applyEnv overlays environment variables onto the loaded values
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDatabasePath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
}

// Validate checks enumerated and numeric settings
func (c *Config) Validate() error {
	if !slices.Contains(logLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level %q must be one of %s", c.Logging.Level, strings.Join(logLevels, ", "))
	}
	if !slices.Contains(logFormats, c.Logging.Format) {
		return fmt.Errorf("logging.format %q must be one of %s", c.Logging.Format, strings.Join(logFormats, ", "))
	}
	if c.Database.PageSize < 0 {
		return fmt.Errorf("database.page_size must not be negative")
	}
	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("database.busy_timeout must not be negative")
	}
	return nil
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Database: %s (busy timeout %s, page size %d)\n",
		c.Database.Path, c.Database.BusyTimeout.Duration(), c.Database.PageSize)
	summary += fmt.Sprintf("Logging: level=%s format=%s", c.Logging.Level, c.Logging.Format)
	if c.Logging.File != "" {
		summary += fmt.Sprintf(" file=%s", c.Logging.File)
	}
	if len(c.Admin.Expose) > 0 {
		summary += fmt.Sprintf("\nExposed types: %s", strings.Join(c.Admin.Expose, ", "))
	}
	return summary
}
