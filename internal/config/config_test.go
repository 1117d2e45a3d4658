package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// clearEnv isolates a test from variables set in the developer's shell
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvConfigPath, EnvDatabasePath, EnvLogLevel, EnvLogFormat, "XDG_CONFIG_HOME"} {
		t.Setenv(key, "")
	}
	t.Setenv("HOME", t.TempDir())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "./fwinventory.db", cfg.Database.Path)
	assert.Equal(t, 5*time.Second, cfg.Database.BusyTimeout.Duration())
	assert.Equal(t, 100, cfg.Database.PageSize)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Empty(t, cfg.Admin.Expose)
	assert.NoError(t, cfg.Validate())
}

func TestLoadWithoutFile(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, path, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "", path)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveAndLoad(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Database.Path = "/var/lib/fwinventory/inventory.db"
	cfg.Database.BusyTimeout = Duration(2 * time.Second)
	cfg.Logging.Level = "debug"
	cfg.Admin.Expose = []string{"firewall", "host"}
	require.NoError(t, cfg.Save(configPath))

	loaded, path, err := LoadFromPath(configPath)
	require.NoError(t, err)
	assert.Equal(t, configPath, path)
	assert.Equal(t, cfg, loaded)
}

func TestLoadAppliesDefaults(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("logging:\n  format: JSON\n"), 0644))

	cfg, _, err := LoadFromPath(configPath)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "./fwinventory.db", cfg.Database.Path)
	assert.Equal(t, 100, cfg.Database.PageSize)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("database:\n  path: file.db\nlogging:\n  level: info\n"), 0644))

	t.Setenv(EnvDatabasePath, "/tmp/override.db")
	t.Setenv(EnvLogLevel, "WARN")

	cfg, _, err := LoadFromPath(configPath)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", cfg.Database.Path)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"log level", "logging:\n  level: chatty\n"},
		{"log format", "logging:\n  format: xml\n"},
		{"page size", "database:\n  page_size: -1\n"},
		{"duration", "database:\n  busy_timeout: soon\n"},
		{"yaml syntax", "database: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(configPath, []byte(tt.yaml), 0644))

			_, _, err := LoadFromPath(configPath)
			assert.Error(t, err)
		})
	}
}

func TestFindConfigPath(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	assert.Equal(t, "", FindConfigPath())

	require.NoError(t, DefaultConfig().Save(filepath.Join(tmpDir, ConfigFileName)))
	found := FindConfigPath()
	assert.Equal(t, ConfigFileName, filepath.Base(found))

	t.Run("explicit path wins", func(t *testing.T) {
		explicit := filepath.Join(t.TempDir(), "explicit.yaml")
		require.NoError(t, DefaultConfig().Save(explicit))
		t.Setenv(EnvConfigPath, explicit)
		assert.Equal(t, explicit, FindConfigPath())
	})

	t.Run("missing explicit path falls back", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
		assert.Equal(t, found, FindConfigPath())
	})
}

func TestSearchPathsOrder(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfigPath, "/explicit.yaml")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	paths := SearchPaths()
	require.Len(t, paths, 5)
	assert.Equal(t, "/explicit.yaml", paths[0])
	assert.Equal(t, ConfigFileName, filepath.Base(paths[1]))
	assert.Equal(t, "/xdg/fwinventory/config.yaml", paths[2])
	assert.Equal(t, "/etc/fwinventory/config.yaml", paths[4])
	assert.Equal(t, "/xdg/fwinventory/config.yaml", DefaultConfigPath())
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FWINVENTORY_DB=/from/dotenv.db\n"), 0644))

	// Variables already set are not overridden; clearEnv set it to "".
	os.Unsetenv(EnvDatabasePath)
	require.NoError(t, LoadDotEnv(envFile, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "/from/dotenv.db", os.Getenv(EnvDatabasePath))
}

func TestDuration(t *testing.T) {
	d := Duration(5 * time.Minute)
	assert.Equal(t, 5*time.Minute, d.Duration())

	marshaled, err := d.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "5m0s", marshaled)
}

func TestDurationUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"busy_timeout: 250ms", 250 * time.Millisecond},
		{"busy_timeout: 3", 3 * time.Second},
		{"busy_timeout: 1m30s", 90 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var db DatabaseConfig
			require.NoError(t, yaml.Unmarshal([]byte(tt.in), &db))
			assert.Equal(t, tt.want, db.BusyTimeout.Duration())
		})
	}

	var db DatabaseConfig
	assert.Error(t, yaml.Unmarshal([]byte("busy_timeout: [1]"), &db))
}
