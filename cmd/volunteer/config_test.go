package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Config Loading Tests
// =============================================================================

func TestLoadConfig_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "data/volunteers.db", cfg.Database.DSN)
	assert.Equal(t, "./static", cfg.Static.Dir)
	assert.Equal(t, 128, cfg.Cache.Size)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfig_FromFile(t *testing.T) {
	clearEnv(t)

	configContent := `
server:
  host: "127.0.0.1"
  port: 9000
  read_timeout: 60s
  write_timeout: 60s
  shutdown_timeout: 15s

database:
  dsn: "/tmp/test.db"

static:
  dir: "/srv/www"

cache:
  size: 0

cors:
  allowed_origins:
    - "https://example.org"
  max_age: 600

log:
  level: "debug"
  format: "text"
`
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(configContent), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "/tmp/test.db", cfg.Database.DSN)
	assert.Equal(t, "/srv/www", cfg.Static.Dir)
	assert.Equal(t, 0, cfg.Cache.Size)
	assert.Equal(t, []string{"https://example.org"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 600, cfg.CORS.MaxAge)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadConfig_EnvironmentOverride(t *testing.T) {
	clearEnv(t)

	t.Setenv("VOLUNTEER_SERVER_HOST", "192.168.1.1")
	t.Setenv("VOLUNTEER_SERVER_PORT", "3000")
	t.Setenv("VOLUNTEER_DATABASE_DSN", "/custom/path.db")
	t.Setenv("VOLUNTEER_CACHE_SIZE", "16")
	t.Setenv("VOLUNTEER_LOG_LEVEL", "warn")
	t.Setenv("VOLUNTEER_LOG_FORMAT", "text")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.1", cfg.Server.Host)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "/custom/path.db", cfg.Database.DSN)
	assert.Equal(t, 16, cfg.Cache.Size)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadConfig_DataDirDerivesDSN(t *testing.T) {
	clearEnv(t)

	t.Setenv("VOLUNTEER_DATA_DIR", "/var/lib/volunteer")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/volunteer/volunteers.db", cfg.Database.DSN)
}

func TestLoadConfig_ExplicitDSNOverridesDataDir(t *testing.T) {
	clearEnv(t)

	t.Setenv("VOLUNTEER_DATA_DIR", "/var/lib/volunteer")
	t.Setenv("VOLUNTEER_DATABASE_DSN", "/custom/path.db")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "/custom/path.db", cfg.Database.DSN)
}

func TestLoadConfig_DriverIsCaseInsensitive(t *testing.T) {
	clearEnv(t)

	t.Setenv("VOLUNTEER_DATABASE_DRIVER", "SQLite")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "data/volunteers.db", cfg.Database.DSN)
}

func TestLoadConfig_PostgresRequiresDSN(t *testing.T) {
	clearEnv(t)

	t.Setenv("VOLUNTEER_DATABASE_DRIVER", "postgres")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.dsn")
}

func TestLoadConfig_UnsupportedDriver(t *testing.T) {
	clearEnv(t)

	t.Setenv("VOLUNTEER_DATABASE_DRIVER", "mongodb")
	t.Setenv("VOLUNTEER_DATABASE_DSN", "mongodb://localhost")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestLoadConfig_FileNotFound_UsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 5000, cfg.Server.Port)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	clearEnv(t)

	tmpFile := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("invalid: yaml: content: [[["), 0644))

	_, err := LoadConfig(tmpFile)
	assert.Error(t, err)
}

// =============================================================================
// Config Validation Tests
// =============================================================================

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 5000},
			Database: DatabaseConfig{Driver: "sqlite", DSN: ":memory:"},
		}
	}

	cfg := valid()
	assert.NoError(t, cfg.Validate())

	cfg = valid()
	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Database.DSN = ""
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Cache.Size = -1
	assert.Error(t, cfg.Validate())
}

func TestConfig_Address(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 5000,
		},
	}

	assert.Equal(t, "localhost:5000", cfg.Server.Address())
}

// =============================================================================
// Dotenv Tests
// =============================================================================

func TestLoadDotEnv_SetsEnvironment(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("VOLUNTEER_SERVER_PORT=7000\nVOLUNTEER_LOG_LEVEL=debug\n"), 0644))

	require.NoError(t, LoadDotEnv(envFile))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadDotEnv_DoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("VOLUNTEER_SERVER_PORT", "6000")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("VOLUNTEER_SERVER_PORT=7000\n"), 0644))

	require.NoError(t, LoadDotEnv(envFile))
	assert.Equal(t, "6000", os.Getenv("VOLUNTEER_SERVER_PORT"))
}

func TestLoadDotEnv_MissingFileIgnored(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
	assert.NoError(t, LoadDotEnv(""))
}

// =============================================================================
// Logger Setup Tests
// =============================================================================

func TestSetupLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "text"} {
		logger := SetupLogger(&Config{Log: LogConfig{Level: "info", Format: format}})
		assert.NotNil(t, logger, format)
	}
}

func TestSetupLogger_Levels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "invalid"} {
		logger := SetupLogger(&Config{Log: LogConfig{Level: level, Format: "json"}})
		assert.NotNil(t, logger, level)
	}
}

func TestSetupLogger_DebugEnabled(t *testing.T) {
	logger := SetupLogger(&Config{Log: LogConfig{Level: "debug"}})
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))

	logger = SetupLogger(&Config{Log: LogConfig{Level: "bogus"}})
	assert.False(t, logger.Enabled(t.Context(), slog.LevelDebug))
}

// =============================================================================
// Test Helpers
// =============================================================================

// clearEnv unsets every VOLUNTEER_ variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"VOLUNTEER_SERVER_HOST",
		"VOLUNTEER_SERVER_PORT",
		"VOLUNTEER_DATABASE_DRIVER",
		"VOLUNTEER_DATABASE_DSN",
		"VOLUNTEER_DATA_DIR",
		"VOLUNTEER_STATIC_DIR",
		"VOLUNTEER_CACHE_SIZE",
		"VOLUNTEER_LOG_LEVEL",
		"VOLUNTEER_LOG_FORMAT",
	}
	for _, v := range envVars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}
