package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CAREASSESS_ADDR", "CAREASSESS_LOG_LEVEL", "CAREASSESS_API_KEY",
	"CAREASSESS_LEAD_REPOSITORY", "DATABASE_URL", "CAREASSESS_SQLITE_PATH",
	"FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "FIREBASE_DATABASE_URL",
	"S3_BUCKET", "S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY",
	"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "careassess.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
  shutdown_timeout: 3s
logging:
  level: debug
  format: console
leads:
  repository: sqlite
  sqlite_path: /tmp/leads.db
session:
  ttl: 30m
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "/assessment", cfg.Server.BasePath, "unset keys keep defaults")
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, RepositorySQLite, cfg.Leads.Repository)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	require.NoError(t, cfg.Validate())
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse")
}

func TestEnvOverrides(t *testing.T) {
	t.Run("database url selects postgres", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATABASE_URL", "postgres://localhost/leads")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, RepositoryPostgres, cfg.Leads.Repository)
		assert.Equal(t, "postgres://localhost/leads", cfg.Leads.DatabaseURL)
	})

	t.Run("explicit repository wins", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATABASE_URL", "postgres://localhost/leads")
		t.Setenv("CAREASSESS_LEAD_REPOSITORY", "SQLite")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, RepositorySQLite, cfg.Leads.Repository)
	})

	t.Run("sinks are enabled by their settings", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("FIREBASE_DATABASE_URL", "https://example.firebaseio.com")
		t.Setenv("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "/secrets/sa.json")
		t.Setenv("S3_BUCKET", "leads-archive")
		t.Setenv("S3_ENDPOINT", "https://r2.example.com")
		t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
		t.Setenv("TELEGRAM_CHAT_ID", "-10042")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.True(t, cfg.Delivery.Firebase.Enabled)
		assert.Equal(t, "/secrets/sa.json", cfg.Delivery.Firebase.CredentialsFile)
		assert.True(t, cfg.Delivery.S3.Enabled)
		assert.Equal(t, "https://r2.example.com", cfg.Delivery.S3.Endpoint)
		assert.True(t, cfg.Delivery.Telegram.Enabled)
		assert.Equal(t, int64(-10042), cfg.Delivery.Telegram.TelegramChatID())
		require.NoError(t, cfg.Validate())
	})

	t.Run("telegram needs both token and chat", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.False(t, cfg.Delivery.Telegram.Enabled)
	})

	t.Run("server settings", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CAREASSESS_ADDR", ":7000")
		t.Setenv("CAREASSESS_LOG_LEVEL", "warn")
		t.Setenv("CAREASSESS_API_KEY", "secret")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, ":7000", cfg.Server.Addr)
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.Equal(t, "secret", cfg.Server.APIKey)
	})
}

func TestTelegramChatID_ChannelName(t *testing.T) {
	assert.Equal(t, "@staff", TelegramConfig{ChatID: "@staff"}.TelegramChatID())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown repository", func(c *Config) { c.Leads.Repository = "mongo" }, "leads.repository"},
		{"postgres without url", func(c *Config) { c.Leads.Repository = RepositoryPostgres }, "leads.database_url"},
		{"sqlite without path", func(c *Config) { c.Leads.Repository = RepositorySQLite; c.Leads.SQLitePath = "" }, "leads.sqlite_path"},
		{"firebase without url", func(c *Config) { c.Delivery.Firebase.Enabled = true }, "delivery.firebase.database_url"},
		{"s3 without bucket", func(c *Config) { c.Delivery.S3.Enabled = true }, "delivery.s3.bucket"},
		{"s3 half credentials", func(c *Config) {
			c.Delivery.S3.Enabled = true
			c.Delivery.S3.Bucket = "b"
			c.Delivery.S3.AccessKey = "id"
		}, "access and secret keys"},
		{"telegram without chat", func(c *Config) {
			c.Delivery.Telegram.Enabled = true
			c.Delivery.Telegram.Token = "t"
		}, "delivery.telegram.chat_id"},
		{"negative duration", func(c *Config) { c.Leads.SinkTimeout = -time.Second }, "leads.sink_timeout"},
		{"zero ttl", func(c *Config) { c.Session.TTL = 0 }, "session.ttl"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"relative base path", func(c *Config) { c.Server.BasePath = "assessment" }, "server.base_path"},
		{"root base path", func(c *Config) { c.Server.BasePath = "/" }, "below '/'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("S3_BUCKET=from-dotenv\nCAREASSESS_ADDR=:6000\n"), 0o600))
	t.Setenv("CAREASSESS_ADDR", ":5000")
	require.NoError(t, os.Unsetenv("S3_BUCKET"))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "absent.env"), path))
	assert.Equal(t, "from-dotenv", os.Getenv("S3_BUCKET"))
	assert.Equal(t, ":5000", os.Getenv("CAREASSESS_ADDR"), "existing variables are kept")

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "absent.env")))
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "careassess.yaml")
	cfg := DefaultConfig()
	cfg.Server.Addr = ":1234"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
