// Package config loads service settings from YAML with environment
// overrides.
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
	"gopkg.in/yaml.v3"
)

// Lead repository kinds.
const (
	RepositoryMemory   = "memory"
	RepositorySQLite   = "sqlite"
	RepositoryPostgres = "postgres"
)

// Config is the root configuration document.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Assessment AssessmentConfig `yaml:"assessment"`
	Session    SessionConfig    `yaml:"session"`
	Leads      LeadsConfig      `yaml:"leads"`
	Delivery   DeliveryConfig   `yaml:"delivery"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	BasePath        string        `yaml:"base_path"`
	APIPath         string        `yaml:"api_path"`
	APIKey          string        `yaml:"api_key"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json | console
}

// AssessmentConfig points at optional content and presentation overrides.
type AssessmentConfig struct {
	ContentDir   string `yaml:"content_dir"`
	TemplatesDir string `yaml:"templates_dir"`
	ThemeVariant string `yaml:"theme_variant"`
}

type SessionConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	CookieName    string        `yaml:"cookie_name"`
	SecureCookie  bool          `yaml:"secure_cookie"`
}

type LeadsConfig struct {
	Repository  string        `yaml:"repository"`
	SQLitePath  string        `yaml:"sqlite_path"`
	DatabaseURL string        `yaml:"database_url"`
	MaxConns    int32         `yaml:"max_conns"`
	SinkTimeout time.Duration `yaml:"sink_timeout"`
}

type DeliveryConfig struct {
	Firebase FirebaseConfig `yaml:"firebase"`
	S3       S3Config       `yaml:"s3"`
	Telegram TelegramConfig `yaml:"telegram"`
}

type FirebaseConfig struct {
	Enabled         bool   `yaml:"enabled"`
	CredentialsFile string `yaml:"credentials_file"`
	DatabaseURL     string `yaml:"database_url"`
	Ref             string `yaml:"ref"`
}

type S3Config struct {
	Enabled   bool   `yaml:"enabled"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

type TelegramConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
	ChatID  string `yaml:"chat_id"`
}

// DefaultConfig returns a configuration that runs with in-memory storage and
// no external sinks.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			BasePath:        "/assessment",
			APIPath:         "/api/assessment",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Assessment: AssessmentConfig{
			ThemeVariant: "default",
		},
		Session: SessionConfig{
			TTL:           2 * time.Hour,
			SweepInterval: 5 * time.Minute,
			CookieName:    "careassess_session",
		},
		Leads: LeadsConfig{
			Repository:  RepositoryMemory,
			SQLitePath:  "careassess.db",
			MaxConns:    10,
			SinkTimeout: 10 * time.Second,
		},
		Delivery: DeliveryConfig{
			Firebase: FirebaseConfig{Ref: "leads"},
			S3:       S3Config{Prefix: "leads", Region: "auto"},
		},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadDotEnv loads the given .env files into the process environment. Files
// that do not exist are skipped; variables already set are kept.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("config: load env files: %w", err)
	}
	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CAREASSESS_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("CAREASSESS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CAREASSESS_API_KEY"); v != "" {
		c.Server.APIKey = v
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Leads.DatabaseURL = v
		if c.Leads.Repository == RepositoryMemory {
			c.Leads.Repository = RepositoryPostgres
		}
	}
	if v := os.Getenv("CAREASSESS_SQLITE_PATH"); v != "" {
		c.Leads.SQLitePath = v
	}
	// An explicit repository choice wins over what DATABASE_URL implied.
	if v := os.Getenv("CAREASSESS_LEAD_REPOSITORY"); v != "" {
		c.Leads.Repository = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv("FIREBASE_SERVICE_ACCOUNT_KEY_PATH"); v != "" {
		c.Delivery.Firebase.CredentialsFile = v
	}
	if v := os.Getenv("FIREBASE_DATABASE_URL"); v != "" {
		c.Delivery.Firebase.DatabaseURL = v
		c.Delivery.Firebase.Enabled = true
	}

	if v := os.Getenv("S3_BUCKET"); v != "" {
		c.Delivery.S3.Bucket = v
		c.Delivery.S3.Enabled = true
	}
	if v := os.Getenv("S3_ENDPOINT"); v != "" {
		c.Delivery.S3.Endpoint = v
	}
	if v := os.Getenv("S3_ACCESS_KEY"); v != "" {
		c.Delivery.S3.AccessKey = v
	}
	if v := os.Getenv("S3_SECRET_KEY"); v != "" {
		c.Delivery.S3.SecretKey = v
	}

	token, chat := os.Getenv("TELEGRAM_BOT_TOKEN"), os.Getenv("TELEGRAM_CHAT_ID")
	if token != "" {
		c.Delivery.Telegram.Token = token
	}
	if chat != "" {
		c.Delivery.Telegram.ChatID = chat
	}
	if (token != "" || chat != "") && c.Delivery.Telegram.Token != "" && c.Delivery.Telegram.ChatID != "" {
		c.Delivery.Telegram.Enabled = true
	}
}

// TelegramChatID returns the chat id as an int64 when numeric, otherwise the
// raw string (for "@channel" style ids).
func (c TelegramConfig) TelegramChatID() any {
	if id, err := strconv.ParseInt(c.ChatID, 10, 64); err == nil {
		return id
	}
	return c.ChatID
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	switch {
	case !strings.HasPrefix(c.Server.BasePath, "/"):
		errs = append(errs, fmt.Errorf("server.base_path must start with '/': %q", c.Server.BasePath))
	case strings.Trim(c.Server.BasePath, "/") == "":
		errs = append(errs, fmt.Errorf("server.base_path must name a path below '/': %q", c.Server.BasePath))
	}
	if c.Server.APIPath != "" && !strings.HasPrefix(c.Server.APIPath, "/") {
		errs = append(errs, fmt.Errorf("server.api_path must start with '/': %q", c.Server.APIPath))
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console: %q", c.Logging.Format))
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"server.read_timeout", c.Server.ReadTimeout},
		{"server.write_timeout", c.Server.WriteTimeout},
		{"server.shutdown_timeout", c.Server.ShutdownTimeout},
		{"session.sweep_interval", c.Session.SweepInterval},
		{"leads.sink_timeout", c.Leads.SinkTimeout},
	}
	for _, d := range durations {
		if d.value < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", d.name))
		}
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session.ttl must be positive"))
	}
	if strings.TrimSpace(c.Session.CookieName) == "" {
		errs = append(errs, errors.New("session.cookie_name is required"))
	}

	switch c.Leads.Repository {
	case RepositoryMemory:
	case RepositorySQLite:
		if strings.TrimSpace(c.Leads.SQLitePath) == "" {
			errs = append(errs, errors.New("leads.sqlite_path is required for the sqlite repository"))
		}
	case RepositoryPostgres:
		if strings.TrimSpace(c.Leads.DatabaseURL) == "" {
			errs = append(errs, errors.New("leads.database_url (DATABASE_URL) is required for the postgres repository"))
		}
	default:
		errs = append(errs, fmt.Errorf("leads.repository must be one of memory, sqlite, postgres: %q", c.Leads.Repository))
	}

	if c.Delivery.Firebase.Enabled && strings.TrimSpace(c.Delivery.Firebase.DatabaseURL) == "" {
		errs = append(errs, errors.New("delivery.firebase.database_url (FIREBASE_DATABASE_URL) is required when firebase is enabled"))
	}
	if c.Delivery.S3.Enabled && strings.TrimSpace(c.Delivery.S3.Bucket) == "" {
		errs = append(errs, errors.New("delivery.s3.bucket (S3_BUCKET) is required when s3 is enabled"))
	}
	if c.Delivery.S3.Enabled && (c.Delivery.S3.AccessKey == "") != (c.Delivery.S3.SecretKey == "") {
		errs = append(errs, errors.New("delivery.s3 access and secret keys must be set together"))
	}
	if c.Delivery.Telegram.Enabled {
		if strings.TrimSpace(c.Delivery.Telegram.Token) == "" {
			errs = append(errs, errors.New("delivery.telegram.token (TELEGRAM_BOT_TOKEN) is required when telegram is enabled"))
		}
		if strings.TrimSpace(c.Delivery.Telegram.ChatID) == "" {
			errs = append(errs, errors.New("delivery.telegram.chat_id (TELEGRAM_CHAT_ID) is required when telegram is enabled"))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: invalid configuration: %w", errors.Join(errs...))
}
