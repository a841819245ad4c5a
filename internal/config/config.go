package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "BAUPLAN_CHECKER_CONFIG"
	backendURLEnv     = "BACKEND_URL"
	databaseDSNEnv    = "DATABASE_DSN"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Backend       BackendConfig      `yaml:"backend"`
	Poller        PollerConfig       `yaml:"poller"`
	Database      DatabaseConfig     `yaml:"database"`
	Notifications NotificationConfig `yaml:"notifications"`
	NormSync      NormSyncConfig     `yaml:"normSync"`
	Logging       LoggingConfig      `yaml:"logging"`
	Catalogs      []CatalogConfig    `yaml:"catalogs"`
}

// BackendConfig describes how to reach the analysis backend and which
// timeouts the long-running operations get. Upload and check run OCR and AI
// inference synchronously server-side, hence the generous defaults.
type BackendConfig struct {
	BaseURL               string `yaml:"baseUrl"`
	UploadTimeoutSeconds  int    `yaml:"uploadTimeoutSeconds"`
	CheckTimeoutSeconds   int    `yaml:"checkTimeoutSeconds"`
	RequestTimeoutSeconds int    `yaml:"requestTimeoutSeconds"`
}

// UploadTimeout resolves the plan-upload timeout.
func (b BackendConfig) UploadTimeout() time.Duration {
	return time.Duration(b.UploadTimeoutSeconds) * time.Second
}

// CheckTimeout resolves the compliance-check submission timeout.
func (b BackendConfig) CheckTimeout() time.Duration {
	return time.Duration(b.CheckTimeoutSeconds) * time.Second
}

// RequestTimeout resolves the timeout for all cheap calls (poll, list, delete).
func (b BackendConfig) RequestTimeout() time.Duration {
	return time.Duration(b.RequestTimeoutSeconds) * time.Second
}

// PollerConfig defines the compliance-status polling cadence.
type PollerConfig struct {
	IntervalSeconds int `yaml:"intervalSeconds"`
}

// Interval resolves the poll tick interval.
func (p PollerConfig) Interval() time.Duration {
	return time.Duration(p.IntervalSeconds) * time.Second
}

// DatabaseConfig describes the optional audit-log Postgres connection.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// NormSyncConfig controls the scheduled norm-catalog synchronization.
type NormSyncConfig struct {
	Enabled       bool `yaml:"enabled"`
	IntervalHours int  `yaml:"intervalHours"`
}

// Interval resolves the catalog scan interval.
func (n NormSyncConfig) Interval() time.Duration {
	return time.Duration(n.IntervalHours) * time.Hour
}

// LoggingConfig selects the log level and output format ("text" or "json").
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// CatalogConfig describes a single norm catalog site with its scanner strategy.
type CatalogConfig struct {
	Name    string            `yaml:"name"`
	Scanner string            `yaml:"scanner"`
	Pages   []PageConfig      `yaml:"pages"`
	Options map[string]string `yaml:"options"`
}

// PageConfig holds a concrete catalog page URL to scan for norm PDFs.
type PageConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(backendURLEnv); v != "" {
		c.Backend.BaseURL = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Backend.BaseURL != "" {
		base.Backend.BaseURL = override.Backend.BaseURL
	}
	if override.Backend.UploadTimeoutSeconds > 0 {
		base.Backend.UploadTimeoutSeconds = override.Backend.UploadTimeoutSeconds
	}
	if override.Backend.CheckTimeoutSeconds > 0 {
		base.Backend.CheckTimeoutSeconds = override.Backend.CheckTimeoutSeconds
	}
	if override.Backend.RequestTimeoutSeconds > 0 {
		base.Backend.RequestTimeoutSeconds = override.Backend.RequestTimeoutSeconds
	}

	if override.Poller.IntervalSeconds > 0 {
		base.Poller.IntervalSeconds = override.Poller.IntervalSeconds
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.NormSync.Enabled {
		base.NormSync.Enabled = true
	}
	if override.NormSync.IntervalHours > 0 {
		base.NormSync.IntervalHours = override.NormSync.IntervalHours
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if len(override.Catalogs) > 0 {
		base.Catalogs = override.Catalogs
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Backend: BackendConfig{
			BaseURL:               "http://localhost:8000",
			UploadTimeoutSeconds:  120,
			CheckTimeoutSeconds:   180,
			RequestTimeoutSeconds: 15,
		},
		Poller: PollerConfig{
			IntervalSeconds: 3,
		},
		Database: DatabaseConfig{DSN: ""},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{BotToken: "", ChatID: ""},
		},
		NormSync: NormSyncConfig{
			Enabled:       false,
			IntervalHours: 24,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Catalogs: []CatalogConfig{
			{
				Name:    "din-catalog",
				Scanner: "html",
				Pages: []PageConfig{
					{Name: "barrierefreiheit", URL: "https://standards.example.org/din/barrierefreiheit"},
				},
			},
		},
	}
}
