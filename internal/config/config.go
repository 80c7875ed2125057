// Package config handles configuration for the bot, including defaults,
// JSON overlay, environment variables, and command-line flags.
package config

import "time"

// Config holds runtime settings for the bot.
//
// Fields:
//   - TelegramToken: Telegram Bot API token.
//   - PortalBaseURL: base URL of the NetSchool ("Сетевой Город") instance.
//   - DatabasePath: sqlite file holding stored credentials.
//   - KeyFilePath: key file for the credential vault, created on first run.
//   - FontPath: preferred truetype face for diary rendering; a built-in
//     face is used when it cannot be loaded.
//   - RequestTimeout: timeout for portal HTTP calls, set once at startup.
//   - PollerTimeout: Telegram long-poll timeout.
//   - QueueSize: capacity of the background task queue.
type Config struct {
	TelegramToken  string
	PortalBaseURL  string
	DatabasePath   string
	KeyFilePath    string
	FontPath       string
	RequestTimeout time.Duration
	PollerTimeout  time.Duration
	QueueSize      int
}

// LoadDefaults populates c with sensible defaults. The token and portal URL
// have no defaults and must be supplied.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "users.db"
	c.KeyFilePath = "secret.key"
	c.FontPath = "arial.ttf"
	c.RequestTimeout = 60 * time.Second
	c.PollerTimeout = 10 * time.Second
	c.QueueSize = 64
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), environment variables, and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
