package config

import "os"

// parseEnv overlays Config with values from the environment. Only the
// secrets-adjacent settings are read here; everything else comes from the
// JSON file or flags.
//
//	TELEGRAM_TOKEN   — Telegram bot token
//	PORTAL_BASE_URL  — NetSchool base URL
func parseEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		cfg.TelegramToken = v
	}
	if v := os.Getenv("PORTAL_BASE_URL"); v != "" {
		cfg.PortalBaseURL = v
	}
}
