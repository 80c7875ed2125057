package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/ikarpovich/nsbot/internal/flagx"
	"github.com/ikarpovich/nsbot/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "60s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	TelegramToken  string         `json:"telegram_token"`
	PortalBaseURL  string         `json:"portal_base_url"`
	DatabasePath   string         `json:"database_path"`
	KeyFilePath    string         `json:"key_file_path"`
	FontPath       string         `json:"font_path"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	PollerTimeout  timex.Duration `json:"poller_timeout"`
	QueueSize      int            `json:"queue_size"`
}

// parseJson overlays Config with values loaded from a JSON file whose path
// is given via the -c or -config flags. Empty JSON fields leave the current
// Config values untouched. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.TelegramToken != "" {
		cfg.TelegramToken = jc.TelegramToken
	}
	if jc.PortalBaseURL != "" {
		cfg.PortalBaseURL = jc.PortalBaseURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.KeyFilePath != "" {
		cfg.KeyFilePath = jc.KeyFilePath
	}
	if jc.FontPath != "" {
		cfg.FontPath = jc.FontPath
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.PollerTimeout.Duration != 0 {
		cfg.PollerTimeout = time.Duration(jc.PollerTimeout.Duration)
	}
	if jc.QueueSize != 0 {
		cfg.QueueSize = jc.QueueSize
	}
}
