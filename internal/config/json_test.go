package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJson(t *testing.T) {
	data := `{
		"telegram_token": "tok",
		"portal_base_url": "https://sgo.example.ru",
		"database_path": "bot.db",
		"request_timeout": "45s",
		"queue_size": 16
	}`

	file := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(file, []byte(data), 0o600))

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"cmd", "-c", file}

	c := &Config{}
	c.LoadDefaults()
	parseJson(c)

	assert.Equal(t, "tok", c.TelegramToken)
	assert.Equal(t, "https://sgo.example.ru", c.PortalBaseURL)
	assert.Equal(t, "bot.db", c.DatabasePath)
	assert.Equal(t, 45*time.Second, c.RequestTimeout)
	assert.Equal(t, 16, c.QueueSize)

	// omitted fields keep their defaults
	assert.Equal(t, "secret.key", c.KeyFilePath)
	assert.Equal(t, 10*time.Second, c.PollerTimeout)
}

func TestParseJson_NoFileFlagIsNoop(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"cmd"}

	c := &Config{}
	c.LoadDefaults()
	parseJson(c)

	assert.Equal(t, "users.db", c.DatabasePath)
}

func TestParseJson_BadFilePanics(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"cmd", "-c", filepath.Join(t.TempDir(), "missing.json")}

	c := &Config{}
	c.LoadDefaults()
	require.Panics(t, func() { parseJson(c) })
}
