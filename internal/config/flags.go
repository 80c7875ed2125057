package config

import (
	"flag"
	"os"
	"time"

	"github.com/ikarpovich/nsbot/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-t string   Telegram bot token
//	-u string   portal base URL
//	-d string   sqlite database path
//	-k string   vault key file path
//	-f string   truetype font path for diary images
//	-r int      portal request timeout in seconds
//	-p int      Telegram long-poll timeout in seconds
//	-q int      background task queue size
//
// Note: the function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-t", "-u", "-d", "-k", "-f", "-r", "-p", "-q"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.TelegramToken, "t", cfg.TelegramToken, "telegram bot token")
	fs.StringVar(&cfg.PortalBaseURL, "u", cfg.PortalBaseURL, "portal base url")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "sqlite database path")
	fs.StringVar(&cfg.KeyFilePath, "k", cfg.KeyFilePath, "vault key file path")
	fs.StringVar(&cfg.FontPath, "f", cfg.FontPath, "truetype font path")
	requestTimeout := fs.Int("r", int(cfg.RequestTimeout.Seconds()), "portal request timeout (in seconds)")
	pollerTimeout := fs.Int("p", int(cfg.PollerTimeout.Seconds()), "long-poll timeout (in seconds)")
	fs.IntVar(&cfg.QueueSize, "q", cfg.QueueSize, "background task queue size")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	cfg.PollerTimeout = time.Duration(*pollerTimeout) * time.Second
}
