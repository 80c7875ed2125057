package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ikarpovich/nsbot/internal/bot"
	"github.com/ikarpovich/nsbot/internal/buildinfo"
	"github.com/ikarpovich/nsbot/internal/config"
	"github.com/ikarpovich/nsbot/internal/cryptox"
	"github.com/ikarpovich/nsbot/internal/dispatch"
	"github.com/ikarpovich/nsbot/internal/logging"
	"github.com/ikarpovich/nsbot/internal/netschool"
	"github.com/ikarpovich/nsbot/internal/vault"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	if cfg.TelegramToken == "" {
		log.Fatal("telegram token is required (flag -t or TELEGRAM_TOKEN)")
	}
	if cfg.PortalBaseURL == "" {
		log.Fatal("portal base url is required (flag -u or PORTAL_BASE_URL)")
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	key, err := cryptox.LoadOrCreateKey(cfg.KeyFilePath)
	if err != nil {
		log.Fatalf("key file: %v", err)
	}

	db, err := vault.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	dispatcher := dispatch.New(logger, cfg.QueueSize)
	dispatcher.Start(ctx)

	tg, err := bot.NewTelegram(cfg, logger)
	if err != nil {
		log.Fatalf("telegram: %v", err)
	}

	portalLogin := func(ctx context.Context, login, password, school string) (netschool.DiaryProvider, error) {
		return netschool.Login(ctx, netschool.Config{
			BaseURL: cfg.PortalBaseURL,
			Timeout: cfg.RequestTimeout,
		}, login, password, school)
	}

	app := bot.NewApp(logger, cfg, vault.New(db, key), dispatcher, tg, portalLogin)
	if err := tg.Bind(app); err != nil {
		log.Fatalf("register commands: %v", err)
	}

	go func() {
		<-ctx.Done()
		tg.Stop()
	}()

	logger.Info(ctx, "bot started", "portal", cfg.PortalBaseURL, "db", cfg.DatabasePath)
	tg.Start()

	<-dispatcher.Done()
	logger.Info(context.Background(), "bot stopped")
}
