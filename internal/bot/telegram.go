package bot

import (
	"bytes"
	"context"

	"github.com/ikarpovich/nsbot/internal/config"
	"github.com/ikarpovich/nsbot/internal/logging"
	tele "gopkg.in/telebot.v3"
)

// Telegram adapts the telebot API to the Transport interface and routes
// incoming updates into the App flows.
type Telegram struct {
	bot *tele.Bot
	log logging.Logger
}

// NewTelegram connects to the Bot API with long polling.
func NewTelegram(cfg *config.Config, log logging.Logger) (*Telegram, error) {
	log = log.With("component", "telegram")

	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.TelegramToken,
		Poller: &tele.LongPoller{Timeout: cfg.PollerTimeout},
		OnError: func(err error, c tele.Context) {
			if c != nil && c.Chat() != nil {
				log.Error(context.Background(), "handler error", "chat_id", c.Chat().ID, "err", err)
				return
			}
			log.Error(context.Background(), "handler error", "err", err)
		},
	})
	if err != nil {
		return nil, err
	}

	return &Telegram{bot: b, log: log}, nil
}

// Bind registers the command menu and routes updates to app.
func (t *Telegram) Bind(app *App) error {
	if err := t.bot.SetCommands([]tele.Command{
		{Text: "start", Description: "Начать использование бота"},
		{Text: "diary", Description: "Показать дневник"},
		{Text: "new_account", Description: "Создать новый аккаунт"},
	}); err != nil {
		return err
	}

	t.bot.Handle("/start", func(c tele.Context) error {
		return app.HandleStart(context.Background(), c.Chat().ID)
	})
	t.bot.Handle("/new_account", func(c tele.Context) error {
		return app.HandleNewAccount(context.Background(), c.Chat().ID)
	})
	t.bot.Handle("/diary", func(c tele.Context) error {
		return app.HandleDiary(context.Background(), c.Chat().ID)
	})
	t.bot.Handle(tele.OnText, func(c tele.Context) error {
		return app.HandleText(context.Background(), c.Chat().ID, c.Text())
	})

	return nil
}

// Start begins long polling. It blocks until Stop is called.
func (t *Telegram) Start() {
	t.bot.Start()
}

// Stop terminates long polling.
func (t *Telegram) Stop() {
	t.bot.Stop()
}

// SendText implements Transport.
func (t *Telegram) SendText(chatID int64, text string) error {
	_, err := t.bot.Send(tele.ChatID(chatID), text)
	return err
}

// SendImage implements Transport.
func (t *Telegram) SendImage(chatID int64, png []byte) error {
	photo := &tele.Photo{File: tele.FromReader(bytes.NewReader(png))}
	_, err := t.bot.Send(tele.ChatID(chatID), photo)
	return err
}
