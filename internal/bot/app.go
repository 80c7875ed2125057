// Package bot wires the session table, the vault, the dispatcher, and the
// portal client into the bot's command and message flows.
package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/ikarpovich/nsbot/internal/common"
	"github.com/ikarpovich/nsbot/internal/config"
	"github.com/ikarpovich/nsbot/internal/diary"
	"github.com/ikarpovich/nsbot/internal/dispatch"
	"github.com/ikarpovich/nsbot/internal/logging"
	"github.com/ikarpovich/nsbot/internal/netschool"
	"github.com/ikarpovich/nsbot/internal/session"
	"github.com/ikarpovich/nsbot/internal/vault"
)

// Transport is the outbound half of the chat transport.
type Transport interface {
	SendText(chatID int64, text string) error
	SendImage(chatID int64, png []byte) error
}

// LoginFunc authenticates against the portal and returns the handle for
// subsequent fetches. In production this is a thin wrapper over
// netschool.Login; tests substitute a fake.
type LoginFunc func(ctx context.Context, login, password, school string) (netschool.DiaryProvider, error)

// App implements the bot's flows. Handler goroutines only touch the session
// table, the vault, and the dispatcher queue; all portal I/O runs on the
// dispatcher's single worker.
type App struct {
	log        logging.Logger
	cfg        *config.Config
	vault      *vault.Vault
	sessions   *session.Table
	dispatcher *dispatch.Dispatcher
	transport  Transport
	login      LoginFunc
}

// NewApp assembles the bot flows from their collaborators.
func NewApp(log logging.Logger, cfg *config.Config, v *vault.Vault, d *dispatch.Dispatcher, tr Transport, login LoginFunc) *App {
	return &App{
		log:        log.With("component", "bot"),
		cfg:        cfg,
		vault:      v,
		sessions:   session.NewTable(),
		dispatcher: d,
		transport:  tr,
		login:      login,
	}
}

// HandleStart implements /start: resume with a stored credential when one
// decrypts, otherwise begin onboarding.
func (a *App) HandleStart(ctx context.Context, chatID int64) error {
	if a.sessions.Get(chatID).State == session.StateAuthenticating {
		return a.send(chatID, msgAuthInProgress)
	}

	school, login, password, err := a.vault.Load(ctx, chatID)
	switch {
	case err == nil:
		a.sessions.Mutate(chatID, func(s *session.Session) {
			s.State = session.StateAuthenticating
		})
		a.submitAuthenticate(chatID, school, login, password)
		return nil
	case errors.Is(err, common.ErrNotFound):
		a.sessions.Mutate(chatID, func(s *session.Session) { session.Reset(s) })
		return a.send(chatID, msgGreeting)
	case errors.Is(err, common.ErrDecryptionFailed):
		// unusable credential: prompt re-entry, never crash
		a.sessions.Mutate(chatID, func(s *session.Session) { session.Reset(s) })
		return a.send(chatID, msgDecryptFailed)
	default:
		a.log.Error(ctx, "vault load failed", "chat_id", chatID, "err", err)
		return a.send(chatID, fmt.Sprintf(fmtUnknownError, err))
	}
}

// HandleNewAccount implements /new_account: restart onboarding from any
// state, discarding pending fields.
func (a *App) HandleNewAccount(ctx context.Context, chatID int64) error {
	a.sessions.Mutate(chatID, func(s *session.Session) { session.Reset(s) })
	return a.send(chatID, msgAskSchool)
}

// HandleText feeds an incoming message to the state machine and performs
// the resulting effect. Text outside an awaiting state is ignored.
func (a *App) HandleText(ctx context.Context, chatID int64, text string) error {
	var (
		effect                  session.Effect
		school, login, password string
	)
	a.sessions.Mutate(chatID, func(s *session.Session) {
		effect = session.Advance(s, text)
		if effect == session.EffectAuthenticate {
			school, login, password = s.School, s.Login, s.Password
		}
	})

	switch effect {
	case session.EffectPromptLogin:
		return a.send(chatID, msgAskLogin)
	case session.EffectPromptPassword:
		return a.send(chatID, msgAskPassword)
	case session.EffectAuthenticate:
		if err := a.vault.Upsert(ctx, chatID, school, login, password); err != nil {
			a.log.Error(ctx, "vault upsert failed", "chat_id", chatID, "err", err)
			a.sessions.Mutate(chatID, func(s *session.Session) { s.State = session.StateFailed })
			return a.send(chatID, fmt.Sprintf(fmtUnknownError, err))
		}
		a.submitAuthenticate(chatID, school, login, password)
		return nil
	default:
		return nil
	}
}

// HandleDiary implements /diary: reject synchronously when the session has
// no authenticated handle, otherwise fetch and render on the worker.
func (a *App) HandleDiary(ctx context.Context, chatID int64) error {
	client := a.sessions.Get(chatID).Client
	if client == nil {
		return a.send(chatID, msgNotAuthenticated)
	}

	err := a.dispatcher.Submit("diary", func(ctx context.Context) error {
		return a.fetchDiary(ctx, chatID, client)
	})
	if err != nil {
		return a.send(chatID, msgBusy)
	}
	return nil
}

// submitAuthenticate hands the portal login to the background worker. The
// session is already in StateAuthenticating; on queue overflow it is moved
// to StateFailed so onboarding can be restarted.
func (a *App) submitAuthenticate(chatID int64, school, login, password string) {
	err := a.dispatcher.Submit("authenticate", func(ctx context.Context) error {
		return a.authenticate(ctx, chatID, school, login, password)
	})
	if err != nil {
		a.sessions.Mutate(chatID, func(s *session.Session) { s.State = session.StateFailed })
		_ = a.send(chatID, msgBusy)
	}
}

// authenticate runs on the background worker: portal login, then session
// update and user notification. The result is applied only if the session
// is still Authenticating; a /new_account issued mid-flight discards it.
func (a *App) authenticate(ctx context.Context, chatID int64, school, login, password string) error {
	client, err := a.login(ctx, login, password, school)

	applied := false
	a.sessions.Mutate(chatID, func(s *session.Session) {
		if s.State != session.StateAuthenticating {
			return
		}
		applied = true
		if err != nil {
			s.State = session.StateFailed
			s.Client = nil
			return
		}
		s.State = session.StateAuthenticated
		s.Client = client
		s.Password = ""
	})

	if !applied {
		a.log.Warn(ctx, "stale auth result dropped", "chat_id", chatID)
		if client != nil {
			_ = client.Logout(ctx)
		}
		return nil
	}

	if err != nil {
		_ = a.send(chatID, authErrorMessage(err))
		return err
	}
	return a.send(chatID, msgLoginOK)
}

// fetchDiary runs on the background worker: fetch, flatten, render, send.
func (a *App) fetchDiary(ctx context.Context, chatID int64, client netschool.DiaryProvider) error {
	d, err := client.Diary(ctx)
	if err != nil {
		_ = a.send(chatID, fmt.Sprintf(fmtDiaryError, err))
		return err
	}

	png, err := diary.Render(diary.Rows(d), a.cfg.FontPath)
	if err != nil {
		_ = a.send(chatID, fmt.Sprintf(fmtDiaryError, err))
		return err
	}

	if err := a.transport.SendImage(chatID, png); err != nil {
		a.log.Error(ctx, "send image failed", "chat_id", chatID, "err", err)
		return err
	}
	return nil
}

// authErrorMessage maps the portal error taxonomy to exactly one
// user-visible message.
func authErrorMessage(err error) string {
	switch {
	case errors.Is(err, netschool.ErrSchoolNotFound):
		return msgSchoolNotFound
	case errors.Is(err, netschool.ErrBadCredentials):
		return msgBadCredentials
	case errors.Is(err, netschool.ErrConnect):
		return fmt.Sprintf(fmtConnectError, err)
	case errors.Is(err, netschool.ErrRequest):
		return fmt.Sprintf(fmtRequestError, err)
	default:
		return fmt.Sprintf(fmtUnknownError, err)
	}
}

func (a *App) send(chatID int64, text string) error {
	if err := a.transport.SendText(chatID, text); err != nil {
		a.log.Error(context.Background(), "send message failed", "chat_id", chatID, "err", err)
		return err
	}
	return nil
}
