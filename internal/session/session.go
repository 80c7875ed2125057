// Package session holds per-chat conversational state: the onboarding state
// machine and a lock-guarded table mapping chat ids to live sessions.
package session

import "github.com/ikarpovich/nsbot/internal/netschool"

// State is the onboarding/auth state of a single chat.
type State int

const (
	StateIdle State = iota
	StateAwaitingSchool
	StateAwaitingLogin
	StateAwaitingPassword
	StateAuthenticating
	StateAuthenticated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingSchool:
		return "awaiting_school"
	case StateAwaitingLogin:
		return "awaiting_login"
	case StateAwaitingPassword:
		return "awaiting_password"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session is the in-memory record for one chat. It lives for the process
// lifetime only; across restarts only the vault row survives.
//
// The pending fields accumulate credentials during onboarding and are
// cleared on reset and on authentication completion. Client is set only
// after a successful portal login.
type Session struct {
	State    State
	School   string
	Login    string
	Password string
	Client   netschool.DiaryProvider
}

// Effect is the side effect a state transition asks the caller to perform.
type Effect int

const (
	// EffectNone: the input was not expected in this state; ignore it.
	EffectNone Effect = iota

	// EffectPromptLogin: ask the user for their login.
	EffectPromptLogin

	// EffectPromptPassword: ask the user for their password.
	EffectPromptPassword

	// EffectAuthenticate: credentials are complete; persist them and
	// submit the authentication task.
	EffectAuthenticate
)

// Advance feeds one incoming message text to the state machine, mutating s
// and returning the side effect to perform. Any non-empty text is accepted
// as the expected input for the current awaiting state; there is no format
// validation, matching the source system's permissive behavior.
func Advance(s *Session, text string) Effect {
	if text == "" {
		return EffectNone
	}

	switch s.State {
	case StateAwaitingSchool:
		s.School = text
		s.State = StateAwaitingLogin
		return EffectPromptLogin
	case StateAwaitingLogin:
		s.Login = text
		s.State = StateAwaitingPassword
		return EffectPromptPassword
	case StateAwaitingPassword:
		s.Password = text
		s.State = StateAuthenticating
		return EffectAuthenticate
	default:
		// Idle, Authenticating, Authenticated, Failed: unsolicited text.
		return EffectNone
	}
}

// Reset unconditionally restarts onboarding, discarding pending fields and
// any authenticated handle. No partial credentials survive a reset.
func Reset(s *Session) {
	s.State = StateAwaitingSchool
	s.School = ""
	s.Login = ""
	s.Password = ""
	s.Client = nil
}
