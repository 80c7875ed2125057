package session

import "sync"

// Table is a thread-safe mapping from chat id to Session. All access goes
// through Get and Mutate under one table mutex; the map never escapes, so
// no caller can observe or mutate a session outside the lock.
type Table struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{sessions: make(map[int64]*Session)}
}

// Get returns a snapshot copy of the session for chatID, creating an Idle
// session on first access.
func (t *Table) Get(chatID int64) Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return *t.lookup(chatID)
}

// Mutate applies fn to the session for chatID as one atomic
// read-modify-write, creating an Idle session on first access. This is the
// only sanctioned write path.
func (t *Table) Mutate(chatID int64, fn func(s *Session)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.lookup(chatID))
}

// lookup must be called with t.mu held.
func (t *Table) lookup(chatID int64) *Session {
	s, ok := t.sessions[chatID]
	if !ok {
		s = &Session{State: StateIdle}
		t.sessions[chatID] = s
	}
	return s
}
