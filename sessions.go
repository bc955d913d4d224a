package netmsg

import "sync"

// SessionTable maps SessionIDs to live sessions. OwnedMessages carry only the
// ID, so a message never keeps its connection alive.
type SessionTable struct {
	mu       sync.RWMutex
	sessions map[SessionID]*Session
}

func NewSessionTable() *SessionTable {
	return &SessionTable{
		sessions: make(map[SessionID]*Session),
	}
}

func (t *SessionTable) Add(s *Session) {
	t.mu.Lock()
	t.sessions[s.ID()] = s
	t.mu.Unlock()
}

func (t *SessionTable) Remove(id SessionID) {
	t.mu.Lock()
	delete(t.sessions, id)
	t.mu.Unlock()
}

func (t *SessionTable) Get(id SessionID) (*Session, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.sessions[id]
	return s, ok
}

func (t *SessionTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sessions)
}

// Range calls f for each session until f returns false. f must not modify the table.
func (t *SessionTable) Range(f func(s *Session) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, s := range t.sessions {
		if !f(s) {
			return
		}
	}
}
