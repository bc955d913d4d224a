package netmsg

import (
	"net"
	"sync"

	"github.com/google/uuid"
)

// SessionID is a non-owning handle to a Session, resolved through a SessionTable.
type SessionID = uuid.UUID

type Session struct {
	id   SessionID
	conn *net.TCPConn

	closeChan chan error

	// write lock: one writer per connection at a time
	sync.RWMutex
}

func NewSession(conn *net.TCPConn) *Session {
	return &Session{
		id:        uuid.New(),
		conn:      conn,
		closeChan: make(chan error, 1),
	}
}

func (s *Session) ID() SessionID {
	return s.id
}

func (s *Session) Conn() *net.TCPConn {
	return s.conn
}

func (s *Session) Remote() string {
	return s.conn.RemoteAddr().String()
}

func (s *Session) Close() error {
	s.Lock()
	defer s.Unlock()
	if s.conn != nil {
		err := s.conn.Close()
		return err
	}
	return nil
}
