package kds

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Conn is the part of *websocket.Conn a session needs.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Session is one connected dashboard client.
type Session struct {
	ID     string
	Role   string
	UserID uint

	conn Conn
	send chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func NewSession(conn Conn, role string, userID uint, buffer int) *Session {
	if buffer <= 0 {
		buffer = 64
	}
	return &Session{
		ID:     uuid.NewString(),
		Role:   role,
		UserID: userID,
		conn:   conn,
		send:   make(chan []byte, buffer),
		done:   make(chan struct{}),
	}
}

// enqueue never blocks; false means the buffer is full.
func (s *Session) enqueue(payload []byte) bool {
	select {
	case <-s.done:
		return true
	default:
	}

	select {
	case s.send <- payload:
		return true
	default:
		return false
	}
}

// Close is safe to call more than once and from any goroutine.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

func (s *Session) Done() <-chan struct{} {
	return s.done
}
