package realtime

import (
	"github.com/google/uuid"
)

// sendBuffer is the per-session outbound queue size. A session that cannot
// keep up has messages dropped rather than blocking the hub.
const sendBuffer = 64

// Session is one websocket connection's hub-side state.
type Session struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	UserName string
	TeamID   uuid.UUID

	send chan []byte
}

// NewSession creates a session for an authenticated connection.
func NewSession(userID uuid.UUID, userName string, teamID uuid.UUID) *Session {
	return &Session{
		ID:       uuid.New(),
		UserID:   userID,
		UserName: userName,
		TeamID:   teamID,
		send:     make(chan []byte, sendBuffer),
	}
}

// Outbound returns the channel of messages queued for this session.
func (s *Session) Outbound() <-chan []byte {
	return s.send
}

// queue enqueues a message, dropping it if the session is saturated.
func (s *Session) queue(msg []byte) bool {
	select {
	case s.send <- msg:
		return true
	default:
		return false
	}
}
