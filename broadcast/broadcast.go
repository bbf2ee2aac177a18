// broadcast/broadcast.go
package broadcast

import (
	"github.com/wordchain/gameserver/network"
	"github.com/wordchain/gameserver/session"
)

// SessionNotifier implements game.Notifier on top of the live sessions. Room
// broadcasts reach every socket bound to the room; direct sends reach every
// socket of one user. Bot seats have no socket, so a bots-only room is a
// silent no-op.
type SessionNotifier struct {
	sessions *session.Manager
}

func NewSessionNotifier(sessions *session.Manager) *SessionNotifier {
	return &SessionNotifier{sessions: sessions}
}

func (n *SessionNotifier) BroadcastToRoom(roomID string, message string) error {
	for _, s := range n.sessions.GetByRoomID(roomID) {
		if err := s.Send(network.MsgTypeRoomMessage, []byte(message)); err != nil {
			// A dead socket is cleaned up by its own read loop.
			continue
		}
	}
	return nil
}

func (n *SessionNotifier) SendToUser(userID string, message string) error {
	for _, s := range n.sessions.GetByUserID(userID) {
		if err := s.Send(network.MsgTypeUserError, []byte(message)); err != nil {
			continue
		}
	}
	return nil
}
