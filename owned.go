package netmsg

import "github.com/google/uuid"

// OwnedMessage pairs a message with the session it came from, or the session
// it is addressed to. Remote is a handle only; resolve it with a SessionTable.
type OwnedMessage[T ID] struct {
	Remote SessionID
	Msg    *Message[T]
}

func NewOwnedMessage[T ID](remote SessionID, msg *Message[T]) OwnedMessage[T] {
	return OwnedMessage[T]{Remote: remote, Msg: msg}
}

// HasRemote reports whether the message is bound to a session.
func (om OwnedMessage[T]) HasRemote() bool {
	return om.Remote != uuid.Nil
}

func (om OwnedMessage[T]) String() string {
	if om.Msg == nil {
		return "<nil>"
	}
	return om.Msg.String()
}
