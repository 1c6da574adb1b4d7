package client

import (
	"github.com/palemoky/riddle-lobby/internal/apperrors"
	"github.com/palemoky/riddle-lobby/internal/protocol"
)

// ChatLog is the ordered chat history of the current room.
// Messages are kept in arrival order and never sorted by timestamp.
type ChatLog struct {
	messages []protocol.ChatMessage
	limit    int
}

// NewChatLog creates a log that keeps at most limit messages on append.
// A limit of zero keeps everything.
func NewChatLog(limit int) *ChatLog {
	return &ChatLog{limit: limit}
}

// Append adds an incremental message. Messages without a sender or text
// are rejected and the log is left untouched.
func (l *ChatLog) Append(msg protocol.ChatMessage) error {
	if !msg.Valid() {
		return apperrors.ErrMalformedMessage
	}
	l.messages = append(l.messages, msg)
	if l.limit > 0 && len(l.messages) > l.limit {
		l.messages = append([]protocol.ChatMessage(nil), l.messages[len(l.messages)-l.limit:]...)
	}
	return nil
}

// Replace swaps the whole log for a snapshot. The snapshot is
// authoritative and is taken as is, including anything already appended.
func (l *ChatLog) Replace(snapshot []protocol.ChatMessage) {
	l.messages = append([]protocol.ChatMessage(nil), snapshot...)
}

// Reset empties the log.
func (l *ChatLog) Reset() {
	l.messages = nil
}

// Len returns the number of messages.
func (l *ChatLog) Len() int {
	return len(l.messages)
}

// Messages returns a copy of the log.
func (l *ChatLog) Messages() []protocol.ChatMessage {
	out := make([]protocol.ChatMessage, len(l.messages))
	copy(out, l.messages)
	return out
}
