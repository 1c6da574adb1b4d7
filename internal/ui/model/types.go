// Package model contains the bubbletea model for the riddle lobby client.
package model

import (
	"context"

	"github.com/palemoky/riddle-lobby/internal/protocol"
)

// Conn is the message channel to the server. *transport.Client
// implements it.
type Conn interface {
	Connect(ctx context.Context) error
	Send(msg *protocol.Message) error
	Receive() (*protocol.Message, error)
	Close()
}

// Dialer creates a fresh, unconnected Conn.
type Dialer func() Conn

// --- Tea Messages ---

// ServerMessage wraps a protocol message for tea.Msg.
type ServerMessage struct {
	Msg *protocol.Message
}

// ConnectedMsg indicates a successful connection.
type ConnectedMsg struct{}

// ConnectionErrorMsg indicates the connection could not be opened.
type ConnectionErrorMsg struct {
	Err error
}

// DisconnectedMsg indicates an open connection went away.
type DisconnectedMsg struct {
	Err error
}

// inputMode selects what the room line input sends.
type inputMode int

const (
	modeChat inputMode = iota
	modeAnswer
)
