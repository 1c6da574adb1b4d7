//go:build !production

// Package testutil holds test doubles shared across packages.
package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/riddle-lobby/internal/protocol"
)

// ErrClosed is returned by the fakes once closed.
var ErrClosed = errors.New("testutil: closed")

// MockChannel 实现 session.Channel 的 mock
type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) Send(msg *protocol.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

// SimpleChannel records every message sent through it. Setting Err makes
// Send fail without recording.
type SimpleChannel struct {
	mu   sync.Mutex
	Sent []*protocol.Message
	Err  error
}

func (c *SimpleChannel) Send(msg *protocol.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.Sent = append(c.Sent, msg)
	return nil
}

// Types returns the event names sent so far, in order.
func (c *SimpleChannel) Types() []protocol.MessageType {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]protocol.MessageType, 0, len(c.Sent))
	for _, m := range c.Sent {
		out = append(out, m.Type)
	}
	return out
}

// Last returns the most recent message, or nil.
func (c *SimpleChannel) Last() *protocol.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Sent) == 0 {
		return nil
	}
	return c.Sent[len(c.Sent)-1]
}

// Count returns how many messages were sent.
func (c *SimpleChannel) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Sent)
}

// FakeConn is a SimpleChannel that can also connect, receive and close.
// Receive never blocks: it reports ErrClosed.
type FakeConn struct {
	SimpleChannel
	ConnectErr error

	closeMu sync.Mutex
	closed  bool
}

func (c *FakeConn) Connect(context.Context) error {
	return c.ConnectErr
}

func (c *FakeConn) Send(msg *protocol.Message) error {
	if c.Closed() {
		return ErrClosed
	}
	return c.SimpleChannel.Send(msg)
}

func (c *FakeConn) Receive() (*protocol.Message, error) {
	return nil, ErrClosed
}

func (c *FakeConn) Close() {
	c.closeMu.Lock()
	c.closed = true
	c.closeMu.Unlock()
}

// Closed reports whether Close was called.
func (c *FakeConn) Closed() bool {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	return c.closed
}
