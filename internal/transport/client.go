// Package transport carries protocol messages over a websocket.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/palemoky/riddle-lobby/internal/protocol"
	"github.com/palemoky/riddle-lobby/internal/protocol/codec"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	handshakeTimeout = 10 * time.Second
	bufferSize       = 256

	// ClientIDHeader identifies this client instance during the handshake.
	ClientIDHeader = "X-Client-ID"
)

var (
	ErrClosed         = errors.New("connection closed")
	ErrSendBufferFull = errors.New("send buffer full")
	ErrReceiveTimeout = errors.New("receive timeout")
)

// Client is a websocket connection to the riddle server. It does not
// reconnect; a dropped connection closes the client and fires OnClose.
type Client struct {
	ServerURL string
	ClientID  string

	conn    *websocket.Conn
	send    chan []byte
	receive chan *protocol.Message
	done    chan struct{}

	// OnClose runs once after the read side stops.
	OnClose func()

	log *zap.SugaredLogger

	mu     sync.RWMutex
	closed bool
}

// NewClient creates an unconnected client.
func NewClient(serverURL, clientID string, log *zap.SugaredLogger) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		ServerURL: serverURL,
		ClientID:  clientID,
		send:      make(chan []byte, bufferSize),
		receive:   make(chan *protocol.Message, bufferSize),
		done:      make(chan struct{}),
		log:       log.With("component", "transport"),
	}
}

// Connect dials the server and starts the read and write pumps.
func (c *Client) Connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}

	header := http.Header{}
	if c.ClientID != "" {
		header.Set(ClientIDHeader, c.ClientID)
	}

	conn, resp, err := dialer.DialContext(ctx, c.ServerURL, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.ServerURL, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	c.log.Infow("connected", "url", c.ServerURL)

	go c.readPump()
	go c.writePump()

	return nil
}

// Send queues msg for the write pump.
func (c *Client) Send(msg *protocol.Message) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed || c.conn == nil {
		return ErrClosed
	}

	data, err := codec.Encode(msg)
	if err != nil {
		return err
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Receive blocks until the next inbound message or until the client closes.
// Messages read before the close are still delivered, in order, before
// ErrClosed.
func (c *Client) Receive() (*protocol.Message, error) {
	select {
	case msg := <-c.receive:
		return msg, nil
	case <-c.done:
		return c.drain()
	}
}

// ReceiveWithTimeout is Receive with a deadline.
func (c *Client) ReceiveWithTimeout(timeout time.Duration) (*protocol.Message, error) {
	select {
	case msg := <-c.receive:
		return msg, nil
	case <-time.After(timeout):
		return nil, ErrReceiveTimeout
	case <-c.done:
		return c.drain()
	}
}

// drain returns a buffered message left over after close, or ErrClosed.
func (c *Client) drain() (*protocol.Message, error) {
	select {
	case msg := <-c.receive:
		return msg, nil
	default:
		return nil, ErrClosed
	}
}

// Done is closed when the client closes.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close shuts the connection down. It is safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// IsConnected reports whether the client is connected and open.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed && c.conn != nil
}
