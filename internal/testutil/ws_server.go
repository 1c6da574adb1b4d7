//go:build !production

package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{}

// WSServer is an httptest server speaking websocket.
type WSServer struct {
	*httptest.Server
}

// URL returns the ws:// address of the server.
func (s *WSServer) URL() string {
	return "ws" + strings.TrimPrefix(s.Server.URL, "http")
}

// NewWSServer serves handle for every upgraded connection and closes the
// server when the test ends. r is the handshake request.
func NewWSServer(t *testing.T, handle func(conn *websocket.Conn, r *http.Request)) *WSServer {
	t.Helper()
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		handle(conn, r)
	}))
	t.Cleanup(s.Close)
	return &WSServer{Server: s}
}

// Echo writes every frame back to the client.
func Echo(conn *websocket.Conn, _ *http.Request) {
	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.WriteMessage(mt, message)
	}
}
