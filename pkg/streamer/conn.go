// Package streamer serves validation over HTTP with progress events streamed
// to WebSocket clients.
package streamer

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// SafeConn wraps a WebSocket connection with a write mutex and panic
// recovery. gorilla/websocket connections do not tolerate concurrent writes.
type SafeConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	closed  bool
}

// NewSafeConn creates a new safe connection wrapper.
func NewSafeConn(conn *websocket.Conn) *SafeConn {
	return &SafeConn{conn: conn}
}

// WriteJSON safely writes JSON to the WebSocket connection. Writes to a
// closed connection are silently ignored.
func (sc *SafeConn) WriteJSON(v interface{}) error {
	sc.writeMu.Lock()
	defer sc.writeMu.Unlock()

	if sc.closed {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("WebSocket write panic recovered: %v", r)
			sc.closed = true
		}
	}()

	return sc.conn.WriteJSON(v)
}

// Close closes the underlying connection.
func (sc *SafeConn) Close() error {
	sc.writeMu.Lock()
	sc.closed = true
	sc.writeMu.Unlock()
	return sc.conn.Close()
}
