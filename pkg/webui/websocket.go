package webui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// SafeConn wraps a WebSocket connection with write mutex and panic recovery
type SafeConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	closed  bool
}

// NewSafeConn creates a new safe connection wrapper
func NewSafeConn(conn *websocket.Conn) *SafeConn {
	return &SafeConn{conn: conn}
}

// WriteJSON safely writes JSON to the WebSocket connection
func (sc *SafeConn) WriteJSON(v any) (err error) {
	sc.writeMu.Lock()
	defer sc.writeMu.Unlock()

	if sc.closed {
		return nil // Silently ignore writes to closed connections
	}

	defer func() {
		if r := recover(); r != nil {
			sc.closed = true
			err = fmt.Errorf("websocket write panic: %v", r)
		}
	}()

	return sc.conn.WriteJSON(v)
}

// Close closes the underlying connection
func (sc *SafeConn) Close() error {
	sc.writeMu.Lock()
	sc.closed = true
	sc.writeMu.Unlock()
	return sc.conn.Close()
}

// handleWebSocket forwards bus events to the client until either side goes away.
func (ws *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.logger.LogError(fmt.Errorf("websocket upgrade: %w", err))
		return
	}

	safeConn := NewSafeConn(conn)
	defer safeConn.Close()

	sessionID := "ws_" + uuid.NewString()
	ws.connections.Store(conn, &ConnectionInfo{
		SessionID:   sessionID,
		ConnectedAt: time.Now(),
	})
	defer ws.connections.Delete(conn)

	// Subscribe before announcing the connection so no event is missed.
	eventCh := ws.eventBus.Subscribe(sessionID)
	defer ws.eventBus.Unsubscribe(sessionID)

	ws.logger.Debugf("WebSocket client connected: %s", sessionID)
	safeConn.WriteJSON(map[string]any{
		"type": "connection_status",
		"data": map[string]any{"connected": true, "session_id": sessionID},
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		conn.SetReadLimit(64 * 1024)
		for {
			conn.SetReadDeadline(time.Now().Add(60 * time.Second))

			var msg map[string]any
			if err := conn.ReadJSON(&msg); err != nil {
				var netErr net.Error
				if errors.As(err, &netErr) && netErr.Timeout() {
					// gorilla connections cannot be read after a timeout
					ws.logger.Debugf("WebSocket %s idle timeout", sessionID)
				} else if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					ws.logger.Debugf("WebSocket %s closed: %v", sessionID, err)
				}
				return
			}
			ws.handleWebSocketMessage(safeConn, msg)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-readDone:
			return
		case event, ok := <-eventCh:
			if !ok {
				return
			}
			if err := safeConn.WriteJSON(event); err != nil {
				ws.logger.Debugf("WebSocket %s write error: %v", sessionID, err)
				return
			}
		}
	}
}

// handleWebSocketMessage answers client pings.
func (ws *Server) handleWebSocketMessage(safeConn *SafeConn, msg map[string]any) {
	msgType, _ := msg["type"].(string)
	switch msgType {
	case "ping":
		safeConn.WriteJSON(map[string]any{
			"type": "pong",
			"data": map[string]any{"timestamp": time.Now().Unix()},
		})
	}
}
