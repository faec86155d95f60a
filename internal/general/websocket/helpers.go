package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// wsWriteClose sends a close control frame with the given code and reason.
func (ws *WebSocket) wsWriteClose(conn *websocket.Conn, code int, reason string) {
	mu := ws.lockOf(conn)
	mu.Lock()
	defer mu.Unlock()

	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(wsCloseAckWindow),
	)
	ws.writeLocks.Delete(conn)
}

// wsWriteMessage sets a short write deadline and writes a message.
func (ws *WebSocket) wsWriteMessage(conn *websocket.Conn, mt int, payload []byte) error {
	mu := ws.lockOf(conn)
	mu.Lock()
	defer mu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteMessage(mt, payload)
}

// lockOf returns the mutex for a specific connection
func (ws *WebSocket) lockOf(conn *websocket.Conn) *sync.Mutex {
	if v, ok := ws.writeLocks.Load(conn); ok {
		if mu, ok := v.(*sync.Mutex); ok && mu != nil {
			return mu
		}
	}
	mu := &sync.Mutex{}
	actual, _ := ws.writeLocks.LoadOrStore(conn, mu)
	return actual.(*sync.Mutex)
}

// writeJSON marshals v and writes a single TextMessage to the given connection.
func (ws *WebSocket) writeJSON(conn *websocket.Conn, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return ws.wsWriteMessage(conn, websocket.TextMessage, payload)
}

// NotifyCustomer pushes a message to a connected customer. Not being
// connected is a normal condition, not an error.
func (ws *WebSocket) NotifyCustomer(customerID string, msg any) error {
	v, ok := ws.customers.Load(customerID)
	if !ok {
		return nil
	}
	conn, ok := v.(*websocket.Conn)
	if !ok || conn == nil {
		return nil
	}

	if err := ws.writeJSON(conn, msg); err != nil {
		return fmt.Errorf("notify customer %s: %w", customerID, err)
	}
	return nil
}

// IsRobotConnected checks if a robot currently has a WebSocket session.
func (ws *WebSocket) IsRobotConnected(robotID string) bool {
	conn, ok := ws.robots.Load(robotID)
	return ok && conn != nil
}

// pingLoop sends pings every 30s with the per-connection writer lock; on a
// failed ping the socket is closed to unblock the reader.
func (ws *WebSocket) pingLoop(ctx context.Context, conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			mu := ws.lockOf(conn)
			mu.Lock()
			_ = conn.SetWriteDeadline(time.Now().Add(ctrlTimeout))
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ctrlTimeout))
			mu.Unlock()
			if err != nil {
				_ = conn.Close()
				ws.logger.Error(ctx, "ws_ping_failed", "Failed to send ping", err, nil)
				return
			}
		}
	}
}
