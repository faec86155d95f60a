package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"store-nav/internal/domain/user"
	"store-nav/internal/general/jwt"

	"github.com/gorilla/websocket"
)

// ConnectCustomer handles WebSocket connections from customers with JWT
// auth. Customers mostly listen: they receive session status pushes while
// the robot guides them.
func (ws *WebSocket) ConnectCustomer(w http.ResponseWriter, r *http.Request) {
	// 1) Upgrade HTTP -> WS
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.logger.Error(r.Context(), "websocket_upgrade_failed", "Failed to upgrade to WebSocket", err, nil)
		return
	}

	// Teardown order (LIFO on return):
	defer conn.Close()
	defer ws.writeLocks.Delete(conn)

	// 2) Set auth deadline
	conn.SetReadLimit(1 << 20) // 1 MiB
	if err := conn.SetReadDeadline(time.Now().Add(10 * time.Second)); err != nil {
		ws.logger.Error(r.Context(), "ws_set_deadline_failed", "Failed to set initial read deadline", err, nil)
		ws.sendAuthError(conn, "internal server error")
		return
	}

	// 3) Auth frame
	mt, first, err := conn.ReadMessage()
	if err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
			ws.logger.Error(r.Context(), "ws_auth_timeout", "Client disconnected before authentication", err, nil)
		} else {
			ws.logger.Error(r.Context(), "ws_auth_read_failed", "Failed to read auth message", err, nil)
		}
		ws.sendAuthError(conn, "authentication timeout: please send auth message within 10 seconds")
		return
	}

	if mt != websocket.TextMessage {
		ws.logger.Error(r.Context(), "ws_auth_invalid_format", "Auth message must be text format", nil, nil)
		ws.sendAuthError(conn, "auth message must be in text format")
		return
	}

	res, err := jwt.ValidateWSAuth(first, ws.jwtMgr, user.RoleCustomer)
	if err != nil {
		ws.logger.Error(r.Context(), "ws_auth_failed", "Invalid auth message or token", err, nil)
		ws.sendAuthError(conn, "authentication failed: invalid token")
		return
	}

	if cid := r.PathValue("customer_id"); cid != "" && cid != res.Claims.Subject {
		ws.logger.Error(r.Context(), "ws_auth_failed", "Customer ID mismatch", nil, map[string]any{
			"path_customer_id": cid,
			"token_subject":    res.Claims.Subject,
		})
		ws.sendAuthError(conn, "customer ID mismatch")
		return
	}
	customerID := res.Claims.Subject

	// 4) Send authentication success message
	if err := ws.sendAuthSuccess(conn, "customer_id", customerID); err != nil {
		ws.logger.Error(r.Context(), "ws_auth_success_failed", "Failed to send auth success message", err, nil)
		return
	}

	ws.logger.Info(r.Context(), "ws_connected", "Customer WebSocket connected",
		map[string]any{"customer_id": customerID})

	// 5) Reset read deadline after auth
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(_ string) error {
		return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})

	// 6) Start ping loop (every 30s) with per-connection writer lock
	stopPing := make(chan struct{})
	defer close(stopPing)
	go ws.pingLoop(r.Context(), conn, stopPing)

	// 7) Register customer connection for outbound notifications; unregister on exit
	ws.customers.Store(customerID, conn)
	defer ws.customers.Delete(customerID)

	// 8) Read loop: customers send nothing we act on yet, but the loop keeps
	// deadlines fresh and surfaces closes.
	for {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				ws.logger.Error(r.Context(), "ws_unexpected_close", "Customer connection closed unexpectedly", err, map[string]any{
					"customer_id": customerID,
				})
				ws.wsWriteClose(conn, websocket.CloseInternalServerErr, "internal error")
			} else {
				ws.logger.Info(r.Context(), "ws_connection_closed", "Customer connection closed normally", map[string]any{
					"customer_id": customerID,
				})
				ws.wsWriteClose(conn, websocket.CloseNormalClosure, "bye")
			}
			break
		}

		var msg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(payload, &msg); err != nil {
			_ = ws.wsWriteMessage(conn, websocket.TextMessage, []byte(`{"type":"error","error":"bad json"}`))
			continue
		}

		switch msg.Type {
		case "ping":
			_ = ws.wsWriteMessage(conn, websocket.TextMessage, []byte(`{"type":"pong"}`))
		default:
			_ = ws.wsWriteMessage(conn, websocket.TextMessage, []byte(`{"type":"error","error":"unknown message type"}`))
		}
	}
}
