package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"store-nav/internal/domain/user"
	"store-nav/internal/general/jwt"

	"github.com/gorilla/websocket"
)

// ConnectRobot handles WebSocket connections from robots with JWT auth.
// After the auth frame, robots stream "telemetry" messages.
func (ws *WebSocket) ConnectRobot(w http.ResponseWriter, r *http.Request) {
	// 1) Upgrade HTTP -> WS
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.logger.Error(r.Context(), "websocket_upgrade_failed", "Failed to upgrade to WebSocket", err, nil)
		return
	}
	// Teardown order (LIFO on return):
	defer conn.Close()               // close the socket last
	defer ws.writeLocks.Delete(conn) // forget per-connection mutex (idempotent)

	// 2) Set auth deadline
	conn.SetReadLimit(1 << 20) // 1 MiB
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		ws.logger.Error(r.Context(), "ws_set_deadline_failed", "Failed to set initial read deadline", err, nil)
		ws.sendAuthError(conn, "internal server error")
		return
	}

	// 3) Auth frame
	msgType, firstFrame, err := conn.ReadMessage()
	if err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
			ws.logger.Error(r.Context(), "ws_auth_timeout", "Client disconnected before authentication", err, nil)
		} else {
			ws.logger.Error(r.Context(), "ws_auth_read_failed", "Failed to read auth message", err, nil)
		}
		ws.sendAuthError(conn, "authentication timeout: please send auth message within 5 seconds")
		return
	}

	if msgType != websocket.TextMessage {
		ws.logger.Error(r.Context(), "ws_auth_invalid_format", "Auth message must be text format", nil, nil)
		ws.sendAuthError(conn, "auth message must be in text format")
		return
	}

	res, err := jwt.ValidateWSAuth(firstFrame, ws.jwtMgr, user.RoleRobot)
	if err != nil {
		ws.logger.Error(r.Context(), "ws_auth_failed", "Invalid auth message or token", err, nil)
		ws.sendAuthError(conn, "authentication failed: invalid token")
		return
	}

	// 4) Path param must match the subject in claims
	if rid := r.PathValue("robot_id"); rid != "" && rid != res.Claims.Subject {
		ws.logger.Error(r.Context(), "ws_auth_failed", "Robot ID mismatch", nil, map[string]any{
			"path_robot_id": rid,
			"token_subject": res.Claims.Subject,
		})
		ws.sendAuthError(conn, "robot ID mismatch")
		return
	}
	robotID := res.Claims.Subject

	// 5) Send authentication success message
	if err := ws.sendAuthSuccess(conn, "robot_id", robotID); err != nil {
		ws.logger.Error(r.Context(), "ws_auth_success_failed", "Failed to send auth success message", err, nil)
		return
	}

	ws.logger.Info(r.Context(), "ws_connected", "Robot WebSocket connected",
		map[string]any{"robot_id": robotID})

	// 6) Reset read deadline after auth
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(_ string) error {
		return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})

	// 7) Start ping loop (every 30s) using the per-connection writer lock
	stopPing := make(chan struct{})
	defer close(stopPing)
	go ws.pingLoop(r.Context(), conn, stopPing)

	// 8) Register this robot; unregister on exit
	ws.robots.Store(robotID, conn)
	defer ws.robots.Delete(robotID)

	// 9) Per-connection throttle marker for telemetry persistence
	var lastTelemetryAt time.Time

	// 10) Read loop: route messages
	for {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				ws.logger.Error(r.Context(), "ws_unexpected_close", "Robot connection closed unexpectedly", err, map[string]any{
					"robot_id": robotID,
				})
				ws.wsWriteClose(conn, websocket.CloseInternalServerErr, "internal error")
			} else {
				ws.logger.Info(r.Context(), "ws_connection_closed", "Robot connection closed normally", map[string]any{
					"robot_id": robotID,
				})
				ws.wsWriteClose(conn, websocket.CloseNormalClosure, "bye")
			}
			break
		}

		// Minimal envelope
		var msg struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}

		if err := json.Unmarshal(payload, &msg); err != nil {
			_ = ws.wsWriteMessage(conn, websocket.TextMessage, []byte(`{"type":"error","error":"bad json"}`))
			continue
		}

		switch msg.Type {
		case "telemetry":
			// sub-handler logs its own failures
			_ = ws.handleTelemetry(r.Context(), conn, robotID, msg.Data, &lastTelemetryAt)

		default:
			_ = ws.wsWriteMessage(conn, websocket.TextMessage, []byte(`{"type":"error","error":"unknown message type"}`))
		}
	}
}
