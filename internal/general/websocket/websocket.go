package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"store-nav/internal/general/jwt"
	"store-nav/internal/general/logger"
	"store-nav/internal/general/rabbitmq"
	"store-nav/internal/general/telemetry"
	"store-nav/internal/ports"

	"github.com/gorilla/websocket"
)

const (
	wsWriteTimeout   = 5 * time.Second
	wsCloseAckWindow = 2 * time.Second
	ctrlTimeout      = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WebSocket handles robot telemetry ingest and customer status push with
// JWT auth on the first frame.
type WebSocket struct {
	logger    *logger.Logger
	jwtMgr    *jwt.Manager
	pub       *rabbitmq.MQPublisher
	cache     *telemetry.Cache
	robotRepo ports.RobotRepository
	uow       ports.UnitOfWork

	writeLocks sync.Map // key: *websocket.Conn -> *sync.Mutex
	customers  sync.Map // key: customerID(string) -> *websocket.Conn
	robots     sync.Map // key: robotID(string) -> *websocket.Conn
}

// NewWebSocket creates a WebSocket handler with JWT auth.
func NewWebSocket(log *logger.Logger, jwtMgr *jwt.Manager, pub *rabbitmq.MQPublisher, cache *telemetry.Cache, robotRepo ports.RobotRepository, uow ports.UnitOfWork) *WebSocket {
	return &WebSocket{
		logger:    log,
		jwtMgr:    jwtMgr,
		pub:       pub,
		cache:     cache,
		robotRepo: robotRepo,
		uow:       uow,
	}
}

// sendAuthError sends authentication error message to client
func (ws *WebSocket) sendAuthError(conn *websocket.Conn, message string) error {
	errorMsg := map[string]interface{}{
		"type":    "auth_error",
		"error":   message,
		"success": false,
	}
	msgBytes, err := json.Marshal(errorMsg)
	if err != nil {
		return err
	}
	return ws.wsWriteMessage(conn, websocket.TextMessage, msgBytes)
}

// sendAuthSuccess sends authentication success message to client
func (ws *WebSocket) sendAuthSuccess(conn *websocket.Conn, idField, id string) error {
	successMsg := map[string]interface{}{
		"type":      "auth_success",
		"message":   "Authentication successful",
		"success":   true,
		idField:     id,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	msgBytes, err := json.Marshal(successMsg)
	if err != nil {
		return err
	}
	return ws.wsWriteMessage(conn, websocket.TextMessage, msgBytes)
}
