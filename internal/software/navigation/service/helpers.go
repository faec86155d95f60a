package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"store-nav/internal/domain/geo"
	"store-nav/internal/domain/navigation"
	"store-nav/internal/domain/robot"
	"store-nav/internal/general/contracts"
	"store-nav/internal/ports"
)

// generateCorrelationID creates a simple correlation ID for tracing requests.
func generateCorrelationID() string {
	var b [3]byte // 6 hex chars
	_, _ = rand.Read(b[:])
	ts := time.Now().UTC().Format("20060102T150405")
	return "req_" + ts + "_" + hex.EncodeToString(b[:])
}

// robotOrigin resolves where a route for the robot should start: the latest
// telemetry fix, falling back to the default start position when the robot
// has never reported.
func (service *navigationService) robotOrigin(ctx context.Context, robotID string) geo.Coordinate {
	location, err := service.telemetry.Latest(ctx, robotID)
	if err != nil {
		if !errors.Is(err, robot.ErrRobotNotFound) {
			service.logger.Error(ctx, "telemetry_lookup_failed", "Failed to read robot telemetry", err, map[string]any{
				"robot_id": robotID,
			})
		}
		return defaultOrigin
	}
	return location.Coordinate
}

// snapshotOf flattens a session into the read DTO.
func snapshotOf(session *navigation.Session) ports.SessionSnapshot {
	return ports.SessionSnapshot{
		SessionID:         session.ID,
		RobotID:           session.RobotID,
		ProductID:         session.ProductID,
		Status:            session.Status.String(),
		CurrentLocation:   session.CurrentLocation,
		Destination:       session.Destination,
		ProgressPercent:   session.ProgressPercent,
		DistanceRemaining: session.DistanceRemaining,
		TimeRemaining:     session.TimeRemaining,
		TotalDistance:     session.TotalDistance,
		UpdatedAt:         session.UpdatedAt,
	}
}

// publishSessionStatus sends a session status update to the navigation topic
// exchange using routing key navigation.status.{status}. Publish failures
// are the caller's to log; they never fail the session mutation.
func (service *navigationService) publishSessionStatus(ctx context.Context, session *navigation.Session, correlationID string) error {
	if service.pub == nil {
		return nil
	}

	msg := contracts.SessionStatusMessage{
		SessionID:         session.ID,
		RobotID:           session.RobotID,
		Status:            session.Status.String(),
		ProgressPercent:   session.ProgressPercent,
		DistanceRemaining: session.DistanceRemaining,
		TimeRemaining:     session.TimeRemaining,
		Timestamp:         time.Now().UTC(),
		Envelope: contracts.Envelope{
			CorrelationID: correlationID,
			Producer:      "navigation-service",
		},
	}

	routingKey := contracts.RouteNavigationStatusPrefix + strings.ToLower(session.Status.String())
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := service.pub.Publish(contracts.ExchangeNavigationTopic, routingKey, body); err != nil {
		return err
	}

	service.logger.Info(ctx, "session_status_published", "Published session status to RabbitMQ", map[string]any{
		"routing_key": routingKey,
	})
	return nil
}

// notifyCustomer pushes a session status update over the customer WebSocket.
func (service *navigationService) notifyCustomer(ctx context.Context, session *navigation.Session, correlationID string) {
	if service.websocket == nil || session.CustomerID == "" {
		return
	}

	wsMsg := contracts.WSCustomerSessionStatus{
		Type:              "session_status_update",
		SessionID:         session.ID,
		RobotID:           session.RobotID,
		Status:            session.Status.String(),
		ProgressPercent:   session.ProgressPercent,
		DistanceRemaining: session.DistanceRemaining,
		TimeRemaining:     session.TimeRemaining,
		Envelope: contracts.Envelope{
			CorrelationID: correlationID,
			Producer:      "navigation-service",
			SentAt:        time.Now().UTC(),
		},
	}

	if err := service.websocket.NotifyCustomer(session.CustomerID, wsMsg); err != nil {
		service.logger.Error(ctx, "ws_notify_customer_failed",
			"Failed to push session status to customer", err,
			map[string]any{"session_id": session.ID, "customer_id": session.CustomerID})
	}
}
