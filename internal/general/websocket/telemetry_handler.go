package websocket

import (
	"context"
	"encoding/json"
	"time"

	"store-nav/internal/domain/geo"
	"store-nav/internal/domain/robot"
	"store-nav/internal/general/contracts"

	"github.com/gorilla/websocket"
)

// telemetry frames arrive continuously; persist at most one per second per
// connection, but always refresh the in-memory cache and the fanout.
const telemetryPersistInterval = time.Second

// handleTelemetry validates an inbound telemetry frame, refreshes the cache,
// persists the snapshot and rebroadcasts it on the telemetry fanout.
func (ws *WebSocket) handleTelemetry(ctx context.Context, conn *websocket.Conn, robotID string, data json.RawMessage, lastPersistAt *time.Time) error {
	var frame contracts.WSRobotTelemetry
	if err := json.Unmarshal(data, &frame); err != nil {
		ws.logger.Error(ctx, "telemetry_bad_payload", "Failed to decode telemetry frame", err, map[string]any{
			"robot_id": robotID,
		})
		_ = ws.wsWriteMessage(conn, websocket.TextMessage, []byte(`{"type":"error","error":"bad telemetry payload"}`))
		return err
	}

	status := robot.StatusBusy
	if parsed, err := robot.ParseStatus(frame.Status); err == nil {
		status = parsed
	} else if frame.Status != "" {
		// keep ingesting; a bad status token never drops a position fix
		ws.logger.Info(ctx, "robot_status_token_ignored", "Unknown robot status token in telemetry", map[string]any{
			"robot_id": robotID,
			"token":    frame.Status,
		})
	}

	location, err := robot.NewLocation(robotID, geo.Coordinate{X: frame.Location.X, Y: frame.Location.Y}, frame.HeadingDegrees, frame.BatteryPercent, status)
	if err != nil {
		ws.logger.Error(ctx, "telemetry_invalid", "Rejected invalid telemetry frame", err, map[string]any{
			"robot_id": robotID,
		})
		_ = ws.wsWriteMessage(conn, websocket.TextMessage, []byte(`{"type":"error","error":"invalid telemetry"}`))
		return err
	}

	ws.cache.Update(*location)

	now := time.Now()
	if now.Sub(*lastPersistAt) >= telemetryPersistInterval {
		*lastPersistAt = now
		if err := ws.uow.WithinTx(ctx, func(ctx context.Context) error {
			return ws.robotRepo.SaveLocation(ctx, location)
		}); err != nil {
			ws.logger.Error(ctx, "telemetry_persist_failed", "Failed to persist telemetry snapshot", err, map[string]any{
				"robot_id": robotID,
			})
		}
	}

	msg := contracts.TelemetryMessage{
		RobotID:        robotID,
		Location:       contracts.Point{X: location.Coordinate.X, Y: location.Coordinate.Y},
		HeadingDegrees: location.HeadingDegrees,
		BatteryPercent: location.BatteryPercent,
		Status:         location.Status.String(),
		Timestamp:      location.UpdatedAt,
		Envelope: contracts.Envelope{
			Producer: "navigation-service",
			SentAt:   time.Now().UTC(),
		},
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := ws.pub.Publish(contracts.ExchangeTelemetryFanout, "", body); err != nil {
		ws.logger.Error(ctx, "telemetry_publish_failed", "Failed to publish telemetry to fanout", err, map[string]any{
			"robot_id": robotID,
		})
		return err
	}

	return ws.wsWriteMessage(conn, websocket.TextMessage, []byte(`{"type":"telemetry_ack","success":true}`))
}
