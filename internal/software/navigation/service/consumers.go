package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"store-nav/internal/domain/geo"
	"store-nav/internal/domain/navigation"
	"store-nav/internal/domain/robot"
	"store-nav/internal/general/contracts"
	"store-nav/internal/ports"
)

// RunBackgroundConsumers starts the background consumer that turns robot
// telemetry into session progress updates. It is a no-op when the service
// was built without a RabbitMQ client (tests).
func (service *navigationService) RunBackgroundConsumers(ctx context.Context) {
	if service.rabbitmq == nil {
		return
	}
	service.startTelemetryConsumer(ctx)
}

// startTelemetryConsumer consumes telemetry frames from the fanout queue.
// Frames arrive both from robots publishing over AMQP and from the WebSocket
// ingest rebroadcasting; either way the latest position is persisted and, if
// the robot has an active session, folded into its progress.
func (service *navigationService) startTelemetryConsumer(ctx context.Context) {
	go func() {
		service.logger.Info(ctx, "telemetry_consumer_starting", "Starting telemetry consumer",
			map[string]any{"queue": contracts.QueueTelemetryNavigation})

		err := service.rabbitmq.Consume(
			ctx,
			contracts.QueueTelemetryNavigation,
			"navigation-service-telemetry",
			50,
			func(ctx context.Context, d amqp.Delivery) error {
				var msg contracts.TelemetryMessage
				if err := json.Unmarshal(d.Body, &msg); err != nil {
					service.logger.Error(ctx, "telemetry_decode_failed",
						"Failed to decode telemetry message", err,
						map[string]any{"body_size": len(d.Body)})
					return fmt.Errorf("decode: %w", err)
				}
				if msg.RobotID == "" {
					return nil
				}

				service.processTelemetry(ctx, msg)
				return nil
			},
		)
		if err != nil && !errors.Is(err, context.Canceled) {
			service.logger.Error(ctx, "telemetry_consumer_failed",
				"Telemetry consumer stopped", err,
				map[string]any{"queue": contracts.QueueTelemetryNavigation})
		}
	}()
}

// processTelemetry persists a telemetry snapshot and applies it as progress
// to the robot's active session, if it has one. Failures are logged and the
// message is still acked; telemetry is a stream, the next frame supersedes
// this one.
func (service *navigationService) processTelemetry(ctx context.Context, msg contracts.TelemetryMessage) {
	status := robot.StatusBusy
	if parsed, err := robot.ParseStatus(msg.Status); err == nil {
		status = parsed
	}

	location, err := robot.NewLocation(msg.RobotID, geo.Coordinate{X: msg.Location.X, Y: msg.Location.Y}, msg.HeadingDegrees, msg.BatteryPercent, status)
	if err != nil {
		service.logger.Error(ctx, "telemetry_invalid", "Dropped invalid telemetry message", err,
			map[string]any{"robot_id": msg.RobotID})
		return
	}
	if !msg.Timestamp.IsZero() {
		location.UpdatedAt = msg.Timestamp
	}

	if err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		return service.robots.SaveLocation(ctx, location)
	}); err != nil {
		service.logger.Error(ctx, "telemetry_persist_failed", "Failed to persist telemetry snapshot", err,
			map[string]any{"robot_id": msg.RobotID})
	}

	var session *navigation.Session
	if err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		session, err = service.sessions.ActiveForRobot(ctx, msg.RobotID)
		return err
	}); err != nil {
		service.logger.Error(ctx, "session_lookup_failed", "Failed to look up active session for robot", err,
			map[string]any{"robot_id": msg.RobotID})
		return
	}
	if session == nil {
		return
	}

	if _, err := service.ReportProgress(ctx, ports.ReportProgressInput{
		SessionID: session.ID,
		Location:  location.Coordinate,
	}); err != nil {
		service.logger.Error(ctx, "telemetry_progress_failed", "Failed to fold telemetry into session progress", err,
			map[string]any{"session_id": session.ID, "robot_id": msg.RobotID})
	}
}
