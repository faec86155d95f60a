package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"store-nav/internal/domain/navigation"
	"store-nav/internal/ports"
)

// MoveRobot dispatches a direct move command outside of any guidance session.
// The route is still planned against the floor plan so an unreachable target
// is rejected before the robot hears about it.
func (service *navigationService) MoveRobot(ctx context.Context, in ports.MoveRobotInput) (ports.MoveRobotResult, error) {
	robotID := strings.TrimSpace(in.RobotID)
	if robotID == "" {
		return ports.MoveRobotResult{}, navigation.ErrRobotRequired
	}

	speed := in.SpeedMS
	if speed <= 0 {
		speed = service.speedMS
	}

	origin := service.robotOrigin(ctx, robotID)
	path := service.planner.Plan(origin, in.Destination, service.plan, speed)
	if !path.Success {
		service.logger.Info(ctx, "move_route_not_found", "No feasible route for move command", map[string]any{
			"robot_id":    robotID,
			"origin":      origin.String(),
			"destination": in.Destination.String(),
		})
		return ports.MoveRobotResult{}, ports.ErrNoRoute
	}

	cmd := ports.MoveCommand{
		CommandID:   uuid.NewString(),
		RobotID:     robotID,
		Destination: in.Destination,
		Waypoints:   path.Waypoints,
		SpeedMS:     speed,
		VoiceGuide:  in.VoiceGuide,
		Message:     in.Message,
	}
	if err := service.gateway.SendMove(ctx, cmd); err != nil {
		service.logger.Error(ctx, "robot_command_failed", "Failed to dispatch move command", err, map[string]any{
			"robot_id":   robotID,
			"command_id": cmd.CommandID,
		})
		return ports.MoveRobotResult{}, err
	}

	service.logger.Info(ctx, "robot_move_dispatched", "Move command dispatched", map[string]any{
		"robot_id":    robotID,
		"command_id":  cmd.CommandID,
		"destination": in.Destination.String(),
	})

	return ports.MoveRobotResult{
		CommandID:            cmd.CommandID,
		RobotID:              robotID,
		CurrentLocation:      origin,
		Destination:          in.Destination,
		EstimatedTimeSeconds: path.EstimatedTimeSeconds,
		Message:              fmt.Sprintf("Robot %s moving to %s", robotID, in.Destination.String()),
	}, nil
}

// StopRobot dispatches a stop command. When the robot has an active guidance
// session it is paused as well, so a later resume can pick up where it left
// off; the pause is best effort and never fails the stop.
func (service *navigationService) StopRobot(ctx context.Context, in ports.StopRobotInput) (ports.CommandAck, error) {
	robotID := strings.TrimSpace(in.RobotID)
	if robotID == "" {
		return ports.CommandAck{}, navigation.ErrRobotRequired
	}

	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = "operator stop"
	}

	cmd := ports.StopCommand{
		CommandID: uuid.NewString(),
		RobotID:   robotID,
		Reason:    reason,
	}
	if err := service.gateway.SendStop(ctx, cmd); err != nil {
		service.logger.Error(ctx, "robot_command_failed", "Failed to dispatch stop command", err, map[string]any{
			"robot_id":   robotID,
			"command_id": cmd.CommandID,
		})
		return ports.CommandAck{}, err
	}

	service.pauseActiveSession(ctx, robotID)

	service.logger.Info(ctx, "robot_stop_dispatched", "Stop command dispatched", map[string]any{
		"robot_id":   robotID,
		"command_id": cmd.CommandID,
		"reason":     reason,
	})

	return ports.CommandAck{
		CommandID: cmd.CommandID,
		RobotID:   robotID,
		Message:   fmt.Sprintf("Robot %s stopping: %s", robotID, reason),
	}, nil
}

// Speak dispatches a text-to-speech command to the robot.
func (service *navigationService) Speak(ctx context.Context, in ports.SpeakInput) (ports.CommandAck, error) {
	robotID := strings.TrimSpace(in.RobotID)
	if robotID == "" {
		return ports.CommandAck{}, navigation.ErrRobotRequired
	}

	language := strings.TrimSpace(in.LanguageCode)
	if language == "" {
		language = "en-US"
	}

	cmd := ports.SpeakCommand{
		CommandID:    uuid.NewString(),
		RobotID:      robotID,
		Text:         in.Text,
		LanguageCode: language,
	}
	if err := service.gateway.SendSpeak(ctx, cmd); err != nil {
		service.logger.Error(ctx, "robot_command_failed", "Failed to dispatch speak command", err, map[string]any{
			"robot_id":   robotID,
			"command_id": cmd.CommandID,
		})
		return ports.CommandAck{}, err
	}

	return ports.CommandAck{
		CommandID: cmd.CommandID,
		RobotID:   robotID,
		Message:   fmt.Sprintf("Robot %s speaking", robotID),
	}, nil
}

// pauseActiveSession moves the robot's active session to PAUSED, if any.
func (service *navigationService) pauseActiveSession(ctx context.Context, robotID string) {
	for attempt := 1; attempt <= casMaxAttempts; attempt++ {
		var session *navigation.Session
		err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
			var err error
			session, err = service.sessions.ActiveForRobot(ctx, robotID)
			return err
		})
		if err != nil {
			service.logger.Error(ctx, "session_lookup_failed", "Failed to look up active session for robot", err, map[string]any{
				"robot_id": robotID,
			})
			return
		}
		if session == nil || session.Status != navigation.StatusNavigating {
			return
		}

		expected := session.Version
		if err := session.SetStatus(navigation.StatusPaused); err != nil {
			return
		}

		err = service.uow.WithinTx(ctx, func(ctx context.Context) error {
			return service.sessions.CompareAndSwap(ctx, session, expected)
		})
		if err == nil {
			ctx = service.logger.WithSessionID(ctx, session.ID)
			service.logger.Info(ctx, "session_paused", "Active session paused after stop command", map[string]any{
				"session_id": session.ID,
				"robot_id":   robotID,
			})
			correlationID := generateCorrelationID()
			if perr := service.publishSessionStatus(ctx, session, correlationID); perr != nil {
				service.logger.Error(ctx, "session_status_publish_failed", "Failed to publish session status to RabbitMQ", perr, map[string]any{
					"session_id": session.ID,
				})
			}
			service.notifyCustomer(ctx, session, correlationID)
			return
		}
		if errors.Is(err, navigation.ErrVersionConflict) {
			continue
		}
		service.logger.Error(ctx, "session_update_failed", "Failed to pause session", err, map[string]any{
			"session_id": session.ID,
		})
		return
	}
}
