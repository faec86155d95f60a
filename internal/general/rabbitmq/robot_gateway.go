package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"store-nav/internal/general/contracts"
	"store-nav/internal/general/logger"
	"store-nav/internal/ports"
)

// RobotGateway dispatches robot commands over the robot topic exchange.
// Commands are fire-and-forget: a returned error means the message never
// reached the broker, and callers log it without rolling anything back.
type RobotGateway struct {
	publisher *MQPublisher
	logger    *logger.Logger
}

// NewRobotGateway constructs a gateway on top of an MQPublisher.
func NewRobotGateway(publisher *MQPublisher, log *logger.Logger) *RobotGateway {
	return &RobotGateway{publisher: publisher, logger: log}
}

var _ ports.CommandGateway = (*RobotGateway)(nil)

// SendMove publishes a MOVE command for the robot.
func (gateway *RobotGateway) SendMove(ctx context.Context, cmd ports.MoveCommand) error {
	waypoints := make([]contracts.Point, len(cmd.Waypoints))
	for i, w := range cmd.Waypoints {
		waypoints[i] = contracts.Point{X: w.X, Y: w.Y}
	}

	msg := contracts.MoveCommandMessage{
		CommandID:   cmd.CommandID,
		RobotID:     cmd.RobotID,
		Command:     contracts.CommandMove,
		Destination: contracts.Point{X: cmd.Destination.X, Y: cmd.Destination.Y},
		Waypoints:   waypoints,
		SpeedMS:     cmd.SpeedMS,
		VoiceGuide:  cmd.VoiceGuide,
		Message:     cmd.Message,
		Envelope:    gateway.envelope(),
	}
	return gateway.publish(ctx, "move", cmd.RobotID, cmd.CommandID, msg)
}

// SendStop publishes a STOP command for the robot.
func (gateway *RobotGateway) SendStop(ctx context.Context, cmd ports.StopCommand) error {
	msg := contracts.StopCommandMessage{
		CommandID: cmd.CommandID,
		RobotID:   cmd.RobotID,
		Command:   contracts.CommandStop,
		Reason:    cmd.Reason,
		Envelope:  gateway.envelope(),
	}
	return gateway.publish(ctx, "stop", cmd.RobotID, cmd.CommandID, msg)
}

// SendSpeak publishes a SPEAK command for the robot.
func (gateway *RobotGateway) SendSpeak(ctx context.Context, cmd ports.SpeakCommand) error {
	msg := contracts.SpeakCommandMessage{
		CommandID:    cmd.CommandID,
		RobotID:      cmd.RobotID,
		Command:      contracts.CommandSpeak,
		Text:         cmd.Text,
		LanguageCode: cmd.LanguageCode,
		Envelope:     gateway.envelope(),
	}
	return gateway.publish(ctx, "speak", cmd.RobotID, cmd.CommandID, msg)
}

func (gateway *RobotGateway) publish(ctx context.Context, command, robotID, commandID string, msg any) error {
	if strings.TrimSpace(robotID) == "" {
		return fmt.Errorf("robot command %s: empty robot id", command)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("robot command %s: marshal: %w", command, err)
	}

	routingKey := contracts.RouteRobotCommandPrefix + command + "." + robotID
	if err := gateway.publisher.Publish(contracts.ExchangeRobotTopic, routingKey, body); err != nil {
		return fmt.Errorf("robot command %s: publish: %w", command, err)
	}

	gateway.logger.Info(ctx, "robot_command_sent", "Robot command dispatched", map[string]any{
		"command":     strings.ToUpper(command),
		"command_id":  commandID,
		"robot_id":    robotID,
		"routing_key": routingKey,
		"sent_at":     time.Now().UTC(),
	})
	return nil
}

func (gateway *RobotGateway) envelope() contracts.Envelope {
	return contracts.Envelope{
		Producer: "navigation-service",
		SentAt:   time.Now().UTC(),
	}
}
