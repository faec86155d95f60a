package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"store-nav/internal/domain/navigation"
	"store-nav/internal/domain/product"
	"store-nav/internal/ports"
)

// defaultRobotID is used when a guide request names no robot.
const defaultRobotID = "robot_001"

// Guide plans a route from the robot to the product and starts a navigation
// session in NAVIGATING state. A planning failure creates no session and
// surfaces as ports.ErrNoRoute; a failed command dispatch does not undo the
// session.
func (service *navigationService) Guide(ctx context.Context, in ports.GuideInput) (ports.GuideResult, error) {
	correlationID := generateCorrelationID()

	robotID := strings.TrimSpace(in.RobotID)
	if robotID == "" {
		robotID = defaultRobotID
	}

	// look up the product
	var prod *product.Product
	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		prod, err = service.products.GetByID(ctx, in.ProductID)
		return err
	})
	if err != nil {
		service.logger.Error(ctx, "guide_product_lookup_failed", "Failed to look up product", err, map[string]any{
			"product_id": in.ProductID,
			"request_id": correlationID,
		})
		return ports.GuideResult{}, err
	}

	destination := prod.ResolveLocation(service.plan)

	origin := service.robotOrigin(ctx, robotID)
	if in.Start != nil {
		origin = *in.Start
	}

	// plan the route
	path := service.planner.Plan(origin, destination, service.plan, service.speedMS)
	if !path.Success {
		service.logger.Info(ctx, "guide_route_not_found", "No feasible route to product", map[string]any{
			"product_id":  prod.ID,
			"robot_id":    robotID,
			"origin":      origin.String(),
			"destination": destination.String(),
			"request_id":  correlationID,
		})
		return ports.GuideResult{}, ports.ErrNoRoute
	}

	// build and persist the session (NAVIGATING)
	session, err := navigation.NewSession(robotID, prod.ID, in.CustomerID, origin, destination, path.Waypoints, path.TotalDistance, service.speedMS)
	if err != nil {
		return ports.GuideResult{}, err
	}

	err = service.uow.WithinTx(ctx, func(ctx context.Context) error {
		return service.sessions.Put(ctx, session)
	})
	if err != nil {
		service.logger.Error(ctx, "session_create_failed", "Failed to persist navigation session", err, map[string]any{
			"robot_id":   robotID,
			"product_id": prod.ID,
			"request_id": correlationID,
		})
		return ports.GuideResult{}, err
	}

	ctx = service.logger.WithSessionID(ctx, session.ID)
	message := fmt.Sprintf("Follow me, guiding you to %s.", prod.Name)

	// dispatch the move command (fire-and-forget)
	moveCmd := ports.MoveCommand{
		CommandID:   uuid.NewString(),
		RobotID:     robotID,
		Destination: destination,
		Waypoints:   path.Waypoints,
		SpeedMS:     service.speedMS,
		VoiceGuide:  true,
		Message:     message,
	}
	if err := service.gateway.SendMove(ctx, moveCmd); err != nil {
		service.logger.Error(ctx, "robot_command_failed", "Failed to dispatch move command", err, map[string]any{
			"robot_id":   robotID,
			"request_id": correlationID,
		})
	}

	// announce the guidance on the robot's speaker (fire-and-forget)
	speakCmd := ports.SpeakCommand{
		CommandID:    uuid.NewString(),
		RobotID:      robotID,
		Text:         message,
		LanguageCode: "en-US",
	}
	if err := service.gateway.SendSpeak(ctx, speakCmd); err != nil {
		service.logger.Error(ctx, "robot_command_failed", "Failed to dispatch speak command", err, map[string]any{
			"robot_id":   robotID,
			"request_id": correlationID,
		})
	}

	// publish initial session status (NAVIGATING)
	if err := service.publishSessionStatus(ctx, session, correlationID); err != nil {
		service.logger.Error(ctx, "session_status_publish_failed", "Failed to publish session status to RabbitMQ", err, map[string]any{
			"session_id": session.ID,
			"request_id": correlationID,
		})
	}
	service.notifyCustomer(ctx, session, correlationID)

	service.logger.Info(ctx, "session_created", fmt.Sprintf("Navigation session %s created", session.ID), map[string]any{
		"session_id":     session.ID,
		"robot_id":       robotID,
		"product_id":     prod.ID,
		"total_distance": path.TotalDistance,
		"waypoints":      len(path.Waypoints),
		"request_id":     correlationID,
	})

	return ports.GuideResult{
		SessionID: session.ID,
		Product: ports.ProductBrief{
			ProductID: prod.ID,
			Name:      prod.Name,
			Category:  prod.Category,
			Price:     prod.Price,
			Location:  destination,
		},
		RobotLocation:    origin,
		Path:             path,
		EstimatedArrival: time.Now().UTC().Add(time.Duration(path.EstimatedTimeSeconds * float64(time.Second))),
		Message:          message,
	}, nil
}
