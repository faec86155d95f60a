package service

import (
	"context"
	"errors"

	"store-nav/internal/domain/navigation"
	"store-nav/internal/domain/robot"
	"store-nav/internal/ports"
)

// GetSessionStatus returns a live snapshot of one session. For active
// sessions the remaining distance and time are recomputed against the latest
// telemetry fix rather than the last persisted progress report, so the view
// stays fresh between reports. The recomputation is read-only; nothing is
// written back.
func (service *navigationService) GetSessionStatus(ctx context.Context, sessionID string) (ports.SessionSnapshot, error) {
	var session *navigation.Session
	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		session, err = service.sessions.Get(ctx, sessionID)
		return err
	})
	if err != nil {
		if !errors.Is(err, navigation.ErrSessionNotFound) {
			service.logger.Error(ctx, "session_lookup_failed", "Failed to load navigation session", err, map[string]any{
				"session_id": sessionID,
			})
		}
		return ports.SessionSnapshot{}, err
	}

	snapshot := snapshotOf(session)
	if !session.Active() {
		return snapshot, nil
	}

	location, err := service.telemetry.Latest(ctx, session.RobotID)
	if err != nil {
		if !errors.Is(err, robot.ErrRobotNotFound) {
			service.logger.Error(ctx, "telemetry_lookup_failed", "Failed to read robot telemetry", err, map[string]any{
				"robot_id": session.RobotID,
			})
		}
		return snapshot, nil
	}

	if location.UpdatedAt.After(session.UpdatedAt) {
		progress := navigation.EstimateProgress(session.Destination, session.TotalDistance, location.Coordinate, service.speedMS)
		snapshot.CurrentLocation = location.Coordinate
		snapshot.ProgressPercent = progress.Percent
		snapshot.DistanceRemaining = progress.DistanceRemaining
		snapshot.TimeRemaining = progress.TimeRemaining
		snapshot.UpdatedAt = location.UpdatedAt
	}

	return snapshot, nil
}
