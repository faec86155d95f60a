package service

import (
	"context"
	"errors"
	"strings"

	"store-nav/internal/domain/navigation"
	"store-nav/internal/ports"
)

// casMaxAttempts bounds the optimistic-concurrency retry loop. Conflicts are
// rare (one robot reports on one session) so a handful of retries is plenty.
const casMaxAttempts = 5

// ReportProgress records a robot position against its session, recomputes the
// progress estimate and optionally applies a status token. The update is a
// read-mutate-CompareAndSwap loop on the session version; on a version
// conflict the whole cycle retries against the fresh row.
//
// Terminal sessions accept reports idempotently: the stored snapshot is
// returned unchanged and nothing is written. Unknown status tokens and
// invalid transitions are logged and ignored; the position update still
// lands.
func (service *navigationService) ReportProgress(ctx context.Context, in ports.ReportProgressInput) (ports.SessionSnapshot, error) {
	correlationID := generateCorrelationID()
	ctx = service.logger.WithSessionID(ctx, in.SessionID)

	var session *navigation.Session
	saved := false

	for attempt := 1; attempt <= casMaxAttempts; attempt++ {
		err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
			var err error
			session, err = service.sessions.Get(ctx, in.SessionID)
			return err
		})
		if err != nil {
			if !errors.Is(err, navigation.ErrSessionNotFound) {
				service.logger.Error(ctx, "session_lookup_failed", "Failed to load navigation session", err, map[string]any{
					"session_id": in.SessionID,
					"request_id": correlationID,
				})
			}
			return ports.SessionSnapshot{}, err
		}

		if !session.Active() {
			service.logger.Info(ctx, "progress_after_terminal", "Progress report for terminal session ignored", map[string]any{
				"session_id": session.ID,
				"status":     session.Status.String(),
				"request_id": correlationID,
			})
			return snapshotOf(session), nil
		}

		expected := session.Version
		progress := navigation.EstimateProgress(session.Destination, session.TotalDistance, in.Location, service.speedMS)
		session.ApplyProgress(in.Location, progress)

		if token := strings.TrimSpace(in.StatusToken); token != "" {
			next, perr := navigation.ParseStatus(token)
			if perr != nil {
				service.logger.Info(ctx, "session_status_token_ignored", "Unknown session status token", map[string]any{
					"session_id": session.ID,
					"token":      in.StatusToken,
					"request_id": correlationID,
				})
			} else if serr := session.SetStatus(next); serr != nil {
				service.logger.Info(ctx, "session_status_transition_rejected", "Status transition rejected, keeping current status", map[string]any{
					"session_id": session.ID,
					"from":       session.Status.String(),
					"to":         next.String(),
					"request_id": correlationID,
				})
			}
		}

		err = service.uow.WithinTx(ctx, func(ctx context.Context) error {
			return service.sessions.CompareAndSwap(ctx, session, expected)
		})
		if err == nil {
			saved = true
			break
		}
		if errors.Is(err, navigation.ErrVersionConflict) {
			service.logger.Info(ctx, "session_cas_conflict", "Concurrent session update, retrying", map[string]any{
				"session_id": session.ID,
				"attempt":    attempt,
				"request_id": correlationID,
			})
			continue
		}
		service.logger.Error(ctx, "session_update_failed", "Failed to persist progress update", err, map[string]any{
			"session_id": session.ID,
			"request_id": correlationID,
		})
		return ports.SessionSnapshot{}, err
	}

	if !saved {
		service.logger.Error(ctx, "session_update_failed", "Gave up after repeated version conflicts", navigation.ErrVersionConflict, map[string]any{
			"session_id": in.SessionID,
			"request_id": correlationID,
		})
		return ports.SessionSnapshot{}, navigation.ErrVersionConflict
	}

	if err := service.publishSessionStatus(ctx, session, correlationID); err != nil {
		service.logger.Error(ctx, "session_status_publish_failed", "Failed to publish session status to RabbitMQ", err, map[string]any{
			"session_id": session.ID,
			"request_id": correlationID,
		})
	}
	service.notifyCustomer(ctx, session, correlationID)

	service.logger.Info(ctx, "session_progress_recorded", "Progress report applied", map[string]any{
		"session_id":       session.ID,
		"robot_id":         session.RobotID,
		"status":           session.Status.String(),
		"progress_percent": session.ProgressPercent,
		"request_id":       correlationID,
	})

	return snapshotOf(session), nil
}
