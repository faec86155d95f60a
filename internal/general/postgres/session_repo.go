package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"store-nav/internal/domain/geo"
	"store-nav/internal/domain/navigation"
	"store-nav/internal/ports"

	"github.com/jackc/pgx/v5"
)

// SessionRepo persists navigation sessions using pgx and plain SQL.
// Writes go through compare-and-swap on the version column, so concurrent
// progress reports for one session are linearized without row locks held
// across business logic.
type SessionRepo struct{}

// NewSessionRepo constructs a new SessionRepo.
func NewSessionRepo() ports.SessionRepository {
	return &SessionRepo{}
}

// Put inserts a new session row at its current version.
func (repo *SessionRepo) Put(ctx context.Context, session *navigation.Session) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	waypoints, err := encodeWaypoints(session.Waypoints)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO navigation_sessions (
			id, created_at, updated_at, robot_id, product_id, customer_id,
			origin_x, origin_y, destination_x, destination_y,
			waypoints, total_distance, status,
			current_x, current_y, progress_percent, distance_remaining, time_remaining,
			version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb, $12, $13, $14, $15, $16, $17, $18, $19)
	`,
		session.ID, session.CreatedAt, session.UpdatedAt,
		session.RobotID, session.ProductID, session.CustomerID,
		session.Origin.X, session.Origin.Y, session.Destination.X, session.Destination.Y,
		waypoints, session.TotalDistance, session.Status.String(),
		session.CurrentLocation.X, session.CurrentLocation.Y,
		session.ProgressPercent, session.DistanceRemaining, session.TimeRemaining,
		session.Version,
	)
	if err != nil {
		return fmt.Errorf("insert navigation session: %w", err)
	}
	return nil
}

// Get fetches a session by primary key.
func (repo *SessionRepo) Get(ctx context.Context, id string) (*navigation.Session, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return scanSession(tx.QueryRow(ctx, selectSession+` WHERE id = $1`, id))
}

// CompareAndSwap persists the session if the stored version is still
// expectedVersion; on success session.Version is bumped.
func (repo *SessionRepo) CompareAndSwap(ctx context.Context, session *navigation.Session, expectedVersion int64) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE navigation_sessions
		SET updated_at = $1,
		    status = $2,
		    current_x = $3,
		    current_y = $4,
		    progress_percent = $5,
		    distance_remaining = $6,
		    time_remaining = $7,
		    version = version + 1
		WHERE id = $8
		  AND version = $9
	`,
		session.UpdatedAt, session.Status.String(),
		session.CurrentLocation.X, session.CurrentLocation.Y,
		session.ProgressPercent, session.DistanceRemaining, session.TimeRemaining,
		session.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("cas navigation session: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// distinguish a lost race from a missing row
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM navigation_sessions WHERE id = $1)`, session.ID).Scan(&exists); err != nil {
			return fmt.Errorf("cas navigation session: %w", err)
		}
		if !exists {
			return navigation.ErrSessionNotFound
		}
		return navigation.ErrVersionConflict
	}

	session.Version = expectedVersion + 1
	return nil
}

// ActiveForRobot fetches the most recent non-terminal session for a robot.
func (repo *SessionRepo) ActiveForRobot(ctx context.Context, robotID string) (*navigation.Session, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	session, err := scanSession(tx.QueryRow(ctx, selectSession+`
		WHERE robot_id = $1
		  AND status IN ('NAVIGATING', 'PAUSED')
		ORDER BY created_at DESC
		LIMIT 1
	`, robotID))
	if errors.Is(err, navigation.ErrSessionNotFound) {
		// no active session is not an error here
		return nil, nil
	}
	return session, err
}

// --- helpers ---

const selectSession = `
	SELECT
		id, created_at, updated_at, robot_id, product_id, customer_id,
		origin_x, origin_y, destination_x, destination_y,
		waypoints, total_distance, status,
		current_x, current_y, progress_percent, distance_remaining, time_remaining,
		version
	FROM navigation_sessions`

func scanSession(row pgx.Row) (*navigation.Session, error) {
	var out navigation.Session
	var status string
	var waypoints []byte

	err := row.Scan(
		&out.ID, &out.CreatedAt, &out.UpdatedAt, &out.RobotID, &out.ProductID, &out.CustomerID,
		&out.Origin.X, &out.Origin.Y, &out.Destination.X, &out.Destination.Y,
		&waypoints, &out.TotalDistance, &status,
		&out.CurrentLocation.X, &out.CurrentLocation.Y,
		&out.ProgressPercent, &out.DistanceRemaining, &out.TimeRemaining,
		&out.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, navigation.ErrSessionNotFound
		}
		return nil, err
	}

	out.Status = navigation.Status(status)
	if err := json.Unmarshal(waypoints, &out.Waypoints); err != nil {
		return nil, fmt.Errorf("decode waypoints: %w", err)
	}

	return &out, nil
}

func encodeWaypoints(waypoints []geo.Coordinate) (string, error) {
	body, err := json.Marshal(waypoints)
	if err != nil {
		return "", fmt.Errorf("encode waypoints: %w", err)
	}
	return string(body), nil
}
