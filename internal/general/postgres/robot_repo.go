package postgres

import (
	"context"
	"errors"
	"fmt"

	"store-nav/internal/domain/robot"
	"store-nav/internal/ports"

	"github.com/jackc/pgx/v5"
)

// RobotRepo keeps the latest telemetry snapshot per robot (one row each).
type RobotRepo struct{}

// NewRobotRepo constructs a new RobotRepo.
func NewRobotRepo() ports.RobotRepository {
	return &RobotRepo{}
}

// SaveLocation upserts the robot's latest snapshot.
func (repo *RobotRepo) SaveLocation(ctx context.Context, location *robot.Location) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO robot_locations (robot_id, x, y, heading_degrees, battery_percent, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (robot_id) DO UPDATE
		SET x = EXCLUDED.x,
		    y = EXCLUDED.y,
		    heading_degrees = EXCLUDED.heading_degrees,
		    battery_percent = EXCLUDED.battery_percent,
		    status = EXCLUDED.status,
		    updated_at = EXCLUDED.updated_at
	`,
		location.RobotID, location.Coordinate.X, location.Coordinate.Y,
		location.HeadingDegrees, location.BatteryPercent, location.Status.String(),
		location.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert robot location: %w", err)
	}
	return nil
}

// GetLocation fetches the latest snapshot for one robot.
func (repo *RobotRepo) GetLocation(ctx context.Context, robotID string) (*robot.Location, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var out robot.Location
	var status string
	err = tx.QueryRow(ctx, `
		SELECT robot_id, x, y, heading_degrees, battery_percent, status, updated_at
		FROM robot_locations
		WHERE robot_id = $1
	`, robotID).Scan(
		&out.RobotID, &out.Coordinate.X, &out.Coordinate.Y,
		&out.HeadingDegrees, &out.BatteryPercent, &status, &out.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, robot.ErrRobotNotFound
		}
		return nil, err
	}

	out.Status = robot.Status(status)
	return &out, nil
}

// ListLocations returns the latest snapshot of every known robot.
func (repo *RobotRepo) ListLocations(ctx context.Context) ([]robot.Location, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT robot_id, x, y, heading_degrees, battery_percent, status, updated_at
		FROM robot_locations
		ORDER BY robot_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query robot locations: %w", err)
	}
	defer rows.Close()

	var locations []robot.Location
	for rows.Next() {
		var loc robot.Location
		var status string
		if err := rows.Scan(&loc.RobotID, &loc.Coordinate.X, &loc.Coordinate.Y,
			&loc.HeadingDegrees, &loc.BatteryPercent, &status, &loc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan robot location: %w", err)
		}
		loc.Status = robot.Status(status)
		locations = append(locations, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return locations, nil
}
