package robot

import (
	"errors"
	"strings"
	"time"

	"store-nav/internal/domain/geo"
)

// Location is the latest known telemetry snapshot of one robot,
// corresponding to the `robot_locations` table.
type Location struct {
	RobotID        string
	Coordinate     geo.Coordinate
	HeadingDegrees float64
	BatteryPercent int
	Status         Status
	UpdatedAt      time.Time
}

var (
	ErrRobotRequired  = errors.New("robot id is required")
	ErrInvalidHeading = errors.New("heading must be within [0, 360)")
	ErrInvalidBattery = errors.New("battery must be between 0 and 100")
	ErrRobotNotFound  = errors.New("robot not found")
)

// NewLocation constructs a validated telemetry snapshot stamped now.
func NewLocation(robotID string, coordinate geo.Coordinate, headingDegrees float64, batteryPercent int, status Status) (*Location, error) {
	location := &Location{
		RobotID:        strings.TrimSpace(robotID),
		Coordinate:     coordinate,
		HeadingDegrees: headingDegrees,
		BatteryPercent: batteryPercent,
		Status:         status,
		UpdatedAt:      time.Now().UTC(),
	}
	if err := location.Validate(); err != nil {
		return nil, err
	}
	return location, nil
}

// Validate checks invariants of the Location.
func (location *Location) Validate() error {
	if strings.TrimSpace(location.RobotID) == "" {
		return ErrRobotRequired
	}
	if location.HeadingDegrees < 0 || location.HeadingDegrees >= 360 {
		return ErrInvalidHeading
	}
	if location.BatteryPercent < 0 || location.BatteryPercent > 100 {
		return ErrInvalidBattery
	}
	if !location.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}
