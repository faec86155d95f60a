package navigation

import "store-nav/internal/domain/geo"

// DefaultSpeedMS is the assumed robot travel speed when none is configured.
const DefaultSpeedMS = 0.8

// Progress is a point-in-time estimate of how far along a route a robot is.
type Progress struct {
	Percent           float64
	DistanceRemaining float64
	TimeRemaining     float64
}

// ClampSpeed replaces non-positive speeds with the default.
func ClampSpeed(speedMS float64) float64 {
	if speedMS <= 0 {
		return DefaultSpeedMS
	}
	return speedMS
}

// EstimateProgress computes remaining distance, completion percentage and
// remaining time for a robot at `current` heading to `destination` on a route
// of length `totalDistance`. The remaining distance is the straight line to
// the destination, not the residual path length, so a robot that drifts off
// the planned route still reports sane numbers. Percent is clamped to
// [0, 100]; a zero-length route is always 100% complete.
func EstimateProgress(destination geo.Coordinate, totalDistance float64, current geo.Coordinate, speedMS float64) Progress {
	remaining := geo.Distance(current, destination)
	speed := ClampSpeed(speedMS)

	percent := 100.0
	if totalDistance > 0 {
		percent = (1 - remaining/totalDistance) * 100
		if percent < 0 {
			percent = 0
		}
		if percent > 100 {
			percent = 100
		}
	}

	return Progress{
		Percent:           percent,
		DistanceRemaining: remaining,
		TimeRemaining:     remaining / speed,
	}
}
