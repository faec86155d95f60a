package planner

import (
	"math"

	"store-nav/internal/domain/geo"
)

const (
	// DefaultResolution is the grid cell size in meters.
	DefaultResolution = 0.5
	// DefaultSpeedMS is assumed when the caller passes a non-positive speed.
	DefaultSpeedMS = 0.8
	// turnThresholdDegrees: vertices bending less than this are dropped
	// during smoothing.
	turnThresholdDegrees = 15.0
)

// PathResult is the outcome of one planning request. Success=false is a
// normal, representable outcome (unreachable or out-of-bounds endpoints),
// not an error.
type PathResult struct {
	Success              bool
	Start                geo.Coordinate
	End                  geo.Coordinate
	Waypoints            []geo.Coordinate
	TotalDistance        float64
	EstimatedTimeSeconds float64
}

// Planner searches routes over a uniform grid laid on a floor plan.
// A zero-size struct per request would do; keeping resolution on the
// planner lets tests shrink the grid.
type Planner struct {
	resolution float64
}

// New returns a planner with the default 0.5 m grid.
func New() *Planner {
	return NewWithResolution(DefaultResolution)
}

// NewWithResolution returns a planner with a custom grid cell size.
func NewWithResolution(resolution float64) *Planner {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	return &Planner{resolution: resolution}
}

// Plan computes a route from start to end across the floor plan. Plans with
// and without obstacles run through the same grid search. The returned
// waypoints begin exactly at start and finish exactly at end.
func (planner *Planner) Plan(start, end geo.Coordinate, plan geo.FloorPlan, speedMS float64) PathResult {
	result := PathResult{Start: start, End: end}

	if plan.Blocked(start) || plan.Blocked(end) {
		return result
	}
	if start == end {
		result.Success = true
		result.Waypoints = []geo.Coordinate{start}
		return result
	}

	cells := planner.search(start, end, plan)
	if cells == nil {
		return result
	}

	var waypoints []geo.Coordinate
	if len(cells) == 1 {
		// Distinct endpoints inside one grid cell collapse the search to a
		// single cell; keep both so the path still runs start to end.
		waypoints = []geo.Coordinate{start, end}
	} else {
		waypoints = make([]geo.Coordinate, len(cells))
		for i, c := range cells {
			waypoints[i] = planner.toWorld(c)
		}
		// Snap the grid endpoints back to the exact requested coordinates.
		waypoints[0] = start
		waypoints[len(waypoints)-1] = end

		waypoints = planner.shortcut(waypoints, plan)
		waypoints = dropShallowTurns(waypoints)
	}

	speed := speedMS
	if speed <= 0 {
		speed = DefaultSpeedMS
	}

	result.Success = true
	result.Waypoints = waypoints
	result.TotalDistance = pathLength(waypoints)
	result.EstimatedTimeSeconds = result.TotalDistance / speed
	return result
}

// shortcut replaces runs of grid steps with direct segments wherever the
// straight line between two waypoints stays clear of obstacles. Endpoints
// are always kept and the waypoint count never grows.
func (planner *Planner) shortcut(points []geo.Coordinate, plan geo.FloorPlan) []geo.Coordinate {
	if len(points) <= 2 {
		return points
	}
	out := []geo.Coordinate{points[0]}
	anchor := 0
	for anchor < len(points)-1 {
		next := anchor + 1
		for probe := len(points) - 1; probe > next; probe-- {
			if planner.lineOfSight(points[anchor], points[probe], plan) {
				next = probe
				break
			}
		}
		out = append(out, points[next])
		anchor = next
	}
	return out
}

// lineOfSight samples the segment a-b at half-cell steps and reports whether
// every sample is traversable.
func (planner *Planner) lineOfSight(a, b geo.Coordinate, plan geo.FloorPlan) bool {
	steps := int(math.Ceil(geo.Distance(a, b) / (planner.resolution / 2)))
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		sample := geo.Coordinate{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
		if plan.Blocked(sample) {
			return false
		}
	}
	return true
}

// dropShallowTurns removes interior vertices whose turn angle stays at or
// below the smoothing threshold.
func dropShallowTurns(points []geo.Coordinate) []geo.Coordinate {
	if len(points) <= 2 {
		return points
	}
	out := []geo.Coordinate{points[0]}
	for i := 1; i < len(points)-1; i++ {
		if geo.TurnAngle(points[i-1], points[i], points[i+1]) > turnThresholdDegrees {
			out = append(out, points[i])
		}
	}
	return append(out, points[len(points)-1])
}

func pathLength(points []geo.Coordinate) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += geo.Distance(points[i-1], points[i])
	}
	return total
}
