package geo

import (
	"fmt"
	"math"
)

// Coordinate is a floor-plan-relative point. Units are meters, origin at the
// top-left corner of the store layout.
type Coordinate struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// String formats the coordinate with centimeter precision.
func (c Coordinate) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", c.X, c.Y)
}

// Distance returns the Euclidean distance between a and b in meters.
func Distance(a, b Coordinate) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// TurnAngle returns the absolute change of heading, in degrees within
// [0, 180], when travelling p1 -> p2 -> p3.
func TurnAngle(p1, p2, p3 Coordinate) float64 {
	first := math.Atan2(p2.Y-p1.Y, p2.X-p1.X)
	second := math.Atan2(p3.Y-p2.Y, p3.X-p2.X)
	diff := math.Abs(second-first) * 180 / math.Pi
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}
