package geo

import "errors"

// Region is an axis-aligned rectangle used for obstacles (shelf blocks,
// closed-off areas). Corners follow the Zone convention.
type Region struct {
	X1 float64 `json:"x1" yaml:"x1"`
	Y1 float64 `json:"y1" yaml:"y1"`
	X2 float64 `json:"x2" yaml:"x2"`
	Y2 float64 `json:"y2" yaml:"y2"`
}

// Contains reports whether c lies inside the region (borders inclusive).
func (region Region) Contains(c Coordinate) bool {
	return c.X >= region.X1 && c.X <= region.X2 && c.Y >= region.Y1 && c.Y <= region.Y2
}

// Validate checks that the region is a proper rectangle.
func (region Region) Validate() error {
	if region.X1 >= region.X2 || region.Y1 >= region.Y2 {
		return ErrInvalidRegionRect
	}
	return nil
}

var (
	ErrInvalidRegionRect = errors.New("region corners must satisfy x1<x2 and y1<y2")
	ErrInvalidPlanSize   = errors.New("floor plan width and height must be positive")
)

// FloorPlan is the navigable store layout: outer bounds plus static
// obstacles, labelled zones and charging stations.
type FloorPlan struct {
	Width            float64      `json:"width" yaml:"width"`
	Height           float64      `json:"height" yaml:"height"`
	Zones            []Zone       `json:"zones" yaml:"zones"`
	Obstacles        []Region     `json:"obstacles" yaml:"obstacles"`
	ChargingStations []Coordinate `json:"charging_stations" yaml:"charging_stations"`
}

// Validate checks plan dimensions, every zone and every obstacle.
func (plan FloorPlan) Validate() error {
	if plan.Width <= 0 || plan.Height <= 0 {
		return ErrInvalidPlanSize
	}
	seen := make(map[string]bool, len(plan.Zones))
	for _, zone := range plan.Zones {
		if err := zone.Validate(); err != nil {
			return err
		}
		if seen[zone.ID] {
			return ErrDuplicateZoneID
		}
		seen[zone.ID] = true
		if zone.X2 > plan.Width || zone.Y2 > plan.Height || zone.X1 < 0 || zone.Y1 < 0 {
			return ErrZoneOutOfBounds
		}
	}
	for _, obstacle := range plan.Obstacles {
		if err := obstacle.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// InBounds reports whether c lies inside the outer rectangle of the plan.
func (plan FloorPlan) InBounds(c Coordinate) bool {
	return c.X >= 0 && c.X <= plan.Width && c.Y >= 0 && c.Y <= plan.Height
}

// Blocked reports whether c is out of bounds or inside any obstacle.
func (plan FloorPlan) Blocked(c Coordinate) bool {
	if !plan.InBounds(c) {
		return true
	}
	for _, obstacle := range plan.Obstacles {
		if obstacle.Contains(c) {
			return true
		}
	}
	return false
}

// ZoneByID returns the zone with the given id, or false when absent.
func (plan FloorPlan) ZoneByID(id string) (Zone, bool) {
	for _, zone := range plan.Zones {
		if zone.ID == id {
			return zone, true
		}
	}
	return Zone{}, false
}

// Center returns the geometric center of the plan.
func (plan FloorPlan) Center() Coordinate {
	return Coordinate{X: plan.Width / 2, Y: plan.Height / 2}
}

// DefaultFloorPlan returns the built-in 50x40 m store layout with four
// product zones and two charging stations. Used when no layout file is
// configured.
func DefaultFloorPlan() FloorPlan {
	return FloorPlan{
		Width:  50,
		Height: 40,
		Zones: []Zone{
			{ID: "zone_skincare", Name: "Skincare", X1: 5, Y1: 5, X2: 20, Y2: 15},
			{ID: "zone_makeup", Name: "Makeup", X1: 25, Y1: 5, X2: 40, Y2: 15},
			{ID: "zone_bodycare", Name: "Bodycare", X1: 5, Y1: 22, X2: 20, Y2: 32},
			{ID: "zone_haircare", Name: "Haircare", X1: 25, Y1: 22, X2: 40, Y2: 32},
		},
		ChargingStations: []Coordinate{
			{X: 2, Y: 2},
			{X: 45, Y: 2},
		},
	}
}
