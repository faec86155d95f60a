package geo

import (
	"errors"
	"strings"
)

// Zone is a named rectangular area of the store (e.g. the skincare section).
// (X1, Y1) is the top-left corner and (X2, Y2) the bottom-right corner.
type Zone struct {
	ID   string  `json:"zone_id" yaml:"id"`
	Name string  `json:"name" yaml:"name"`
	X1   float64 `json:"x1" yaml:"x1"`
	Y1   float64 `json:"y1" yaml:"y1"`
	X2   float64 `json:"x2" yaml:"x2"`
	Y2   float64 `json:"y2" yaml:"y2"`
}

var (
	ErrEmptyZoneID     = errors.New("zone id cannot be empty")
	ErrInvalidZoneRect = errors.New("zone corners must satisfy x1<x2 and y1<y2")
	ErrDuplicateZoneID = errors.New("duplicate zone id")
	ErrZoneOutOfBounds = errors.New("zone extends outside the floor plan")
)

// Validate checks invariants of the Zone.
func (zone Zone) Validate() error {
	if strings.TrimSpace(zone.ID) == "" {
		return ErrEmptyZoneID
	}
	if zone.X1 >= zone.X2 || zone.Y1 >= zone.Y2 {
		return ErrInvalidZoneRect
	}
	return nil
}

// Center returns the geometric center of the zone.
func (zone Zone) Center() Coordinate {
	return Coordinate{
		X: (zone.X1 + zone.X2) / 2,
		Y: (zone.Y1 + zone.Y2) / 2,
	}
}

// Contains reports whether c lies inside the zone (borders inclusive).
func (zone Zone) Contains(c Coordinate) bool {
	return c.X >= zone.X1 && c.X <= zone.X2 && c.Y >= zone.Y1 && c.Y <= zone.Y2
}
