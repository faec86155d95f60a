package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"store-nav/internal/domain/geo"
)

// LoadFloorPlan reads a store layout from a YAML file. An empty path selects
// the built-in default layout.
func LoadFloorPlan(path string) (geo.FloorPlan, error) {
	if path == "" {
		return geo.DefaultFloorPlan(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return geo.FloorPlan{}, fmt.Errorf("failed to open layout file: %w", err)
	}
	defer file.Close()

	var plan geo.FloorPlan
	if err := yaml.NewDecoder(file).Decode(&plan); err != nil {
		return geo.FloorPlan{}, fmt.Errorf("failed to parse layout file: %w", err)
	}

	if err := plan.Validate(); err != nil {
		return geo.FloorPlan{}, fmt.Errorf("invalid layout: %w", err)
	}

	return plan, nil
}
