package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	t.Run("applies defaults", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "config.yaml", `
database:
  user: storenav
  password: secret
  database: storenav
rabbitmq:
  user: guest
  password: guest
`)
		cfg, err := LoadFromFile(path)
		require.NoError(t, err)

		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, 3000, cfg.Services.NavigationServicePort)
		assert.Equal(t, 0.8, cfg.Store.DefaultSpeedMS)
		assert.NotEmpty(t, cfg.JWT.SecretKey, "a random secret is generated when missing")
	})

	t.Run("rejects missing credentials", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "config.yaml", `
database:
  user: storenav
rabbitmq:
  user: guest
  password: guest
`)
		_, err := LoadFromFile(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestLoadFloorPlan(t *testing.T) {
	t.Parallel()

	t.Run("empty path selects the built-in layout", func(t *testing.T) {
		t.Parallel()
		plan, err := LoadFloorPlan("")
		require.NoError(t, err)
		assert.Equal(t, 50.0, plan.Width)
		assert.Len(t, plan.Zones, 4)
	})

	t.Run("parses a layout file", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "floorplan.yaml", `
width: 30
height: 20
zones:
  - id: zone_test
    name: Test
    x1: 2
    y1: 2
    x2: 10
    y2: 8
obstacles:
  - x1: 12
    y1: 5
    x2: 14
    y2: 9
charging_stations:
  - x: 1
    y: 1
`)
		plan, err := LoadFloorPlan(path)
		require.NoError(t, err)
		assert.Equal(t, 30.0, plan.Width)
		require.Len(t, plan.Zones, 1)
		assert.Equal(t, "zone_test", plan.Zones[0].ID)
		require.Len(t, plan.Obstacles, 1)
		require.Len(t, plan.ChargingStations, 1)
	})

	t.Run("rejects invalid layouts", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "floorplan.yaml", `
width: 10
height: 10
zones:
  - id: z
    name: Z
    x1: 5
    y1: 5
    x2: 20
    y2: 8
`)
		_, err := LoadFloorPlan(path)
		assert.Error(t, err)
	})
}
