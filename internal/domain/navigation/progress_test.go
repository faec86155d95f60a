package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"store-nav/internal/domain/geo"
)

func TestEstimateProgress(t *testing.T) {
	t.Parallel()

	destination := geo.Coordinate{X: 20, Y: 0}

	t.Run("halfway along the route", func(t *testing.T) {
		t.Parallel()
		p := EstimateProgress(destination, 20, geo.Coordinate{X: 10, Y: 0}, 0.8)
		assert.InDelta(t, 50, p.Percent, 1e-9)
		assert.InDelta(t, 10, p.DistanceRemaining, 1e-9)
		assert.InDelta(t, 12.5, p.TimeRemaining, 1e-9)
	})

	t.Run("at the destination", func(t *testing.T) {
		t.Parallel()
		p := EstimateProgress(destination, 20, destination, 0.8)
		assert.Equal(t, 100.0, p.Percent)
		assert.Zero(t, p.DistanceRemaining)
		assert.Zero(t, p.TimeRemaining)
	})

	t.Run("drifted past the origin clamps to zero", func(t *testing.T) {
		t.Parallel()
		p := EstimateProgress(destination, 20, geo.Coordinate{X: -10, Y: 0}, 0.8)
		assert.Zero(t, p.Percent)
		assert.InDelta(t, 30, p.DistanceRemaining, 1e-9)
	})

	t.Run("zero-length route is complete", func(t *testing.T) {
		t.Parallel()
		p := EstimateProgress(destination, 0, geo.Coordinate{X: 3, Y: 4}, 0.8)
		assert.Equal(t, 100.0, p.Percent)
	})

	t.Run("non-positive speed falls back to default", func(t *testing.T) {
		t.Parallel()
		p := EstimateProgress(destination, 20, geo.Coordinate{X: 10, Y: 0}, 0)
		assert.InDelta(t, 10/DefaultSpeedMS, p.TimeRemaining, 1e-9)
	})
}

func TestClampSpeed(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultSpeedMS, ClampSpeed(0))
	assert.Equal(t, DefaultSpeedMS, ClampSpeed(-3))
	assert.Equal(t, 1.2, ClampSpeed(1.2))
}
