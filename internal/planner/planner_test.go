package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store-nav/internal/domain/geo"
)

func openPlan() geo.FloorPlan {
	return geo.FloorPlan{Width: 50, Height: 40}
}

func TestPlanOpenFloor(t *testing.T) {
	t.Parallel()

	start := geo.Coordinate{X: 5, Y: 5}
	end := geo.Coordinate{X: 32, Y: 10}

	result := New().Plan(start, end, openPlan(), 0.8)
	require.True(t, result.Success)

	// with nothing in the way the smoothed path is the straight segment
	require.Len(t, result.Waypoints, 2)
	assert.Equal(t, start, result.Waypoints[0])
	assert.Equal(t, end, result.Waypoints[1])
	assert.InDelta(t, 27.46, result.TotalDistance, 0.01)
	assert.InDelta(t, 34.32, result.EstimatedTimeSeconds, 0.01)
}

func TestPlanEndpointsExact(t *testing.T) {
	t.Parallel()

	// off-grid endpoints must survive the grid round trip untouched
	start := geo.Coordinate{X: 5.13, Y: 5.27}
	end := geo.Coordinate{X: 31.91, Y: 10.08}

	result := New().Plan(start, end, openPlan(), 0.8)
	require.True(t, result.Success)
	require.NotEmpty(t, result.Waypoints)
	assert.Equal(t, start, result.Waypoints[0])
	assert.Equal(t, end, result.Waypoints[len(result.Waypoints)-1])
}

func TestPlanAroundObstacle(t *testing.T) {
	t.Parallel()

	plan := geo.FloorPlan{
		Width:  20,
		Height: 20,
		Obstacles: []geo.Region{
			{X1: 8, Y1: 5, X2: 12, Y2: 15},
		},
	}
	start := geo.Coordinate{X: 2, Y: 10}
	end := geo.Coordinate{X: 18, Y: 10}

	result := New().Plan(start, end, plan, 0.8)
	require.True(t, result.Success)

	for _, wp := range result.Waypoints {
		assert.False(t, plan.Blocked(wp), "waypoint %v must be traversable", wp)
	}
	assert.Greater(t, result.TotalDistance, geo.Distance(start, end),
		"detour must be longer than the blocked straight line")
}

func TestPlanUnreachableGoal(t *testing.T) {
	t.Parallel()

	// a wall splits the plan in two
	plan := geo.FloorPlan{
		Width:  10,
		Height: 10,
		Obstacles: []geo.Region{
			{X1: 0, Y1: 4, X2: 10, Y2: 6},
		},
	}

	result := New().Plan(geo.Coordinate{X: 1, Y: 1}, geo.Coordinate{X: 1, Y: 9}, plan, 0.8)
	assert.False(t, result.Success)
	assert.Empty(t, result.Waypoints)
}

func TestPlanBlockedEndpoints(t *testing.T) {
	t.Parallel()

	plan := geo.FloorPlan{
		Width:     10,
		Height:    10,
		Obstacles: []geo.Region{{X1: 4, Y1: 4, X2: 6, Y2: 6}},
	}

	t.Run("start out of bounds", func(t *testing.T) {
		t.Parallel()
		result := New().Plan(geo.Coordinate{X: -1, Y: 2}, geo.Coordinate{X: 2, Y: 2}, plan, 0.8)
		assert.False(t, result.Success)
	})

	t.Run("end inside obstacle", func(t *testing.T) {
		t.Parallel()
		result := New().Plan(geo.Coordinate{X: 1, Y: 1}, geo.Coordinate{X: 5, Y: 5}, plan, 0.8)
		assert.False(t, result.Success)
	})
}

func TestPlanDegenerateRoute(t *testing.T) {
	t.Parallel()

	point := geo.Coordinate{X: 3, Y: 3}
	result := New().Plan(point, point, openPlan(), 0.8)

	require.True(t, result.Success)
	assert.Equal(t, []geo.Coordinate{point}, result.Waypoints)
	assert.Zero(t, result.TotalDistance)
	assert.Zero(t, result.EstimatedTimeSeconds)
}

func TestPlanSubCellRoute(t *testing.T) {
	t.Parallel()

	// distinct endpoints that round to the same grid cell must still yield
	// a start-to-end path with the true length
	start := geo.Coordinate{X: 5.0, Y: 5.0}
	end := geo.Coordinate{X: 5.1, Y: 5.1}

	result := New().Plan(start, end, openPlan(), 0.8)
	require.True(t, result.Success)
	require.Len(t, result.Waypoints, 2)
	assert.Equal(t, start, result.Waypoints[0])
	assert.Equal(t, end, result.Waypoints[1])
	assert.InDelta(t, geo.Distance(start, end), result.TotalDistance, 1e-9)
	assert.Greater(t, result.TotalDistance, 0.0)
}

func TestPlanSpeedFallback(t *testing.T) {
	t.Parallel()

	start := geo.Coordinate{X: 0, Y: 0}
	end := geo.Coordinate{X: 8, Y: 0}

	result := New().Plan(start, end, openPlan(), 0)
	require.True(t, result.Success)
	assert.InDelta(t, result.TotalDistance/DefaultSpeedMS, result.EstimatedTimeSeconds, 1e-9)
}

func TestPlanDeterministic(t *testing.T) {
	t.Parallel()

	plan := geo.FloorPlan{
		Width:  20,
		Height: 20,
		Obstacles: []geo.Region{
			{X1: 8, Y1: 5, X2: 12, Y2: 15},
		},
	}
	start := geo.Coordinate{X: 2, Y: 10}
	end := geo.Coordinate{X: 18, Y: 10}

	first := New().Plan(start, end, plan, 0.8)
	second := New().Plan(start, end, plan, 0.8)

	require.True(t, first.Success)
	assert.Equal(t, first.Waypoints, second.Waypoints)
	assert.Equal(t, first.TotalDistance, second.TotalDistance)
}

func TestDropShallowTurns(t *testing.T) {
	t.Parallel()

	t.Run("keeps sharp corners", func(t *testing.T) {
		t.Parallel()
		points := []geo.Coordinate{
			{X: 0, Y: 0},
			{X: 5, Y: 0},
			{X: 5, Y: 5},
		}
		assert.Equal(t, points, dropShallowTurns(points))
	})

	t.Run("drops collinear vertices", func(t *testing.T) {
		t.Parallel()
		points := []geo.Coordinate{
			{X: 0, Y: 0},
			{X: 2, Y: 0},
			{X: 4, Y: 0},
			{X: 8, Y: 0},
		}
		smoothed := dropShallowTurns(points)
		assert.Equal(t, []geo.Coordinate{{X: 0, Y: 0}, {X: 8, Y: 0}}, smoothed)
	})

	t.Run("endpoints always survive", func(t *testing.T) {
		t.Parallel()
		points := []geo.Coordinate{{X: 0, Y: 0}, {X: 1, Y: 1}}
		assert.Equal(t, points, dropShallowTurns(points))
	})
}

func TestHeuristicAdmissible(t *testing.T) {
	t.Parallel()

	p := New()
	// half-Manhattan scaled by resolution never exceeds the straight-line
	// distance, which itself lower-bounds the 8-connected path cost
	cases := []struct {
		from, to cell
	}{
		{cell{0, 0}, cell{10, 0}},
		{cell{0, 0}, cell{10, 10}},
		{cell{3, 7}, cell{9, 2}},
	}
	for _, tc := range cases {
		h := p.heuristic(tc.from, tc.to)
		euclid := geo.Distance(p.toWorld(tc.from), p.toWorld(tc.to))
		assert.LessOrEqual(t, h, euclid+1e-9)
	}
}
