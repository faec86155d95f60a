package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store-nav/internal/domain/geo"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	session, err := NewSession(
		"robot_001", "prod_42", "cust_7",
		geo.Coordinate{X: 5, Y: 5}, geo.Coordinate{X: 32, Y: 10},
		[]geo.Coordinate{{X: 5, Y: 5}, {X: 32, Y: 10}},
		27.46, DefaultSpeedMS,
	)
	require.NoError(t, err)
	return session
}

func TestNewSession(t *testing.T) {
	t.Parallel()

	t.Run("starts navigating at the origin", func(t *testing.T) {
		t.Parallel()
		session := newTestSession(t)

		assert.NotEmpty(t, session.ID)
		assert.Equal(t, StatusNavigating, session.Status)
		assert.Equal(t, geo.Coordinate{X: 5, Y: 5}, session.CurrentLocation)
		assert.Equal(t, 27.46, session.DistanceRemaining)
		assert.InDelta(t, 27.46/DefaultSpeedMS, session.TimeRemaining, 1e-9)
		assert.Zero(t, session.ProgressPercent)
		assert.Zero(t, session.Version)
	})

	t.Run("configured speed seeds the initial eta", func(t *testing.T) {
		t.Parallel()
		origin := geo.Coordinate{X: 0, Y: 0}
		dest := geo.Coordinate{X: 12, Y: 0}
		session, err := NewSession("robot_001", "p", "c", origin, dest, []geo.Coordinate{origin, dest}, 12, 1.2)
		require.NoError(t, err)
		assert.InDelta(t, 10.0, session.TimeRemaining, 1e-9)
	})

	t.Run("zero-length route is already complete", func(t *testing.T) {
		t.Parallel()
		point := geo.Coordinate{X: 3, Y: 3}
		session, err := NewSession("robot_001", "", "", point, point, []geo.Coordinate{point}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 100.0, session.ProgressPercent)
		assert.Zero(t, session.TimeRemaining)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		t.Parallel()
		origin := geo.Coordinate{X: 0, Y: 0}
		wps := []geo.Coordinate{origin}

		_, err := NewSession("  ", "p", "c", origin, origin, wps, 1, 0)
		assert.ErrorIs(t, err, ErrRobotRequired)

		_, err = NewSession("robot_001", "p", "c", origin, origin, nil, 1, 0)
		assert.ErrorIs(t, err, ErrEmptyWaypoints)

		_, err = NewSession("robot_001", "p", "c", origin, origin, wps, -1, 0)
		assert.ErrorIs(t, err, ErrNegativeTotalDistance)
	})
}

func TestSessionTransitions(t *testing.T) {
	t.Parallel()

	t.Run("navigating and paused are the reversible pair", func(t *testing.T) {
		t.Parallel()
		session := newTestSession(t)

		require.NoError(t, session.SetStatus(StatusPaused))
		assert.Equal(t, StatusPaused, session.Status)
		require.NoError(t, session.SetStatus(StatusNavigating))
		assert.Equal(t, StatusNavigating, session.Status)
	})

	t.Run("terminal states accept no transitions", func(t *testing.T) {
		t.Parallel()
		session := newTestSession(t)
		require.NoError(t, session.SetStatus(StatusArrived))

		assert.ErrorIs(t, session.SetStatus(StatusNavigating), ErrInvalidStatusTransition)
		assert.ErrorIs(t, session.SetStatus(StatusFailed), ErrInvalidStatusTransition)
		assert.False(t, session.Active())
	})

	t.Run("rewriting the same terminal status is a no-op", func(t *testing.T) {
		t.Parallel()
		session := newTestSession(t)
		require.NoError(t, session.SetStatus(StatusFailed))
		require.NoError(t, session.SetStatus(StatusFailed))
		assert.Equal(t, StatusFailed, session.Status)
	})

	t.Run("paused can finish directly", func(t *testing.T) {
		t.Parallel()
		session := newTestSession(t)
		require.NoError(t, session.SetStatus(StatusPaused))
		require.NoError(t, session.SetStatus(StatusArrived))
	})
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	status, err := ParseStatus("  navigating ")
	require.NoError(t, err)
	assert.Equal(t, StatusNavigating, status)

	_, err = ParseStatus("WANDERING")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = ParseStatus("")
	assert.Error(t, err)
}

func TestApplyProgress(t *testing.T) {
	t.Parallel()

	session := newTestSession(t)
	location := geo.Coordinate{X: 20, Y: 10}
	progress := EstimateProgress(session.Destination, session.TotalDistance, location, DefaultSpeedMS)

	session.ApplyProgress(location, progress)

	assert.Equal(t, location, session.CurrentLocation)
	assert.InDelta(t, 12.0, session.DistanceRemaining, 1e-9)
	assert.InDelta(t, (1-12.0/27.46)*100, session.ProgressPercent, 1e-9)
	assert.InDelta(t, 15.0, session.TimeRemaining, 1e-9)
}

func TestClone(t *testing.T) {
	t.Parallel()

	session := newTestSession(t)
	copied := session.Clone()
	copied.Status = StatusPaused
	copied.Version = 9

	assert.Equal(t, StatusNavigating, session.Status)
	assert.Zero(t, session.Version)
}
