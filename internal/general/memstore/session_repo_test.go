package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store-nav/internal/domain/geo"
	"store-nav/internal/domain/navigation"
)

func seedSession(t *testing.T, robotID string) *navigation.Session {
	t.Helper()
	session, err := navigation.NewSession(
		robotID, "prod_1", "cust_1",
		geo.Coordinate{X: 5, Y: 5}, geo.Coordinate{X: 30, Y: 10},
		[]geo.Coordinate{{X: 5, Y: 5}, {X: 30, Y: 10}},
		25.5, 0,
	)
	require.NoError(t, err)
	return session
}

func TestSessionRepoPutGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewSessionRepo()
	session := seedSession(t, "robot_001")

	require.NoError(t, repo.Put(ctx, session))
	assert.Error(t, repo.Put(ctx, session), "duplicate insert must fail")

	got, err := repo.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)

	// the returned copy is private; mutations must not leak into the store
	got.Status = navigation.StatusFailed
	again, err := repo.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, navigation.StatusNavigating, again.Status)
}

func TestSessionRepoGetMissing(t *testing.T) {
	t.Parallel()
	repo := NewSessionRepo()

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, navigation.ErrSessionNotFound)
}

func TestSessionRepoCompareAndSwap(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("bumps the version on success", func(t *testing.T) {
		t.Parallel()
		repo := NewSessionRepo()
		session := seedSession(t, "robot_001")
		require.NoError(t, repo.Put(ctx, session))

		loaded, err := repo.Get(ctx, session.ID)
		require.NoError(t, err)
		loaded.ProgressPercent = 40

		require.NoError(t, repo.CompareAndSwap(ctx, loaded, loaded.Version))
		assert.Equal(t, int64(1), loaded.Version)

		stored, err := repo.Get(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stored.Version)
		assert.Equal(t, 40.0, stored.ProgressPercent)
	})

	t.Run("stale version loses", func(t *testing.T) {
		t.Parallel()
		repo := NewSessionRepo()
		session := seedSession(t, "robot_001")
		require.NoError(t, repo.Put(ctx, session))

		first, err := repo.Get(ctx, session.ID)
		require.NoError(t, err)
		second, err := repo.Get(ctx, session.ID)
		require.NoError(t, err)

		require.NoError(t, repo.CompareAndSwap(ctx, first, first.Version))
		err = repo.CompareAndSwap(ctx, second, second.Version)
		assert.ErrorIs(t, err, navigation.ErrVersionConflict)
	})

	t.Run("unknown session", func(t *testing.T) {
		t.Parallel()
		repo := NewSessionRepo()
		ghost := seedSession(t, "robot_001")
		err := repo.CompareAndSwap(ctx, ghost, 0)
		assert.ErrorIs(t, err, navigation.ErrSessionNotFound)
	})
}

func TestSessionRepoActiveForRobot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewSessionRepo()

	t.Run("none active", func(t *testing.T) {
		got, err := repo.ActiveForRobot(ctx, "robot_001")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	older := seedSession(t, "robot_001")
	older.CreatedAt = time.Now().UTC().Add(-time.Minute)
	require.NoError(t, repo.Put(ctx, older))

	finished := seedSession(t, "robot_001")
	require.NoError(t, finished.SetStatus(navigation.StatusArrived))
	require.NoError(t, repo.Put(ctx, finished))

	newest := seedSession(t, "robot_001")
	require.NoError(t, repo.Put(ctx, newest))

	t.Run("latest non-terminal wins", func(t *testing.T) {
		got, err := repo.ActiveForRobot(ctx, "robot_001")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, newest.ID, got.ID)
	})

	t.Run("other robots unaffected", func(t *testing.T) {
		got, err := repo.ActiveForRobot(ctx, "robot_002")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
