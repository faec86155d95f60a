package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store-nav/internal/domain/geo"
	"store-nav/internal/domain/navigation"
	"store-nav/internal/domain/product"
	"store-nav/internal/domain/robot"
	"store-nav/internal/general/logger"
	"store-nav/internal/general/memstore"
	"store-nav/internal/planner"
	"store-nav/internal/ports"
)

// ----- fakes -----

type fakeProducts struct {
	byID map[string]*product.Product
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*product.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeProducts) ListLocated(_ context.Context) ([]product.Product, error) {
	var out []product.Product
	for _, p := range f.byID {
		if p.Active && p.Location != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeRobots struct {
	saved []robot.Location
}

func (f *fakeRobots) SaveLocation(_ context.Context, location *robot.Location) error {
	f.saved = append(f.saved, *location)
	return nil
}

func (f *fakeRobots) GetLocation(_ context.Context, robotID string) (*robot.Location, error) {
	for i := len(f.saved) - 1; i >= 0; i-- {
		if f.saved[i].RobotID == robotID {
			loc := f.saved[i]
			return &loc, nil
		}
	}
	return nil, robot.ErrRobotNotFound
}

func (f *fakeRobots) ListLocations(_ context.Context) ([]robot.Location, error) {
	return f.saved, nil
}

type fakeTelemetry struct {
	byRobot map[string]robot.Location
}

func (f *fakeTelemetry) Latest(_ context.Context, robotID string) (*robot.Location, error) {
	loc, ok := f.byRobot[robotID]
	if !ok {
		return nil, robot.ErrRobotNotFound
	}
	return &loc, nil
}

type fakeGateway struct {
	moves  []ports.MoveCommand
	stops  []ports.StopCommand
	speaks []ports.SpeakCommand
	err    error
}

func (f *fakeGateway) SendMove(_ context.Context, cmd ports.MoveCommand) error {
	if f.err != nil {
		return f.err
	}
	f.moves = append(f.moves, cmd)
	return nil
}

func (f *fakeGateway) SendStop(_ context.Context, cmd ports.StopCommand) error {
	if f.err != nil {
		return f.err
	}
	f.stops = append(f.stops, cmd)
	return nil
}

func (f *fakeGateway) SendSpeak(_ context.Context, cmd ports.SpeakCommand) error {
	if f.err != nil {
		return f.err
	}
	f.speaks = append(f.speaks, cmd)
	return nil
}

// ----- fixture -----

type fixture struct {
	svc       ports.NavigationService
	sessions  *memstore.SessionRepo
	products  *fakeProducts
	robots    *fakeRobots
	telemetry *fakeTelemetry
	gateway   *fakeGateway
}

func newFixture(t *testing.T, plan geo.FloorPlan) *fixture {
	t.Helper()

	f := &fixture{
		sessions: memstore.NewSessionRepo(),
		products: &fakeProducts{byID: map[string]*product.Product{
			"prod_serum": {
				ID: "prod_serum", Name: "Vitamin C Serum", Category: "skincare",
				Price: 29.9, Location: &geo.Coordinate{X: 32, Y: 10}, Active: true,
			},
			"prod_lipstick": {
				ID: "prod_lipstick", Name: "Matte Lipstick", Category: "makeup",
				Price: 15.5, Location: &geo.Coordinate{X: 30, Y: 8}, Active: true,
			},
			"prod_unshelved": {
				ID: "prod_unshelved", Name: "Seasonal Gift Set", Category: "makeup",
				Price: 49.0, Active: true,
			},
		}},
		robots:    &fakeRobots{},
		telemetry: &fakeTelemetry{byRobot: map[string]robot.Location{}},
		gateway:   &fakeGateway{},
	}

	f.svc = NewNavigationService(
		logger.New("navigation-service-test"),
		memstore.NewUnitOfWork(),
		f.sessions,
		f.products,
		f.robots,
		f.telemetry,
		f.gateway,
		planner.New(),
		plan,
		0.8,
		nil, nil, nil,
	)
	return f
}

// ----- guide -----

func TestGuide(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates a navigating session and dispatches the robot", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, geo.DefaultFloorPlan())

		res, err := f.svc.Guide(ctx, ports.GuideInput{ProductID: "prod_serum", CustomerID: "cust_7"})
		require.NoError(t, err)

		require.NotEmpty(t, res.SessionID)
		assert.Equal(t, geo.Coordinate{X: 5, Y: 5}, res.RobotLocation, "falls back to the default origin without telemetry")
		assert.InDelta(t, 27.46, res.Path.TotalDistance, 0.01)
		assert.InDelta(t, 34.32, res.Path.EstimatedTimeSeconds, 0.01)

		session, err := f.sessions.Get(ctx, res.SessionID)
		require.NoError(t, err)
		assert.Equal(t, navigation.StatusNavigating, session.Status)
		assert.Equal(t, "robot_001", session.RobotID)
		assert.Equal(t, "cust_7", session.CustomerID)

		require.Len(t, f.gateway.moves, 1)
		assert.Equal(t, "robot_001", f.gateway.moves[0].RobotID)
		assert.True(t, f.gateway.moves[0].VoiceGuide)
		require.Len(t, f.gateway.speaks, 1)
		assert.Contains(t, f.gateway.speaks[0].Text, "Vitamin C Serum")
	})

	t.Run("uses telemetry for the origin", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, geo.DefaultFloorPlan())
		loc, err := robot.NewLocation("robot_009", geo.Coordinate{X: 10, Y: 20}, 90, 80, robot.StatusAvailable)
		require.NoError(t, err)
		f.telemetry.byRobot["robot_009"] = *loc

		res, err := f.svc.Guide(ctx, ports.GuideInput{ProductID: "prod_serum", RobotID: "robot_009"})
		require.NoError(t, err)
		assert.Equal(t, geo.Coordinate{X: 10, Y: 20}, res.RobotLocation)
	})

	t.Run("caller start override wins", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, geo.DefaultFloorPlan())

		start := geo.Coordinate{X: 1, Y: 1}
		res, err := f.svc.Guide(ctx, ports.GuideInput{ProductID: "prod_serum", Start: &start})
		require.NoError(t, err)
		assert.Equal(t, start, res.RobotLocation)
		assert.Equal(t, start, res.Path.Waypoints[0])
	})

	t.Run("unknown product", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, geo.DefaultFloorPlan())

		_, err := f.svc.Guide(ctx, ports.GuideInput{ProductID: "prod_ghost"})
		assert.ErrorIs(t, err, product.ErrProductNotFound)
		assert.Empty(t, f.gateway.moves)
	})

	t.Run("blocked destination creates no session", func(t *testing.T) {
		t.Parallel()
		plan := geo.DefaultFloorPlan()
		plan.Obstacles = []geo.Region{{X1: 31, Y1: 9, X2: 33, Y2: 11}} // covers the serum shelf
		f := newFixture(t, plan)

		_, err := f.svc.Guide(ctx, ports.GuideInput{ProductID: "prod_serum"})
		assert.ErrorIs(t, err, ports.ErrNoRoute)
		assert.Empty(t, f.gateway.moves)

		active, err := f.sessions.ActiveForRobot(ctx, "robot_001")
		require.NoError(t, err)
		assert.Nil(t, active, "no session may exist after a failed plan")
	})

	t.Run("command transport failure does not undo the session", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, geo.DefaultFloorPlan())
		f.gateway.err = errors.New("broker down")

		res, err := f.svc.Guide(ctx, ports.GuideInput{ProductID: "prod_serum"})
		require.NoError(t, err)

		session, err := f.sessions.Get(ctx, res.SessionID)
		require.NoError(t, err)
		assert.Equal(t, navigation.StatusNavigating, session.Status)
	})
}

// ----- plan -----

func TestPlanPath(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns the route", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, geo.DefaultFloorPlan())

		res, err := f.svc.PlanPath(ctx, ports.PlanPathInput{
			Start: geo.Coordinate{X: 5, Y: 5},
			End:   geo.Coordinate{X: 32, Y: 10},
		})
		require.NoError(t, err)
		require.True(t, res.Success)
		assert.InDelta(t, 27.46, res.TotalDistance, 0.01)
	})

	t.Run("infeasible route is a value, not an error", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, geo.DefaultFloorPlan())

		res, err := f.svc.PlanPath(ctx, ports.PlanPathInput{
			Start: geo.Coordinate{X: 5, Y: 5},
			End:   geo.Coordinate{X: 99, Y: 99},
		})
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Empty(t, res.Waypoints)
	})
}

// ----- progress -----

func TestReportProgress(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	guide := func(t *testing.T, f *fixture) ports.GuideResult {
		t.Helper()
		res, err := f.svc.Guide(ctx, ports.GuideInput{ProductID: "prod_serum", CustomerID: "cust_7"})
		require.NoError(t, err)
		return res
	}

	t.Run("updates the estimate", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, geo.DefaultFloorPlan())
		res := guide(t, f)

		snapshot, err := f.svc.ReportProgress(ctx, ports.ReportProgressInput{
			SessionID: res.SessionID,
			Location:  geo.Coordinate{X: 20, Y: 10},
		})
		require.NoError(t, err)

		total := res.Path.TotalDistance
		assert.InDelta(t, 12.0, snapshot.DistanceRemaining, 1e-9)
		assert.InDelta(t, (1-12.0/total)*100, snapshot.ProgressPercent, 1e-9)
		assert.InDelta(t, 15.0, snapshot.TimeRemaining, 1e-9)
		assert.Equal(t, navigation.StatusNavigating.String(), snapshot.Status)

		stored, err := f.sessions.Get(ctx, res.SessionID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stored.Version, "a successful report bumps the version")
	})

	t.Run("percent never decreases while the robot approaches", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, geo.DefaultFloorPlan())
		res := guide(t, f)

		steps := []geo.Coordinate{
			{X: 10, Y: 6},
			{X: 15, Y: 8},
			{X: 20, Y: 10},
			{X: 26, Y: 10},
			{X: 31, Y: 10},
		}
		last := -1.0
		for _, step := range steps {
			snapshot, err := f.svc.ReportProgress(ctx, ports.ReportProgressInput{
				SessionID: res.SessionID,
				Location:  step,
			})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, snapshot.ProgressPercent, last,
				"progress at %v must not move backwards", step)
			last = snapshot.ProgressPercent
		}
		assert.Greater(t, last, 90.0)
	})

	t.Run("status token finishes the session", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, geo.DefaultFloorPlan())
		res := guide(t, f)

		snapshot, err := f.svc.ReportProgress(ctx, ports.ReportProgressInput{
			SessionID:   res.SessionID,
			Location:    geo.Coordinate{X: 32, Y: 10},
			StatusToken: "arrived",
		})
		require.NoError(t, err)
		assert.Equal(t, navigation.StatusArrived.String(), snapshot.Status)
		assert.Equal(t, 100.0, snapshot.ProgressPercent)
	})

	t.Run("terminal sessions ignore further reports", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, geo.DefaultFloorPlan())
		res := guide(t, f)

		_, err := f.svc.ReportProgress(ctx, ports.ReportProgressInput{
			SessionID:   res.SessionID,
			Location:    geo.Coordinate{X: 32, Y: 10},
			StatusToken: "ARRIVED",
		})
		require.NoError(t, err)

		snapshot, err := f.svc.ReportProgress(ctx, ports.ReportProgressInput{
			SessionID: res.SessionID,
			Location:  geo.Coordinate{X: 1, Y: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, navigation.StatusArrived.String(), snapshot.Status)
		assert.Equal(t, geo.Coordinate{X: 32, Y: 10}, snapshot.CurrentLocation,
			"terminal session state must stay frozen")
	})

	t.Run("unknown status token is logged and ignored", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, geo.DefaultFloorPlan())
		res := guide(t, f)

		snapshot, err := f.svc.ReportProgress(ctx, ports.ReportProgressInput{
			SessionID:   res.SessionID,
			Location:    geo.Coordinate{X: 20, Y: 10},
			StatusToken: "WANDERING",
		})
		require.NoError(t, err)
		assert.Equal(t, navigation.StatusNavigating.String(), snapshot.Status)
		assert.InDelta(t, 12.0, snapshot.DistanceRemaining, 1e-9, "the position update still lands")
	})

	t.Run("unknown session", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, geo.DefaultFloorPlan())

		_, err := f.svc.ReportProgress(ctx, ports.ReportProgressInput{
			SessionID: "nope",
			Location:  geo.Coordinate{X: 1, Y: 1},
		})
		assert.ErrorIs(t, err, navigation.ErrSessionNotFound)
	})
}

// ----- status -----

func TestGetSessionStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("recomputes against fresh telemetry", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, geo.DefaultFloorPlan())
		res, err := f.svc.Guide(ctx, ports.GuideInput{ProductID: "prod_serum"})
		require.NoError(t, err)

		loc, err := robot.NewLocation("robot_001", geo.Coordinate{X: 20, Y: 10}, 0, 75, robot.StatusBusy)
		require.NoError(t, err)
		loc.UpdatedAt = time.Now().UTC().Add(time.Minute)
		f.telemetry.byRobot["robot_001"] = *loc

		snapshot, err := f.svc.GetSessionStatus(ctx, res.SessionID)
		require.NoError(t, err)
		assert.Equal(t, geo.Coordinate{X: 20, Y: 10}, snapshot.CurrentLocation)
		assert.InDelta(t, 12.0, snapshot.DistanceRemaining, 1e-9)
	})

	t.Run("terminal sessions return the stored snapshot", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, geo.DefaultFloorPlan())
		res, err := f.svc.Guide(ctx, ports.GuideInput{ProductID: "prod_serum"})
		require.NoError(t, err)

		_, err = f.svc.ReportProgress(ctx, ports.ReportProgressInput{
			SessionID:   res.SessionID,
			Location:    geo.Coordinate{X: 32, Y: 10},
			StatusToken: "ARRIVED",
		})
		require.NoError(t, err)

		loc, err := robot.NewLocation("robot_001", geo.Coordinate{X: 1, Y: 1}, 0, 75, robot.StatusAvailable)
		require.NoError(t, err)
		loc.UpdatedAt = time.Now().UTC().Add(time.Minute)
		f.telemetry.byRobot["robot_001"] = *loc

		snapshot, err := f.svc.GetSessionStatus(ctx, res.SessionID)
		require.NoError(t, err)
		assert.Equal(t, geo.Coordinate{X: 32, Y: 10}, snapshot.CurrentLocation)
	})

	t.Run("unknown session", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, geo.DefaultFloorPlan())
		_, err := f.svc.GetSessionStatus(ctx, "nope")
		assert.ErrorIs(t, err, navigation.ErrSessionNotFound)
	})
}

// ----- robot control -----

func TestMoveRobot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("plans and dispatches", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, geo.DefaultFloorPlan())

		res, err := f.svc.MoveRobot(ctx, ports.MoveRobotInput{
			RobotID:     "robot_001",
			Destination: geo.Coordinate{X: 45, Y: 2},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, res.CommandID)
		assert.Positive(t, res.EstimatedTimeSeconds)
		require.Len(t, f.gateway.moves, 1)
		assert.Equal(t, res.CommandID, f.gateway.moves[0].CommandID)
	})

	t.Run("unreachable target", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, geo.DefaultFloorPlan())

		_, err := f.svc.MoveRobot(ctx, ports.MoveRobotInput{
			RobotID:     "robot_001",
			Destination: geo.Coordinate{X: 99, Y: 99},
		})
		assert.ErrorIs(t, err, ports.ErrNoRoute)
		assert.Empty(t, f.gateway.moves)
	})

	t.Run("robot id required", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, geo.DefaultFloorPlan())
		_, err := f.svc.MoveRobot(ctx, ports.MoveRobotInput{Destination: geo.Coordinate{X: 1, Y: 1}})
		assert.ErrorIs(t, err, navigation.ErrRobotRequired)
	})
}

func TestStopRobot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("pauses the active session", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, geo.DefaultFloorPlan())
		res, err := f.svc.Guide(ctx, ports.GuideInput{ProductID: "prod_serum"})
		require.NoError(t, err)

		ack, err := f.svc.StopRobot(ctx, ports.StopRobotInput{RobotID: "robot_001", Reason: "customer request"})
		require.NoError(t, err)
		assert.NotEmpty(t, ack.CommandID)
		require.Len(t, f.gateway.stops, 1)
		assert.Equal(t, "customer request", f.gateway.stops[0].Reason)

		session, err := f.sessions.Get(ctx, res.SessionID)
		require.NoError(t, err)
		assert.Equal(t, navigation.StatusPaused, session.Status)
	})

	t.Run("no active session is fine", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, geo.DefaultFloorPlan())
		_, err := f.svc.StopRobot(ctx, ports.StopRobotInput{RobotID: "robot_001"})
		require.NoError(t, err)
	})
}

func TestSpeak(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, geo.DefaultFloorPlan())

	ack, err := f.svc.Speak(ctx, ports.SpeakInput{RobotID: "robot_001", Text: "Welcome!"})
	require.NoError(t, err)
	assert.NotEmpty(t, ack.CommandID)
	require.Len(t, f.gateway.speaks, 1)
	assert.Equal(t, "en-US", f.gateway.speaks[0].LanguageCode, "language defaults when unset")
	assert.Equal(t, "Welcome!", f.gateway.speaks[0].Text)
}

// ----- catalog -----

func TestNearby(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, geo.DefaultFloorPlan())

	res, err := f.svc.Nearby(ctx, ports.NearbyInput{Center: geo.Coordinate{X: 31, Y: 9}, RadiusM: 5})
	require.NoError(t, err)

	require.Len(t, res.Products, 2)
	assert.Equal(t, "prod_lipstick", res.Products[0].ProductID, "closest first")
	assert.Equal(t, "prod_serum", res.Products[1].ProductID)
	assert.LessOrEqual(t, res.Products[0].DistanceM, res.Products[1].DistanceM)

	t.Run("limit truncates but total counts all hits", func(t *testing.T) {
		limited, err := f.svc.Nearby(ctx, ports.NearbyInput{Center: geo.Coordinate{X: 31, Y: 9}, RadiusM: 5, Limit: 1})
		require.NoError(t, err)
		assert.Len(t, limited.Products, 1)
		assert.Equal(t, 2, limited.Total)
	})

	t.Run("tight radius excludes everything", func(t *testing.T) {
		empty, err := f.svc.Nearby(ctx, ports.NearbyInput{Center: geo.Coordinate{X: 2, Y: 38}, RadiusM: 1})
		require.NoError(t, err)
		assert.Empty(t, empty.Products)
	})
}

func TestFloorPlanAndLocations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, geo.DefaultFloorPlan())

	plan, err := f.svc.GetFloorPlan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50.0, plan.Width)

	loc, err := robot.NewLocation("robot_001", geo.Coordinate{X: 3, Y: 3}, 0, 90, robot.StatusAvailable)
	require.NoError(t, err)
	require.NoError(t, f.robots.SaveLocation(ctx, loc))

	res, err := f.svc.Locations(ctx)
	require.NoError(t, err)
	assert.Len(t, res.Zones, 4)
	assert.Len(t, res.Products, 2, "unshelved products are not on the map")
	assert.Len(t, res.Robots, 1)
	assert.Len(t, res.ChargingStations, 2)
}
