package navigation

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"store-nav/internal/domain/geo"
)

// Session is the domain entity corresponding to the `navigation_sessions`
// table. One session guides one robot to one destination.
type Session struct {
	// Identity & audit
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Actors
	RobotID    string
	ProductID  string
	CustomerID string

	// Route
	Origin        geo.Coordinate
	Destination   geo.Coordinate
	Waypoints     []geo.Coordinate
	TotalDistance float64

	// Live state
	Status            Status
	CurrentLocation   geo.Coordinate
	ProgressPercent   float64
	DistanceRemaining float64
	TimeRemaining     float64

	// Optimistic-concurrency version, bumped on every store write.
	Version int64
}

var (
	ErrRobotRequired           = errors.New("robot id is required")
	ErrEmptyWaypoints          = errors.New("waypoints cannot be empty")
	ErrNegativeTotalDistance   = errors.New("total distance cannot be negative")
	ErrInvalidStatusTransition = errors.New("invalid navigation status transition")
	ErrSessionNotFound         = errors.New("navigation session not found")
	ErrVersionConflict         = errors.New("navigation session version conflict")
)

// NewSession creates a session in NAVIGATING state at the route origin.
// The waypoints must come from a successful plan; an empty path is rejected.
// speedMS seeds the initial time-remaining estimate; non-positive values
// fall back to the default speed.
func NewSession(robotID, productID, customerID string, origin, destination geo.Coordinate, waypoints []geo.Coordinate, totalDistance, speedMS float64) (*Session, error) {
	if robotID = strings.TrimSpace(robotID); robotID == "" {
		return nil, ErrRobotRequired
	}
	if len(waypoints) == 0 {
		return nil, ErrEmptyWaypoints
	}
	if totalDistance < 0 {
		return nil, ErrNegativeTotalDistance
	}

	now := time.Now().UTC()
	session := &Session{
		ID:                uuid.NewString(),
		CreatedAt:         now,
		UpdatedAt:         now,
		RobotID:           robotID,
		ProductID:         strings.TrimSpace(productID),
		CustomerID:        strings.TrimSpace(customerID),
		Origin:            origin,
		Destination:       destination,
		Waypoints:         waypoints,
		TotalDistance:     totalDistance,
		Status:            StatusNavigating,
		CurrentLocation:   origin,
		DistanceRemaining: totalDistance,
	}
	if totalDistance > 0 {
		session.TimeRemaining = totalDistance / ClampSpeed(speedMS)
	} else {
		session.ProgressPercent = 100
	}

	return session, nil
}

// ApplyProgress records a new robot location together with the estimate
// computed for it.
func (session *Session) ApplyProgress(location geo.Coordinate, progress Progress) {
	session.CurrentLocation = location
	session.ProgressPercent = progress.Percent
	session.DistanceRemaining = progress.DistanceRemaining
	session.TimeRemaining = progress.TimeRemaining
	session.touch()
}

// SetStatus moves the session to next. Writing the current status again is a
// no-op, which makes terminal statuses idempotent.
func (session *Session) SetStatus(next Status) error {
	if session.Status == next {
		return nil
	}
	if !session.Status.CanTransitionTo(next) {
		return ErrInvalidStatusTransition
	}
	session.Status = next
	session.touch()
	return nil
}

// Active reports whether the session still accepts progress updates.
func (session *Session) Active() bool {
	return !session.Status.Terminal()
}

// Clone returns a shallow copy safe for mutate-then-CAS updates. The
// waypoint slice is shared; callers never modify it after planning.
func (session *Session) Clone() *Session {
	copied := *session
	return &copied
}

func (session *Session) touch() {
	session.UpdatedAt = time.Now().UTC()
}
