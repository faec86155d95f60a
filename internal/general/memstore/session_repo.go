package memstore

import (
	"context"
	"errors"
	"sync"

	"store-nav/internal/domain/navigation"
	"store-nav/internal/ports"
)

// SessionRepo is an in-memory SessionRepository with the same versioned
// compare-and-swap contract as the postgres implementation. Used by tests
// and by deployments without a database.
type SessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]*navigation.Session
}

// NewSessionRepo constructs an empty in-memory session store.
func NewSessionRepo() *SessionRepo {
	return &SessionRepo{sessions: make(map[string]*navigation.Session)}
}

var _ ports.SessionRepository = (*SessionRepo)(nil)

var errDuplicateSession = errors.New("navigation session already exists")

// Put inserts a new session.
func (repo *SessionRepo) Put(_ context.Context, session *navigation.Session) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.sessions[session.ID]; ok {
		return errDuplicateSession
	}
	repo.sessions[session.ID] = session.Clone()
	return nil
}

// Get returns a private copy of the session.
func (repo *SessionRepo) Get(_ context.Context, id string) (*navigation.Session, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	session, ok := repo.sessions[id]
	if !ok {
		return nil, navigation.ErrSessionNotFound
	}
	return session.Clone(), nil
}

// CompareAndSwap stores the session if the kept version still matches.
func (repo *SessionRepo) CompareAndSwap(_ context.Context, session *navigation.Session, expectedVersion int64) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored, ok := repo.sessions[session.ID]
	if !ok {
		return navigation.ErrSessionNotFound
	}
	if stored.Version != expectedVersion {
		return navigation.ErrVersionConflict
	}

	session.Version = expectedVersion + 1
	repo.sessions[session.ID] = session.Clone()
	return nil
}

// ActiveForRobot returns the most recently created non-terminal session for
// the robot, or (nil, nil) when there is none.
func (repo *SessionRepo) ActiveForRobot(_ context.Context, robotID string) (*navigation.Session, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var latest *navigation.Session
	for _, session := range repo.sessions {
		if session.RobotID != robotID || session.Status.Terminal() {
			continue
		}
		if latest == nil || session.CreatedAt.After(latest.CreatedAt) {
			latest = session
		}
	}
	if latest == nil {
		return nil, nil
	}
	return latest.Clone(), nil
}
