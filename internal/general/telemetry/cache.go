package telemetry

import (
	"context"
	"sync"

	"store-nav/internal/domain/robot"
	"store-nav/internal/ports"
)

// Cache keeps the freshest telemetry snapshot per robot in memory. It is fed
// by the fanout consumer and by robot WebSocket frames; cold reads fall back
// to the persistent robot repository when one is attached.
type Cache struct {
	mu      sync.RWMutex
	byRobot map[string]robot.Location

	uow      ports.UnitOfWork
	fallback ports.RobotRepository
}

// NewCache constructs a cache. uow and fallback may be nil for a pure
// in-memory cache.
func NewCache(uow ports.UnitOfWork, fallback ports.RobotRepository) *Cache {
	return &Cache{
		byRobot:  make(map[string]robot.Location),
		uow:      uow,
		fallback: fallback,
	}
}

var _ ports.TelemetrySource = (*Cache)(nil)

// Update records a snapshot, keeping only the newest per robot.
func (cache *Cache) Update(location robot.Location) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	if current, ok := cache.byRobot[location.RobotID]; ok && current.UpdatedAt.After(location.UpdatedAt) {
		return
	}
	cache.byRobot[location.RobotID] = location
}

// Latest returns the freshest snapshot for the robot, consulting the
// fallback repository on a cache miss.
func (cache *Cache) Latest(ctx context.Context, robotID string) (*robot.Location, error) {
	cache.mu.RLock()
	location, ok := cache.byRobot[robotID]
	cache.mu.RUnlock()
	if ok {
		return &location, nil
	}

	if cache.fallback == nil || cache.uow == nil {
		return nil, robot.ErrRobotNotFound
	}

	var stored *robot.Location
	err := cache.uow.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		stored, err = cache.fallback.GetLocation(ctx, robotID)
		return err
	})
	if err != nil {
		return nil, err
	}

	cache.Update(*stored)
	return stored, nil
}

// Snapshot returns the cached location of every robot seen so far.
func (cache *Cache) Snapshot() []robot.Location {
	cache.mu.RLock()
	defer cache.mu.RUnlock()

	out := make([]robot.Location, 0, len(cache.byRobot))
	for _, location := range cache.byRobot {
		out = append(out, location)
	}
	return out
}
