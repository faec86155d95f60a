package ports

import (
	"context"

	"store-nav/internal/domain/navigation"
	"store-nav/internal/domain/product"
	"store-nav/internal/domain/robot"
)

// UnitOfWork interface is used to manage transactions across multiple repository operations.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SessionRepository stores navigation sessions with optimistic concurrency.
// Get returns a private copy; writers mutate the copy and commit it through
// CompareAndSwap, retrying on navigation.ErrVersionConflict.
type SessionRepository interface {
	// Put inserts a new session at its current Version.
	Put(ctx context.Context, session *navigation.Session) error
	// Get returns the session or navigation.ErrSessionNotFound.
	Get(ctx context.Context, id string) (*navigation.Session, error)
	// CompareAndSwap persists the session if the stored version still equals
	// expectedVersion, bumping session.Version to expectedVersion+1.
	// Returns navigation.ErrVersionConflict when another writer won.
	CompareAndSwap(ctx context.Context, session *navigation.Session, expectedVersion int64) error
	// ActiveForRobot returns the most recent non-terminal session for the
	// robot, or (nil, nil) when there is none.
	ActiveForRobot(ctx context.Context, robotID string) (*navigation.Session, error)
}

// ProductRepository exposes the catalog to the navigation core.
type ProductRepository interface {
	// GetByID returns the product or product.ErrProductNotFound.
	GetByID(ctx context.Context, id string) (*product.Product, error)
	// ListLocated returns active products that have a surveyed coordinate.
	ListLocated(ctx context.Context) ([]product.Product, error)
}

// RobotRepository persists the latest telemetry snapshot per robot.
type RobotRepository interface {
	SaveLocation(ctx context.Context, location *robot.Location) error
	// GetLocation returns the snapshot or robot.ErrRobotNotFound.
	GetLocation(ctx context.Context, robotID string) (*robot.Location, error)
	ListLocations(ctx context.Context) ([]robot.Location, error)
}

// TelemetrySource answers "where is this robot right now".
type TelemetrySource interface {
	// Latest returns the freshest snapshot or robot.ErrRobotNotFound.
	Latest(ctx context.Context, robotID string) (*robot.Location, error)
}

// CommandGateway dispatches fire-and-forget commands toward a robot. A
// returned error means the dispatch could not be handed to the transport;
// callers log it and move on, it never rolls back session state.
type CommandGateway interface {
	SendMove(ctx context.Context, cmd MoveCommand) error
	SendStop(ctx context.Context, cmd StopCommand) error
	SendSpeak(ctx context.Context, cmd SpeakCommand) error
}
