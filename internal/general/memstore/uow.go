package memstore

import (
	"context"

	"store-nav/internal/ports"
)

// unitOfWork is a pass-through UnitOfWork for in-memory stores, which commit
// on every call and need no transaction boundary.
type unitOfWork struct{}

// NewUnitOfWork constructs the pass-through unit of work.
func NewUnitOfWork() ports.UnitOfWork {
	return unitOfWork{}
}

func (unitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
