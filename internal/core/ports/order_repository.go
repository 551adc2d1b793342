// Package ports defines the contracts between the order use cases and the
// infrastructure that persists, authenticates and notifies on their behalf.
package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Orders are never deleted; after creation only the status changes.
type OrderRepository interface {
	// Add persists a new order together with all of its lines.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its lines.
	// Returns *errs.ObjectNotFoundError when no order has the id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate is Get with a row lock held until the surrounding
	// transaction ends. It must run inside UnitOfWork.Begin.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// UpdateStatus writes aggregate.Status() only if the stored status still
	// equals from. A lost race is reported as *errs.IllegalTransitionError.
	UpdateStatus(ctx context.Context, aggregate *order.Order, from order.Status) error
}
