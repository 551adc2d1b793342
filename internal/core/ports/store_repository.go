package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/store"
)

// StoreRepository reads stores for authorization. Add exists for seeding.
type StoreRepository interface {
	Add(ctx context.Context, aggregate *store.Store) error

	// Get returns *errs.ObjectNotFoundError when no store has the id.
	Get(ctx context.Context, id kernel.UUID) (*store.Store, error)
}
