package queries

import (
	"context"
	"time"

	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

type ListStoreOrdersQueryHandler struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewListStoreOrdersQueryHandler(db *gorm.DB, timeout time.Duration) ListStoreOrdersQueryHandler {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return ListStoreOrdersQueryHandler{db: db, timeout: timeout}
}

// Handle returns *errs.ObjectNotFoundError for an unknown store and an
// Unauthorized AuthError unless the caller manages it.
func (h ListStoreOrdersQueryHandler) Handle(ctx context.Context, query ListStoreOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	ownerID, err := storeOwner(ctx, h.db, query.StoreID())
	if err != nil {
		return nil, err
	}
	if !managesStore(query.Caller(), ownerID) {
		return nil, errs.NewUnauthorizedError("caller does not manage store " + query.StoreID().String())
	}

	return queryOrders(ctx, h.db, `
		SELECT `+orderColumns+`
		FROM orders o
		WHERE o.store_id = ?
		ORDER BY o.created_at DESC, o.id
	`, query.StoreID().Bytes())
}
