package queries

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type ListUserOrdersQueryHandler struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewListUserOrdersQueryHandler(db *gorm.DB, timeout time.Duration) ListUserOrdersQueryHandler {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return ListUserOrdersQueryHandler{db: db, timeout: timeout}
}

// Handle returns an empty, non-nil slice when the caller has no orders.
func (h ListUserOrdersQueryHandler) Handle(ctx context.Context, query ListUserOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	return queryOrders(ctx, h.db, `
		SELECT `+orderColumns+`
		FROM orders o
		WHERE o.user_id = ?
		ORDER BY o.created_at DESC, o.id
	`, query.Caller().UserID())
}
