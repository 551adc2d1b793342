package queries

import (
	"context"
	"time"

	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetOrderQueryHandler struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewGetOrderQueryHandler(db *gorm.DB, timeout time.Duration) GetOrderQueryHandler {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return GetOrderQueryHandler{db: db, timeout: timeout}
}

// Handle returns *errs.ObjectNotFoundError for an unknown order and an
// Unauthorized AuthError when the caller may not see it.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+orderColumns+`, COALESCE(s.owner_id, '')
		FROM orders o
		LEFT JOIN stores s ON s.id = o.store_id
		WHERE o.id = ?
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return OrderView{}, errs.AsPersistence("select order", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return OrderView{}, errs.AsPersistence("select order", err)
		}
		return OrderView{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	var ownerID string
	view, err := scanOrder(rows, &ownerID)
	if err != nil {
		return OrderView{}, errs.AsPersistence("scan order", err)
	}
	_ = rows.Close()

	caller := query.Caller()
	if caller.UserID() != view.UserID && !managesStore(caller, ownerID) {
		return OrderView{}, errs.NewUnauthorizedError("caller may not read order " + view.ID.String())
	}

	views := []OrderView{view}
	if err = attachLines(ctx, h.db, views); err != nil {
		return OrderView{}, err
	}
	return views[0], nil
}
