// Package queries contains the read side: order projections loaded with raw
// SQL straight from the orders, order_lines and stores tables.
package queries

import (
	"context"
	"database/sql"
	"time"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultQueryTimeout bounds the datastore work of one query.
const DefaultQueryTimeout = 5 * time.Second

// OrderView is the read model of an order with its lines.
type OrderView struct {
	ID        kernel.UUID
	StoreID   kernel.UUID
	UserID    string
	Total     kernel.Money
	Status    order.Status
	CreatedAt time.Time
	Lines     []LineView
}

type LineView struct {
	ProductID kernel.UUID
	Quantity  int
	UnitPrice kernel.Money
}

const orderColumns = `o.id, o.store_id, o.user_id, o.total, o.status, o.created_at`

func scanOrder(rows *sql.Rows, extra ...any) (OrderView, error) {
	var (
		id, storeID uuid.UUID
		userID      string
		total       decimal.Decimal
		status      int
		createdAt   time.Time
	)
	dest := append([]any{&id, &storeID, &userID, &total, &status, &createdAt}, extra...)
	if err := rows.Scan(dest...); err != nil {
		return OrderView{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return OrderView{}, err
	}
	storeUUID, err := kernel.UUIDFromBytes(storeID[:])
	if err != nil {
		return OrderView{}, err
	}
	amount, err := kernel.NewMoney(total)
	if err != nil {
		return OrderView{}, err
	}

	return OrderView{
		ID:        orderID,
		StoreID:   storeUUID,
		UserID:    userID,
		Total:     amount,
		Status:    order.Status(status),
		CreatedAt: createdAt.UTC(),
		Lines:     make([]LineView, 0),
	}, nil
}

// queryOrders runs a statement selecting orderColumns and attaches the lines.
func queryOrders(ctx context.Context, db *gorm.DB, statement string, values ...any) ([]OrderView, error) {
	rows, err := db.WithContext(ctx).Raw(statement, values...).Rows()
	if err != nil {
		return nil, errs.AsPersistence("select orders", err)
	}
	defer rows.Close()

	views := make([]OrderView, 0)
	for rows.Next() {
		view, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, errs.AsPersistence("scan order", scanErr)
		}
		views = append(views, view)
	}
	if err = rows.Err(); err != nil {
		return nil, errs.AsPersistence("select orders", err)
	}

	if err = attachLines(ctx, db, views); err != nil {
		return nil, err
	}
	return views, nil
}

func attachLines(ctx context.Context, db *gorm.DB, views []OrderView) error {
	if len(views) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(views))
	index := make(map[uuid.UUID]int, len(views))
	for i, v := range views {
		ids = append(ids, v.ID.Bytes())
		index[v.ID.Bytes()] = i
	}

	rows, err := db.WithContext(ctx).Raw(`
		SELECT order_id, product_id, quantity, unit_price
		FROM order_lines
		WHERE order_id IN ?
		ORDER BY order_id, position
	`, ids).Rows()
	if err != nil {
		return errs.AsPersistence("select order lines", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID, productID uuid.UUID
			quantity           int
			unitPrice          decimal.Decimal
		)
		if err = rows.Scan(&orderID, &productID, &quantity, &unitPrice); err != nil {
			return errs.AsPersistence("scan order line", err)
		}

		product, idErr := kernel.UUIDFromBytes(productID[:])
		if idErr != nil {
			return idErr
		}
		price, priceErr := kernel.NewMoney(unitPrice)
		if priceErr != nil {
			return priceErr
		}

		i := index[orderID]
		views[i].Lines = append(views[i].Lines, LineView{ProductID: product, Quantity: quantity, UnitPrice: price})
	}
	if err = rows.Err(); err != nil {
		return errs.AsPersistence("select order lines", err)
	}
	return nil
}

// storeOwner returns the owner of storeID or *errs.ObjectNotFoundError.
func storeOwner(ctx context.Context, db *gorm.DB, storeID kernel.UUID) (string, error) {
	var owners []string
	if err := db.WithContext(ctx).Raw(`SELECT owner_id FROM stores WHERE id = ?`, storeID.Bytes()).
		Scan(&owners).Error; err != nil {
		return "", errs.AsPersistence("select store", err)
	}
	if len(owners) == 0 {
		return "", errs.NewObjectNotFoundError("store", storeID.String())
	}
	return owners[0], nil
}

func managesStore(caller identity.Identity, ownerID string) bool {
	return caller.IsAdmin() || caller.UserID() == ownerID
}
