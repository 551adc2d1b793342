package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery reads one order. The caller must be the customer who placed
// it, the owner of its store, or an admin.
type GetOrderQuery struct {
	caller  identity.Identity
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(caller identity.Identity, orderID kernel.UUID) (GetOrderQuery, error) {
	if err := errors.Join(caller.Validate(), orderID.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{caller: caller, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) Caller() identity.Identity { return q.caller }

func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }
