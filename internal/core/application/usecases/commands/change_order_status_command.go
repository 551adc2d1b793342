package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand asks to move an order to a new status on behalf of
// the store owner or an admin.
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	caller  identity.Identity
	orderID kernel.UUID
	status  order.Status

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand parses the wire status name. An unrecognized
// name is rejected here, before any lookup.
func NewChangeOrderStatusCommand(caller identity.Identity, orderID kernel.UUID, status string) (ChangeOrderStatusCommand, error) {
	if err := caller.Validate(); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	target, statusErr := order.ParseStatus(status)
	if err := errors.Join(orderID.Validate(), statusErr); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return ChangeOrderStatusCommand{
		caller:  caller,
		orderID: orderID,
		status:  target,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

func (c ChangeOrderStatusCommand) Caller() identity.Identity { return c.caller }

func (c ChangeOrderStatusCommand) OrderID() kernel.UUID { return c.orderID }

func (c ChangeOrderStatusCommand) Status() order.Status { return c.status }
