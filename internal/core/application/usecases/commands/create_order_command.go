package commands

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderLine is one requested item. The price is the unit price the
// customer saw, captured on the order as a snapshot.
type CreateOrderLine struct {
	ProductID kernel.UUID
	Quantity  int
	UnitPrice kernel.Money
}

// CreateOrderCommand represents a request to place an order against a store.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(caller, kernel.NewUUID(), storeID, []CreateOrderLine{
//	    {ProductID: appleID, Quantity: 2, UnitPrice: kernel.MustMoney("2.99")},
//	}, nil)
//	if err != nil {
//	    return err
//	}
//	o, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	caller        identity.Identity
	orderID       kernel.UUID
	storeID       kernel.UUID
	lines         []order.Line
	expectedTotal *kernel.Money

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the caller and every line. expectedTotal is
// optional; when set, the handler rejects the order if the computed total
// differs.
func NewCreateOrderCommand(
	caller identity.Identity,
	orderID, storeID kernel.UUID,
	lines []CreateOrderLine,
	expectedTotal *kernel.Money,
) (CreateOrderCommand, error) {
	if err := caller.Validate(); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd := CreateOrderCommand{
		caller:        caller,
		expectedTotal: expectedTotal,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStoreID(storeID),
		cmd.setLines(lines),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Caller() identity.Identity { return c.caller }

func (c CreateOrderCommand) OrderID() kernel.UUID { return c.orderID }

func (c CreateOrderCommand) StoreID() kernel.UUID { return c.storeID }

func (c CreateOrderCommand) Lines() []order.Line {
	lines := make([]order.Line, len(c.lines))
	copy(lines, c.lines)
	return lines
}

func (c CreateOrderCommand) ExpectedTotal() *kernel.Money { return c.expectedTotal }

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setStoreID(storeID kernel.UUID) error {
	if err := storeID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("store_id", err)
	}
	c.storeID = storeID
	return nil
}

func (c *CreateOrderCommand) setLines(items []CreateOrderLine) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredErrorWithCause("items", errors.New("an order needs at least one line"))
	}

	lines := make([]order.Line, 0, len(items))
	var lineErrs []error
	for i, item := range items {
		line, err := order.NewLine(item.ProductID, item.Quantity, item.UnitPrice)
		if err != nil {
			lineErrs = append(lineErrs, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d]", i), err))
			continue
		}
		lines = append(lines, line)
	}
	if len(lineErrs) > 0 {
		return errors.Join(lineErrs...)
	}

	c.lines = lines
	return nil
}
