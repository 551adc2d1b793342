package order

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// ErrLineIsNotConstructed is returned when a Line was not created through NewLine.
var ErrLineIsNotConstructed = errors.New("Line must be created via NewLine constructor")

// Line is one product entry of an order. The unit price is a snapshot taken
// when the order was placed and does not follow later product price changes.
type Line struct {
	productID kernel.UUID
	quantity  int
	unitPrice kernel.Money

	guard guard.ConstructorGuard
}

// NewLine validates and creates an order line.
//
// Returns a joined error listing every invalid field:
//   - product id must be a constructed UUID
//   - quantity must be greater than 0
//   - unit price must be a constructed (positive) Money
func NewLine(productID kernel.UUID, quantity int, unitPrice kernel.Money) (Line, error) {
	line := Line{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		line.setProductID(productID),
		line.setQuantity(quantity),
		line.setUnitPrice(unitPrice),
	); err != nil {
		return Line{}, err
	}

	return line, nil
}

// Validate ensures the line was created through NewLine.
func (l Line) Validate() error {
	return l.guard.Validate(ErrLineIsNotConstructed)
}

// ProductID returns the referenced product.
func (l Line) ProductID() kernel.UUID {
	return l.productID
}

// Quantity returns the ordered quantity.
func (l Line) Quantity() int {
	return l.quantity
}

// UnitPrice returns the price snapshot.
func (l Line) UnitPrice() kernel.Money {
	return l.unitPrice
}

// Subtotal returns quantity × unit price.
func (l Line) Subtotal() (kernel.Money, error) {
	return l.unitPrice.Multiply(l.quantity)
}

func (l *Line) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("product_id", err)
	}
	l.productID = productID
	return nil
}

func (l *Line) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	l.quantity = quantity
	return nil
}

func (l *Line) setUnitPrice(unitPrice kernel.Money) error {
	if err := unitPrice.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("price", err)
	}
	l.unitPrice = unitPrice
	return nil
}
