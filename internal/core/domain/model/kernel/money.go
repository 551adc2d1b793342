package kernel

import (
	"fmt"

	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrMoneyIsNotConstructed indicates a zero-value Money.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError("Money must be created via NewMoney or MoneyFromString")

// Money is a strictly positive monetary amount. Arithmetic is exact decimal
// arithmetic, so 2 × 2.99 + 3.49 is exactly 9.47.
type Money struct {
	amount decimal.Decimal
	valid  bool
}

// NewMoney validates that amount is greater than zero.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if !amount.IsPositive() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount", fmt.Errorf("%s is not greater than 0", amount.String()),
		)
	}
	return Money{amount: amount, valid: true}, nil
}

// MoneyFromString parses a decimal string such as "2.99".
func MoneyFromString(s string) (Money, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(amount)
}

// MustMoney is NewMoney for literals known to be valid. It panics otherwise.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Amount returns the underlying decimal value.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Multiply returns m × quantity. quantity must be positive.
func (m Money) Multiply(quantity int) (Money, error) {
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	if quantity <= 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"quantity", fmt.Errorf("%d is not greater than 0", quantity),
		)
	}
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity))), valid: true}, nil
}

// Add returns m + other.
func (m Money) Add(other Money) (Money, error) {
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	if err := other.Validate(); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), valid: true}, nil
}

// IsEqual compares amounts numerically, so 9.470 equals 9.47.
func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String returns the amount with at least two decimal places.
func (m Money) String() string {
	return m.amount.StringFixed(max(2, -m.amount.Exponent()))
}

// Validate reports whether m was built through a constructor.
func (m Money) Validate() error {
	if !m.valid {
		return ErrMoneyIsNotConstructed
	}
	return nil
}
