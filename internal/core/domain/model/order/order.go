package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order is the aggregate root of a purchase against one store.
//
// Order follows these invariants:
//   - Has a valid id, store id and placing user id
//   - Holds at least one Line
//   - Total is positive and, for new orders, equals Σ quantity × unit price
//   - Only the status changes after creation, through ChangeStatus
//
// Changes are recorded as domain events, collected by the unit of work after
// persistence and published once the transaction commits.
type Order struct {
	id        kernel.UUID
	storeID   kernel.UUID
	userID    string
	lines     []Line
	total     kernel.Money
	status    Status
	createdAt time.Time

	events []DomainEvent
	guard  guard.ConstructorGuard
}

// NewOrder creates a PENDING order, computes its total from lines and raises a
// CreatedEvent.
//
// Example:
//
//	apples, _ := order.NewLine(appleID, 2, kernel.MustMoney("2.99"))
//	bread, _ := order.NewLine(breadID, 1, kernel.MustMoney("3.49"))
//	o, err := order.NewOrder(kernel.NewUUID(), storeID, "user-1", []order.Line{apples, bread})
//	// o.Total() == 9.47, o.Status() == order.Pending
func NewOrder(id, storeID kernel.UUID, userID string, lines []Line) (*Order, error) {
	o := &Order{
		status:    Pending,
		createdAt: time.Now().UTC().Truncate(time.Microsecond),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setStoreID(storeID),
		o.setUserID(userID),
		o.setLines(lines),
	); err != nil {
		return nil, err
	}

	total, err := sumLines(o.lines)
	if err != nil {
		return nil, err
	}
	o.total = total

	o.raise(CreatedEvent{
		eventHeader: newEventHeader(o),
		userID:      o.userID,
		total:       o.total,
		lineCount:   len(o.lines),
	})

	return o, nil
}

// RestoreOrder rebuilds an order from persisted state. The stored total is
// taken as-is and no events are raised.
func RestoreOrder(
	id, storeID kernel.UUID,
	userID string,
	lines []Line,
	total kernel.Money,
	status Status,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setStoreID(storeID),
		o.setUserID(userID),
		o.setLines(lines),
		o.setTotal(total),
		o.setStatus(status),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was built through a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares orders by id.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID { return o.id }

func (o *Order) StoreID() kernel.UUID { return o.storeID }

func (o *Order) UserID() string { return o.userID }

func (o *Order) Total() kernel.Money { return o.total }

func (o *Order) Status() Status { return o.status }

func (o *Order) CreatedAt() time.Time { return o.createdAt }

// Lines returns a copy of the order lines.
func (o *Order) Lines() []Line {
	lines := make([]Line, len(o.lines))
	copy(lines, o.lines)
	return lines
}

// ChangeStatus moves the order to target and raises a StatusChangedEvent.
// On error the order is left unchanged.
func (o *Order) ChangeStatus(target Status) error {
	if err := o.Validate(); err != nil {
		return err
	}

	next, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}

	from := o.status
	o.status = next
	o.raise(StatusChangedEvent{
		eventHeader: newEventHeader(o),
		from:        from,
		to:          next,
	})
	return nil
}

// DomainEvents returns the events raised since the last ClearDomainEvents.
func (o *Order) DomainEvents() []DomainEvent {
	events := make([]DomainEvent, len(o.events))
	copy(events, o.events)
	return events
}

// ClearDomainEvents drops the recorded events.
func (o *Order) ClearDomainEvents() {
	o.events = nil
}

func (o *Order) raise(event DomainEvent) {
	o.events = append(o.events, event)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setStoreID(storeID kernel.UUID) error {
	if err := storeID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("store_id", err)
	}
	o.storeID = storeID
	return nil
}

func (o *Order) setUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return errs.NewValueIsRequiredError("user_id")
	}
	o.userID = userID
	return nil
}

func (o *Order) setLines(lines []Line) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredErrorWithCause("items", errors.New("an order needs at least one line"))
	}
	for i, line := range lines {
		if err := line.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d]", i), err)
		}
	}
	o.lines = make([]Line, len(lines))
	copy(o.lines, lines)
	return nil
}

func (o *Order) setTotal(total kernel.Money) error {
	if err := total.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("total", err)
	}
	o.total = total
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func sumLines(lines []Line) (kernel.Money, error) {
	var total kernel.Money
	for i, line := range lines {
		subtotal, err := line.Subtotal()
		if err != nil {
			return kernel.Money{}, err
		}
		if i == 0 {
			total = subtotal
			continue
		}
		if total, err = total.Add(subtotal); err != nil {
			return kernel.Money{}, err
		}
	}
	return total, nil
}
