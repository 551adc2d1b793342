package order

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

const (
	CreatedEventName       = "order.created"
	StatusChangedEventName = "order.status_changed"
)

// DomainEvent is a fact raised by the Order aggregate. Every event is scoped to
// the store that owns the order.
type DomainEvent interface {
	EventID() kernel.UUID
	EventName() string
	OrderID() kernel.UUID
	StoreID() kernel.UUID
	OccurredAt() time.Time
}

type eventHeader struct {
	eventID    kernel.UUID
	orderID    kernel.UUID
	storeID    kernel.UUID
	occurredAt time.Time
}

func newEventHeader(o *Order) eventHeader {
	return eventHeader{
		eventID:    kernel.NewUUID(),
		orderID:    o.id,
		storeID:    o.storeID,
		occurredAt: time.Now().UTC(),
	}
}

func (h eventHeader) EventID() kernel.UUID  { return h.eventID }
func (h eventHeader) OrderID() kernel.UUID  { return h.orderID }
func (h eventHeader) StoreID() kernel.UUID  { return h.storeID }
func (h eventHeader) OccurredAt() time.Time { return h.occurredAt }

// CreatedEvent is raised once, when NewOrder builds a new order.
type CreatedEvent struct {
	eventHeader
	userID    string
	total     kernel.Money
	lineCount int
}

func (CreatedEvent) EventName() string { return CreatedEventName }

func (e CreatedEvent) UserID() string { return e.userID }

func (e CreatedEvent) Total() kernel.Money { return e.total }

func (e CreatedEvent) LineCount() int { return e.lineCount }

// StatusChangedEvent is raised by every successful ChangeStatus.
type StatusChangedEvent struct {
	eventHeader
	from Status
	to   Status
}

func (StatusChangedEvent) EventName() string { return StatusChangedEventName }

func (e StatusChangedEvent) From() Status { return e.from }

func (e StatusChangedEvent) Status() Status { return e.to }
