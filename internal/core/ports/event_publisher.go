package ports

import (
	"context"

	"marketplace/internal/core/domain/model/order"
)

// OrderEventPublisher fans committed order events out to the live channel of
// each event's store. Delivery is best effort and never reports an error: a
// failed delivery must not undo or fail the operation that raised the event.
type OrderEventPublisher interface {
	PublishOrderEvents(ctx context.Context, events []order.DomainEvent)
}
