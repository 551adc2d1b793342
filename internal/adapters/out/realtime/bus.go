package realtime

import (
	"context"
	"log/slog"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/metrics"
)

// Delivery summarizes one Publish call.
type Delivery struct {
	Delivered int
	Dropped   int
	Pruned    int
}

// Bus delivers messages to the connections of a store. It implements
// ports.OrderEventPublisher.
type Bus struct {
	registry *Registry
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewBus(registry *Registry, logger *slog.Logger, m *metrics.Metrics) *Bus {
	return &Bus{
		registry: registry,
		logger:   logger.With("component", "event_fanout_bus"),
		metrics:  m,
	}
}

// Publish enqueues msg to every connection that is a member of the store at
// this moment. It never blocks on a slow connection.
func (b *Bus) Publish(storeID kernel.UUID, msg Message) Delivery {
	delivered, dropped, pruned := b.registry.fanout(storeID, func(conn *Connection) sendResult {
		return conn.trySend(msg)
	})

	b.metrics.EventsPublished.WithLabelValues(msg.Event).Inc()
	b.metrics.Deliveries.Add(float64(delivered))
	b.metrics.DroppedDeliveries.Add(float64(dropped))
	b.metrics.PrunedConnections.Add(float64(pruned))

	if dropped > 0 {
		b.logger.Warn("dropped messages for slow connections",
			"store_id", storeID.String(), "event", msg.Event, "dropped", dropped)
	}
	return Delivery{Delivered: delivered, Dropped: dropped, Pruned: pruned}
}

// PublishOrderEvents translates committed order events into store frames.
func (b *Bus) PublishOrderEvents(ctx context.Context, events []order.DomainEvent) {
	for _, event := range events {
		msg, ok := MessageFor(event)
		if !ok {
			b.logger.WarnContext(ctx, "unknown order event", "event", event.EventName())
			continue
		}
		delivery := b.Publish(event.StoreID(), msg)
		b.logger.DebugContext(ctx, "order event published",
			"event", msg.Event,
			"order_id", event.OrderID().String(),
			"store_id", event.StoreID().String(),
			"delivered", delivery.Delivered,
		)
	}
}

// MessageFor maps a domain event to its server frame.
func MessageFor(event order.DomainEvent) (Message, bool) {
	switch e := event.(type) {
	case order.CreatedEvent:
		return Message{Event: NewOrderEvent, Data: NewOrderData{
			OrderID:   e.OrderID().String(),
			Total:     e.Total().String(),
			LineCount: e.LineCount(),
		}}, true
	case order.StatusChangedEvent:
		return Message{Event: OrderUpdatedEvent, Data: OrderUpdatedData{
			OrderID: e.OrderID().String(),
			Status:  e.Status().String(),
		}}, true
	default:
		return Message{}, false
	}
}
