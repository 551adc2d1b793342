package ports

import (
	"context"
	"time"
)

// OutboxMessage is a committed domain event waiting to be relayed to the
// integration broker.
type OutboxMessage struct {
	ID         int64
	EventID    string
	Name       string
	Key        string
	Payload    []byte
	OccurredAt time.Time
}

// OutboxRepository reads and acknowledges pending outbox rows. Rows are written
// by the unit of work when it commits tracked aggregates.
type OutboxRepository interface {
	// FetchPending locks up to limit unsent rows, oldest first. Rows locked by
	// another relay are skipped.
	FetchPending(ctx context.Context, limit int) ([]OutboxMessage, error)

	MarkSent(ctx context.Context, ids []int64) error
}

// IntegrationEventProducer delivers outbox messages to the broker.
type IntegrationEventProducer interface {
	Produce(ctx context.Context, messages []OutboxMessage) error
}
