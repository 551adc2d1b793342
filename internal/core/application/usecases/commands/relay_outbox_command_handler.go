package commands

import (
	"context"
	"fmt"

	"marketplace/internal/core/ports"
)

// RelayOutboxCommandHandler publishes pending outbox rows and marks them sent
// in the same transaction that locked them. A failed produce leaves the rows
// pending for the next run, so delivery to the broker is at least once.
type RelayOutboxCommandHandler struct {
	uowFactory OutboxUoWFactory
	producer   ports.IntegrationEventProducer
}

func NewRelayOutboxCommandHandler(uowFactory OutboxUoWFactory, producer ports.IntegrationEventProducer) RelayOutboxCommandHandler {
	return RelayOutboxCommandHandler{uowFactory: uowFactory, producer: producer}
}

// Handle returns the number of relayed messages.
func (h *RelayOutboxCommandHandler) Handle(ctx context.Context, cmd RelayOutboxCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outbox := uow.OutboxRepository()
	messages, err := outbox.FetchPending(ctx, cmd.BatchSize())
	if err != nil {
		return 0, err
	}
	if len(messages) == 0 {
		return 0, uow.Commit(ctx)
	}

	if err = h.producer.Produce(ctx, messages); err != nil {
		return 0, fmt.Errorf("produce %d outbox messages: %w", len(messages), err)
	}

	ids := make([]int64, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
	}
	if err = outbox.MarkSent(ctx, ids); err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return len(messages), nil
}
