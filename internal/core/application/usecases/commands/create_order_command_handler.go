package commands

import (
	"context"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// DefaultPersistenceTimeout bounds the datastore work of one command.
const DefaultPersistenceTimeout = 5 * time.Second

// CreateOrderCommandHandler places new orders.
//
// The order header and lines are written in one transaction. After commit the
// OrderCreated event is published to the store's live channel while the store
// lock is still held, so store subscribers observe events in commit order.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.OrderEventPublisher
	locks      *StoreLocks
	timeout    time.Duration
}

func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.OrderEventPublisher,
	locks *StoreLocks,
	timeout time.Duration,
) CreateOrderCommandHandler {
	if timeout <= 0 {
		timeout = DefaultPersistenceTimeout
	}
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		locks:      locks,
		timeout:    timeout,
	}
}

// Handle creates the order and returns it as persisted.
//
// Errors:
//   - validation errors for an unconstructed command or a total mismatch
//   - *errs.ObjectNotFoundError when the store does not exist
//   - *errs.PersistenceError for datastore failures and timeouts
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, err := order.NewOrder(cmd.OrderID(), cmd.StoreID(), cmd.Caller().UserID(), cmd.Lines())
	if err != nil {
		return nil, err
	}
	if expected := cmd.ExpectedTotal(); expected != nil && !expected.IsEqual(o.Total()) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"total", fmt.Errorf("%s does not match the computed total %s", expected.String(), o.Total().String()),
		)
	}

	unlock, err := h.lockStore(ctx, o.StoreID())
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err = h.persist(ctx, o); err != nil {
		return nil, err
	}

	h.publisher.PublishOrderEvents(ctx, o.DomainEvents())
	o.ClearDomainEvents()

	return o, nil
}

func (h *CreateOrderCommandHandler) persist(ctx context.Context, o *order.Order) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return errs.AsPersistence("begin", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.StoreRepository().Get(ctx, o.StoreID()); err != nil {
		return errs.AsPersistence("get store", err)
	}

	if err := uow.OrderRepository().Add(ctx, o); err != nil {
		return errs.AsPersistence("add order", err)
	}

	if err := uow.Commit(ctx); err != nil {
		return errs.AsPersistence("commit", err)
	}

	return nil
}

// lockStore waits for the store stripe no longer than one persistence timeout.
func (h *CreateOrderCommandHandler) lockStore(ctx context.Context, storeID kernel.UUID) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return h.locks.Lock(ctx, storeID)
}
