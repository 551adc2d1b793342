package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// ChangeOrderStatusCommandHandler drives the order status workflow.
//
// Checks run in this order: order exists, caller manages the order's store,
// transition is legal. The write is a check-and-write: the row is locked with
// SELECT ... FOR UPDATE and the update is conditional on the status that was
// read, so two concurrent transitions of one order never both succeed from the
// same starting status.
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.OrderEventPublisher
	locks      *StoreLocks
	timeout    time.Duration
}

func NewChangeOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.OrderEventPublisher,
	locks *StoreLocks,
	timeout time.Duration,
) ChangeOrderStatusCommandHandler {
	if timeout <= 0 {
		timeout = DefaultPersistenceTimeout
	}
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		locks:      locks,
		timeout:    timeout,
	}
}

// Handle applies the transition and returns the updated order. Exactly one
// OrderStatusChanged event is published after a successful commit and none
// otherwise.
func (h *ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	current, err := h.authorize(ctx, cmd)
	if err != nil {
		return nil, err
	}

	unlock, err := h.lockStore(ctx, current.StoreID())
	if err != nil {
		return nil, err
	}
	defer unlock()

	updated, err := h.transition(ctx, cmd)
	if err != nil {
		return nil, err
	}

	h.publisher.PublishOrderEvents(ctx, updated.DomainEvents())
	updated.ClearDomainEvents()

	return updated, nil
}

func (h *ChangeOrderStatusCommandHandler) authorize(ctx context.Context, cmd ChangeOrderStatusCommand) (*order.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	uow := h.uowFactory.Create()

	current, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, errs.AsPersistence("get order", err)
	}

	s, err := uow.StoreRepository().Get(ctx, current.StoreID())
	if err != nil {
		return nil, errs.AsPersistence("get store", err)
	}

	if err = s.Authorize(cmd.Caller()); err != nil {
		return nil, err
	}

	return current, nil
}

func (h *ChangeOrderStatusCommandHandler) transition(ctx context.Context, cmd ChangeOrderStatusCommand) (*order.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, errs.AsPersistence("begin", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	locked, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, errs.AsPersistence("lock order", err)
	}

	from := locked.Status()
	if err = locked.ChangeStatus(cmd.Status()); err != nil {
		return nil, err
	}

	if err = orderRepo.UpdateStatus(ctx, locked, from); err != nil {
		return nil, errs.AsPersistence("update order status", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, errs.AsPersistence("commit", err)
	}

	return locked, nil
}

// lockStore waits for the store stripe no longer than one persistence timeout.
func (h *ChangeOrderStatusCommandHandler) lockStore(ctx context.Context, storeID kernel.UUID) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return h.locks.Lock(ctx, storeID)
}
