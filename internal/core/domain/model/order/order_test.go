package order_test

import (
	"testing"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLine(t *testing.T, quantity int, price string) order.Line {
	t.Helper()
	line, err := order.NewLine(kernel.NewUUID(), quantity, kernel.MustMoney(price))
	require.NoError(t, err)
	return line
}

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), "user-1", []order.Line{mustLine(t, 1, "10.00")})
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

func TestNewOrder(t *testing.T) {
	id := kernel.NewUUID()
	storeID := kernel.NewUUID()

	t.Run("should compute the exact total and start pending", func(t *testing.T) {
		lines := []order.Line{mustLine(t, 2, "2.99"), mustLine(t, 1, "3.49")}

		o, err := order.NewOrder(id, storeID, "user-1", lines)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(id))
		assert.True(t, o.StoreID().IsEqual(storeID))
		assert.Equal(t, "user-1", o.UserID())
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, "9.47", o.Total().String())
		assert.True(t, o.Total().IsEqual(kernel.MustMoney("9.47")))
		assert.Len(t, o.Lines(), 2)
		assert.False(t, o.CreatedAt().IsZero())
	})

	t.Run("should raise a created event", func(t *testing.T) {
		o, err := order.NewOrder(id, storeID, "user-1", []order.Line{mustLine(t, 3, "1.10")})
		require.NoError(t, err)

		events := o.DomainEvents()
		require.Len(t, events, 1)

		created, ok := events[0].(order.CreatedEvent)
		require.True(t, ok)
		assert.Equal(t, order.CreatedEventName, created.EventName())
		assert.True(t, created.OrderID().IsEqual(id))
		assert.True(t, created.StoreID().IsEqual(storeID))
		assert.Equal(t, "3.30", created.Total().String())
		assert.Equal(t, 1, created.LineCount())
		assert.Equal(t, "user-1", created.UserID())
	})

	t.Run("should fail without lines", func(t *testing.T) {
		o, err := order.NewOrder(id, storeID, "user-1", nil)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "items")
	})

	t.Run("should fail with a zero-value line", func(t *testing.T) {
		o, err := order.NewOrder(id, storeID, "user-1", []order.Line{{}})

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "items[0]")
	})

	t.Run("should report every invalid field", func(t *testing.T) {
		o, err := order.NewOrder(kernel.UUID{}, kernel.UUID{}, " ", nil)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "store_id")
		assert.Contains(t, err.Error(), "user_id")
		assert.Contains(t, err.Error(), "items")
	})

	t.Run("should not share the caller's slice", func(t *testing.T) {
		lines := []order.Line{mustLine(t, 1, "1.00")}
		o, err := order.NewOrder(id, storeID, "user-1", lines)
		require.NoError(t, err)

		lines[0] = mustLine(t, 5, "5.00")

		assert.Equal(t, 1, o.Lines()[0].Quantity())
	})
}

func TestRestoreOrder(t *testing.T) {
	lines := []order.Line{mustLine(t, 1, "4.00")}

	t.Run("should keep the stored total and raise nothing", func(t *testing.T) {
		o, err := order.RestoreOrder(
			kernel.NewUUID(), kernel.NewUUID(), "user-2", lines,
			kernel.MustMoney("4.00"), order.Ready, newPendingOrder(t).CreatedAt(),
		)

		require.NoError(t, err)
		assert.Equal(t, order.Ready, o.Status())
		assert.Equal(t, "4.00", o.Total().String())
		assert.Empty(t, o.DomainEvents())
	})

	t.Run("should reject an unknown status", func(t *testing.T) {
		_, err := order.RestoreOrder(
			kernel.NewUUID(), kernel.NewUUID(), "user-2", lines,
			kernel.MustMoney("4.00"), order.Unknown, newPendingOrder(t).CreatedAt(),
		)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject a zero total", func(t *testing.T) {
		_, err := order.RestoreOrder(
			kernel.NewUUID(), kernel.NewUUID(), "user-2", lines,
			kernel.Money{}, order.Pending, newPendingOrder(t).CreatedAt(),
		)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "total")
	})
}

func TestOrder_ChangeStatus(t *testing.T) {
	t.Run("should walk the happy path", func(t *testing.T) {
		o := newPendingOrder(t)

		require.NoError(t, o.ChangeStatus(order.Preparing))
		require.NoError(t, o.ChangeStatus(order.Ready))
		require.NoError(t, o.ChangeStatus(order.PickedUp))

		assert.Equal(t, order.PickedUp, o.Status())

		events := o.DomainEvents()
		require.Len(t, events, 3)
		last, ok := events[2].(order.StatusChangedEvent)
		require.True(t, ok)
		assert.Equal(t, order.StatusChangedEventName, last.EventName())
		assert.Equal(t, order.Ready, last.From())
		assert.Equal(t, order.PickedUp, last.Status())
		assert.True(t, last.OrderID().IsEqual(o.ID()))
		assert.True(t, last.StoreID().IsEqual(o.StoreID()))
	})

	t.Run("should reject skipping a step and leave the order unchanged", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.ChangeStatus(order.Ready)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrIllegalTransition)
		assert.Equal(t, order.Pending, o.Status())
		assert.Empty(t, o.DomainEvents())
	})

	t.Run("should reject leaving a terminal status", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.ChangeStatus(order.Cancelled))

		err := o.ChangeStatus(order.Preparing)

		assert.ErrorIs(t, err, errs.ErrIllegalTransition)
		assert.Equal(t, order.Cancelled, o.Status())
	})

	t.Run("should reject a self transition", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.ChangeStatus(order.Pending)

		assert.ErrorIs(t, err, errs.ErrIllegalTransition)
	})

	t.Run("should fail on a zero-value order", func(t *testing.T) {
		var o order.Order

		err := o.ChangeStatus(order.Preparing)

		assert.ErrorIs(t, err, order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_ClearDomainEvents(t *testing.T) {
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), "user-1", []order.Line{mustLine(t, 1, "1.00")})
	require.NoError(t, err)
	require.Len(t, o.DomainEvents(), 1)

	o.ClearDomainEvents()

	assert.Empty(t, o.DomainEvents())
}
