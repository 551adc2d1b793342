package commands_test

import (
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChangeOrderStatusCommand(t *testing.T) {
	caller := mustIdentity("owner-1", identity.StoreOwner)
	orderID := kernel.NewUUID()

	t.Run("valid command", func(t *testing.T) {
		cmd, err := commands.NewChangeOrderStatusCommand(caller, orderID, "preparing")

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, order.Preparing, cmd.Status())
		assert.True(t, cmd.OrderID().IsEqual(orderID))
		assert.Equal(t, caller, cmd.Caller())
	})

	t.Run("unknown status name", func(t *testing.T) {
		_, err := commands.NewChangeOrderStatusCommand(caller, orderID, "SHIPPED")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "status is invalid")
	})

	t.Run("missing order id", func(t *testing.T) {
		_, err := commands.NewChangeOrderStatusCommand(caller, kernel.UUID{}, "READY")

		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})

	t.Run("missing caller", func(t *testing.T) {
		_, err := commands.NewChangeOrderStatusCommand(identity.Identity{}, orderID, "READY")

		assert.ErrorIs(t, err, errs.ErrMissingToken)
	})
}
