package commands_test

import (
	"testing"

	"codorders/internal/core/application/usecases/commands"
	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/core/domain/model/order"
	"codorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEditOrderCommandHandler_Handle_UnconditionalEdit(t *testing.T) {
	ctx := t.Context()

	ord := restoreOrderInStatus(t, order.StatusPending,
		[]order.LineItem{mustLineItem(t, kernel.NewUUID(), 1, 1000)})

	orderRepo := &MockOrderRepository{}
	orderRepo.On("GetForUpdate", ctx, ord.ID()).Return(ord, nil)
	orderRepo.On("Update", ctx, ord).Return(nil)

	uow, factory := newOrderUoW(orderRepo)
	uow.On("Commit", ctx).Return(nil)

	handler := commands.NewEditOrderCommandHandler(factory)
	cmd, err := commands.NewEditOrderCommand(
		ord.ID(), "7 Avenue Habib Bourguiba, Sousse", "Leila Trabelsi", "+21622334455", "call before arrival",
	)
	require.NoError(t, err)

	versionBefore := ord.Version()
	updated, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "7 Avenue Habib Bourguiba, Sousse", updated.DeliveryAddress())
	assert.Equal(t, "Leila Trabelsi", updated.CustomerName())
	assert.Equal(t, versionBefore+1, updated.Version())
	uow.AssertExpectations(t)
}

func TestEditOrderCommandHandler_Handle_VersionPrecondition(t *testing.T) {
	ctx := t.Context()

	ord := restoreOrderInStatus(t, order.StatusPending,
		[]order.LineItem{mustLineItem(t, kernel.NewUUID(), 1, 1000)})

	orderRepo := &MockOrderRepository{}
	orderRepo.On("GetForUpdate", ctx, ord.ID()).Return(ord, nil)
	orderRepo.On("Update", ctx, ord).Return(nil).Maybe()

	uow, factory := newOrderUoW(orderRepo)
	uow.On("Commit", ctx).Return(nil).Maybe()

	handler := commands.NewEditOrderCommandHandler(factory)

	t.Run("stale_version_is_rejected_with_both_versions", func(t *testing.T) {
		cmd, err := commands.NewEditOrderCommandWithVersion(
			ord.ID(), "new address", "new name", "+21600000000", "", ord.Version()-1,
		)
		require.NoError(t, err)

		_, err = handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrVersionConflict)
		var conflict *errs.VersionConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, ord.Version(), conflict.CurrentVersion)
		assert.Equal(t, ord.Version()-1, conflict.StaleVersion)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("matching_version_is_applied", func(t *testing.T) {
		cmd, err := commands.NewEditOrderCommandWithVersion(
			ord.ID(), "new address", "new name", "+21600000000", "", ord.Version(),
		)
		require.NoError(t, err)

		updated, err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, "new address", updated.DeliveryAddress())
	})
}
