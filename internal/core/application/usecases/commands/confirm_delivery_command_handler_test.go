package commands_test

import (
	"testing"
	"time"

	"codorders/internal/core/application/usecases/commands"
	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOrderUoW(orderRepo *MockOrderRepository) (*MockOrderUoW, *MockOrderUoWFactory) {
	uow := &MockOrderUoW{}
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Rollback", mock.Anything).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)

	factory := &MockOrderUoWFactory{}
	factory.On("Create").Return(uow)
	return uow, factory
}

func TestConfirmDeliveryCommandHandler_Handle_CashWithoutDiscrepancy(t *testing.T) {
	ctx := t.Context()

	ord := restoreOrderInStatus(t, order.StatusInTransit,
		[]order.LineItem{mustLineItem(t, kernel.NewUUID(), 1, 10000)})
	token := *ord.DeliveryToken()

	orderRepo := &MockOrderRepository{}
	orderRepo.On("GetByTokenForUpdate", ctx, token).Return(ord, nil)
	orderRepo.On("Update", ctx, ord).Return(nil)

	uow, factory := newOrderUoW(orderRepo)
	uow.On("Commit", ctx).Return(nil)

	handler := commands.NewConfirmDeliveryCommandHandler(factory, newRelaxedSideEffects())
	cmd, err := commands.NewConfirmDeliveryCommand(token, nil, false)
	require.NoError(t, err)

	delivered, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, delivered.Status())
	assert.Equal(t, order.OutcomeConfirmed, delivered.DeliveryOutcome())
	assert.Equal(t, "100.00", delivered.AmountCollected().String())
	assert.False(t, delivered.HasAmountDiscrepancy())
	assert.NotNil(t, delivered.DeliveredAt())
	assert.NotNil(t, delivered.DeliveryToken(), "token stays valid until the customer rates")
	uow.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
}

func TestConfirmDeliveryCommandHandler_Handle_CashWithDiscrepancy(t *testing.T) {
	ctx := t.Context()

	ord := restoreOrderInStatus(t, order.StatusInTransit,
		[]order.LineItem{mustLineItem(t, kernel.NewUUID(), 1, 10000)})
	token := *ord.DeliveryToken()

	orderRepo := &MockOrderRepository{}
	orderRepo.On("GetByTokenForUpdate", ctx, token).Return(ord, nil)
	orderRepo.On("Update", ctx, ord).Return(nil)

	uow, factory := newOrderUoW(orderRepo)
	uow.On("Commit", ctx).Return(nil)

	collected := mustMoney(t, 9000)
	handler := commands.NewConfirmDeliveryCommandHandler(factory, newRelaxedSideEffects())
	cmd, err := commands.NewConfirmDeliveryCommand(token, &collected, true)
	require.NoError(t, err)

	delivered, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "90.00", delivered.AmountCollected().String())
	assert.True(t, delivered.HasAmountDiscrepancy())
}

func TestConfirmDeliveryCommandHandler_Handle_RejectsSecondReport(t *testing.T) {
	ctx := t.Context()

	ord := restoreOrderInStatus(t, order.StatusDelivered,
		[]order.LineItem{mustLineItem(t, kernel.NewUUID(), 1, 10000)})
	token := *ord.DeliveryToken()
	require.NoError(t, ord.ConfirmDelivery(nil, false, time.Now().UTC()))

	orderRepo := &MockOrderRepository{}
	orderRepo.On("GetByTokenForUpdate", ctx, token).Return(ord, nil)

	uow, factory := newOrderUoW(orderRepo)

	handler := commands.NewConfirmDeliveryCommandHandler(factory, newRelaxedSideEffects())
	cmd, err := commands.NewConfirmDeliveryCommand(token, nil, false)
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, order.ErrOutcomeAlreadyRecorded)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestConfirmDeliveryCommandHandler_Handle_RejectsWhileIncidentActive(t *testing.T) {
	ctx := t.Context()

	ord := restoreOrderInStatus(t, order.StatusIncident,
		[]order.LineItem{mustLineItem(t, kernel.NewUUID(), 1, 10000)})
	token := *ord.DeliveryToken()

	orderRepo := &MockOrderRepository{}
	orderRepo.On("GetByTokenForUpdate", ctx, token).Return(ord, nil)

	uow, factory := newOrderUoW(orderRepo)

	handler := commands.NewConfirmDeliveryCommandHandler(factory, newRelaxedSideEffects())
	cmd, err := commands.NewConfirmDeliveryCommand(token, nil, false)
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, order.ErrActiveIncident)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
