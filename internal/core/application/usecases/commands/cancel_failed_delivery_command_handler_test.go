package commands_test

import (
	"testing"
	"time"

	"codorders/internal/core/application/usecases/commands"
	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/core/domain/model/order"
	"codorders/internal/core/domain/model/product"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCancelFailedDeliveryCommandHandler_Handle_CancelsAndReleasesStock(t *testing.T) {
	ctx := t.Context()

	productID := kernel.NewUUID()
	ord := restoreOrderInStatus(t, order.StatusIncident,
		[]order.LineItem{mustLineItem(t, productID, 2, 2500)})
	prod := mustProduct(t, productID, 1)

	orderRepo := &MockOrderRepository{}
	orderRepo.On("GetForUpdate", ctx, ord.ID()).Return(ord, nil)
	orderRepo.On("Update", ctx, ord).Return(nil)

	productRepo := &MockProductRepository{}
	productRepo.On("GetManyForUpdate", ctx, []kernel.UUID{productID}).
		Return(map[kernel.UUID]*product.Product{productID: prod}, nil)
	productRepo.On("Update", ctx, prod).Return(nil)

	uow := &MockStockUoW{}
	uow.On("Begin", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("ProductRepository").Return(productRepo)
	uow.On("Commit", ctx).Return(nil)

	factory := &MockStockUoWFactory{}
	factory.On("Create").Return(uow)

	handler := commands.NewCancelFailedDeliveryCommandHandler(factory, newRelaxedSideEffects())
	cmd, err := commands.NewCancelFailedDeliveryCommand(ord.ID(), kernel.NewUUID())
	require.NoError(t, err)

	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, ord.Status())
	assert.Equal(t, 3, prod.StockOnHand())
	assert.Nil(t, ord.DeliveryToken())
	assert.NotNil(t, ord.CancelledAt())
	uow.AssertExpectations(t)
}

func TestCancelFailedDeliveryCommandHandler_Handle_RequiresFailedOutcome(t *testing.T) {
	ctx := t.Context()

	productID := kernel.NewUUID()
	ord := restoreOrderInStatus(t, order.StatusInTransit,
		[]order.LineItem{mustLineItem(t, productID, 1, 2500)})

	orderRepo := &MockOrderRepository{}
	orderRepo.On("GetForUpdate", ctx, ord.ID()).Return(ord, nil)

	uow := &MockStockUoW{}
	uow.On("Begin", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)

	factory := &MockStockUoWFactory{}
	factory.On("Create").Return(uow)

	handler := commands.NewCancelFailedDeliveryCommandHandler(factory, newRelaxedSideEffects())
	cmd, err := commands.NewCancelFailedDeliveryCommand(ord.ID(), kernel.NewUUID())
	require.NoError(t, err)

	err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, order.ErrDeliveryNotFailed)
	uow.AssertNotCalled(t, "ProductRepository")
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestCancelFailedDeliveryCommandHandler_Handle_RejectsReactivatedOrder(t *testing.T) {
	ctx := t.Context()

	productID := kernel.NewUUID()
	ord := restoreOrderInStatus(t, order.StatusIncident,
		[]order.LineItem{mustLineItem(t, productID, 2, 2500)})
	require.NoError(t, ord.MoveTo(order.StatusPending, time.Now().UTC()))
	require.Equal(t, order.OutcomeAwaiting, ord.DeliveryOutcome())

	orderRepo := &MockOrderRepository{}
	orderRepo.On("GetForUpdate", ctx, ord.ID()).Return(ord, nil)

	uow := &MockStockUoW{}
	uow.On("Begin", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)

	factory := &MockStockUoWFactory{}
	factory.On("Create").Return(uow)

	handler := commands.NewCancelFailedDeliveryCommandHandler(factory, newRelaxedSideEffects())
	cmd, err := commands.NewCancelFailedDeliveryCommand(ord.ID(), kernel.NewUUID())
	require.NoError(t, err)

	err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, order.ErrDeliveryNotFailed)
	assert.Equal(t, order.StatusPending, ord.Status())
	uow.AssertNotCalled(t, "ProductRepository")
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
