package commands

import (
	"context"

	"codorders/internal/core/domain/model/order"
)

// EditOrderCommandHandler applies edits to the mutable order fields.
// A conditional edit is checked against the stored version under the row
// lock, so a stale dashboard tab cannot overwrite a newer change.
type EditOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewEditOrderCommandHandler creates a handler for order edit operations.
func NewEditOrderCommandHandler(uowFactory OrderUoWFactory) EditOrderCommandHandler {
	return EditOrderCommandHandler{uowFactory: uowFactory}
}

// Handle processes the edit command and returns the updated order.
// Returns a version conflict error when the precondition does not hold.
func (h *EditOrderCommandHandler) Handle(ctx context.Context, cmd EditOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	ord, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if cmd.ExpectedVersion() != nil {
		if err = ord.CheckVersion(*cmd.ExpectedVersion()); err != nil {
			return nil, err
		}
	}

	ord.UpdateDetails(cmd.DeliveryAddress(), cmd.CustomerName(), cmd.CustomerPhone(), cmd.Note())

	if err = orderRepo.Update(ctx, ord); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return ord, nil
}
