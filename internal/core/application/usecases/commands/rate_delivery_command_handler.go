package commands

import (
	"context"
)

// RateDeliveryCommandHandler records the customer's delivery rating and
// retires the delivery credential. The QR artifact is removed after commit.
type RateDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	effects    *SideEffects
}

// NewRateDeliveryCommandHandler creates a handler for delivery ratings.
func NewRateDeliveryCommandHandler(uowFactory OrderUoWFactory, effects *SideEffects) RateDeliveryCommandHandler {
	return RateDeliveryCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
	}
}

// Handle processes the rating. Requires a confirmed delivery outcome and
// rejects a second rating.
func (h *RateDeliveryCommandHandler) Handle(ctx context.Context, cmd RateDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	ord, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	prevToken := tokenString(ord)
	if err = ord.RateDelivery(cmd.Rating()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, ord); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if prevToken != "" {
		go h.effects.RevokeQR(prevToken)
	}

	return nil
}
