package commands

import (
	"context"
	"time"

	"codorders/internal/core/domain/model/order"
)

// RetryDeliveryCommandHandler puts an incident order back in transit for
// another delivery attempt. Stock stays committed for the whole incident, so
// no product rows are touched.
type RetryDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	effects    *SideEffects
}

// NewRetryDeliveryCommandHandler creates a handler for delivery retries.
func NewRetryDeliveryCommandHandler(uowFactory OrderUoWFactory, effects *SideEffects) RetryDeliveryCommandHandler {
	return RetryDeliveryCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
	}
}

// Handle processes the retry request.
func (h *RetryDeliveryCommandHandler) Handle(ctx context.Context, cmd RetryDeliveryCommand) error {
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
	ord, err := orderRepo.GetByTokenForUpdate(ctx, cmd.Token())
	if err != nil {
		return err
	}

	from := ord.Status()
	if err = ord.RetryDelivery(time.Now().UTC()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, ord); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	rec, recErr := order.NewTransitionRecord(
		ord.ID(), from, ord.Status(), courierPrincipal(ord), order.SourceCourier, "", time.Now().UTC(),
	)
	if recErr == nil {
		go h.effects.RecordTransition(rec)
	}

	return nil
}
