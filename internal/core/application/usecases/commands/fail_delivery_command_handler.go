package commands

import (
	"context"
	"time"

	"codorders/internal/core/domain/model/order"
)

// FailDeliveryCommandHandler records a failed delivery attempt from the
// public courier surface. The order enters incident with an active flag and
// waits for the seller to retry or cancel.
type FailDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	effects    *SideEffects
}

// NewFailDeliveryCommandHandler creates a handler for delivery failure reports.
func NewFailDeliveryCommandHandler(uowFactory OrderUoWFactory, effects *SideEffects) FailDeliveryCommandHandler {
	return FailDeliveryCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
	}
}

// Handle processes the failure report.
func (h *FailDeliveryCommandHandler) Handle(ctx context.Context, cmd FailDeliveryCommand) error {
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
	if err = ord.FailDelivery(cmd.Reason(), time.Now().UTC()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, ord); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	rec, recErr := order.NewTransitionRecord(
		ord.ID(), from, ord.Status(), courierPrincipal(ord), order.SourceCourier, cmd.Reason(), time.Now().UTC(),
	)
	if recErr == nil {
		go h.effects.RecordTransition(rec)
	}

	return nil
}
