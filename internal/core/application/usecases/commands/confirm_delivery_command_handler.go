package commands

import (
	"context"
	"time"

	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/core/domain/model/order"
)

// ConfirmDeliveryCommandHandler records a successful handover reported
// through the public courier surface. The order is located by its token
// only; no order identifier ever reaches the courier.
type ConfirmDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	effects    *SideEffects
}

// NewConfirmDeliveryCommandHandler creates a handler for delivery confirmations.
func NewConfirmDeliveryCommandHandler(uowFactory OrderUoWFactory, effects *SideEffects) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
	}
}

// Handle processes the delivery confirmation and returns the delivered order
// so the courier page can render the payment summary. The token stays valid
// until the customer rates the delivery.
func (h *ConfirmDeliveryCommandHandler) Handle(ctx context.Context, cmd ConfirmDeliveryCommand) (*order.Order, error) {
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
	ord, err := orderRepo.GetByTokenForUpdate(ctx, cmd.Token())
	if err != nil {
		return nil, err
	}

	from := ord.Status()
	if err = ord.ConfirmDelivery(cmd.AmountCollected(), cmd.ReportDiscrepancy(), time.Now().UTC()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, ord); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.recordCourierTransition(ord, from, "")
	return ord, nil
}

func (h *ConfirmDeliveryCommandHandler) recordCourierTransition(ord *order.Order, from order.Status, note string) {
	rec, err := order.NewTransitionRecord(
		ord.ID(), from, ord.Status(), courierPrincipal(ord), order.SourceCourier, note, time.Now().UTC(),
	)
	if err == nil {
		go h.effects.RecordTransition(rec)
	}
}

// courierPrincipal attributes a courier-surface change to the assigned
// courier. Token-located orders always went through confirmation, so the
// courier reference is present in practice.
func courierPrincipal(ord *order.Order) kernel.UUID {
	if ord.CourierID() != nil {
		return *ord.CourierID()
	}
	return ord.ID()
}
