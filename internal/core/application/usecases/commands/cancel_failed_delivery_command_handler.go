package commands

import (
	"context"
	"time"

	"codorders/internal/core/domain/model/order"
	"codorders/internal/core/domain/services"
)

// CancelFailedDeliveryCommandHandler cancels an order after a failed
// delivery attempt. The incident status holds committed stock, so the
// cancellation releases it in the same transaction, then retires the
// credential and syncs the cancellation to the platform.
type CancelFailedDeliveryCommandHandler struct {
	uowFactory StockUoWFactory
	stockGuard services.StockGuard
	effects    *SideEffects
}

// NewCancelFailedDeliveryCommandHandler creates a handler for post-failure
// cancellations.
func NewCancelFailedDeliveryCommandHandler(
	uowFactory StockUoWFactory,
	effects *SideEffects,
) CancelFailedDeliveryCommandHandler {
	return CancelFailedDeliveryCommandHandler{
		uowFactory: uowFactory,
		stockGuard: services.NewStockGuard(),
		effects:    effects,
	}
}

// Handle processes the cancellation.
func (h *CancelFailedDeliveryCommandHandler) Handle(ctx context.Context, cmd CancelFailedDeliveryCommand) error {
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

	from := ord.Status()
	prevToken := tokenString(ord)
	if err = ord.CancelAfterFailure(time.Now().UTC()); err != nil {
		return err
	}

	// Stock is held only while the departed status sits in the committed
	// region.
	if from.IsStockCommitted() {
		productRepo := uow.ProductRepository()
		products, prodErr := productRepo.GetManyForUpdate(ctx, lineItemProductIDs(ord.LineItems()))
		if prodErr != nil {
			return prodErr
		}
		if err = h.stockGuard.Release(ord.LineItems(), products); err != nil {
			return err
		}
		for _, p := range products {
			if err = productRepo.Update(ctx, p); err != nil {
				return err
			}
		}
	}

	if err = orderRepo.Update(ctx, ord); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	rec, recErr := order.NewTransitionRecord(
		ord.ID(), from, ord.Status(), cmd.CancelledBy(), order.SourceDashboard, ord.FailureReason(), time.Now().UTC(),
	)
	if recErr == nil {
		go h.effects.RecordTransition(rec)
	}
	go h.effects.SyncCancellation(ord.TenantID(), ord.ExternalRef())
	if prevToken != "" {
		go h.effects.RevokeQR(prevToken)
	}

	return nil
}
