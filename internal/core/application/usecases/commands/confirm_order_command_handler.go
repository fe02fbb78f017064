package commands

import (
	"context"
	"errors"
	"time"

	"codorders/internal/core/domain/model/order"
	"codorders/internal/pkg/errs"
)

var errCourierIsNotAvailable = errors.New("courier is inactive or belongs to another tenant")

// ConfirmOrderCommandHandler handles the atomic confirmation of a pending
// order. In a single transaction it verifies the assigned courier, resolves
// the upsell price from the catalog, applies the discount and moves the
// order to confirmed, which issues the delivery credential. QR rendering and
// history recording follow after commit.
type ConfirmOrderCommandHandler struct {
	uowFactory ConfirmUoWFactory
	effects    *SideEffects
}

// NewConfirmOrderCommandHandler creates a handler for order confirmation.
func NewConfirmOrderCommandHandler(uowFactory ConfirmUoWFactory, effects *SideEffects) ConfirmOrderCommandHandler {
	return ConfirmOrderCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
	}
}

// Handle processes the confirmation command and returns the confirmed order.
// The order must be pending; any validation failure leaves it untouched.
func (h *ConfirmOrderCommandHandler) Handle(ctx context.Context, cmd ConfirmOrderCommand) (*order.Order, error) {
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

	carrier, err := uow.CourierRepository().Get(ctx, cmd.CourierID())
	if err != nil {
		return nil, err
	}
	if !carrier.IsActive() || !carrier.BelongsToTenant(ord.TenantID()) {
		return nil, errs.NewObjectNotFoundErrorWithCause(
			"courier", cmd.CourierID().String(), errCourierIsNotAvailable,
		)
	}

	upsellItem, err := h.resolveUpsell(ctx, uow, cmd.Upsell())
	if err != nil {
		return nil, err
	}

	if err = ord.Confirm(
		cmd.CourierID(), cmd.ConfirmedBy(), upsellItem, cmd.Discount(), cmd.AddressOverride(), time.Now().UTC(),
	); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, ord); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.dispatchAfterConfirm(ord, cmd)
	return ord, nil
}

// resolveUpsell turns the upsell request into a priced line item. The unit
// price always comes from the catalog row, and a variant reference must
// exist on the product.
func (h *ConfirmOrderCommandHandler) resolveUpsell(
	ctx context.Context,
	uow ConfirmUoW,
	upsell *ConfirmOrderUpsell,
) (*order.LineItem, error) {
	if upsell == nil {
		return nil, nil
	}

	prod, err := uow.ProductRepository().Get(ctx, upsell.ProductID)
	if err != nil {
		return nil, err
	}
	if _, err = prod.AvailableFor(upsell.VariantID); err != nil {
		return nil, err
	}

	item, err := order.NewLineItem(upsell.ProductID, upsell.VariantID, upsell.Quantity, prod.UnitPrice())
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (h *ConfirmOrderCommandHandler) dispatchAfterConfirm(ord *order.Order, cmd ConfirmOrderCommand) {
	rec, err := order.NewTransitionRecord(
		ord.ID(), order.StatusPending, ord.Status(), cmd.ConfirmedBy(), order.SourceDashboard, "", time.Now().UTC(),
	)
	if err == nil {
		go h.effects.RecordTransition(rec)
	}

	if token := tokenString(ord); token != "" {
		go h.effects.IssueQR(token)
	}
}
