package commands

import (
	"context"
	"time"

	"codorders/internal/core/domain/services"
)

// DeleteOrderCommandHandler deletes an order according to the actor's
// privilege. A hard delete returns stock committed by the order, purges its
// history trail and removes the row; a soft delete only sets the hidden
// marker. Both retire the QR artifact when a credential was outstanding.
type DeleteOrderCommandHandler struct {
	uowFactory PurgeUoWFactory
	stockGuard services.StockGuard
	effects    *SideEffects
}

// NewDeleteOrderCommandHandler creates a handler for order deletion.
func NewDeleteOrderCommandHandler(uowFactory PurgeUoWFactory, effects *SideEffects) DeleteOrderCommandHandler {
	return DeleteOrderCommandHandler{
		uowFactory: uowFactory,
		stockGuard: services.NewStockGuard(),
		effects:    effects,
	}
}

// Handle processes the deletion.
func (h *DeleteOrderCommandHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) error {
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

	if cmd.Actor().Privilege().CanHardDelete() {
		if ord.Status().IsStockCommitted() {
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

		if err = uow.HistoryRepository().DeleteByOrder(ctx, ord.ID()); err != nil {
			return err
		}
		if err = orderRepo.Delete(ctx, ord.ID()); err != nil {
			return err
		}
	} else {
		if err = ord.SoftDelete(time.Now().UTC()); err != nil {
			return err
		}
		if err = orderRepo.Update(ctx, ord); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if prevToken != "" {
		go h.effects.RevokeQR(prevToken)
	}

	return nil
}
