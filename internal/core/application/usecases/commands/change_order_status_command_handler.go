package commands

import (
	"context"
	"time"

	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/core/domain/model/order"
	"codorders/internal/core/domain/services"
)

// ChangeOrderStatusCommandHandler coordinates a status change end to end:
// rule table decision, stock commitment or release where the transition
// crosses the stock boundary, and the version-conditioned write. History
// recording and platform synchronization run after commit.
//
// Example:
//
//	handler := NewChangeOrderStatusCommandHandler(uowFactory, table, effects)
//	cmd, _ := NewChangeOrderStatusCommand(orderID, order.StatusShipped, actor, false, "")
//
//	ord, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    var denied *order.TransitionDeniedError
//	    if errors.As(err, &denied) {
//	        log.Printf("rejected: %s", denied.Reason)
//	    }
//	    return err
//	}
type ChangeOrderStatusCommandHandler struct {
	uowFactory StockUoWFactory
	table      *order.TransitionTable
	stockGuard services.StockGuard
	effects    *SideEffects
}

// NewChangeOrderStatusCommandHandler creates a handler for status change operations.
// Requires a StockUoWFactory because transitions may lock and adjust product rows.
func NewChangeOrderStatusCommandHandler(
	uowFactory StockUoWFactory,
	table *order.TransitionTable,
	effects *SideEffects,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		table:      table,
		stockGuard: services.NewStockGuard(),
		effects:    effects,
	}
}

// Handle processes the status change command and returns the updated order.
// Loads the order under a row lock, consults the transition table, commits or
// releases stock when the move crosses the stock boundary and persists the
// order with its bumped version. A same-status request is an idempotent no-op
// returning the unchanged order.
func (h *ChangeOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd ChangeOrderStatusCommand,
) (*order.Order, error) {
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

	from := ord.Status()
	decision, err := h.table.Decide(from, cmd.To(), cmd.Actor(), cmd.Force())
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, &order.TransitionDeniedError{From: from, To: cmd.To(), Reason: decision.Reason}
	}
	if from == cmd.To() {
		return ord, nil
	}

	needsCommit := cmd.To() == order.StatusReadyToShip && !from.IsStockCommitted()
	if needsCommit || decision.RequiresStockRestore {
		productRepo := uow.ProductRepository()
		products, prodErr := productRepo.GetManyForUpdate(ctx, lineItemProductIDs(ord.LineItems()))
		if prodErr != nil {
			return nil, prodErr
		}

		if needsCommit {
			err = h.stockGuard.Commit(ord.LineItems(), products)
		} else {
			err = h.stockGuard.Release(ord.LineItems(), products)
		}
		if err != nil {
			return nil, err
		}

		for _, p := range products {
			if err = productRepo.Update(ctx, p); err != nil {
				return nil, err
			}
		}
	}

	prevToken := tokenString(ord)
	if err = ord.MoveTo(cmd.To(), time.Now().UTC()); err != nil {
		return nil, err
	}
	newToken := tokenString(ord)

	if err = orderRepo.Update(ctx, ord); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.dispatchAfterChange(ord, from, cmd, prevToken, newToken)
	return ord, nil
}

func (h *ChangeOrderStatusCommandHandler) dispatchAfterChange(
	ord *order.Order,
	from order.Status,
	cmd ChangeOrderStatusCommand,
	prevToken, newToken string,
) {
	rec, err := order.NewTransitionRecord(
		ord.ID(), from, ord.Status(), cmd.Actor().ID(), order.SourceDashboard, cmd.Note(), time.Now().UTC(),
	)
	if err == nil {
		go h.effects.RecordTransition(rec)
	}

	if ord.Status().TriggersPlatformSync() {
		go h.effects.SyncCancellation(ord.TenantID(), ord.ExternalRef())
	}

	if prevToken != newToken {
		if prevToken != "" {
			go h.effects.RevokeQR(prevToken)
		}
		if newToken != "" {
			go h.effects.IssueQR(newToken)
		}
	}
}

func tokenString(ord *order.Order) string {
	if ord.DeliveryToken() == nil {
		return ""
	}
	return ord.DeliveryToken().String()
}

func lineItemProductIDs(items []order.LineItem) []kernel.UUID {
	seen := make(map[kernel.UUID]struct{}, len(items))
	ids := make([]kernel.UUID, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID()]; ok {
			continue
		}
		seen[item.ProductID()] = struct{}{}
		ids = append(ids, item.ProductID())
	}
	return ids
}
