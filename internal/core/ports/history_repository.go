package ports

import (
	"context"

	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/core/domain/model/order"
)

// HistoryRepository is the append-only audit trail of status transitions.
//
// Appends run as fire-and-forget side effects after the primary operation
// commits: a failed append is logged and never rolls the transition back.
// DeleteByOrder exists solely for the owner's hard-delete cascade.
type HistoryRepository interface {
	// Append stores one immutable transition record.
	Append(ctx context.Context, record order.TransitionRecord) error

	// ListByOrder returns the records of one order, oldest first.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]order.TransitionRecord, error)

	// DeleteByOrder purges the trail of one order.
	DeleteByOrder(ctx context.Context, orderID kernel.UUID) error
}
