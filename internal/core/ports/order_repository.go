// Package ports defines the contracts between the domain core and the
// infrastructure adapters: repositories, the unit of work, the audit
// recorder, the external platform gateway and the QR artifact generator.
package ports

import (
	"context"

	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
//
// Update conditions the write on the version the aggregate was loaded with:
// a concurrent writer that advanced the row first makes the write affect
// zero rows, which surfaces as a version conflict instead of a silent
// overwrite.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate, conditioned on
	// the version the aggregate carried when it was loaded.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order while acquiring a row lock, so that
	// check-then-act sequences (confirmation, stock-gated transitions) are
	// serialized per order. Must be called inside an active transaction.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByToken retrieves the order owning an active delivery token.
	// This is the only lookup the public courier surface may use.
	GetByToken(ctx context.Context, token order.DeliveryToken) (*order.Order, error)

	// GetByTokenForUpdate is GetByToken with a row lock, for the courier
	// mutation endpoints.
	GetByTokenForUpdate(ctx context.Context, token order.DeliveryToken) (*order.Order, error)

	// Delete permanently removes an order row. Only the hard-delete flow,
	// which also restores stock and purges the history trail, may call it.
	Delete(ctx context.Context, id kernel.UUID) error
}
