package ports

import (
	"context"

	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/core/domain/model/product"
)

// ProductRepository defines the persistence contract for product aggregates
// and their stock counters.
type ProductRepository interface {
	// Get retrieves a product by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*product.Product, error)

	// GetManyForUpdate retrieves the given products while acquiring row
	// locks, keyed by product ID. Stock-gated transitions load every product
	// an order references through this method so the availability check and
	// the decrement happen under the same locks.
	GetManyForUpdate(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]*product.Product, error)

	// Update persists changes to an existing product aggregate.
	Update(ctx context.Context, aggregate *product.Product) error
}
