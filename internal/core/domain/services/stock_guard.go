package services

import (
	"errors"
	"fmt"
	"strings"

	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/core/domain/model/order"
	"codorders/internal/core/domain/model/product"
)

// ErrInsufficientStock is the sentinel for dispatch attempts that cannot be
// fulfilled. Use errors.Is to classify and errors.As to reach the shortages.
var ErrInsufficientStock = errors.New("insufficient stock")

// Shortage describes one line item that cannot be fulfilled.
type Shortage struct {
	ProductID kernel.UUID
	VariantID *kernel.UUID
	Required  int
	Available int
	Shortage  int
}

// InsufficientStockError reports every shortfall found while gating a
// dispatch. The transition is rejected as a whole: no partial decrement is
// ever applied.
type InsufficientStockError struct {
	Shortages []Shortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("product %s requires %d, available %d, short %d",
			s.ProductID, s.Required, s.Available, s.Shortage))
	}
	return fmt.Sprintf("%s: %s", ErrInsufficientStock, strings.Join(parts, "; "))
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// StockGuard verifies that every line item of an order can be fulfilled
// before the order is treated as physically dispatched, and applies the
// corresponding decrements and restores. It is stateless: callers resolve the
// products and run the guard inside the same transaction that flips the order
// status, so the check and the decrement are one atomic unit.
type StockGuard struct{}

// NewStockGuard creates a stock guard service.
func NewStockGuard() StockGuard {
	return StockGuard{}
}

// stockKey aggregates requirements for line items that reference the same
// product (and variant) more than once.
type stockKey struct {
	productID kernel.UUID
	variantID kernel.UUID
	isVariant bool
}

func keyFor(item order.LineItem) stockKey {
	key := stockKey{productID: item.ProductID()}
	if v := item.VariantID(); v != nil {
		key.variantID = *v
		key.isVariant = true
	}
	return key
}

// Check compares the aggregated requirements of the line items against the
// resolved on-hand quantities. Variant-level stock takes precedence over
// product-level stock. It returns an InsufficientStockError listing every
// shortfall, or nil when the whole order can be fulfilled.
func (g StockGuard) Check(items []order.LineItem, products map[kernel.UUID]*product.Product) error {
	required := make(map[stockKey]int)
	sample := make(map[stockKey]order.LineItem)
	for _, item := range items {
		key := keyFor(item)
		required[key] += item.Quantity()
		sample[key] = item
	}

	var shortages []Shortage
	for _, item := range items {
		key := keyFor(item)
		need, pending := required[key]
		if !pending {
			continue
		}
		delete(required, key)

		p, ok := products[item.ProductID()]
		if !ok {
			shortages = append(shortages, Shortage{
				ProductID: item.ProductID(),
				VariantID: item.VariantID(),
				Required:  need,
				Available: 0,
				Shortage:  need,
			})
			continue
		}

		available, err := p.AvailableFor(item.VariantID())
		if err != nil {
			available = 0
		}
		if available < need {
			shortages = append(shortages, Shortage{
				ProductID: item.ProductID(),
				VariantID: item.VariantID(),
				Required:  need,
				Available: available,
				Shortage:  need - available,
			})
		}
	}

	if len(shortages) > 0 {
		return &InsufficientStockError{Shortages: shortages}
	}
	return nil
}

// Commit decrements stock for every line item. Callers must run Check first
// inside the same transaction; Commit still refuses to drive any counter
// negative.
func (g StockGuard) Commit(items []order.LineItem, products map[kernel.UUID]*product.Product) error {
	if err := g.Check(items, products); err != nil {
		return err
	}
	for _, item := range items {
		p, ok := products[item.ProductID()]
		if !ok {
			return fmt.Errorf("product %s is not resolved", item.ProductID())
		}
		if err := p.DecrementStock(item.VariantID(), item.Quantity()); err != nil {
			return err
		}
	}
	return nil
}

// Release restores stock for every line item, used when an order moves
// backward out of the committed region.
func (g StockGuard) Release(items []order.LineItem, products map[kernel.UUID]*product.Product) error {
	for _, item := range items {
		p, ok := products[item.ProductID()]
		if !ok {
			return fmt.Errorf("product %s is not resolved", item.ProductID())
		}
		if err := p.RestoreStock(item.VariantID(), item.Quantity()); err != nil {
			return err
		}
	}
	return nil
}
