// Package product contains the Product aggregate with product- and
// variant-level stock. The stock guard consults it before an order is treated
// as physically dispatched.
package product

import (
	"errors"
	"fmt"

	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/pkg/errs"
)

var (
	// ErrProductIsNotConstructed is returned when a Product instance was not
	// created through NewProduct or RestoreProduct.
	ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct or RestoreProduct")

	// ErrVariantNotFound is returned when a referenced variant does not
	// belong to the product.
	ErrVariantNotFound = errors.New("variant does not belong to this product")

	// ErrStockExhausted is returned when a decrement would drive on-hand
	// stock below zero. The stock guard should have prevented the attempt.
	ErrStockExhausted = errors.New("on-hand stock is insufficient for the decrement")
)

// Variant is a sellable variation of a product with its own on-hand stock.
// When an order line references a variant, the variant-level quantity takes
// precedence over the product-level one.
type Variant struct {
	id          kernel.UUID
	name        string
	stockOnHand int
}

// NewVariant creates a validated variant.
func NewVariant(id kernel.UUID, name string, stockOnHand int) (Variant, error) {
	if err := id.Validate(); err != nil {
		return Variant{}, err
	}
	if stockOnHand < 0 {
		return Variant{}, errs.NewValueIsInvalidErrorWithCause("stock_on_hand",
			fmt.Errorf("%d is negative", stockOnHand))
	}
	return Variant{id: id, name: name, stockOnHand: stockOnHand}, nil
}

// ID returns the variant identifier.
func (v Variant) ID() kernel.UUID {
	return v.id
}

// Name returns the variant display name.
func (v Variant) Name() string {
	return v.name
}

// StockOnHand returns the variant-level on-hand quantity.
func (v Variant) StockOnHand() int {
	return v.stockOnHand
}

// Product is the aggregate root for catalogue entries. It owns the on-hand
// stock counters that the dispatch gate decrements and restores.
type Product struct {
	id          kernel.UUID
	tenantID    kernel.UUID
	name        string
	unitPrice   kernel.Money
	stockOnHand int
	variants    []Variant

	isConstructed bool
}

// NewProduct creates a product with validated stock.
func NewProduct(id, tenantID kernel.UUID, name string, unitPrice kernel.Money, stockOnHand int, variants []Variant) (*Product, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := tenantID.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	if stockOnHand < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("stock_on_hand",
			fmt.Errorf("%d is negative", stockOnHand))
	}

	return &Product{
		id:            id,
		tenantID:      tenantID,
		name:          name,
		unitPrice:     unitPrice,
		stockOnHand:   stockOnHand,
		variants:      append([]Variant(nil), variants...),
		isConstructed: true,
	}, nil
}

// RestoreProduct reconstructs a product from persistence.
func RestoreProduct(id, tenantID kernel.UUID, name string, unitPrice kernel.Money, stockOnHand int, variants []Variant) (*Product, error) {
	return NewProduct(id, tenantID, name, unitPrice, stockOnHand, variants)
}

// Validate ensures the Product was built through a constructor.
func (p *Product) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProductIsNotConstructed
	}
	return nil
}

// ID returns the product's unique identifier.
func (p *Product) ID() kernel.UUID {
	return p.id
}

// TenantID returns the owning tenant's identifier.
func (p *Product) TenantID() kernel.UUID {
	return p.tenantID
}

// Name returns the product display name.
func (p *Product) Name() string {
	return p.name
}

// UnitPrice returns the current catalogue price for one unit.
func (p *Product) UnitPrice() kernel.Money {
	return p.unitPrice
}

// StockOnHand returns the product-level on-hand quantity.
func (p *Product) StockOnHand() int {
	return p.stockOnHand
}

// Variants returns a copy of the product's variants.
func (p *Product) Variants() []Variant {
	return append([]Variant(nil), p.variants...)
}

// AvailableFor resolves the on-hand quantity relevant for a line item.
// Variant-level stock takes precedence when a variant is referenced.
func (p *Product) AvailableFor(variantID *kernel.UUID) (int, error) {
	if variantID == nil {
		return p.stockOnHand, nil
	}
	for _, v := range p.variants {
		if v.id.IsEqual(*variantID) {
			return v.stockOnHand, nil
		}
	}
	return 0, ErrVariantNotFound
}

// DecrementStock removes quantity units from the relevant counter.
// The caller gates this through the stock guard; a shortfall here still
// refuses to drive the counter negative.
func (p *Product) DecrementStock(variantID *kernel.UUID, quantity int) error {
	return p.adjustStock(variantID, -quantity)
}

// RestoreStock returns quantity units to the relevant counter, used when an
// order moves backward out of the committed region.
func (p *Product) RestoreStock(variantID *kernel.UUID, quantity int) error {
	return p.adjustStock(variantID, quantity)
}

func (p *Product) adjustStock(variantID *kernel.UUID, delta int) error {
	if variantID == nil {
		if p.stockOnHand+delta < 0 {
			return ErrStockExhausted
		}
		p.stockOnHand += delta
		return nil
	}

	for i := range p.variants {
		if p.variants[i].id.IsEqual(*variantID) {
			if p.variants[i].stockOnHand+delta < 0 {
				return ErrStockExhausted
			}
			p.variants[i].stockOnHand += delta
			return nil
		}
	}
	return ErrVariantNotFound
}
