package order

import (
	"fmt"

	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/pkg/errs"
)

// LineItem is one purchased position of an order: a product reference, an
// optional variant reference, a quantity of at least one and the unit price
// at the time of purchase. LineItem is an immutable value object.
type LineItem struct {
	productID kernel.UUID
	variantID *kernel.UUID
	quantity  int
	unitPrice kernel.Money
}

// NewLineItem creates a validated line item.
// variantID may be nil for products sold without variants.
func NewLineItem(productID kernel.UUID, variantID *kernel.UUID, quantity int, unitPrice kernel.Money) (LineItem, error) {
	if err := productID.Validate(); err != nil {
		return LineItem{}, err
	}
	if variantID != nil {
		if err := variantID.Validate(); err != nil {
			return LineItem{}, err
		}
	}
	if quantity < 1 {
		return LineItem{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	return LineItem{
		productID: productID,
		variantID: variantID,
		quantity:  quantity,
		unitPrice: unitPrice,
	}, nil
}

// ProductID returns the referenced product identifier.
func (l LineItem) ProductID() kernel.UUID {
	return l.productID
}

// VariantID returns the referenced variant identifier, or nil.
func (l LineItem) VariantID() *kernel.UUID {
	return l.variantID
}

// Quantity returns the purchased quantity.
func (l LineItem) Quantity() int {
	return l.quantity
}

// UnitPrice returns the price of a single unit.
func (l LineItem) UnitPrice() kernel.Money {
	return l.unitPrice
}

// Total returns quantity times unit price.
func (l LineItem) Total() kernel.Money {
	return l.unitPrice.MultiplyQuantity(l.quantity)
}
