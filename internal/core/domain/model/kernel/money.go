package kernel

import (
	"fmt"

	"codorders/internal/pkg/errs"
)

// Money is a value object representing a non-negative monetary amount held as
// integer cents. Keeping amounts in cents avoids floating point drift when
// order totals and COD amounts are recomputed.
//
// The zero value is a valid amount of zero. Money is immutable: all arithmetic
// methods return a new value.
type Money struct {
	cents int64
}

// NewMoneyFromCents creates a Money from an amount in cents.
// Negative amounts are rejected.
func NewMoneyFromCents(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money",
			fmt.Errorf("%d cents is negative", cents))
	}
	return Money{cents: cents}, nil
}

// Zero returns a Money of zero cents.
func Zero() Money {
	return Money{}
}

// Cents returns the amount in cents.
func (m Money) Cents() int64 {
	return m.cents
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.cents == 0
}

// IsEqual compares two amounts for equality.
func (m Money) IsEqual(other Money) bool {
	return m.cents == other.cents
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// SubtractFloorZero returns the amount minus other, floored at zero.
// Discounts larger than the total must never drive a price negative.
func (m Money) SubtractFloorZero(other Money) Money {
	if other.cents >= m.cents {
		return Money{}
	}
	return Money{cents: m.cents - other.cents}
}

// MultiplyQuantity returns the amount multiplied by a line-item quantity.
func (m Money) MultiplyQuantity(quantity int) Money {
	return Money{cents: m.cents * int64(quantity)}
}

// String renders the amount as a decimal string, e.g. "12.34".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}
