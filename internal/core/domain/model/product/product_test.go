package product_test

import (
	"testing"

	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/core/domain/model/product"
	"codorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(t *testing.T, cents int64) kernel.Money {
	t.Helper()

	m, err := kernel.NewMoneyFromCents(cents)
	require.NoError(t, err)
	return m
}

func variant(t *testing.T, name string, stock int) product.Variant {
	t.Helper()

	v, err := product.NewVariant(kernel.NewUUID(), name, stock)
	require.NoError(t, err)
	return v
}

func TestNewProduct(t *testing.T) {
	t.Run("should create a product with product-level stock", func(t *testing.T) {
		prod, err := product.NewProduct(kernel.NewUUID(), kernel.NewUUID(),
			"Argan Oil 100ml", money(t, 2500), 10, nil)

		require.NoError(t, err)
		assert.Equal(t, 10, prod.StockOnHand())
		assert.Empty(t, prod.Variants())
	})

	t.Run("should require a name", func(t *testing.T) {
		_, err := product.NewProduct(kernel.NewUUID(), kernel.NewUUID(),
			"", money(t, 2500), 10, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestProduct_AvailableFor(t *testing.T) {
	t.Run("should report product-level stock without a variant", func(t *testing.T) {
		prod, err := product.NewProduct(kernel.NewUUID(), kernel.NewUUID(),
			"Argan Oil 100ml", money(t, 2500), 10, nil)
		require.NoError(t, err)

		available, err := prod.AvailableFor(nil)

		require.NoError(t, err)
		assert.Equal(t, 10, available)
	})

	t.Run("should prefer variant-level stock when a variant is referenced", func(t *testing.T) {
		small := variant(t, "50ml", 3)
		prod, err := product.NewProduct(kernel.NewUUID(), kernel.NewUUID(),
			"Argan Oil", money(t, 2500), 10, []product.Variant{small})
		require.NoError(t, err)

		smallID := small.ID()
		available, err := prod.AvailableFor(&smallID)

		require.NoError(t, err)
		assert.Equal(t, 3, available)
	})

	t.Run("should reject an unknown variant", func(t *testing.T) {
		prod, err := product.NewProduct(kernel.NewUUID(), kernel.NewUUID(),
			"Argan Oil", money(t, 2500), 10, []product.Variant{variant(t, "50ml", 3)})
		require.NoError(t, err)

		unknownID := kernel.NewUUID()
		_, err = prod.AvailableFor(&unknownID)

		require.Error(t, err)
		assert.ErrorIs(t, err, product.ErrVariantNotFound)
	})
}

func TestProduct_StockAdjustments(t *testing.T) {
	t.Run("should decrement and restore product-level stock", func(t *testing.T) {
		prod, err := product.NewProduct(kernel.NewUUID(), kernel.NewUUID(),
			"Argan Oil 100ml", money(t, 2500), 10, nil)
		require.NoError(t, err)

		require.NoError(t, prod.DecrementStock(nil, 4))
		assert.Equal(t, 6, prod.StockOnHand())

		require.NoError(t, prod.RestoreStock(nil, 4))
		assert.Equal(t, 10, prod.StockOnHand())
	})

	t.Run("should adjust only the referenced variant counter", func(t *testing.T) {
		small := variant(t, "50ml", 3)
		prod, err := product.NewProduct(kernel.NewUUID(), kernel.NewUUID(),
			"Argan Oil", money(t, 2500), 10, []product.Variant{small})
		require.NoError(t, err)

		smallID := small.ID()
		require.NoError(t, prod.DecrementStock(&smallID, 2))

		available, err := prod.AvailableFor(&smallID)
		require.NoError(t, err)
		assert.Equal(t, 1, available)
		assert.Equal(t, 10, prod.StockOnHand(), "product-level counter must stay untouched")
	})

	t.Run("should refuse to drive a counter negative", func(t *testing.T) {
		prod, err := product.NewProduct(kernel.NewUUID(), kernel.NewUUID(),
			"Argan Oil 100ml", money(t, 2500), 2, nil)
		require.NoError(t, err)

		err = prod.DecrementStock(nil, 3)

		require.Error(t, err)
		assert.ErrorIs(t, err, product.ErrStockExhausted)
		assert.Equal(t, 2, prod.StockOnHand())
	})
}
