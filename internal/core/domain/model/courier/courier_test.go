package courier_test

import (
	"testing"

	"codorders/internal/core/domain/model/courier"
	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCourier(t *testing.T) {
	t.Run("should create an active courier", func(t *testing.T) {
		tenantID := kernel.NewUUID()

		carrier, err := courier.NewCourier(kernel.NewUUID(), tenantID, "Sami Trabelsi", "+216 22 111 222")

		require.NoError(t, err)
		assert.True(t, carrier.IsActive())
		assert.True(t, carrier.BelongsToTenant(tenantID))
		assert.Equal(t, "Sami Trabelsi", carrier.Name())
	})

	t.Run("should require a name", func(t *testing.T) {
		_, err := courier.NewCourier(kernel.NewUUID(), kernel.NewUUID(), "", "+216 22 111 222")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestCourier_Activation(t *testing.T) {
	t.Run("should deactivate and reactivate", func(t *testing.T) {
		carrier, err := courier.NewCourier(kernel.NewUUID(), kernel.NewUUID(), "Sami Trabelsi", "")
		require.NoError(t, err)

		carrier.Deactivate()
		assert.False(t, carrier.IsActive())

		carrier.Activate()
		assert.True(t, carrier.IsActive())
	})
}

func TestCourier_BelongsToTenant(t *testing.T) {
	t.Run("should reject a courier from another tenant", func(t *testing.T) {
		carrier, err := courier.NewCourier(kernel.NewUUID(), kernel.NewUUID(), "Sami Trabelsi", "")
		require.NoError(t, err)

		assert.False(t, carrier.BelongsToTenant(kernel.NewUUID()))
	})
}

func TestRestoreCourier(t *testing.T) {
	t.Run("should preserve the persisted activation state", func(t *testing.T) {
		carrier, err := courier.RestoreCourier(kernel.NewUUID(), kernel.NewUUID(),
			"Sami Trabelsi", "+216 22 111 222", false)

		require.NoError(t, err)
		assert.False(t, carrier.IsActive())
	})
}
