package order_test

import (
	"testing"
	"time"

	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/core/domain/model/order"
	"codorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moneyFromCents(t *testing.T, cents int64) kernel.Money {
	t.Helper()

	money, err := kernel.NewMoneyFromCents(cents)
	require.NoError(t, err)
	return money
}

func lineItem(t *testing.T, quantity int, unitPriceCents int64) order.LineItem {
	t.Helper()

	item, err := order.NewLineItem(kernel.NewUUID(), nil, quantity, moneyFromCents(t, unitPriceCents))
	require.NoError(t, err)
	return item
}

func pendingOrder(t *testing.T, method order.PaymentMethod, items ...order.LineItem) *order.Order {
	t.Helper()

	if len(items) == 0 {
		items = []order.LineItem{lineItem(t, 2, 2500)}
	}
	ord, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), items, method,
		"7 Avenue Habib Bourguiba, Tunis", nil)
	require.NoError(t, err)
	return ord
}

func confirmedOrder(t *testing.T, method order.PaymentMethod) *order.Order {
	t.Helper()

	ord := pendingOrder(t, method)
	err := ord.Confirm(kernel.NewUUID(), kernel.NewUUID(), nil, kernel.Zero(), nil, time.Now().UTC())
	require.NoError(t, err)
	return ord
}

func TestNewOrder(t *testing.T) {
	t.Run("should create a pending order with derived totals", func(t *testing.T) {
		ord := pendingOrder(t, order.PaymentCash,
			lineItem(t, 2, 2500), lineItem(t, 1, 1000))

		assert.Equal(t, order.StatusPending, ord.Status())
		assert.Equal(t, int64(1), ord.Version())
		assert.Equal(t, int64(6000), ord.TotalPrice().Cents())
		assert.Equal(t, int64(6000), ord.CODAmount().Cents())
		assert.Nil(t, ord.DeliveryToken())
		assert.Nil(t, ord.CourierID())
		assert.Equal(t, order.OutcomeAwaiting, ord.DeliveryOutcome())
	})

	t.Run("should keep the COD amount at zero for prepaid orders", func(t *testing.T) {
		ord := pendingOrder(t, order.PaymentPrepaid, lineItem(t, 3, 1500))

		assert.Equal(t, int64(4500), ord.TotalPrice().Cents())
		assert.True(t, ord.CODAmount().IsZero())
	})

	t.Run("should require at least one line item", func(t *testing.T) {
		_, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), nil,
			order.PaymentCash, "7 Avenue Habib Bourguiba, Tunis", nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject an unknown payment method", func(t *testing.T) {
		_, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(),
			[]order.LineItem{lineItem(t, 1, 100)}, order.PaymentUnknown,
			"7 Avenue Habib Bourguiba, Tunis", nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOrder_Confirm(t *testing.T) {
	t.Run("should attach the courier and issue a delivery token", func(t *testing.T) {
		ord := pendingOrder(t, order.PaymentCash)
		courierID := kernel.NewUUID()
		confirmedBy := kernel.NewUUID()
		now := time.Now().UTC()

		err := ord.Confirm(courierID, confirmedBy, nil, kernel.Zero(), nil, now)

		require.NoError(t, err)
		assert.Equal(t, order.StatusConfirmed, ord.Status())
		assert.Equal(t, int64(2), ord.Version())
		require.NotNil(t, ord.CourierID())
		assert.True(t, courierID.IsEqual(*ord.CourierID()))
		require.NotNil(t, ord.ConfirmedBy())
		assert.True(t, confirmedBy.IsEqual(*ord.ConfirmedBy()))
		require.NotNil(t, ord.ConfirmedAt())
		assert.Equal(t, now, *ord.ConfirmedAt())
		require.NotNil(t, ord.DeliveryToken())
		assert.Len(t, ord.DeliveryToken().String(), 64)
	})

	t.Run("should fold the upsell and discount into the totals in one version bump", func(t *testing.T) {
		ord := pendingOrder(t, order.PaymentCash, lineItem(t, 2, 2500))
		upsell := lineItem(t, 1, 1000)

		err := ord.Confirm(kernel.NewUUID(), kernel.NewUUID(), &upsell,
			moneyFromCents(t, 500), nil, time.Now().UTC())

		require.NoError(t, err)
		assert.Len(t, ord.LineItems(), 2)
		assert.Equal(t, int64(5500), ord.TotalPrice().Cents())
		assert.Equal(t, int64(5500), ord.CODAmount().Cents())
		assert.Equal(t, int64(2), ord.Version())
	})

	t.Run("should floor the discount at zero", func(t *testing.T) {
		ord := pendingOrder(t, order.PaymentCash, lineItem(t, 1, 1000))

		err := ord.Confirm(kernel.NewUUID(), kernel.NewUUID(), nil,
			moneyFromCents(t, 9999), nil, time.Now().UTC())

		require.NoError(t, err)
		assert.True(t, ord.TotalPrice().IsZero())
		assert.True(t, ord.CODAmount().IsZero())
	})

	t.Run("should apply the delivery address override", func(t *testing.T) {
		ord := pendingOrder(t, order.PaymentCash)
		override := "3 Rue de Marseille, Tunis"

		err := ord.Confirm(kernel.NewUUID(), kernel.NewUUID(), nil,
			kernel.Zero(), &override, time.Now().UTC())

		require.NoError(t, err)
		assert.Equal(t, override, ord.DeliveryAddress())
	})

	t.Run("should reject orders that are no longer pending", func(t *testing.T) {
		ord := confirmedOrder(t, order.PaymentCash)

		err := ord.Confirm(kernel.NewUUID(), kernel.NewUUID(), nil,
			kernel.Zero(), nil, time.Now().UTC())

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrOrderIsNotPending)
	})
}

func TestOrder_MoveTo(t *testing.T) {
	t.Run("should treat a same-status move as a no-op without a version bump", func(t *testing.T) {
		ord := confirmedOrder(t, order.PaymentCash)
		versionBefore := ord.Version()

		err := ord.MoveTo(order.StatusConfirmed, time.Now().UTC())

		require.NoError(t, err)
		assert.Equal(t, versionBefore, ord.Version())
	})

	t.Run("should invalidate the token when leaving the token window", func(t *testing.T) {
		ord := confirmedOrder(t, order.PaymentCash)
		require.NotNil(t, ord.DeliveryToken())

		err := ord.MoveTo(order.StatusCancelled, time.Now().UTC())

		require.NoError(t, err)
		assert.Nil(t, ord.DeliveryToken())
		assert.NotNil(t, ord.CancelledAt())
	})

	t.Run("should issue a fresh token on reactivation", func(t *testing.T) {
		ord := confirmedOrder(t, order.PaymentCash)
		firstToken := ord.DeliveryToken().String()
		now := time.Now().UTC()

		require.NoError(t, ord.MoveTo(order.StatusCancelled, now))
		require.NoError(t, ord.MoveTo(order.StatusConfirmed, now))

		require.NotNil(t, ord.DeliveryToken())
		assert.NotEqual(t, firstToken, ord.DeliveryToken().String())
	})

	t.Run("should set lifecycle timestamps once and never overwrite them", func(t *testing.T) {
		ord := confirmedOrder(t, order.PaymentCash)
		now := time.Now().UTC()

		require.NoError(t, ord.MoveTo(order.StatusReadyToShip, now))
		require.NoError(t, ord.MoveTo(order.StatusShipped, now))
		firstShippedAt := *ord.ShippedAt()

		require.NoError(t, ord.MoveTo(order.StatusReadyToShip, now.Add(time.Hour)))
		require.NoError(t, ord.MoveTo(order.StatusShipped, now.Add(2*time.Hour)))

		assert.Equal(t, firstShippedAt, *ord.ShippedAt())
	})

	t.Run("should bump the version exactly once per move", func(t *testing.T) {
		ord := confirmedOrder(t, order.PaymentCash)
		versionBefore := ord.Version()

		require.NoError(t, ord.MoveTo(order.StatusInPreparation, time.Now().UTC()))

		assert.Equal(t, versionBefore+1, ord.Version())
	})
}

func TestOrder_ConfirmDelivery(t *testing.T) {
	inTransitOrder := func(t *testing.T, method order.PaymentMethod) *order.Order {
		t.Helper()

		ord := confirmedOrder(t, method)
		now := time.Now().UTC()
		require.NoError(t, ord.MoveTo(order.StatusReadyToShip, now))
		require.NoError(t, ord.MoveTo(order.StatusInTransit, now))
		return ord
	}

	t.Run("should default the collected amount to the COD amount", func(t *testing.T) {
		ord := inTransitOrder(t, order.PaymentCash)

		err := ord.ConfirmDelivery(nil, false, time.Now().UTC())

		require.NoError(t, err)
		assert.Equal(t, order.StatusDelivered, ord.Status())
		assert.Equal(t, order.OutcomeConfirmed, ord.DeliveryOutcome())
		assert.Equal(t, ord.CODAmount().Cents(), ord.AmountCollected().Cents())
		assert.False(t, ord.HasAmountDiscrepancy())
		assert.NotNil(t, ord.DeliveredAt())
		assert.NotNil(t, ord.DeliveryToken(), "token must survive until the delivery is rated")
	})

	t.Run("should persist the exact amount on a reported discrepancy", func(t *testing.T) {
		ord := inTransitOrder(t, order.PaymentCash)
		collected := moneyFromCents(t, 4000)

		err := ord.ConfirmDelivery(&collected, true, time.Now().UTC())

		require.NoError(t, err)
		assert.Equal(t, int64(4000), ord.AmountCollected().Cents())
		assert.True(t, ord.HasAmountDiscrepancy())
	})

	t.Run("should require the collected amount when reporting a discrepancy", func(t *testing.T) {
		ord := inTransitOrder(t, order.PaymentCash)

		err := ord.ConfirmDelivery(nil, true, time.Now().UTC())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should force the collected amount to zero for prepaid orders", func(t *testing.T) {
		ord := inTransitOrder(t, order.PaymentPrepaid)
		collected := moneyFromCents(t, 4000)

		err := ord.ConfirmDelivery(&collected, false, time.Now().UTC())

		require.NoError(t, err)
		assert.True(t, ord.AmountCollected().IsZero())
		assert.False(t, ord.HasAmountDiscrepancy())
	})

	t.Run("should reject a second outcome report", func(t *testing.T) {
		ord := inTransitOrder(t, order.PaymentCash)
		require.NoError(t, ord.ConfirmDelivery(nil, false, time.Now().UTC()))

		err := ord.ConfirmDelivery(nil, false, time.Now().UTC())

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrOutcomeAlreadyRecorded)
	})
}

func TestOrder_FailAndRetryDelivery(t *testing.T) {
	inTransitOrder := func(t *testing.T) *order.Order {
		t.Helper()

		ord := confirmedOrder(t, order.PaymentCash)
		now := time.Now().UTC()
		require.NoError(t, ord.MoveTo(order.StatusReadyToShip, now))
		require.NoError(t, ord.MoveTo(order.StatusInTransit, now))
		return ord
	}

	t.Run("should move the order to incident with the failure on record", func(t *testing.T) {
		ord := inTransitOrder(t)

		err := ord.FailDelivery("customer unreachable", time.Now().UTC())

		require.NoError(t, err)
		assert.Equal(t, order.StatusIncident, ord.Status())
		assert.Equal(t, order.OutcomeFailed, ord.DeliveryOutcome())
		assert.True(t, ord.HasActiveIncident())
		assert.Equal(t, "customer unreachable", ord.FailureReason())
		assert.NotNil(t, ord.DeliveryToken(), "token stays active during the incident")
	})

	t.Run("should require a failure reason", func(t *testing.T) {
		ord := inTransitOrder(t)

		err := ord.FailDelivery("", time.Now().UTC())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should block a confirmation while the incident is active", func(t *testing.T) {
		ord := inTransitOrder(t)
		require.NoError(t, ord.FailDelivery("customer unreachable", time.Now().UTC()))

		err := ord.ConfirmDelivery(nil, false, time.Now().UTC())

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrActiveIncident)
	})

	t.Run("should return the order to in_transit on retry", func(t *testing.T) {
		ord := inTransitOrder(t)
		require.NoError(t, ord.FailDelivery("customer unreachable", time.Now().UTC()))

		err := ord.RetryDelivery(time.Now().UTC())

		require.NoError(t, err)
		assert.Equal(t, order.StatusInTransit, ord.Status())
		assert.Equal(t, order.OutcomeAwaiting, ord.DeliveryOutcome())
		assert.False(t, ord.HasActiveIncident())
	})

	t.Run("should reject a retry without an active incident", func(t *testing.T) {
		ord := inTransitOrder(t)

		err := ord.RetryDelivery(time.Now().UTC())

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrNoIncidentToRetry)
	})

	t.Run("should re-arm the outcome when the incident exits to a pre-dispatch status", func(t *testing.T) {
		ord := inTransitOrder(t)
		require.NoError(t, ord.FailDelivery("customer unreachable", time.Now().UTC()))

		err := ord.MoveTo(order.StatusPending, time.Now().UTC())

		require.NoError(t, err)
		assert.Equal(t, order.OutcomeAwaiting, ord.DeliveryOutcome())
		assert.False(t, ord.HasActiveIncident())
		assert.Equal(t, "customer unreachable", ord.FailureReason(), "failure reason stays on record")
		assert.Nil(t, ord.DeliveryToken())
	})

	t.Run("should re-arm the outcome when the incident exits to cancelled", func(t *testing.T) {
		ord := inTransitOrder(t)
		require.NoError(t, ord.FailDelivery("customer unreachable", time.Now().UTC()))

		err := ord.MoveTo(order.StatusCancelled, time.Now().UTC())

		require.NoError(t, err)
		assert.Equal(t, order.OutcomeAwaiting, ord.DeliveryOutcome())
		assert.False(t, ord.HasActiveIncident())
	})

	t.Run("should block a cancellation after the order was re-pipelined", func(t *testing.T) {
		ord := inTransitOrder(t)
		require.NoError(t, ord.FailDelivery("customer unreachable", time.Now().UTC()))
		require.NoError(t, ord.MoveTo(order.StatusPending, time.Now().UTC()))

		err := ord.CancelAfterFailure(time.Now().UTC())

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrDeliveryNotFailed)
	})

	t.Run("should accept a fresh confirmation after the order was re-pipelined", func(t *testing.T) {
		ord := inTransitOrder(t)
		now := time.Now().UTC()
		require.NoError(t, ord.FailDelivery("customer unreachable", now))
		require.NoError(t, ord.MoveTo(order.StatusPending, now))
		require.NoError(t, ord.MoveTo(order.StatusReadyToShip, now))
		require.NoError(t, ord.MoveTo(order.StatusInTransit, now))

		err := ord.ConfirmDelivery(nil, false, now)

		require.NoError(t, err)
		assert.Equal(t, order.OutcomeConfirmed, ord.DeliveryOutcome())
	})
}

func TestOrder_RateDelivery(t *testing.T) {
	deliveredOrder := func(t *testing.T) *order.Order {
		t.Helper()

		ord := confirmedOrder(t, order.PaymentCash)
		now := time.Now().UTC()
		require.NoError(t, ord.MoveTo(order.StatusReadyToShip, now))
		require.NoError(t, ord.MoveTo(order.StatusInTransit, now))
		require.NoError(t, ord.ConfirmDelivery(nil, false, now))
		return ord
	}

	t.Run("should record the rating and retire the token", func(t *testing.T) {
		ord := deliveredOrder(t)

		err := ord.RateDelivery(4)

		require.NoError(t, err)
		assert.True(t, ord.IsRated())
		require.NotNil(t, ord.Rating())
		assert.Equal(t, 4, *ord.Rating())
		assert.Nil(t, ord.DeliveryToken())
	})

	t.Run("should reject a second rating", func(t *testing.T) {
		ord := deliveredOrder(t)
		require.NoError(t, ord.RateDelivery(4))

		err := ord.RateDelivery(5)

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrDeliveryAlreadyRated)
	})

	t.Run("should reject a rating before the delivery is confirmed", func(t *testing.T) {
		ord := confirmedOrder(t, order.PaymentCash)

		err := ord.RateDelivery(4)

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrDeliveryNotConfirmed)
	})

	t.Run("should enforce the rating bounds", func(t *testing.T) {
		ord := deliveredOrder(t)

		for _, rating := range []int{0, 6, -1} {
			err := ord.RateDelivery(rating)

			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		}
	})
}

func TestOrder_CancelAfterFailure(t *testing.T) {
	t.Run("should cancel an order with a failed delivery on record", func(t *testing.T) {
		ord := confirmedOrder(t, order.PaymentCash)
		now := time.Now().UTC()
		require.NoError(t, ord.MoveTo(order.StatusReadyToShip, now))
		require.NoError(t, ord.MoveTo(order.StatusInTransit, now))
		require.NoError(t, ord.FailDelivery("customer unreachable", now))

		err := ord.CancelAfterFailure(now)

		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, ord.Status())
		assert.Nil(t, ord.DeliveryToken())
		assert.NotNil(t, ord.CancelledAt())
	})

	t.Run("should reject cancellation without a failed outcome", func(t *testing.T) {
		ord := confirmedOrder(t, order.PaymentCash)

		err := ord.CancelAfterFailure(time.Now().UTC())

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrDeliveryNotFailed)
	})
}

func TestOrder_UpdateDetailsAndVersioning(t *testing.T) {
	t.Run("should apply the edit and bump the version", func(t *testing.T) {
		ord := pendingOrder(t, order.PaymentCash)
		versionBefore := ord.Version()

		ord.UpdateDetails("3 Rue de Marseille, Tunis", "Amira Ben Salah", "+216 20 123 456", "call first")

		assert.Equal(t, "3 Rue de Marseille, Tunis", ord.DeliveryAddress())
		assert.Equal(t, "Amira Ben Salah", ord.CustomerName())
		assert.Equal(t, "+216 20 123 456", ord.CustomerPhone())
		assert.Equal(t, "call first", ord.Note())
		assert.Equal(t, versionBefore+1, ord.Version())
	})

	t.Run("should report both versions on a stale precondition", func(t *testing.T) {
		ord := pendingOrder(t, order.PaymentCash)

		err := ord.CheckVersion(ord.Version() + 5)

		require.Error(t, err)
		var conflict *errs.VersionConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, ord.Version(), conflict.CurrentVersion)
		assert.Equal(t, ord.Version()+5, conflict.StaleVersion)
	})

	t.Run("should accept the current version", func(t *testing.T) {
		ord := pendingOrder(t, order.PaymentCash)

		require.NoError(t, ord.CheckVersion(ord.Version()))
	})
}

func TestOrder_SoftDelete(t *testing.T) {
	t.Run("should hide the order without touching the status", func(t *testing.T) {
		ord := confirmedOrder(t, order.PaymentCash)
		now := time.Now().UTC()

		err := ord.SoftDelete(now)

		require.NoError(t, err)
		require.NotNil(t, ord.DeletedAt())
		assert.Equal(t, now, *ord.DeletedAt())
		assert.Equal(t, order.StatusConfirmed, ord.Status())
	})

	t.Run("should reject a repeated soft delete", func(t *testing.T) {
		ord := confirmedOrder(t, order.PaymentCash)
		require.NoError(t, ord.SoftDelete(time.Now().UTC()))

		err := ord.SoftDelete(time.Now().UTC())

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrOrderAlreadyDeleted)
	})
}

func TestRestoreOrder(t *testing.T) {
	t.Run("should round-trip an order through its restore parameters", func(t *testing.T) {
		item := lineItem(t, 2, 4500)
		restored, err := order.RestoreOrder(order.RestoreOrderParams{
			ID:              kernel.NewUUID(),
			TenantID:        kernel.NewUUID(),
			Status:          order.StatusShipped,
			Version:         7,
			LineItems:       []order.LineItem{item},
			PaymentMethod:   order.PaymentCash,
			TotalPrice:      moneyFromCents(t, 9000),
			CODAmount:       moneyFromCents(t, 9000),
			AmountCollected: kernel.Zero(),
			DeliveryOutcome: order.OutcomeAwaiting,
			DeliveryAddress: "7 Avenue Habib Bourguiba, Tunis",
		})

		require.NoError(t, err)
		assert.Equal(t, order.StatusShipped, restored.Status())
		assert.Equal(t, int64(7), restored.Version())
		assert.Len(t, restored.LineItems(), 1)
	})

	t.Run("should reject a corrupt status", func(t *testing.T) {
		_, err := order.RestoreOrder(order.RestoreOrderParams{
			ID:       kernel.NewUUID(),
			TenantID: kernel.NewUUID(),
			Status:   order.Status(99),
			Version:  1,
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject a version below one", func(t *testing.T) {
		_, err := order.RestoreOrder(order.RestoreOrderParams{
			ID:            kernel.NewUUID(),
			TenantID:      kernel.NewUUID(),
			Status:        order.StatusPending,
			PaymentMethod: order.PaymentCash,
			Version:       0,
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrVersionIsInvalid)
	})
}
