package order

import (
	"fmt"

	"codorders/internal/pkg/errs"
)

// PaymentMethod is the closed set of ways an order is paid.
// The courier reconciliation rules depend on whether the method collects
// payment at the door or was prepaid online.
type PaymentMethod int

const (
	// PaymentUnknown represents an invalid or undefined method.
	PaymentUnknown PaymentMethod = iota

	// PaymentCash is cash collected by the courier at delivery.
	PaymentCash

	// PaymentCOD is any other collect-on-delivery method (e.g. card at door).
	PaymentCOD

	// PaymentPrepaid is any method settled before dispatch; the courier
	// collects nothing regardless of what the caller reports.
	PaymentPrepaid
)

func getPaymentMethodStrings() map[PaymentMethod]string {
	return map[PaymentMethod]string{
		PaymentUnknown: "unknown",
		PaymentCash:    "cash",
		PaymentCOD:     "cod",
		PaymentPrepaid: "prepaid",
	}
}

// ParsePaymentMethod converts a wire string into a PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	for m, str := range getPaymentMethodStrings() {
		if str == s && m != PaymentUnknown {
			return m, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause("payment_method",
		fmt.Errorf("%q is not a valid payment method", s))
}

// Validate checks the method is one of the defined values.
func (m PaymentMethod) Validate() error {
	if m == PaymentUnknown {
		return errs.NewValueIsInvalidErrorWithCause("payment_method",
			fmt.Errorf("%d is not a valid payment method", int(m)))
	}
	if _, ok := getPaymentMethodStrings()[m]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("payment_method",
			fmt.Errorf("%d is not a valid payment method", int(m)))
	}
	return nil
}

// String returns the wire name of the method.
func (m PaymentMethod) String() string {
	if str, ok := getPaymentMethodStrings()[m]; ok {
		return str
	}
	return "unknown"
}

// CollectsOnDelivery reports whether the courier collects payment at the door.
func (m PaymentMethod) CollectsOnDelivery() bool {
	return m == PaymentCash || m == PaymentCOD
}
