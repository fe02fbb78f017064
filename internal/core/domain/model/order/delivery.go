package order

import (
	"fmt"

	"codorders/internal/pkg/errs"
)

// DeliveryOutcome is the courier-facing sub-state of an order, recorded
// independently of the operator-driven status but reconciled into it.
//
//	awaiting ──> confirmed ──> (rated)
//	awaiting ──> failed ──> (cancelled | retried back to awaiting)
type DeliveryOutcome int

const (
	// OutcomeAwaiting means no courier outcome has been recorded yet.
	OutcomeAwaiting DeliveryOutcome = iota

	// OutcomeConfirmed means the courier confirmed the delivery.
	OutcomeConfirmed

	// OutcomeFailed means the courier reported a failed attempt.
	OutcomeFailed
)

func getOutcomeStrings() map[DeliveryOutcome]string {
	return map[DeliveryOutcome]string{
		OutcomeAwaiting:  "awaiting",
		OutcomeConfirmed: "confirmed",
		OutcomeFailed:    "failed",
	}
}

// Validate checks the outcome is one of the defined values.
func (o DeliveryOutcome) Validate() error {
	if _, ok := getOutcomeStrings()[o]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("delivery_outcome",
			fmt.Errorf("%d is not a valid delivery outcome", int(o)))
	}
	return nil
}

// String returns the wire name of the outcome.
func (o DeliveryOutcome) String() string {
	if str, ok := getOutcomeStrings()[o]; ok {
		return str
	}
	return "unknown"
}
