package order

import (
	"fmt"

	"codorders/internal/pkg/errs"
)

// Status represents the lifecycle state of a cash-on-delivery order.
// It is a closed enumeration: any value arriving from the API or the
// database must be parsed or validated before use, so unknown statuses are
// rejected by construction rather than silently passed through.
//
// Lifecycle regions:
//
//	pending ──> confirmed ──> in_preparation ──> ready_to_ship ──> shipped ──> in_transit ──> delivered
//	                                 (stock committed from ready_to_ship onward)
//	cancelled / rejected: reactivatable
//	returned: near-terminal
//	incident: failed delivery awaiting triage
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusPending is the initial status of every order.
	StatusPending

	// StatusConfirmed indicates the order was confirmed and a courier assigned.
	StatusConfirmed

	// StatusInPreparation indicates the order is being picked and packed.
	StatusInPreparation

	// StatusReadyToShip indicates the goods are committed: stock has been
	// decremented and the order is waiting for pickup.
	StatusReadyToShip

	// StatusShipped indicates the goods have left the warehouse.
	StatusShipped

	// StatusInTransit indicates the courier is on the way to the customer.
	StatusInTransit

	// StatusDelivered indicates the courier confirmed delivery.
	// Near-terminal: only returned, incident and same-status moves are
	// allowed without a forced override.
	StatusDelivered

	// StatusReturned indicates the goods came back after delivery or dispatch.
	StatusReturned

	// StatusCancelled indicates the order was cancelled. Reactivatable.
	StatusCancelled

	// StatusRejected indicates the customer rejected the order. Reactivatable.
	StatusRejected

	// StatusIncident indicates a failed delivery attempt awaiting manual
	// triage. Deliberately loose: most transitions out are allowed.
	StatusIncident
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:       "unknown",
		StatusPending:       "pending",
		StatusConfirmed:     "confirmed",
		StatusInPreparation: "in_preparation",
		StatusReadyToShip:   "ready_to_ship",
		StatusShipped:       "shipped",
		StatusInTransit:     "in_transit",
		StatusDelivered:     "delivered",
		StatusReturned:      "returned",
		StatusCancelled:     "cancelled",
		StatusRejected:      "rejected",
		StatusIncident:      "incident",
	}
}

// AllStatuses returns every valid status. The transition table uses this set
// to verify its own totality at construction time.
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusConfirmed,
		StatusInPreparation,
		StatusReadyToShip,
		StatusShipped,
		StatusInTransit,
		StatusDelivered,
		StatusReturned,
		StatusCancelled,
		StatusRejected,
		StatusIncident,
	}
}

// ParseStatus converts a wire string into a Status.
// Unknown strings are rejected with a validation error.
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid order status", s))
}

// Validate checks if the Status value is one of the defined statuses.
// StatusUnknown and out-of-range values are invalid.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", int(s)))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", int(s)))
	}
	return nil
}

// String returns the wire name of the status, e.g. "ready_to_ship".
// It implements fmt.Stringer and is safe on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsStockCommitted reports whether stock has been decremented for an order in
// this status. The commitment happens on the transition into ready_to_ship
// and survives through delivery and incidents until the order moves backward
// or the goods are returned.
func (s Status) IsStockCommitted() bool {
	switch s {
	case StatusReadyToShip, StatusShipped, StatusInTransit, StatusDelivered, StatusIncident:
		return true
	default:
		return false
	}
}

// IsPreCommitment reports whether the status precedes the stock commitment.
func (s Status) IsPreCommitment() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInPreparation:
		return true
	default:
		return false
	}
}

// AllowsDeliveryToken reports whether an order in this status carries an
// active delivery token. Delivered is included because the courier page stays
// reachable until the customer rates the delivery; the rating itself
// invalidates the token.
func (s Status) AllowsDeliveryToken() bool {
	switch s {
	case StatusConfirmed, StatusInPreparation, StatusReadyToShip,
		StatusShipped, StatusInTransit, StatusIncident, StatusDelivered:
		return true
	default:
		return false
	}
}

// IsReactivatable reports whether an order in this status may be brought back
// into the active pipeline (undo of a mistaken cancellation or rejection).
func (s Status) IsReactivatable() bool {
	return s == StatusCancelled || s == StatusRejected
}

// TriggersPlatformSync reports whether entering this status must notify the
// linked commerce platform.
func (s Status) TriggersPlatformSync() bool {
	return s == StatusCancelled || s == StatusRejected || s == StatusReturned
}
