package order

import (
	"fmt"

	"codorders/internal/pkg/errs"
)

// Decision is the outcome of consulting the transition rule table for a
// single (from, to) status pair.
type Decision struct {
	// Allowed reports whether the transition may proceed.
	Allowed bool

	// Reason explains a denial in human-actionable terms, including the
	// suggested alternative where one exists. Empty for allowed transitions.
	Reason string

	// RequiresStockRestore is set when the transition moves the order
	// backward out of the stock-committed region, so the quantities
	// decremented at dispatch must be returned to inventory.
	RequiresStockRestore bool
}

// TransitionTable is the total rule function over every (from, to) status
// pair. It is built once at startup; NewTransitionTable fails fast if any
// pair is left undefined, so an incomplete table can never default
// permissively at run time.
//
// Force handling is part of the decision contract: a forced request from one
// of the two highest privilege ranks bypasses the table (stock restoration is
// still computed from the lifecycle regions), while a forced request from a
// lower rank is rejected outright rather than silently downgraded to the
// unforced path.
type TransitionTable struct {
	rules map[Status]map[Status]Decision
}

// stockRestoreNeeded reports whether moving from -> to abandons the stock
// commitment. Derived from the lifecycle regions so that forced transitions
// and table entries can never disagree about inventory.
func stockRestoreNeeded(from, to Status) bool {
	return from.IsStockCommitted() && !to.IsStockCommitted()
}

func allow(from, to Status) Decision {
	return Decision{Allowed: true, RequiresStockRestore: stockRestoreNeeded(from, to)}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// NewTransitionTable builds the rule table and verifies its totality:
// every defined status must have an explicit decision toward every other
// defined status. A missing pair is a programming error reported at
// construction time.
func NewTransitionTable() (*TransitionTable, error) {
	rules := map[Status]map[Status]Decision{
		StatusPending: {
			StatusPending:       allow(StatusPending, StatusPending),
			StatusConfirmed:     allow(StatusPending, StatusConfirmed),
			StatusInPreparation: allow(StatusPending, StatusInPreparation),
			StatusReadyToShip:   allow(StatusPending, StatusReadyToShip),
			StatusShipped:       deny("order must pass through ready_to_ship first so stock is committed"),
			StatusInTransit:     deny("order must pass through ready_to_ship first so stock is committed"),
			StatusDelivered:     deny("order was never dispatched; move it through the pipeline or use the courier delivery flow"),
			StatusReturned:      deny("nothing was dispatched; use cancelled instead of returned"),
			StatusIncident:      deny("incidents are raised by the courier delivery flow, not set directly"),
			StatusCancelled:     allow(StatusPending, StatusCancelled),
			StatusRejected:      allow(StatusPending, StatusRejected),
		},
		StatusConfirmed: {
			StatusPending:       allow(StatusConfirmed, StatusPending),
			StatusConfirmed:     allow(StatusConfirmed, StatusConfirmed),
			StatusInPreparation: allow(StatusConfirmed, StatusInPreparation),
			StatusReadyToShip:   allow(StatusConfirmed, StatusReadyToShip),
			StatusShipped:       deny("order must pass through ready_to_ship first so stock is committed"),
			StatusInTransit:     deny("order must pass through ready_to_ship first so stock is committed"),
			StatusDelivered:     deny("order was never dispatched; move it through the pipeline or use the courier delivery flow"),
			StatusReturned:      deny("nothing was dispatched; use cancelled instead of returned"),
			StatusIncident:      deny("incidents are raised by the courier delivery flow, not set directly"),
			StatusCancelled:     allow(StatusConfirmed, StatusCancelled),
			StatusRejected:      allow(StatusConfirmed, StatusRejected),
		},
		StatusInPreparation: {
			StatusPending:       allow(StatusInPreparation, StatusPending),
			StatusConfirmed:     allow(StatusInPreparation, StatusConfirmed),
			StatusInPreparation: allow(StatusInPreparation, StatusInPreparation),
			StatusReadyToShip:   allow(StatusInPreparation, StatusReadyToShip),
			StatusShipped:       deny("order must pass through ready_to_ship first so stock is committed"),
			StatusInTransit:     deny("order must pass through ready_to_ship first so stock is committed"),
			StatusDelivered:     deny("order was never dispatched; move it through the pipeline or use the courier delivery flow"),
			StatusReturned:      deny("nothing was dispatched; use cancelled instead of returned"),
			StatusIncident:      deny("incidents are raised by the courier delivery flow, not set directly"),
			StatusCancelled:     allow(StatusInPreparation, StatusCancelled),
			StatusRejected:      allow(StatusInPreparation, StatusRejected),
		},
		StatusReadyToShip: {
			StatusPending:       allow(StatusReadyToShip, StatusPending),
			StatusConfirmed:     allow(StatusReadyToShip, StatusConfirmed),
			StatusInPreparation: allow(StatusReadyToShip, StatusInPreparation),
			StatusReadyToShip:   allow(StatusReadyToShip, StatusReadyToShip),
			StatusShipped:       allow(StatusReadyToShip, StatusShipped),
			StatusInTransit:     allow(StatusReadyToShip, StatusInTransit),
			StatusDelivered:     deny("mark the order shipped or in_transit before delivered"),
			StatusReturned:      deny("goods have not shipped; move the order backward instead of returned"),
			StatusIncident:      deny("incidents are raised by the courier delivery flow, not set directly"),
			StatusCancelled:     allow(StatusReadyToShip, StatusCancelled),
			StatusRejected:      allow(StatusReadyToShip, StatusRejected),
		},
		StatusShipped: {
			StatusPending:       allow(StatusShipped, StatusPending),
			StatusConfirmed:     allow(StatusShipped, StatusConfirmed),
			StatusInPreparation: allow(StatusShipped, StatusInPreparation),
			StatusReadyToShip:   allow(StatusShipped, StatusReadyToShip),
			StatusShipped:       allow(StatusShipped, StatusShipped),
			StatusInTransit:     allow(StatusShipped, StatusInTransit),
			StatusDelivered:     allow(StatusShipped, StatusDelivered),
			StatusReturned:      allow(StatusShipped, StatusReturned),
			StatusIncident:      allow(StatusShipped, StatusIncident),
			StatusCancelled:     allow(StatusShipped, StatusCancelled),
			StatusRejected:      allow(StatusShipped, StatusRejected),
		},
		StatusInTransit: {
			StatusPending:       allow(StatusInTransit, StatusPending),
			StatusConfirmed:     allow(StatusInTransit, StatusConfirmed),
			StatusInPreparation: allow(StatusInTransit, StatusInPreparation),
			StatusReadyToShip:   allow(StatusInTransit, StatusReadyToShip),
			StatusShipped:       allow(StatusInTransit, StatusShipped),
			StatusInTransit:     allow(StatusInTransit, StatusInTransit),
			StatusDelivered:     allow(StatusInTransit, StatusDelivered),
			StatusReturned:      allow(StatusInTransit, StatusReturned),
			StatusIncident:      allow(StatusInTransit, StatusIncident),
			StatusCancelled:     allow(StatusInTransit, StatusCancelled),
			StatusRejected:      allow(StatusInTransit, StatusRejected),
		},
		StatusDelivered: {
			StatusPending:       deny("order is already delivered; use returned, or a forced override for corrections"),
			StatusConfirmed:     deny("order is already delivered; use returned, or a forced override for corrections"),
			StatusInPreparation: deny("order is already delivered; use returned, or a forced override for corrections"),
			StatusReadyToShip:   deny("order is already delivered; use returned, or a forced override for corrections"),
			StatusShipped:       deny("order is already delivered; use returned, or a forced override for corrections"),
			StatusInTransit:     deny("order is already delivered; use returned, or a forced override for corrections"),
			StatusDelivered:     allow(StatusDelivered, StatusDelivered),
			StatusReturned:      allow(StatusDelivered, StatusReturned),
			StatusIncident:      allow(StatusDelivered, StatusIncident),
			StatusCancelled:     deny("order is already delivered; use returned, not cancelled"),
			StatusRejected:      deny("order is already delivered; use returned, not rejected"),
		},
		StatusReturned: {
			StatusPending:       deny("order is returned; a forced override is required to reopen it"),
			StatusConfirmed:     deny("order is returned; a forced override is required to reopen it"),
			StatusInPreparation: deny("order is returned; a forced override is required to reopen it"),
			StatusReadyToShip:   deny("order is returned; a forced override is required to reopen it"),
			StatusShipped:       deny("order is returned; a forced override is required to reopen it"),
			StatusInTransit:     deny("order is returned; a forced override is required to reopen it"),
			StatusDelivered:     deny("order is returned; a forced override is required to reopen it"),
			StatusReturned:      allow(StatusReturned, StatusReturned),
			StatusIncident:      deny("order is returned; a forced override is required to reopen it"),
			StatusCancelled:     deny("order is returned; a forced override is required to reopen it"),
			StatusRejected:      deny("order is returned; a forced override is required to reopen it"),
		},
		StatusCancelled: {
			StatusPending:       allow(StatusCancelled, StatusPending),
			StatusConfirmed:     allow(StatusCancelled, StatusConfirmed),
			StatusInPreparation: allow(StatusCancelled, StatusInPreparation),
			StatusReadyToShip:   allow(StatusCancelled, StatusReadyToShip),
			StatusShipped:       deny("reactivate to ready_to_ship first so stock is recommitted"),
			StatusInTransit:     deny("reactivate to ready_to_ship first so stock is recommitted"),
			StatusDelivered:     deny("reactivate to ready_to_ship first so stock is recommitted"),
			StatusReturned:      deny("a cancelled order cannot be returned"),
			StatusIncident:      deny("incidents are raised by the courier delivery flow, not set directly"),
			StatusCancelled:     allow(StatusCancelled, StatusCancelled),
			StatusRejected:      deny("order is cancelled, not rejected; reactivate it instead"),
		},
		StatusRejected: {
			StatusPending:       allow(StatusRejected, StatusPending),
			StatusConfirmed:     allow(StatusRejected, StatusConfirmed),
			StatusInPreparation: allow(StatusRejected, StatusInPreparation),
			StatusReadyToShip:   allow(StatusRejected, StatusReadyToShip),
			StatusShipped:       deny("reactivate to ready_to_ship first so stock is recommitted"),
			StatusInTransit:     deny("reactivate to ready_to_ship first so stock is recommitted"),
			StatusDelivered:     deny("reactivate to ready_to_ship first so stock is recommitted"),
			StatusReturned:      deny("a rejected order cannot be returned"),
			StatusIncident:      deny("incidents are raised by the courier delivery flow, not set directly"),
			StatusCancelled:     deny("order is rejected, not cancelled; reactivate it instead"),
			StatusRejected:      allow(StatusRejected, StatusRejected),
		},
		// Incident is a deliberately loose recovery state: triage may push the
		// order almost anywhere.
		StatusIncident: {
			StatusPending:       allow(StatusIncident, StatusPending),
			StatusConfirmed:     allow(StatusIncident, StatusConfirmed),
			StatusInPreparation: allow(StatusIncident, StatusInPreparation),
			StatusReadyToShip:   allow(StatusIncident, StatusReadyToShip),
			StatusShipped:       allow(StatusIncident, StatusShipped),
			StatusInTransit:     allow(StatusIncident, StatusInTransit),
			StatusDelivered:     allow(StatusIncident, StatusDelivered),
			StatusReturned:      allow(StatusIncident, StatusReturned),
			StatusIncident:      allow(StatusIncident, StatusIncident),
			StatusCancelled:     allow(StatusIncident, StatusCancelled),
			StatusRejected:      allow(StatusIncident, StatusRejected),
		},
	}

	for _, from := range AllStatuses() {
		row, ok := rules[from]
		if !ok {
			return nil, fmt.Errorf("transition table is incomplete: no rules for status %s", from)
		}
		for _, to := range AllStatuses() {
			if _, ok = row[to]; !ok {
				return nil, fmt.Errorf("transition table is incomplete: no rule for %s -> %s", from, to)
			}
		}
	}

	return &TransitionTable{rules: rules}, nil
}

// MustTransitionTable builds the table and panics on an incomplete
// definition. Intended for composition roots and tests where an incomplete
// table means the binary must not start.
func MustTransitionTable() *TransitionTable {
	table, err := NewTransitionTable()
	if err != nil {
		panic(err)
	}
	return table
}

// Decide evaluates a transition request.
//
// The order of checks matters:
//  1. unknown target statuses are invalid input, never silently allowed;
//  2. a same-status request is an idempotent no-op, always allowed;
//  3. a forced request from an insufficient privilege is forbidden outright,
//     not downgraded to the ordinary rules;
//  4. a forced request from manager or owner bypasses the table;
//  5. otherwise the table decides.
//
// The returned error is non-nil only for invalid input or a forbidden force
// request; a denied-by-rule transition comes back as a Decision with
// Allowed=false and a human-actionable Reason.
func (t *TransitionTable) Decide(from, to Status, actor Actor, force bool) (Decision, error) {
	if err := to.Validate(); err != nil {
		return Decision{}, err
	}
	if err := from.Validate(); err != nil {
		return Decision{}, err
	}

	if from == to {
		return Decision{Allowed: true}, nil
	}

	if force {
		if !actor.Privilege().CanForce() {
			return Decision{}, errs.NewCommandForbiddenErrorWithCause("force",
				fmt.Errorf("privilege %s may not force transitions", actor.Privilege()))
		}
		return Decision{Allowed: true, RequiresStockRestore: stockRestoreNeeded(from, to)}, nil
	}

	return t.rules[from][to], nil
}
