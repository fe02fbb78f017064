package order

import (
	"errors"
	"fmt"
	"time"

	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrOrderIsNotPending is returned by Confirm when the order has already
	// been processed by another operator or a concurrent confirmation.
	ErrOrderIsNotPending = errors.New("order is not pending, it was already processed")

	// ErrActiveIncident blocks the ordinary courier confirm/fail endpoints
	// while an incident awaits triage, so a stale courier action can never
	// silently overwrite it.
	ErrActiveIncident = errors.New("order has an active delivery incident, use the incident retry flow")

	// ErrOutcomeAlreadyRecorded is returned when a courier reports an outcome
	// for an order that already has one.
	ErrOutcomeAlreadyRecorded = errors.New("a delivery outcome is already recorded for this order")

	// ErrDeliveryNotConfirmed is returned when a rating arrives before the
	// courier confirmed the delivery.
	ErrDeliveryNotConfirmed = errors.New("delivery is not confirmed yet, it cannot be rated")

	// ErrDeliveryAlreadyRated is returned on a second rating attempt.
	ErrDeliveryAlreadyRated = errors.New("delivery was already rated")

	// ErrDeliveryNotFailed is returned when a post-failure cancellation is
	// requested but no failed outcome is on record, so the failure record
	// cannot be skipped.
	ErrDeliveryNotFailed = errors.New("delivery did not fail, cancellation is only allowed after a failed attempt")

	// ErrNoIncidentToRetry is returned by the retry flow when the order has
	// no active incident.
	ErrNoIncidentToRetry = errors.New("order has no active incident to retry")

	// ErrOrderAlreadyDeleted is returned when soft-deleting an order twice.
	ErrOrderAlreadyDeleted = errors.New("order is already deleted")
)

// TransitionDeniedError reports a status change rejected by the rule table.
// Reason carries the human-actionable explanation from the table entry.
type TransitionDeniedError struct {
	From   Status
	To     Status
	Reason string
}

func (e *TransitionDeniedError) Error() string {
	return fmt.Sprintf("transition %s -> %s is not allowed: %s", e.From, e.To, e.Reason)
}

// Order is the aggregate root of the cash-on-delivery pipeline. It owns the
// lifecycle status, the priced line items, the payment reconciliation fields,
// the single-use delivery token and the courier-facing delivery sub-state.
//
// Invariants maintained by the aggregate:
//   - status only changes through methods that were vetted by the
//     TransitionTable (or the compound confirm operation);
//   - version increases by exactly one per successful mutation;
//   - lifecycle timestamps are set the first time their status is entered
//     and never overwritten on re-entry;
//   - the delivery token exists exactly while a courier may act on the order
//     and is never reused after invalidation.
type Order struct {
	id       kernel.UUID
	tenantID kernel.UUID

	status  Status
	version int64

	lineItems     []LineItem
	paymentMethod PaymentMethod

	totalPrice           kernel.Money
	codAmount            kernel.Money
	amountCollected      kernel.Money
	hasAmountDiscrepancy bool

	token     *DeliveryToken
	courierID *kernel.UUID

	confirmedAt *time.Time
	confirmedBy *kernel.UUID
	shippedAt   *time.Time
	deliveredAt *time.Time
	cancelledAt *time.Time
	deletedAt   *time.Time

	deliveryOutcome   DeliveryOutcome
	hasActiveIncident bool
	failureReason     string
	rated             bool
	rating            *int

	deliveryAddress string
	customerName    string
	customerPhone   string
	note            string

	// externalRef links the order to the external commerce platform, when an
	// integration is active.
	externalRef *string

	isConstructed bool
}

// NewOrder creates a pending order with validated line items.
// The total price is the sum of the line totals; for collect-on-delivery
// payment methods the COD amount starts equal to the total.
func NewOrder(
	id kernel.UUID,
	tenantID kernel.UUID,
	items []LineItem,
	method PaymentMethod,
	deliveryAddress string,
	externalRef *string,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := tenantID.Validate(); err != nil {
		return nil, err
	}
	if err := method.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("line_items")
	}

	o := &Order{
		id:              id,
		tenantID:        tenantID,
		status:          StatusPending,
		version:         1,
		lineItems:       append([]LineItem(nil), items...),
		paymentMethod:   method,
		deliveryAddress: deliveryAddress,
		externalRef:     externalRef,
		isConstructed:   true,
	}
	o.recomputeTotals()
	return o, nil
}

// RestoreOrderParams carries the persisted state of an order back into the
// domain. Used only by repository implementations.
type RestoreOrderParams struct {
	ID                   kernel.UUID
	TenantID             kernel.UUID
	Status               Status
	Version              int64
	LineItems            []LineItem
	PaymentMethod        PaymentMethod
	TotalPrice           kernel.Money
	CODAmount            kernel.Money
	AmountCollected      kernel.Money
	HasAmountDiscrepancy bool
	Token                *DeliveryToken
	CourierID            *kernel.UUID
	ConfirmedAt          *time.Time
	ConfirmedBy          *kernel.UUID
	ShippedAt            *time.Time
	DeliveredAt          *time.Time
	CancelledAt          *time.Time
	DeletedAt            *time.Time
	DeliveryOutcome      DeliveryOutcome
	HasActiveIncident    bool
	FailureReason        string
	Rated                bool
	Rating               *int
	DeliveryAddress      string
	CustomerName         string
	CustomerPhone        string
	Note                 string
	ExternalRef          *string
}

// RestoreOrder reconstructs an order from persistence, re-validating the
// closed enumerations so corrupt rows are rejected instead of propagated.
func RestoreOrder(params RestoreOrderParams) (*Order, error) {
	if err := params.ID.Validate(); err != nil {
		return nil, err
	}
	if err := params.TenantID.Validate(); err != nil {
		return nil, err
	}
	if err := params.Status.Validate(); err != nil {
		return nil, err
	}
	if err := params.PaymentMethod.Validate(); err != nil {
		return nil, err
	}
	if err := params.DeliveryOutcome.Validate(); err != nil {
		return nil, err
	}
	if params.Version < 1 {
		return nil, errs.NewVersionIsInvalidErrorWithCause("version",
			fmt.Errorf("%d is below 1", params.Version))
	}
	if params.Token != nil {
		if err := params.Token.Validate(); err != nil {
			return nil, err
		}
	}

	return &Order{
		id:                   params.ID,
		tenantID:             params.TenantID,
		status:               params.Status,
		version:              params.Version,
		lineItems:            append([]LineItem(nil), params.LineItems...),
		paymentMethod:        params.PaymentMethod,
		totalPrice:           params.TotalPrice,
		codAmount:            params.CODAmount,
		amountCollected:      params.AmountCollected,
		hasAmountDiscrepancy: params.HasAmountDiscrepancy,
		token:                params.Token,
		courierID:            params.CourierID,
		confirmedAt:          params.ConfirmedAt,
		confirmedBy:          params.ConfirmedBy,
		shippedAt:            params.ShippedAt,
		deliveredAt:          params.DeliveredAt,
		cancelledAt:          params.CancelledAt,
		deletedAt:            params.DeletedAt,
		deliveryOutcome:      params.DeliveryOutcome,
		hasActiveIncident:    params.HasActiveIncident,
		failureReason:        params.FailureReason,
		rated:                params.Rated,
		rating:               params.Rating,
		deliveryAddress:      params.DeliveryAddress,
		customerName:         params.CustomerName,
		customerPhone:        params.CustomerPhone,
		note:                 params.Note,
		externalRef:          params.ExternalRef,
		isConstructed:        true,
	}, nil
}

// Validate ensures the Order was built through NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// Confirm is the compound confirmation operation: it re-checks the order is
// still pending, attaches the courier, optionally appends an upsell line item
// and applies a discount (floored at zero), recomputes the totals, stamps
// confirmed_at/confirmed_by and issues a fresh delivery token. The whole
// operation counts as one mutation: the version is bumped exactly once.
//
// Callers are responsible for validating that the courier exists, is active
// and belongs to the order's tenant before invoking Confirm, and for running
// the operation inside a transaction holding a row lock so that two
// concurrent confirmations cannot both observe StatusPending.
func (o *Order) Confirm(
	courierID kernel.UUID,
	confirmedBy kernel.UUID,
	upsell *LineItem,
	discount kernel.Money,
	addressOverride *string,
	now time.Time,
) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if err := confirmedBy.Validate(); err != nil {
		return err
	}
	if o.status != StatusPending {
		return ErrOrderIsNotPending
	}

	if upsell != nil {
		o.lineItems = append(o.lineItems, *upsell)
	}
	if addressOverride != nil {
		o.deliveryAddress = *addressOverride
	}
	o.recomputeTotals()
	if !discount.IsZero() {
		o.totalPrice = o.totalPrice.SubtractFloorZero(discount)
		if o.paymentMethod.CollectsOnDelivery() {
			o.codAmount = o.totalPrice
		}
	}

	o.courierID = &courierID
	o.confirmedBy = &confirmedBy
	if err := o.transitionTo(StatusConfirmed, now); err != nil {
		return err
	}

	o.version++
	return nil
}

// MoveTo applies an already-approved status transition. The caller must have
// consulted the TransitionTable (and the stock guard where required) first.
// A same-status move is an idempotent no-op and does not change the version.
func (o *Order) MoveTo(to Status, now time.Time) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if to == o.status {
		return nil
	}
	if err := o.transitionTo(to, now); err != nil {
		return err
	}
	o.version++
	return nil
}

// ConfirmDelivery records the courier's delivery confirmation and reconciles
// the collected payment:
//   - collect-on-delivery methods default the collected amount to the
//     expected COD amount; a reported discrepancy persists both the flag and
//     the exact amount the courier actually collected;
//   - prepaid methods force the collected amount to zero regardless of input.
func (o *Order) ConfirmDelivery(collected *kernel.Money, reportDiscrepancy bool, now time.Time) error {
	if o.hasActiveIncident {
		return ErrActiveIncident
	}
	if o.deliveryOutcome != OutcomeAwaiting {
		return ErrOutcomeAlreadyRecorded
	}
	if o.token == nil {
		return ErrDeliveryNotConfirmed
	}

	if o.paymentMethod.CollectsOnDelivery() {
		if reportDiscrepancy {
			if collected == nil {
				return errs.NewValueIsRequiredError("amount_collected")
			}
			o.amountCollected = *collected
			o.hasAmountDiscrepancy = true
		} else {
			o.amountCollected = o.codAmount
			o.hasAmountDiscrepancy = false
		}
	} else {
		o.amountCollected = kernel.Zero()
		o.hasAmountDiscrepancy = false
	}

	o.deliveryOutcome = OutcomeConfirmed
	if err := o.transitionTo(StatusDelivered, now); err != nil {
		return err
	}
	o.version++
	return nil
}

// FailDelivery records a failed delivery attempt. The order moves to
// incident for human triage; it is never auto-cancelled.
func (o *Order) FailDelivery(reason string, now time.Time) error {
	if o.hasActiveIncident {
		return ErrActiveIncident
	}
	if o.deliveryOutcome != OutcomeAwaiting {
		return ErrOutcomeAlreadyRecorded
	}
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}

	o.deliveryOutcome = OutcomeFailed
	o.failureReason = reason
	if err := o.transitionTo(StatusIncident, now); err != nil {
		return err
	}
	o.version++
	return nil
}

// RetryDelivery resolves an active incident: the outcome resets to awaiting,
// the incident flag clears and the order returns to in_transit so the
// courier can attempt delivery again.
func (o *Order) RetryDelivery(now time.Time) error {
	if !o.hasActiveIncident {
		return ErrNoIncidentToRetry
	}

	if err := o.transitionTo(StatusInTransit, now); err != nil {
		return err
	}
	o.version++
	return nil
}

// RateDelivery records the customer's rating. Permitted exactly once, only
// after the courier confirmed the delivery; invalidating the token shuts the
// courier-facing page immediately.
func (o *Order) RateDelivery(rating int) error {
	if o.deliveryOutcome != OutcomeConfirmed {
		return ErrDeliveryNotConfirmed
	}
	if o.rated {
		return ErrDeliveryAlreadyRated
	}
	if rating < 1 || rating > 5 {
		return errs.NewValueIsOutOfRangeError("rating", rating, 1, 5)
	}

	o.rated = true
	o.rating = &rating
	o.token = nil
	o.version++
	return nil
}

// CancelAfterFailure cancels the order after a recorded failed delivery.
// Permitted only when the outcome on record is failed, so the failure record
// can never be skipped. Invalidates the token.
func (o *Order) CancelAfterFailure(now time.Time) error {
	if o.deliveryOutcome != OutcomeFailed {
		return ErrDeliveryNotFailed
	}

	if err := o.transitionTo(StatusCancelled, now); err != nil {
		return err
	}
	o.version++
	return nil
}

// UpdateDetails applies a free-form edit of the non-lifecycle fields.
// Optimistic concurrency is enforced by the caller via CheckVersion before
// invoking this method.
func (o *Order) UpdateDetails(deliveryAddress, customerName, customerPhone, note string) {
	o.deliveryAddress = deliveryAddress
	o.customerName = customerName
	o.customerPhone = customerPhone
	o.note = note
	o.version++
}

// CheckVersion compares the caller's expected version against the stored one
// and returns a VersionConflictError carrying both values on a mismatch.
func (o *Order) CheckVersion(expected int64) error {
	if expected != o.version {
		return errs.NewVersionConflictError("order", o.version, expected)
	}
	return nil
}

// SoftDelete hides the order without removing it. Lower-privilege principals
// cannot permanently delete; the status stays untouched.
func (o *Order) SoftDelete(now time.Time) error {
	if o.deletedAt != nil {
		return ErrOrderAlreadyDeleted
	}
	o.deletedAt = &now
	o.version++
	return nil
}

// transitionTo mutates the status and applies its entry effects: set-once
// lifecycle timestamps and the delivery token window. It does not touch the
// version; each public mutation bumps it exactly once.
func (o *Order) transitionTo(to Status, now time.Time) error {
	from := o.status
	o.status = to

	// Entering incident always raises the triage flag. Leaving it, no matter
	// where to, resolves the flag and re-arms the courier outcome, so a
	// recorded failure never outlives the incident status. The failure
	// reason stays on record for the audit trail.
	if to == StatusIncident {
		o.hasActiveIncident = true
	} else if from == StatusIncident {
		o.hasActiveIncident = false
		o.deliveryOutcome = OutcomeAwaiting
	}

	switch to {
	case StatusConfirmed:
		if o.confirmedAt == nil {
			t := now
			o.confirmedAt = &t
		}
	case StatusShipped:
		if o.shippedAt == nil {
			t := now
			o.shippedAt = &t
		}
	case StatusDelivered:
		if o.deliveredAt == nil {
			t := now
			o.deliveredAt = &t
		}
	case StatusCancelled:
		if o.cancelledAt == nil {
			t := now
			o.cancelledAt = &t
		}
	}

	if to.AllowsDeliveryToken() {
		if o.token == nil && !o.rated {
			token, err := NewDeliveryToken()
			if err != nil {
				return err
			}
			o.token = &token
		}
	} else {
		o.token = nil
	}

	return nil
}

// recomputeTotals derives the total price from the line items and realigns
// the COD amount with the payment method.
func (o *Order) recomputeTotals() {
	total := kernel.Zero()
	for _, item := range o.lineItems {
		total = total.Add(item.Total())
	}
	o.totalPrice = total
	if o.paymentMethod.CollectsOnDelivery() {
		o.codAmount = total
	} else {
		o.codAmount = kernel.Zero()
	}
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// TenantID returns the owning tenant's identifier.
func (o *Order) TenantID() kernel.UUID {
	return o.tenantID
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Version returns the optimistic-concurrency version counter.
func (o *Order) Version() int64 {
	return o.version
}

// LineItems returns a copy of the purchased positions.
func (o *Order) LineItems() []LineItem {
	return append([]LineItem(nil), o.lineItems...)
}

// PaymentMethod returns how the order is paid.
func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

// TotalPrice returns the current total after upsells and discounts.
func (o *Order) TotalPrice() kernel.Money {
	return o.totalPrice
}

// CODAmount returns the amount the courier is expected to collect.
func (o *Order) CODAmount() kernel.Money {
	return o.codAmount
}

// AmountCollected returns what the courier actually collected.
func (o *Order) AmountCollected() kernel.Money {
	return o.amountCollected
}

// HasAmountDiscrepancy reports whether the collected amount deviated from the
// expected COD amount.
func (o *Order) HasAmountDiscrepancy() bool {
	return o.hasAmountDiscrepancy
}

// DeliveryToken returns the active single-use credential, or nil.
func (o *Order) DeliveryToken() *DeliveryToken {
	return o.token
}

// CourierID returns the last assigned courier, or nil. The reference is
// retained even after terminal transitions.
func (o *Order) CourierID() *kernel.UUID {
	return o.courierID
}

// ConfirmedAt returns when the order first entered confirmed.
func (o *Order) ConfirmedAt() *time.Time {
	return o.confirmedAt
}

// ConfirmedBy returns the principal who confirmed the order.
func (o *Order) ConfirmedBy() *kernel.UUID {
	return o.confirmedBy
}

// ShippedAt returns when the order first entered shipped.
func (o *Order) ShippedAt() *time.Time {
	return o.shippedAt
}

// DeliveredAt returns when the order first entered delivered.
func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// CancelledAt returns when the order first entered cancelled.
func (o *Order) CancelledAt() *time.Time {
	return o.cancelledAt
}

// DeletedAt returns the soft-delete marker, or nil.
func (o *Order) DeletedAt() *time.Time {
	return o.deletedAt
}

// DeliveryOutcome returns the courier sub-state.
func (o *Order) DeliveryOutcome() DeliveryOutcome {
	return o.deliveryOutcome
}

// HasActiveIncident reports whether an incident awaits triage.
func (o *Order) HasActiveIncident() bool {
	return o.hasActiveIncident
}

// FailureReason returns the reason of the last failed delivery attempt.
func (o *Order) FailureReason() string {
	return o.failureReason
}

// IsRated reports whether the customer rated the delivery.
func (o *Order) IsRated() bool {
	return o.rated
}

// Rating returns the recorded rating, or nil.
func (o *Order) Rating() *int {
	return o.rating
}

// DeliveryAddress returns the destination address.
func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

// CustomerName returns the customer's name.
func (o *Order) CustomerName() string {
	return o.customerName
}

// CustomerPhone returns the customer's phone number.
func (o *Order) CustomerPhone() string {
	return o.customerPhone
}

// Note returns the free-form operator note.
func (o *Order) Note() string {
	return o.note
}

// ExternalRef returns the external commerce-platform reference, or nil.
func (o *Order) ExternalRef() *string {
	return o.externalRef
}
