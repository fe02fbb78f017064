package order

import (
	"fmt"
	"time"

	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/pkg/errs"
)

// ChangeSource identifies which surface produced a status transition.
type ChangeSource int

const (
	// SourceUnknown represents an invalid or undefined source.
	SourceUnknown ChangeSource = iota

	// SourceDashboard marks operator-driven transitions.
	SourceDashboard

	// SourceCourier marks transitions from the public courier sub-machine.
	SourceCourier

	// SourceSystem marks transitions applied by background processes.
	SourceSystem
)

func getChangeSourceStrings() map[ChangeSource]string {
	return map[ChangeSource]string{
		SourceUnknown:   "unknown",
		SourceDashboard: "dashboard",
		SourceCourier:   "courier",
		SourceSystem:    "system",
	}
}

// ParseChangeSource converts a wire string into a ChangeSource.
func ParseChangeSource(s string) (ChangeSource, error) {
	for source, str := range getChangeSourceStrings() {
		if str == s && source != SourceUnknown {
			return source, nil
		}
	}
	return SourceUnknown, errs.NewValueIsInvalidErrorWithCause("source",
		fmt.Errorf("%q is not a valid change source", s))
}

// Validate checks the source is one of the defined values.
func (s ChangeSource) Validate() error {
	if s == SourceUnknown {
		return errs.NewValueIsInvalidErrorWithCause("source",
			fmt.Errorf("%d is not a valid change source", int(s)))
	}
	if _, ok := getChangeSourceStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("source",
			fmt.Errorf("%d is not a valid change source", int(s)))
	}
	return nil
}

// String returns the wire name of the source.
func (s ChangeSource) String() string {
	if str, ok := getChangeSourceStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// TransitionRecord is one immutable entry of the append-only audit trail.
type TransitionRecord struct {
	OrderID        kernel.UUID
	PreviousStatus Status
	NewStatus      Status
	ChangedBy      kernel.UUID
	Source         ChangeSource
	Note           string
	Timestamp      time.Time
}

// NewTransitionRecord creates a validated audit entry.
func NewTransitionRecord(
	orderID kernel.UUID,
	previous, next Status,
	changedBy kernel.UUID,
	source ChangeSource,
	note string,
	timestamp time.Time,
) (TransitionRecord, error) {
	if err := orderID.Validate(); err != nil {
		return TransitionRecord{}, err
	}
	if err := next.Validate(); err != nil {
		return TransitionRecord{}, err
	}
	if err := source.Validate(); err != nil {
		return TransitionRecord{}, err
	}
	return TransitionRecord{
		OrderID:        orderID,
		PreviousStatus: previous,
		NewStatus:      next,
		ChangedBy:      changedBy,
		Source:         source,
		Note:           note,
		Timestamp:      timestamp,
	}, nil
}
