package commands

import (
	"errors"

	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/core/domain/model/order"
	"codorders/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand represents a request to move an order to another
// lifecycle status. The target status is matched against the transition rule
// table; privileged actors may set force to bypass a table denial.
//
// Example:
//
//	actor, _ := order.NewActor(operatorID, order.PrivilegeOperator)
//	cmd, err := NewChangeOrderStatusCommand(orderID, order.StatusReadyToShip, actor, false, "")
//	if err != nil {
//	    return fmt.Errorf("invalid status change request: %w", err)
//	}
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("status change rejected: %w", err)
//	}
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	to      order.Status
	actor   order.Actor
	force   bool
	note    string

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand creates a command to change an order's status.
// Validates that the order ID, the target status and the acting principal are
// well-formed. The note is optional and lands in the transition history.
func NewChangeOrderStatusCommand(
	orderID kernel.UUID,
	to order.Status,
	actor order.Actor,
	force bool,
	note string,
) (ChangeOrderStatusCommand, error) {
	statusCommand := ChangeOrderStatusCommand{
		force: force,
		note:  note,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		statusCommand.setOrderID(orderID),
		statusCommand.setTo(to),
		statusCommand.setActor(actor),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return statusCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrChangeOrderStatusCommandIsNotConstructed if validation fails.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to move.
func (c ChangeOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// To returns the requested target status.
func (c ChangeOrderStatusCommand) To() order.Status {
	return c.to
}

// Actor returns the principal requesting the change.
func (c ChangeOrderStatusCommand) Actor() order.Actor {
	return c.actor
}

// Force reports whether a table denial should be overridden.
func (c ChangeOrderStatusCommand) Force() bool {
	return c.force
}

// Note returns the optional audit note.
func (c ChangeOrderStatusCommand) Note() string {
	return c.note
}

func (c *ChangeOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ChangeOrderStatusCommand) setTo(to order.Status) error {
	if err := to.Validate(); err != nil {
		return err
	}

	c.to = to
	return nil
}

func (c *ChangeOrderStatusCommand) setActor(actor order.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
