package commands

import (
	"errors"

	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/pkg/guard"
)

var ErrCancelFailedDeliveryCommandIsNotConstructed = errors.New(
	"CancelFailedDeliveryCommand must be created via NewCancelFailedDeliveryCommand constructor",
)

// CancelFailedDeliveryCommand represents the seller giving up on an order
// whose delivery attempt failed. Available only while the recorded outcome
// is failed; the order moves to cancelled and the credential is retired.
type CancelFailedDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	cancelledBy kernel.UUID

	guard guard.ConstructorGuard
}

// NewCancelFailedDeliveryCommand creates a command to cancel after a failed
// delivery.
func NewCancelFailedDeliveryCommand(orderID, cancelledBy kernel.UUID) (CancelFailedDeliveryCommand, error) {
	cancelCommand := CancelFailedDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cancelCommand.setOrderID(orderID),
		cancelCommand.setCancelledBy(cancelledBy),
	); err != nil {
		return CancelFailedDeliveryCommand{}, err
	}

	return cancelCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCancelFailedDeliveryCommandIsNotConstructed if validation fails.
func (c CancelFailedDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCancelFailedDeliveryCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to cancel.
func (c CancelFailedDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CancelledBy returns the principal performing the cancellation.
func (c CancelFailedDeliveryCommand) CancelledBy() kernel.UUID {
	return c.cancelledBy
}

func (c *CancelFailedDeliveryCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CancelFailedDeliveryCommand) setCancelledBy(cancelledBy kernel.UUID) error {
	if err := cancelledBy.Validate(); err != nil {
		return err
	}

	c.cancelledBy = cancelledBy
	return nil
}
