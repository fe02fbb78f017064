package commands

import (
	"errors"

	"codorders/internal/core/domain/model/order"
	"codorders/internal/pkg/guard"
)

var ErrRetryDeliveryCommandIsNotConstructed = errors.New(
	"RetryDeliveryCommand must be created via NewRetryDeliveryCommand constructor",
)

// RetryDeliveryCommand represents a new delivery attempt on an order sitting
// in incident. The order returns to in transit and the delivery outcome
// resets so the courier can report again with the same credential.
type RetryDeliveryCommand struct { //nolint:recvcheck //using for validation
	token order.DeliveryToken

	guard guard.ConstructorGuard
}

// NewRetryDeliveryCommand creates a command to retry a failed delivery.
func NewRetryDeliveryCommand(token order.DeliveryToken) (RetryDeliveryCommand, error) {
	deliveryCommand := RetryDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := deliveryCommand.setToken(token); err != nil {
		return RetryDeliveryCommand{}, err
	}

	return deliveryCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRetryDeliveryCommandIsNotConstructed if validation fails.
func (c RetryDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrRetryDeliveryCommandIsNotConstructed)
}

// Token returns the delivery credential of the incident order.
func (c RetryDeliveryCommand) Token() order.DeliveryToken {
	return c.token
}

func (c *RetryDeliveryCommand) setToken(token order.DeliveryToken) error {
	if err := token.Validate(); err != nil {
		return err
	}

	c.token = token
	return nil
}
