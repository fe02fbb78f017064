package commands

import (
	"errors"

	"codorders/internal/core/domain/model/order"
	"codorders/internal/pkg/errs"
	"codorders/internal/pkg/guard"
)

var ErrFailDeliveryCommandIsNotConstructed = errors.New(
	"FailDeliveryCommand must be created via NewFailDeliveryCommand constructor",
)

// FailDeliveryCommand represents a courier reporting a failed delivery
// attempt. The reason is mandatory; the order moves to incident for human
// triage and is never cancelled automatically.
type FailDeliveryCommand struct { //nolint:recvcheck //using for validation
	token  order.DeliveryToken
	reason string

	guard guard.ConstructorGuard
}

// NewFailDeliveryCommand creates a command to report a failed delivery.
func NewFailDeliveryCommand(token order.DeliveryToken, reason string) (FailDeliveryCommand, error) {
	deliveryCommand := FailDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		deliveryCommand.setToken(token),
		deliveryCommand.setReason(reason),
	); err != nil {
		return FailDeliveryCommand{}, err
	}

	return deliveryCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrFailDeliveryCommandIsNotConstructed if validation fails.
func (c FailDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrFailDeliveryCommandIsNotConstructed)
}

// Token returns the delivery credential presented by the courier.
func (c FailDeliveryCommand) Token() order.DeliveryToken {
	return c.token
}

// Reason returns the failure reason reported by the courier.
func (c FailDeliveryCommand) Reason() string {
	return c.reason
}

func (c *FailDeliveryCommand) setToken(token order.DeliveryToken) error {
	if err := token.Validate(); err != nil {
		return err
	}

	c.token = token
	return nil
}

func (c *FailDeliveryCommand) setReason(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}

	c.reason = reason
	return nil
}
