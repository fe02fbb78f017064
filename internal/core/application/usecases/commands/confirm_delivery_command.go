package commands

import (
	"errors"

	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/core/domain/model/order"
	"codorders/internal/pkg/errs"
	"codorders/internal/pkg/guard"
)

var ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
)

// ConfirmDeliveryCommand represents a courier reporting a successful
// handover, identified solely by the delivery token. For cash collection the
// courier either confirms the expected amount or reports a discrepancy with
// the amount actually collected.
type ConfirmDeliveryCommand struct { //nolint:recvcheck //using for validation
	token             order.DeliveryToken
	amountCollected   *kernel.Money
	reportDiscrepancy bool

	guard guard.ConstructorGuard
}

// NewConfirmDeliveryCommand creates a command to confirm a delivery.
// A discrepancy report must carry the collected amount.
func NewConfirmDeliveryCommand(
	token order.DeliveryToken,
	amountCollected *kernel.Money,
	reportDiscrepancy bool,
) (ConfirmDeliveryCommand, error) {
	deliveryCommand := ConfirmDeliveryCommand{
		amountCollected:   amountCollected,
		reportDiscrepancy: reportDiscrepancy,
		guard:             guard.NewConstructorGuard(),
	}

	if err := deliveryCommand.setToken(token); err != nil {
		return ConfirmDeliveryCommand{}, err
	}
	if reportDiscrepancy && amountCollected == nil {
		return ConfirmDeliveryCommand{}, errs.NewValueIsRequiredError("amount_collected")
	}

	return deliveryCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrConfirmDeliveryCommandIsNotConstructed if validation fails.
func (c ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}

// Token returns the delivery credential presented by the courier.
func (c ConfirmDeliveryCommand) Token() order.DeliveryToken {
	return c.token
}

// AmountCollected returns the reported collected amount, or nil when the
// courier confirms the expected amount.
func (c ConfirmDeliveryCommand) AmountCollected() *kernel.Money {
	return c.amountCollected
}

// ReportDiscrepancy reports whether the collected amount differs from the
// expected one.
func (c ConfirmDeliveryCommand) ReportDiscrepancy() bool {
	return c.reportDiscrepancy
}

func (c *ConfirmDeliveryCommand) setToken(token order.DeliveryToken) error {
	if err := token.Validate(); err != nil {
		return err
	}

	c.token = token
	return nil
}
