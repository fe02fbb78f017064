package commands

import (
	"errors"

	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/pkg/errs"
	"codorders/internal/pkg/guard"
)

var ErrEditOrderCommandIsNotConstructed = errors.New(
	"EditOrderCommand must be created via NewEditOrderCommand constructor",
)

// EditOrderCommand represents a request to update the editable order fields:
// delivery address, customer name, customer phone and the free-form note.
//
// The command comes in two flavors. NewEditOrderCommand applies
// unconditionally. NewEditOrderCommandWithVersion conditions the write on
// the version the caller last saw, and the handler rejects the edit with a
// version conflict when the order has moved on since.
type EditOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	deliveryAddress string
	customerName    string
	customerPhone   string
	note            string
	expectedVersion *int64

	guard guard.ConstructorGuard
}

// NewEditOrderCommand creates an unconditional edit command.
func NewEditOrderCommand(
	orderID kernel.UUID,
	deliveryAddress, customerName, customerPhone, note string,
) (EditOrderCommand, error) {
	editCommand := EditOrderCommand{
		deliveryAddress: deliveryAddress,
		customerName:    customerName,
		customerPhone:   customerPhone,
		note:            note,
		guard:           guard.NewConstructorGuard(),
	}

	if err := editCommand.setOrderID(orderID); err != nil {
		return EditOrderCommand{}, err
	}

	return editCommand, nil
}

// NewEditOrderCommandWithVersion creates an edit command conditioned on the
// version the caller last observed.
func NewEditOrderCommandWithVersion(
	orderID kernel.UUID,
	deliveryAddress, customerName, customerPhone, note string,
	expectedVersion int64,
) (EditOrderCommand, error) {
	editCommand, err := NewEditOrderCommand(orderID, deliveryAddress, customerName, customerPhone, note)
	if err != nil {
		return EditOrderCommand{}, err
	}

	if expectedVersion < 1 {
		return EditOrderCommand{}, errs.NewVersionIsInvalidError("expected_version")
	}
	editCommand.expectedVersion = &expectedVersion

	return editCommand, nil
}

// Validate ensures the command was created through a constructor.
// Returns ErrEditOrderCommandIsNotConstructed if validation fails.
func (c EditOrderCommand) Validate() error {
	return c.guard.Validate(ErrEditOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to edit.
func (c EditOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DeliveryAddress returns the new delivery address.
func (c EditOrderCommand) DeliveryAddress() string {
	return c.deliveryAddress
}

// CustomerName returns the new customer name.
func (c EditOrderCommand) CustomerName() string {
	return c.customerName
}

// CustomerPhone returns the new customer phone number.
func (c EditOrderCommand) CustomerPhone() string {
	return c.customerPhone
}

// Note returns the new free-form note.
func (c EditOrderCommand) Note() string {
	return c.note
}

// ExpectedVersion returns the version precondition, or nil for an
// unconditional edit.
func (c EditOrderCommand) ExpectedVersion() *int64 {
	return c.expectedVersion
}

func (c *EditOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
