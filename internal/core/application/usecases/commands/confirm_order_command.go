package commands

import (
	"errors"

	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/pkg/errs"
	"codorders/internal/pkg/guard"
)

var ErrConfirmOrderCommandIsNotConstructed = errors.New(
	"ConfirmOrderCommand must be created via NewConfirmOrderCommand constructor",
)

// ConfirmOrderUpsell describes an optional extra line item attached during
// confirmation. The unit price is resolved from the catalog, never taken
// from the caller.
type ConfirmOrderUpsell struct {
	ProductID kernel.UUID
	VariantID *kernel.UUID
	Quantity  int
}

// ConfirmOrderCommand represents a request to confirm a pending order:
// assign a courier, optionally attach an upsell item, apply a discount and
// correct the delivery address. Confirmation is the step that issues the
// single-use delivery credential.
//
// Example:
//
//	cmd, err := NewConfirmOrderCommand(orderID, courierID, operatorID, nil, kernel.Zero(), nil)
//	if err != nil {
//	    return fmt.Errorf("invalid confirmation request: %w", err)
//	}
//
//	confirmed, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("confirmation failed: %w", err)
//	}
//	fmt.Printf("order confirmed, COD amount %s", confirmed.CODAmount())
type ConfirmOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	courierID       kernel.UUID
	confirmedBy     kernel.UUID
	upsell          *ConfirmOrderUpsell
	discount        kernel.Money
	addressOverride *string

	guard guard.ConstructorGuard
}

// NewConfirmOrderCommand creates a command to confirm a pending order.
// Validates the order, courier and principal identifiers, and the upsell
// shape when one is present. Discount and address override are optional.
func NewConfirmOrderCommand(
	orderID kernel.UUID,
	courierID kernel.UUID,
	confirmedBy kernel.UUID,
	upsell *ConfirmOrderUpsell,
	discount kernel.Money,
	addressOverride *string,
) (ConfirmOrderCommand, error) {
	confirmCommand := ConfirmOrderCommand{
		discount:        discount,
		addressOverride: addressOverride,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		confirmCommand.setOrderID(orderID),
		confirmCommand.setCourierID(courierID),
		confirmCommand.setConfirmedBy(confirmedBy),
		confirmCommand.setUpsell(upsell),
	); err != nil {
		return ConfirmOrderCommand{}, err
	}

	return confirmCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrConfirmOrderCommandIsNotConstructed if validation fails.
func (c ConfirmOrderCommand) Validate() error {
	return c.guard.Validate(ErrConfirmOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to confirm.
func (c ConfirmOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CourierID returns the courier assigned during confirmation.
func (c ConfirmOrderCommand) CourierID() kernel.UUID {
	return c.courierID
}

// ConfirmedBy returns the principal performing the confirmation.
func (c ConfirmOrderCommand) ConfirmedBy() kernel.UUID {
	return c.confirmedBy
}

// Upsell returns the optional extra line item request, or nil.
func (c ConfirmOrderCommand) Upsell() *ConfirmOrderUpsell {
	return c.upsell
}

// Discount returns the absolute discount to subtract from the order total.
func (c ConfirmOrderCommand) Discount() kernel.Money {
	return c.discount
}

// AddressOverride returns the corrected delivery address, or nil.
func (c ConfirmOrderCommand) AddressOverride() *string {
	return c.addressOverride
}

func (c *ConfirmOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ConfirmOrderCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *ConfirmOrderCommand) setConfirmedBy(confirmedBy kernel.UUID) error {
	if err := confirmedBy.Validate(); err != nil {
		return err
	}

	c.confirmedBy = confirmedBy
	return nil
}

func (c *ConfirmOrderCommand) setUpsell(upsell *ConfirmOrderUpsell) error {
	if upsell == nil {
		return nil
	}
	if err := upsell.ProductID.Validate(); err != nil {
		return err
	}
	if upsell.VariantID != nil {
		if err := upsell.VariantID.Validate(); err != nil {
			return err
		}
	}
	if upsell.Quantity < 1 {
		return errs.NewValueIsInvalidError("upsell_quantity")
	}

	c.upsell = upsell
	return nil
}
