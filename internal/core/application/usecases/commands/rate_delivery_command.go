package commands

import (
	"errors"

	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/pkg/errs"
	"codorders/internal/pkg/guard"
)

const (
	minDeliveryRating = 1
	maxDeliveryRating = 5
)

var ErrRateDeliveryCommandIsNotConstructed = errors.New(
	"RateDeliveryCommand must be created via NewRateDeliveryCommand constructor",
)

// RateDeliveryCommand represents the customer rating a confirmed delivery.
// Rating is a one-shot operation that retires the delivery credential.
type RateDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	rating  int

	guard guard.ConstructorGuard
}

// NewRateDeliveryCommand creates a command to rate a delivered order.
// The rating must be between 1 and 5.
func NewRateDeliveryCommand(orderID kernel.UUID, rating int) (RateDeliveryCommand, error) {
	rateCommand := RateDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		rateCommand.setOrderID(orderID),
		rateCommand.setRating(rating),
	); err != nil {
		return RateDeliveryCommand{}, err
	}

	return rateCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRateDeliveryCommandIsNotConstructed if validation fails.
func (c RateDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrRateDeliveryCommandIsNotConstructed)
}

// OrderID returns the identifier of the delivered order.
func (c RateDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Rating returns the rating value.
func (c RateDeliveryCommand) Rating() int {
	return c.rating
}

func (c *RateDeliveryCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RateDeliveryCommand) setRating(rating int) error {
	if rating < minDeliveryRating || rating > maxDeliveryRating {
		return errs.NewValueIsOutOfRangeError("rating", rating, minDeliveryRating, maxDeliveryRating)
	}

	c.rating = rating
	return nil
}
