// Package queries contains read-only operations in the CQRS architecture.
// Queries bypass the domain model and read the database directly, returning
// flat response shapes tailored to their consumers.
package queries

import (
	"errors"

	"codorders/internal/core/domain/model/order"
	"codorders/internal/pkg/guard"
)

var ErrGetOrderByTokenQueryIsNotConstructed = errors.New(
	"GetOrderByTokenQuery must be created via NewGetOrderByTokenQuery constructor",
)

// GetOrderByTokenQuery represents the public courier page lookup. The
// delivery token is the only selector; no order identifier is ever accepted
// on this surface.
type GetOrderByTokenQuery struct { //nolint:recvcheck //using for validation
	token order.DeliveryToken

	guard guard.ConstructorGuard
}

// NewGetOrderByTokenQuery creates a query to fetch the courier view of an
// order by its delivery token.
func NewGetOrderByTokenQuery(token order.DeliveryToken) (GetOrderByTokenQuery, error) {
	tokenQuery := GetOrderByTokenQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := tokenQuery.setToken(token); err != nil {
		return GetOrderByTokenQuery{}, err
	}

	return tokenQuery, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderByTokenQueryIsNotConstructed if validation fails.
func (q GetOrderByTokenQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderByTokenQueryIsNotConstructed)
}

// Token returns the delivery token to look up.
func (q GetOrderByTokenQuery) Token() order.DeliveryToken {
	return q.token
}

func (q *GetOrderByTokenQuery) setToken(token order.DeliveryToken) error {
	if err := token.Validate(); err != nil {
		return err
	}

	q.token = token
	return nil
}

// GetOrderByTokenQueryResponse is the courier-facing view of one order.
// Amounts are in cents; the caller formats them.
type GetOrderByTokenQueryResponse struct {
	Status               string
	PaymentMethod        string
	CODAmountCents       int64
	AmountCollectedCents int64
	HasAmountDiscrepancy bool
	DeliveryAddress      string
	CustomerName         string
	CustomerPhone        string
	Note                 string
	DeliveryOutcome      int
	HasActiveIncident    bool
	FailureReason        string
	Rated                bool
}
