package queries

import (
	"context"
	"errors"

	"codorders/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderByTokenQueryHandler resolves the courier page view from the
// database. Soft-deleted orders are invisible, and an expired or revoked
// token yields not found rather than any hint about the order.
type GetOrderByTokenQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderByTokenQueryHandler creates a handler for courier page lookups.
// Requires a GORM database connection for query execution.
func NewGetOrderByTokenQueryHandler(db *gorm.DB) GetOrderByTokenQueryHandler {
	return GetOrderByTokenQueryHandler{db: db}
}

// Handle executes the token lookup and returns the courier view.
func (h GetOrderByTokenQueryHandler) Handle(
	ctx context.Context,
	query GetOrderByTokenQuery,
) (GetOrderByTokenQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderByTokenQueryResponse{}, err
	}

	var response GetOrderByTokenQueryResponse
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			payment_method,
			cod_amount_cents,
			amount_collected_cents,
			has_amount_discrepancy,
			delivery_address,
			customer_name,
			customer_phone,
			note,
			delivery_outcome,
			has_active_incident,
			failure_reason,
			rated
		FROM orders
		WHERE delivery_token = ? AND deleted_at IS NULL
	`, query.Token().String()).Scan(&response).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GetOrderByTokenQueryResponse{}, errs.NewObjectNotFoundError("delivery_token", query.Token().String())
		}
		return GetOrderByTokenQueryResponse{}, err
	}
	if response.Status == "" {
		return GetOrderByTokenQueryResponse{}, errs.NewObjectNotFoundError("delivery_token", query.Token().String())
	}

	return response, nil
}
