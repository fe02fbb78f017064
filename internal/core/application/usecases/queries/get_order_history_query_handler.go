package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetOrderHistoryQueryHandler reads the transition trail of one order.
// An order without recorded transitions yields an empty slice, not an
// error; recording is best-effort and a gap is not a lookup failure.
type GetOrderHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderHistoryQueryHandler creates a handler for history queries.
func NewGetOrderHistoryQueryHandler(db *gorm.DB) GetOrderHistoryQueryHandler {
	return GetOrderHistoryQueryHandler{db: db}
}

// Handle executes the history query, oldest record first.
func (h GetOrderHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetOrderHistoryQuery,
) ([]GetOrderHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	records := make([]GetOrderHistoryQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			previous_status,
			new_status,
			changed_by,
			source,
			note,
			created_at
		FROM order_transitions
		WHERE order_id = ?
		ORDER BY created_at, id
	`, query.OrderID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var record GetOrderHistoryQueryResponse
		if err = rows.Scan(
			&record.PreviousStatus,
			&record.NewStatus,
			&record.ChangedBy,
			&record.Source,
			&record.Note,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
