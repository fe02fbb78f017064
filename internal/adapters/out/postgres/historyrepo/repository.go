package historyrepo

import (
	"context"

	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GormHistoryRepository implements ports.HistoryRepository using GORM.
// Records are append-only; the only mutation is the hard-delete cascade.
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a new GORM history repository.
func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

// Append stores one transition record.
func (r *GormHistoryRepository) Append(ctx context.Context, record order.TransitionRecord) error {
	dto := fromDomain(record)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListByOrder returns the records of one order, oldest first.
func (r *GormHistoryRepository) ListByOrder(
	ctx context.Context,
	orderID kernel.UUID,
) ([]order.TransitionRecord, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []TransitionDTO
	err := r.db.WithContext(ctx).
		Order("created_at, id").
		Find(&dtos, "order_id = ?", orderID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	records := make([]order.TransitionRecord, 0, len(dtos))
	for _, dto := range dtos {
		record, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		records = append(records, record)
	}

	return records, nil
}

// DeleteByOrder purges the trail of one order.
func (r *GormHistoryRepository) DeleteByOrder(ctx context.Context, orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Delete(&TransitionDTO{}).Error
}
