package orderrepo

import (
	"context"
	"errors"

	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/core/domain/model/order"
	"codorders/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates modified
// within a unit of work.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its line items.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update persists an existing order, conditioned on the version the
// aggregate was loaded with. Every mutation bumps the version exactly once,
// so the load version is the stored version minus one; a write that matches
// zero rows means a concurrent writer got there first.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version-1).
		Select("*").Omit("id", "LineItems").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.versionConflict(ctx, aggregate)
	}

	if err := r.replaceLineItems(ctx, dto); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) replaceLineItems(ctx context.Context, dto OrderDTO) error {
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", dto.ID).
		Delete(&LineItemDTO{}).Error; err != nil {
		return err
	}
	if len(dto.LineItems) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&dto.LineItems).Error
}

func (r *GormOrderRepository) versionConflict(ctx context.Context, aggregate *order.Order) error {
	var current int64
	err := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ?", aggregate.ID().Bytes()).
		Pluck("version", &current).Error
	if err != nil {
		return err
	}
	if current == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}
	return errs.NewVersionConflictError("order", current, aggregate.Version()-1)
}

// Get retrieves an order by ID, soft-deleted rows included, so privileged
// dashboard flows can still reach them.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.getOne(ctx, r.db.WithContext(ctx), id)
}

// GetForUpdate retrieves an order by ID while holding a row lock. Must run
// inside an active transaction.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.getOne(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormOrderRepository) getOne(ctx context.Context, db *gorm.DB, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := db.Preload("LineItems").First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByToken retrieves the order owning an active delivery token.
// Soft-deleted orders are invisible on this surface.
func (r *GormOrderRepository) GetByToken(ctx context.Context, token order.DeliveryToken) (*order.Order, error) {
	return r.getByToken(ctx, r.db.WithContext(ctx), token)
}

// GetByTokenForUpdate is GetByToken with a row lock for the courier
// mutation endpoints.
func (r *GormOrderRepository) GetByTokenForUpdate(
	ctx context.Context,
	token order.DeliveryToken,
) (*order.Order, error) {
	return r.getByToken(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), token)
}

func (r *GormOrderRepository) getByToken(
	ctx context.Context,
	db *gorm.DB,
	token order.DeliveryToken,
) (*order.Order, error) {
	if err := token.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := db.Preload("LineItems").
		First(&dto, "delivery_token = ? AND deleted_at IS NULL", token.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery_token", token.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Delete permanently removes an order and its line items.
func (r *GormOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).
		Where("order_id = ?", id.Bytes()).
		Delete(&LineItemDTO{}).Error; err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&OrderDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}

	return nil
}
