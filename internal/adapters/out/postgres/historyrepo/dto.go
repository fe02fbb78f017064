// Package historyrepo persists the append-only status transition trail.
package historyrepo

import (
	"time"

	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// TransitionDTO represents one immutable transition record in the database.
type TransitionDTO struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	OrderID        uuid.UUID `gorm:"type:uuid;index;not null"`
	PreviousStatus string    `gorm:"not null"`
	NewStatus      string    `gorm:"not null"`
	ChangedBy      uuid.UUID `gorm:"type:uuid"`
	Source         string    `gorm:"not null"`
	Note           string
	CreatedAt      time.Time `gorm:"index;not null"`
}

// TableName specifies the database table name for transition records.
func (TransitionDTO) TableName() string {
	return "order_transitions"
}

func fromDomain(record order.TransitionRecord) TransitionDTO {
	return TransitionDTO{
		OrderID:        record.OrderID.Bytes(),
		PreviousStatus: record.PreviousStatus.String(),
		NewStatus:      record.NewStatus.String(),
		ChangedBy:      record.ChangedBy.Bytes(),
		Source:         record.Source.String(),
		Note:           record.Note,
		CreatedAt:      record.Timestamp,
	}
}

func toDomain(dto TransitionDTO) (order.TransitionRecord, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return order.TransitionRecord{}, err
	}
	previous, err := order.ParseStatus(dto.PreviousStatus)
	if err != nil {
		return order.TransitionRecord{}, err
	}
	next, err := order.ParseStatus(dto.NewStatus)
	if err != nil {
		return order.TransitionRecord{}, err
	}
	changedBy, err := kernel.UUIDFromBytes(dto.ChangedBy[:])
	if err != nil {
		return order.TransitionRecord{}, err
	}
	source, err := order.ParseChangeSource(dto.Source)
	if err != nil {
		return order.TransitionRecord{}, err
	}

	return order.NewTransitionRecord(orderID, previous, next, changedBy, source, dto.Note, dto.CreatedAt)
}
