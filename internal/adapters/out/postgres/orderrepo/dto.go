// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It handles the conversion between the order aggregate
// and its relational representation, line items included.
package orderrepo

import (
	"time"

	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The delivery token carries a unique index because it is the sole selector
// of the public courier surface.
type OrderDTO struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantID             uuid.UUID  `gorm:"type:uuid;index"`
	Status               string     `gorm:"index"`
	Version              int64      `gorm:"not null"`
	PaymentMethod        string     `gorm:"not null"`
	TotalPriceCents      int64      `gorm:"not null"`
	CODAmountCents       int64      `gorm:"column:cod_amount_cents;not null"`
	AmountCollectedCents int64      `gorm:"not null"`
	HasAmountDiscrepancy bool       `gorm:"not null"`
	DeliveryToken        *string    `gorm:"uniqueIndex"`
	CourierID            *uuid.UUID `gorm:"type:uuid;index"`
	ConfirmedAt          *time.Time
	ConfirmedBy          *uuid.UUID `gorm:"type:uuid"`
	ShippedAt            *time.Time
	DeliveredAt          *time.Time
	CancelledAt          *time.Time
	DeletedAt            *time.Time `gorm:"index"`
	DeliveryOutcome      int        `gorm:"not null"`
	HasActiveIncident    bool       `gorm:"not null"`
	FailureReason        string
	Rated                bool `gorm:"not null"`
	Rating               *int
	DeliveryAddress      string
	CustomerName         string
	CustomerPhone        string
	Note                 string
	ExternalRef          *string

	LineItems []LineItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// LineItemDTO represents one priced order line in the database.
type LineItemDTO struct {
	ID             int64      `gorm:"primaryKey;autoIncrement"`
	OrderID        uuid.UUID  `gorm:"type:uuid;index;not null"`
	ProductID      uuid.UUID  `gorm:"type:uuid;not null"`
	VariantID      *uuid.UUID `gorm:"type:uuid"`
	Quantity       int        `gorm:"not null"`
	UnitPriceCents int64      `gorm:"not null"`
}

// TableName specifies the database table name for order line items.
func (LineItemDTO) TableName() string {
	return "order_line_items"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:                   aggregate.ID().Bytes(),
		TenantID:             aggregate.TenantID().Bytes(),
		Status:               aggregate.Status().String(),
		Version:              aggregate.Version(),
		PaymentMethod:        aggregate.PaymentMethod().String(),
		TotalPriceCents:      aggregate.TotalPrice().Cents(),
		CODAmountCents:       aggregate.CODAmount().Cents(),
		AmountCollectedCents: aggregate.AmountCollected().Cents(),
		HasAmountDiscrepancy: aggregate.HasAmountDiscrepancy(),
		ConfirmedAt:          aggregate.ConfirmedAt(),
		ShippedAt:            aggregate.ShippedAt(),
		DeliveredAt:          aggregate.DeliveredAt(),
		CancelledAt:          aggregate.CancelledAt(),
		DeletedAt:            aggregate.DeletedAt(),
		DeliveryOutcome:      int(aggregate.DeliveryOutcome()),
		HasActiveIncident:    aggregate.HasActiveIncident(),
		FailureReason:        aggregate.FailureReason(),
		Rated:                aggregate.IsRated(),
		Rating:               aggregate.Rating(),
		DeliveryAddress:      aggregate.DeliveryAddress(),
		CustomerName:         aggregate.CustomerName(),
		CustomerPhone:        aggregate.CustomerPhone(),
		Note:                 aggregate.Note(),
		ExternalRef:          aggregate.ExternalRef(),
	}

	if token := aggregate.DeliveryToken(); token != nil {
		value := token.String()
		dto.DeliveryToken = &value
	}
	if courierID := aggregate.CourierID(); courierID != nil {
		raw := courierID.Bytes()
		dto.CourierID = &raw
	}
	if confirmedBy := aggregate.ConfirmedBy(); confirmedBy != nil {
		raw := confirmedBy.Bytes()
		dto.ConfirmedBy = &raw
	}

	for _, item := range aggregate.LineItems() {
		dto.LineItems = append(dto.LineItems, lineItemFromDomain(aggregate.ID(), item))
	}

	return dto
}

func lineItemFromDomain(orderID kernel.UUID, item order.LineItem) LineItemDTO {
	dto := LineItemDTO{
		OrderID:        orderID.Bytes(),
		ProductID:      item.ProductID().Bytes(),
		Quantity:       item.Quantity(),
		UnitPriceCents: item.UnitPrice().Cents(),
	}
	if variantID := item.VariantID(); variantID != nil {
		raw := variantID.Bytes()
		dto.VariantID = &raw
	}
	return dto
}

// toDomain converts a database DTO to an order aggregate, re-validating the
// closed enumerations on the way in.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	paymentMethod, err := order.ParsePaymentMethod(dto.PaymentMethod)
	if err != nil {
		return nil, err
	}
	totalPrice, err := kernel.NewMoneyFromCents(dto.TotalPriceCents)
	if err != nil {
		return nil, err
	}
	codAmount, err := kernel.NewMoneyFromCents(dto.CODAmountCents)
	if err != nil {
		return nil, err
	}
	amountCollected, err := kernel.NewMoneyFromCents(dto.AmountCollectedCents)
	if err != nil {
		return nil, err
	}

	params := order.RestoreOrderParams{
		ID:                   id,
		TenantID:             tenantID,
		Status:               status,
		Version:              dto.Version,
		PaymentMethod:        paymentMethod,
		TotalPrice:           totalPrice,
		CODAmount:            codAmount,
		AmountCollected:      amountCollected,
		HasAmountDiscrepancy: dto.HasAmountDiscrepancy,
		ConfirmedAt:          dto.ConfirmedAt,
		ShippedAt:            dto.ShippedAt,
		DeliveredAt:          dto.DeliveredAt,
		CancelledAt:          dto.CancelledAt,
		DeletedAt:            dto.DeletedAt,
		DeliveryOutcome:      order.DeliveryOutcome(dto.DeliveryOutcome),
		HasActiveIncident:    dto.HasActiveIncident,
		FailureReason:        dto.FailureReason,
		Rated:                dto.Rated,
		Rating:               dto.Rating,
		DeliveryAddress:      dto.DeliveryAddress,
		CustomerName:         dto.CustomerName,
		CustomerPhone:        dto.CustomerPhone,
		Note:                 dto.Note,
		ExternalRef:          dto.ExternalRef,
	}

	if dto.DeliveryToken != nil {
		token, tokenErr := order.RestoreDeliveryToken(*dto.DeliveryToken)
		if tokenErr != nil {
			return nil, tokenErr
		}
		params.Token = &token
	}
	if dto.CourierID != nil {
		courierID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		params.CourierID = &courierID
	}
	if dto.ConfirmedBy != nil {
		confirmedBy, confirmedErr := kernel.UUIDFromBytes((*dto.ConfirmedBy)[:])
		if confirmedErr != nil {
			return nil, confirmedErr
		}
		params.ConfirmedBy = &confirmedBy
	}

	items := make([]order.LineItem, 0, len(dto.LineItems))
	for _, itemDTO := range dto.LineItems {
		item, itemErr := lineItemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}
	params.LineItems = items

	return order.RestoreOrder(params)
}

func lineItemToDomain(dto LineItemDTO) (order.LineItem, error) {
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return order.LineItem{}, err
	}

	var variantID *kernel.UUID
	if dto.VariantID != nil {
		vID, variantErr := kernel.UUIDFromBytes((*dto.VariantID)[:])
		if variantErr != nil {
			return order.LineItem{}, variantErr
		}
		variantID = &vID
	}

	unitPrice, err := kernel.NewMoneyFromCents(dto.UnitPriceCents)
	if err != nil {
		return order.LineItem{}, err
	}

	return order.NewLineItem(productID, variantID, dto.Quantity, unitPrice)
}
