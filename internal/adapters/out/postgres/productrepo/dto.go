// Package productrepo provides data transfer objects and mapping functions
// for product persistence, including per-variant stock counters.
package productrepo

import (
	"codorders/internal/core/domain/model/kernel"
	"codorders/internal/core/domain/model/product"

	"github.com/google/uuid"
)

// ProductDTO represents the database structure for persisting products.
type ProductDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID       uuid.UUID `gorm:"type:uuid;index"`
	Name           string    `gorm:"not null"`
	UnitPriceCents int64     `gorm:"not null"`
	StockOnHand    int       `gorm:"not null"`

	Variants []VariantDTO `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for products.
func (ProductDTO) TableName() string {
	return "products"
}

// VariantDTO represents one product variant with its own stock counter.
type VariantDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Name        string    `gorm:"not null"`
	StockOnHand int       `gorm:"not null"`
}

// TableName specifies the database table name for product variants.
func (VariantDTO) TableName() string {
	return "product_variants"
}

// fromDomain converts a product aggregate to its database representation.
func fromDomain(aggregate *product.Product) ProductDTO {
	dto := ProductDTO{
		ID:             aggregate.ID().Bytes(),
		TenantID:       aggregate.TenantID().Bytes(),
		Name:           aggregate.Name(),
		UnitPriceCents: aggregate.UnitPrice().Cents(),
		StockOnHand:    aggregate.StockOnHand(),
	}

	for _, variant := range aggregate.Variants() {
		dto.Variants = append(dto.Variants, VariantDTO{
			ID:          variant.ID().Bytes(),
			ProductID:   aggregate.ID().Bytes(),
			Name:        variant.Name(),
			StockOnHand: variant.StockOnHand(),
		})
	}

	return dto
}

// toDomain converts a database DTO to a product aggregate.
func toDomain(dto ProductDTO) (*product.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return nil, err
	}
	unitPrice, err := kernel.NewMoneyFromCents(dto.UnitPriceCents)
	if err != nil {
		return nil, err
	}

	variants := make([]product.Variant, 0, len(dto.Variants))
	for _, variantDTO := range dto.Variants {
		variantID, variantErr := kernel.UUIDFromBytes(variantDTO.ID[:])
		if variantErr != nil {
			return nil, variantErr
		}
		variant, variantErr := product.NewVariant(variantID, variantDTO.Name, variantDTO.StockOnHand)
		if variantErr != nil {
			return nil, variantErr
		}
		variants = append(variants, variant)
	}

	return product.RestoreProduct(id, tenantID, dto.Name, unitPrice, dto.StockOnHand, variants)
}
