package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductVariant is a color option of a product with its gallery.
type ProductVariant struct {
	VariantID string    `json:"variant_id"`
	ColorID   uuid.UUID `json:"color_id"`
	Images    []string  `json:"images"`
}

// Product is a catalog listing. Price is in major units of the store currency.
type Product struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Name      string           `gorm:"column:name;not null"`
	Price     decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	Active    bool             `gorm:"column:active;not null;default:false"`
	QualityID uuid.UUID        `gorm:"column:quality_id;type:uuid;not null"`
	Variants  []ProductVariant `gorm:"column:variants;type:jsonb;serializer:json"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Variant returns the variant with the given id, or nil.
func (p *Product) Variant(variantID string) *ProductVariant {
	if p == nil {
		return nil
	}
	for i := range p.Variants {
		if p.Variants[i].VariantID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}
