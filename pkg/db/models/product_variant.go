package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductVariant is a sellable unit of catalog. Prices are stored in cents;
// money math happens at the service layer.
type ProductVariant struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU        string    `gorm:"column:sku;not null;uniqueIndex"`
	Title      string    `gorm:"column:title;not null"`
	PriceCents int64     `gorm:"column:price_cents;not null"`
	Available  bool      `gorm:"column:available;not null;default:true"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default pluralization.
func (ProductVariant) TableName() string {
	return "product_variants"
}
