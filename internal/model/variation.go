package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductVariation is a sellable SKU: one product in a specific color and size.
// Stock is never written outside a stock movement — see service.StockService.
// Invariant: Stock >= 0, enforced transactionally under the row lock.
type ProductVariation struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU          string    `gorm:"column:sku;uniqueIndex;not null"`
	Stock        int64     `gorm:"not null;default:0"`
	MinimumStock int64     `gorm:"not null;default:0"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_color_size"`
	ColorID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_color_size"`
	SizeID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_color_size"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
	Color   *Color   `gorm:"foreignKey:ColorID"`
	Size    *Size    `gorm:"foreignKey:SizeID"`
}

func (ProductVariation) TableName() string { return "product_variations" }

// BelowMinimum reports whether the variation needs restocking.
func (v *ProductVariation) BelowMinimum() bool { return v.Stock <= v.MinimumStock }
