package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category classifies products.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Category) TableName() string { return "categories" }

// Color is a variation attribute.
type Color struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"uniqueIndex;not null"`
}

// Size is a variation attribute with a short code used in SKUs.
type Size struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"uniqueIndex;not null"`
	Code string    `gorm:"uniqueIndex;not null"`
}

// Supplier provides products.
type Supplier struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Product is the base catalog entry; sellable units are its variations.
type Product struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"index;not null"`
	Description  *string
	CostPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CategoryID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Active       bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Category   *Category          `gorm:"foreignKey:CategoryID"`
	Supplier   *Supplier          `gorm:"foreignKey:SupplierID"`
	Variations []ProductVariation `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// ProfitMargin returns the margin as a percentage of the selling price,
// rounded to two places. Zero when the product has no selling price.
func (p *Product) ProfitMargin() decimal.Decimal {
	if p.SellingPrice.IsPositive() {
		profit := p.SellingPrice.Sub(p.CostPrice)
		return profit.Div(p.SellingPrice).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return decimal.Zero
}

// TotalStock sums the stock of all loaded variations.
func (p *Product) TotalStock() int64 {
	var total int64
	for _, v := range p.Variations {
		total += v.Stock
	}
	return total
}
