package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType is the reason a variation's stock changed.
type MovementType string

const (
	MovementIn        MovementType = "IN"
	MovementOut       MovementType = "OUT"
	MovementAdjustIn  MovementType = "ADJUST_IN"
	MovementAdjustOut MovementType = "ADJUST_OUT"
	MovementSale      MovementType = "SALE"
	MovementReturn    MovementType = "RETURN"
)

// Inbound reports whether the type increments stock.
func (t MovementType) Inbound() bool {
	switch t {
	case MovementIn, MovementAdjustIn, MovementReturn:
		return true
	}
	return false
}

// Outbound reports whether the type decrements stock.
func (t MovementType) Outbound() bool {
	switch t {
	case MovementSale, MovementOut, MovementAdjustOut:
		return true
	}
	return false
}

// StockMovement is one immutable entry in the stock ledger.
// Movements are NEVER modified or deleted — reversals create inverse entries.
// Quantity is always positive; direction is given by Type.
type StockMovement struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VariationID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Type        MovementType     `gorm:"type:varchar(20);not null"`
	Quantity    int64            `gorm:"not null"`
	UnitPrice   *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Notes       *string
	UserID      uuid.UUID  `gorm:"type:uuid;not null"`
	ReferenceID *uuid.UUID `gorm:"type:uuid"` // originating sale, if any
	CreatedAt   time.Time

	Variation *ProductVariation `gorm:"foreignKey:VariationID"`
	User      *User             `gorm:"foreignKey:UserID"`
}
