package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegisterStatus is the lifecycle state of a cash register session.
type RegisterStatus string

const (
	RegisterOpen   RegisterStatus = "OPEN"
	RegisterClosed RegisterStatus = "CLOSED"
)

// CashRegister is one operator's open-to-close working period.
// A user may have at most one OPEN session at a time — enforced here and by a
// partial unique index on (user_id) WHERE status = 'OPEN' (see infra.NewDatabase).
// Once CLOSED the row is immutable.
type CashRegister struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status         RegisterStatus  `gorm:"type:varchar(10);not null;default:'OPEN'"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// ClosingBalance is the drawer value the operator counts at close time.
	ClosingBalance *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// ExpectedBalance is computed at close: opening + net cash from completed sales.
	ExpectedBalance *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Difference      *decimal.Decimal `gorm:"type:decimal(12,2)"`
	OpenedAt        time.Time
	ClosedAt        *time.Time

	User  *User  `gorm:"foreignKey:UserID"`
	Sales []Sale `gorm:"foreignKey:CashRegisterID"`
}

func (CashRegister) TableName() string { return "cash_registers" }

// IsOpen reports whether sales may still be completed against this session.
func (r *CashRegister) IsOpen() bool { return r.Status == RegisterOpen }
