package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleStatus is the sale state machine: DRAFT → COMPLETED → CANCELED.
type SaleStatus string

const (
	SaleDraft     SaleStatus = "DRAFT"
	SaleCompleted SaleStatus = "COMPLETED"
	SaleCanceled  SaleStatus = "CANCELED"
)

// PaymentMethod enumerates accepted payment methods.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentCredit PaymentMethod = "CREDIT"
	PaymentDebit  PaymentMethod = "DEBIT"
	PaymentPix    PaymentMethod = "PIX"
	PaymentOther  PaymentMethod = "OTHER"
)

// Sale is the checkout aggregate: header totals plus owned items and payments.
// Totals are derived from the items/payments while the sale is DRAFT and are
// frozen the moment it leaves DRAFT. Canceled sales are soft-deleted
// (Active=false) so financial history is never physically removed.
type Sale struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	CustomerID     *uuid.UUID `gorm:"type:uuid;index"`
	CashRegisterID *uuid.UUID `gorm:"type:uuid;index"`
	Status         SaleStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`

	GrossAmount    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	NetAmount      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	ChangeAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`

	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	CompletedAt *time.Time

	User         *User         `gorm:"foreignKey:UserID"`
	Customer     *Customer     `gorm:"foreignKey:CustomerID"`
	CashRegister *CashRegister `gorm:"foreignKey:CashRegisterID"`
	Items        []SaleItem    `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	Payments     []SalePayment `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// RecalculateTotals recomputes gross and net from the loaded items.
// It is a no-op once the sale has left DRAFT, preserving historical totals.
// Item → sale aggregation is push-based: every item/payment mutator calls this.
func (s *Sale) RecalculateTotals() {
	if s.Status != SaleDraft {
		return
	}
	gross := decimal.Zero
	for _, item := range s.Items {
		gross = gross.Add(item.TotalPrice)
	}
	s.GrossAmount = gross
	net := gross.Sub(s.DiscountAmount)
	if net.IsNegative() {
		net = decimal.Zero
	}
	s.NetAmount = net
}

// TotalPaid sums all registered payments.
func (s *Sale) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// RemainingBalance is the amount still owed, never negative.
func (s *Sale) RemainingBalance() decimal.Decimal {
	remaining := s.NetAmount.Sub(s.TotalPaid())
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsFullyPaid reports whether payments cover the net amount.
func (s *Sale) IsFullyPaid() bool {
	return s.TotalPaid().GreaterThanOrEqual(s.NetAmount)
}

// ChangePreview is the cash to hand back if the sale completed now.
func (s *Sale) ChangePreview() decimal.Decimal {
	change := s.TotalPaid().Sub(s.NetAmount)
	if change.IsNegative() {
		return decimal.Zero
	}
	return change
}

// CashReceived sums CASH payments only — used for drawer reconciliation.
func (s *Sale) CashReceived() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Payments {
		if p.Method == PaymentCash {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// SaleItem is one line of a sale. Unit price and discount are snapshots taken
// when the line is created; they are never recomputed from the live catalog.
// A variation appears at most once per sale — quantity accumulates instead.
type SaleItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_sale_variation"`
	VariationID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_sale_variation"`
	Quantity    int64           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Discount    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Variation *ProductVariation `gorm:"foreignKey:VariationID"`
}

// ComputeTotal derives the line total: max(unitPrice*qty - discount, 0).
func (i *SaleItem) ComputeTotal() {
	total := i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity)).Sub(i.Discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	i.TotalPrice = total
}

// SalePayment is one partial payment toward a sale.
// Creation is forbidden once the owning sale leaves DRAFT.
type SalePayment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Method    PaymentMethod   `gorm:"type:varchar(20);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time
}
