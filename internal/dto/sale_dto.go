package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateSaleRequest struct {
	CashRegisterID string  `json:"cash_register_id" validate:"required,uuid"`
	CustomerID     *string `json:"customer_id"      validate:"omitempty,uuid"`
}

type AddItemRequest struct {
	SKU      string `json:"sku"      validate:"required"`
	Quantity int64  `json:"quantity" validate:"required,min=1"`
}

type AddPaymentRequest struct {
	Method string          `json:"method" validate:"required,oneof=CASH CREDIT DEBIT PIX OTHER"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

type ApplyDiscountRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

type CancelSaleRequest struct {
	Reason string `json:"reason"`
}

type SaleFilter struct {
	Date    string `form:"date"`                     // YYYY-MM-DD; empty = today
	Status  string `form:"status,default=COMPLETED"` // DRAFT | COMPLETED | CANCELED | all
	Include string `form:"include"`                  // "inactive" shows canceled (soft-deleted) sales
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ID         string          `json:"id"`
	SKU        string          `json:"sku"`
	Product    string          `json:"product"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Discount   decimal.Decimal `json:"discount"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type SalePaymentResponse struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

type SaleResponse struct {
	ID               string                `json:"id"`
	Status           string                `json:"status"`
	CustomerID       *string               `json:"customer_id"`
	CashRegisterID   *string               `json:"cash_register_id"`
	Items            []SaleItemResponse    `json:"items"`
	Payments         []SalePaymentResponse `json:"payments"`
	GrossAmount      decimal.Decimal       `json:"gross_amount"`
	DiscountAmount   decimal.Decimal       `json:"discount_amount"`
	NetAmount        decimal.Decimal       `json:"net_amount"`
	TotalPaid        decimal.Decimal       `json:"total_paid"`
	RemainingBalance decimal.Decimal       `json:"remaining_balance"`
	ChangeAmount     decimal.Decimal       `json:"change_amount"`
	CreatedAt        string                `json:"created_at"`
	CompletedAt      *string               `json:"completed_at"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
