package dto

import "github.com/shopspring/decimal"

type AddStockRequest struct {
	VariationID string           `json:"variation_id" validate:"required,uuid"`
	Quantity    int64            `json:"quantity"     validate:"required,min=1"`
	Type        string           `json:"type"         validate:"required,oneof=IN ADJUST_IN RETURN"`
	UnitPrice   *decimal.Decimal `json:"unit_price"   validate:"required"`
	Notes       *string          `json:"notes"`
}

type RemoveStockRequest struct {
	VariationID string  `json:"variation_id" validate:"required,uuid"`
	Quantity    int64   `json:"quantity"     validate:"required,min=1"`
	Type        string  `json:"type"         validate:"required,oneof=OUT ADJUST_OUT"`
	Notes       *string `json:"notes"`
}

// VariationSnapshot is the post-movement state returned by stock operations.
type VariationSnapshot struct {
	ID           string `json:"id"`
	SKU          string `json:"sku"`
	Stock        int64  `json:"stock"`
	MinimumStock int64  `json:"minimum_stock"`
}

type MovementFilter struct {
	VariationID string `form:"variation_id" validate:"omitempty,uuid"`
	Type        string `form:"type"         validate:"omitempty,oneof=IN OUT ADJUST_IN ADJUST_OUT SALE RETURN"`
	From        string `form:"from"         validate:"omitempty,datetime=2006-01-02"`
	To          string `form:"to"           validate:"omitempty,datetime=2006-01-02"`
	Page        int    `form:"page,default=1"    validate:"min=1"`
	Limit       int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type MovementResponse struct {
	ID        string           `json:"id"`
	SKU       string           `json:"sku"`
	Type      string           `json:"type"`
	Quantity  int64            `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Notes     *string          `json:"notes"`
	UserID    string           `json:"user_id"`
	CreatedAt string           `json:"created_at"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type LowStockAlertResponse struct {
	SKU          string `json:"sku"`
	Product      string `json:"product"`
	Stock        int64  `json:"stock"`
	MinimumStock int64  `json:"minimum_stock"`
}
