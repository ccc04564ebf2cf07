package dto

import "github.com/shopspring/decimal"

// ─── Catalog lookups ─────────────────────────────────────────────────────────

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=2"`
	Description *string `json:"description"`
}

type CreateColorRequest struct {
	Name string `json:"name" validate:"required"`
}

type CreateSizeRequest struct {
	Name string `json:"name" validate:"required"`
	Code string `json:"code" validate:"required,max=10"`
}

type CreateSupplierRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

type LookupResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// ─── Products ────────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name         string          `json:"name"          validate:"required,min=2"`
	Description  *string         `json:"description"`
	CostPrice    decimal.Decimal `json:"cost_price"    validate:"min=0"`
	SellingPrice decimal.Decimal `json:"selling_price" validate:"min=0"`
	CategoryID   string          `json:"category_id"   validate:"required,uuid"`
	SupplierID   string          `json:"supplier_id"   validate:"required,uuid"`
}

type UpdateProductRequest struct {
	Name         *string          `json:"name"          validate:"omitempty,min=2"`
	Description  *string          `json:"description"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	CategoryID   *string          `json:"category_id"   validate:"omitempty,uuid"`
	SupplierID   *string          `json:"supplier_id"   validate:"omitempty,uuid"`
}

type ProductFilter struct {
	Query  string `form:"q"`      // matches name, category name, or variation SKU
	Active string `form:"active"` // "false" | "all" | default active
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=10" validate:"min=1,max=100"`
}

type VariationResponse struct {
	ID           string `json:"id"`
	SKU          string `json:"sku"`
	Stock        int64  `json:"stock"`
	MinimumStock int64  `json:"minimum_stock"`
	Color        string `json:"color"`
	Size         string `json:"size"`
}

type ProductResponse struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Description  *string             `json:"description"`
	CostPrice    decimal.Decimal     `json:"cost_price"`
	SellingPrice decimal.Decimal     `json:"selling_price"`
	ProfitMargin decimal.Decimal     `json:"profit_margin"`
	Category     string              `json:"category"`
	Supplier     string              `json:"supplier"`
	TotalStock   int64               `json:"total_stock"`
	Active       bool                `json:"active"`
	Variations   []VariationResponse `json:"variations"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// ─── Variations ──────────────────────────────────────────────────────────────

type CreateVariationRequest struct {
	ProductID    string `json:"product_id"    validate:"required,uuid"`
	ColorID      string `json:"color_id"      validate:"required,uuid"`
	SizeID       string `json:"size_id"       validate:"required,uuid"`
	MinimumStock int64  `json:"minimum_stock" validate:"min=0"`
}

// ─── Price check ─────────────────────────────────────────────────────────────

type PriceCheckResponse struct {
	SKU          string          `json:"sku"`
	Product      string          `json:"product"`
	Color        string          `json:"color"`
	Size         string          `json:"size"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Stock        int64           `json:"stock"`
}
