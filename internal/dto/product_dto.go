package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name        string          `json:"name"         validate:"required,min=2,max=120"`
	SKU         string          `json:"sku"          validate:"required,min=2,max=64"`
	Price       decimal.Decimal `json:"price"        validate:"required"`
	ProductType string          `json:"product_type"`
	// LowStockThreshold overrides the product-type default for alerting.
	LowStockThreshold *int `json:"low_stock_threshold" validate:"omitempty,min=0"`
	// Optional initial stock: both fields must be given together.
	WarehouseID     *string `json:"warehouse_id"     validate:"omitempty,uuid"`
	InitialQuantity *int    `json:"initial_quantity" validate:"omitempty,min=1"`
}

type UpdateProductRequest struct {
	Name              *string          `json:"name"  validate:"omitempty,min=2,max=120"`
	Price             *decimal.Decimal `json:"price"`
	ProductType       *string          `json:"product_type"`
	LowStockThreshold *int             `json:"low_stock_threshold" validate:"omitempty,min=0"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	SKU         string `form:"sku"`
	Name        string `form:"name"`
	ProductType string `form:"product_type"`
	Active      string `form:"active"` // "false" = inactive, "all" = everything, default active
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	SKU               string          `json:"sku"`
	Price             decimal.Decimal `json:"price"`
	ProductType       string          `json:"product_type"`
	LowStockThreshold *int            `json:"low_stock_threshold"`
	IsActive          bool            `json:"is_active"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
