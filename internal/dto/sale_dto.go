package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type RecordSaleRequest struct {
	WarehouseID string            `json:"warehouse_id" validate:"required,uuid"`
	Items       []SaleItemRequest `json:"items"        validate:"required,min=1,dive"`
	// ClientRef deduplicates retried submissions: a sale with an already-seen
	// ref returns the stored result instead of double-deducting stock.
	ClientRef *string `json:"client_ref" validate:"omitempty,min=1,max=128"`
	SoldAt    *string `json:"sold_at"    validate:"omitempty"` // RFC 3339; defaults to now
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID string `json:"product_id"`
	Product   string `json:"product"`
	Quantity  int    `json:"quantity"`
}

type SaleResponse struct {
	ID       string             `json:"id"`
	SoldAt   string             `json:"sold_at"`
	Items    []SaleItemResponse `json:"items"`
	Replayed bool               `json:"replayed"`
}
