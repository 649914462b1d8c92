package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type MutateInventoryRequest struct {
	ProductID   string `json:"product_id"   validate:"required,uuid"`
	WarehouseID string `json:"warehouse_id" validate:"required,uuid"`
	// Delta is a nonzero signed unit count. Zero is rejected by the service, not
	// the validator: "required" would also reject legitimate negative values on
	// some client encoders, so the business rule lives in one place.
	Delta          int     `json:"delta"`
	Reason         string  `json:"reason" validate:"required"`
	IdempotencyKey *string `json:"idempotency_key" validate:"omitempty,min=1,max=128"`
}

type TransferStockRequest struct {
	ProductID       string  `json:"product_id"        validate:"required,uuid"`
	FromWarehouseID string  `json:"from_warehouse_id" validate:"required,uuid"`
	ToWarehouseID   string  `json:"to_warehouse_id"   validate:"required,uuid"`
	Quantity        int     `json:"quantity"          validate:"required,min=1"`
	IdempotencyKey  *string `json:"idempotency_key"   validate:"omitempty,min=1,max=128"`
}

type VerifyInventoryRequest struct {
	ProductID   string `json:"product_id"   validate:"required,uuid"`
	WarehouseID string `json:"warehouse_id" validate:"required,uuid"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type LedgerFilter struct {
	ProductID   string `form:"product_id"   validate:"omitempty,uuid"`
	WarehouseID string `form:"warehouse_id" validate:"omitempty,uuid"`
	Reason      string `form:"reason"`
	Page        int    `form:"page,default=1"    validate:"min=1"`
	Limit       int    `form:"limit,default=100" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MutationResponse struct {
	ProductID     string `json:"product_id"`
	WarehouseID   string `json:"warehouse_id"`
	Quantity      int    `json:"quantity"`
	LedgerEntryID string `json:"ledger_entry_id"`
	// Replayed is true when an idempotency key matched a previous mutation and
	// the stored result was returned without applying anything.
	Replayed bool `json:"replayed"`
}

type TransferResponse struct {
	ProductID    string `json:"product_id"`
	FromQuantity int    `json:"from_quantity"`
	ToQuantity   int    `json:"to_quantity"`
	OutEntryID   string `json:"out_entry_id"`
	InEntryID    string `json:"in_entry_id"`
}

type LedgerEntryResponse struct {
	ID             string  `json:"id"`
	ProductID      string  `json:"product_id"`
	WarehouseID    string  `json:"warehouse_id"`
	Change         int     `json:"change"`
	Reason         string  `json:"reason"`
	QuantityBefore int     `json:"quantity_before"`
	QuantityAfter  int     `json:"quantity_after"`
	IdempotencyKey *string `json:"idempotency_key,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

type LedgerListResponse struct {
	Data  []LedgerEntryResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

type VerifyInventoryResponse struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	Projected   int    `json:"projected"`
	Recomputed  int    `json:"recomputed"`
	Consistent  bool   `json:"consistent"`
}

// StockLookupResponse is the cached read-only stock snapshot served by SKU.
type StockLookupResponse struct {
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	ProductID string `json:"product_id"`
	// TotalQuantity sums the product's on-hand quantity across all warehouses.
	TotalQuantity int                 `json:"total_quantity"`
	Warehouses    []WarehouseQuantity `json:"warehouses"`
}

type WarehouseQuantity struct {
	WarehouseID   string `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name"`
	Quantity      int    `json:"quantity"`
}
