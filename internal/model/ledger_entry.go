package model

import (
	"time"

	"github.com/google/uuid"
)

// Ledger entry reasons. Corrections are new offsetting entries, never updates.
const (
	ReasonInitialStock = "INITIAL_STOCK"
	ReasonSale         = "SALE"
	ReasonRestock      = "RESTOCK"
	ReasonAdjustment   = "ADJUSTMENT"
	ReasonTransferIn   = "TRANSFER_IN"
	ReasonTransferOut  = "TRANSFER_OUT"
)

// ValidReason reports whether reason is one of the enumerated ledger reasons.
func ValidReason(reason string) bool {
	switch reason {
	case ReasonInitialStock, ReasonSale, ReasonRestock,
		ReasonAdjustment, ReasonTransferIn, ReasonTransferOut:
		return true
	}
	return false
}

// LedgerEntry records one inventory quantity change. Append-only: rows are
// written exactly once per mutation and persist forever.
// QuantityBefore/QuantityAfter capture the projection around the change so an
// idempotent retry can return the originally recorded result.
type LedgerEntry struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ledger_idempotency;index:idx_ledger_key"`
	WarehouseID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ledger_idempotency;index:idx_ledger_key"`
	Change         int       `gorm:"not null"` // positive = inbound, negative = outbound
	Reason         string    `gorm:"not null"`
	QuantityBefore int       `gorm:"not null"`
	QuantityAfter  int       `gorm:"not null"`
	IdempotencyKey *string   `gorm:"uniqueIndex:idx_ledger_idempotency"`
	CreatedAt      time.Time

	Product   *Product   `gorm:"foreignKey:ProductID"`
	Warehouse *Warehouse `gorm:"foreignKey:WarehouseID"`
}

func (LedgerEntry) TableName() string { return "ledger_entries" }
