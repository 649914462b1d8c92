package model

import (
	"time"

	"github.com/google/uuid"
)

// Inventory is the projected on-hand quantity of one product at one warehouse.
// At most one row per (product, warehouse) pair. Quantity must always equal the
// sum of ledger entry changes for the pair — no code path may touch it without
// writing a LedgerEntry in the same transaction.
// Rows are created lazily on the first stock event and never deleted.
type Inventory struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_warehouse"`
	WarehouseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_warehouse;index"`
	Quantity    int       `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Product   *Product   `gorm:"foreignKey:ProductID"`
	Warehouse *Warehouse `gorm:"foreignKey:WarehouseID"`
}

func (Inventory) TableName() string { return "inventories" }
