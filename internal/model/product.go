package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable item definition. It is not tied to a warehouse: stock
// lives in Inventory rows, zero or more per product.
// SKU is globally unique (single constraint across tenants — matches the
// upstream schema; see DESIGN.md for the scoping decision).
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name        string          `gorm:"index;not null"`
	SKU         string          `gorm:"column:sku;uniqueIndex;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ProductType string          `gorm:"not null;default:'standard'"`
	// LowStockThreshold overrides the type default when set.
	LowStockThreshold *int
	IsActive          bool `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Company   *Company   `gorm:"foreignKey:CompanyID"`
	Suppliers []Supplier `gorm:"many2many:product_suppliers"`
}
