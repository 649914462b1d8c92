package model

import (
	"time"

	"github.com/google/uuid"
)

// Supplier provides products to a company. LeadTimeDays drives the preferred
// supplier choice in low-stock alerts.
type Supplier struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"not null"`
	ContactEmail string    `gorm:"not null"`
	LeadTimeDays int       `gorm:"not null;default:7"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Company  *Company  `gorm:"foreignKey:CompanyID"`
	Products []Product `gorm:"many2many:product_suppliers"`
}

// ProductSupplier is the explicit join row linking products to the suppliers
// that can restock them.
type ProductSupplier struct {
	ProductID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	SupplierID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt  time.Time
}

func (ProductSupplier) TableName() string { return "product_suppliers" }
