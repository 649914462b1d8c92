package model

import (
	"time"

	"github.com/google/uuid"
)

// Sale is a demand signal: one completed order for a company.
type Sale struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_sales_company_client_ref"`
	// ClientRef deduplicates retried submissions from offline-capable clients,
	// scoped per company so tenants may reuse the same reference.
	ClientRef *string   `gorm:"uniqueIndex:idx_sales_company_client_ref"`
	SoldAt    time.Time `gorm:"not null;index"`
	CreatedAt time.Time

	Company *Company   `gorm:"foreignKey:CompanyID"`
	Items   []SaleItem `gorm:"foreignKey:SaleID"`
}

// SaleItem is one product line within a sale.
type SaleItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity  int       `gorm:"not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
