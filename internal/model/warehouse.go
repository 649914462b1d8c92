package model

import (
	"time"

	"github.com/google/uuid"
)

// Warehouse is a physical stock location. Name is unique per company.
type Warehouse struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_company_warehouse_name"`
	Name      string    `gorm:"not null;uniqueIndex:idx_company_warehouse_name"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Company *Company `gorm:"foreignKey:CompanyID"`
}
