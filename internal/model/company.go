package model

import (
	"time"

	"github.com/google/uuid"
)

// Company is the tenant boundary. Every other entity is scoped to exactly
// one company, directly or through its parent.
type Company struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Warehouses []Warehouse `gorm:"foreignKey:CompanyID"`
	Products   []Product   `gorm:"foreignKey:CompanyID"`
}

func (Company) TableName() string { return "companies" }
