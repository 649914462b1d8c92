package repository

import (
	"context"
	"errors"

	"stockpilot/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SupplierRepository interface {
	Create(ctx context.Context, s *model.Supplier) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]model.Supplier, error)
	Link(ctx context.Context, productID, supplierID uuid.UUID) error
	// PreferredForProduct returns the linked supplier with the shortest lead
	// time, ties broken by ascending id so the choice is deterministic.
	// Returns nil (no error) when the product has no linked suppliers.
	PreferredForProduct(ctx context.Context, productID uuid.UUID) (*model.Supplier, error)
}

type supplierRepo struct{ db *gorm.DB }

func NewSupplierRepository(db *gorm.DB) SupplierRepository { return &supplierRepo{db: db} }

func (r *supplierRepo) Create(ctx context.Context, s *model.Supplier) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *supplierRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	var s model.Supplier
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *supplierRepo) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepo) Link(ctx context.Context, productID, supplierID uuid.UUID) error {
	link := model.ProductSupplier{ProductID: productID, SupplierID: supplierID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

func (r *supplierRepo) PreferredForProduct(ctx context.Context, productID uuid.UUID) (*model.Supplier, error) {
	var s model.Supplier
	err := r.db.WithContext(ctx).
		Joins("JOIN product_suppliers ON product_suppliers.supplier_id = suppliers.id").
		Where("product_suppliers.product_id = ?", productID).
		Order("suppliers.lead_time_days ASC, suppliers.id ASC").
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
