package repository

import (
	"context"
	"errors"

	"stockpilot/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryRepository manages the projected stock rows. All writes happen
// inside caller-owned transactions so the projection and the ledger commit as
// one unit.
type InventoryRepository interface {
	// LockForUpdateTx loads the inventory row for a (product, warehouse) pair
	// under a row-level FOR UPDATE lock, creating the row with quantity 0 when
	// it does not exist yet. Concurrent mutations on the same pair serialize on
	// this lock; different pairs proceed in parallel.
	LockForUpdateTx(tx *gorm.DB, productID, warehouseID uuid.UUID) (*model.Inventory, error)
	SetQuantityTx(tx *gorm.DB, id uuid.UUID, quantity int) error
	FindByKey(ctx context.Context, productID, warehouseID uuid.UUID) (*model.Inventory, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.Inventory, error)
	// ListByCompany returns all inventory rows of a company with Product and
	// Warehouse preloaded (the alert engine's working set).
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]model.Inventory, error)
	// SampleKeys returns up to limit (product, warehouse) pairs for the
	// background consistency scan.
	SampleKeys(ctx context.Context, limit int) ([]model.Inventory, error)
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepository(db *gorm.DB) InventoryRepository { return &inventoryRepo{db: db} }

func (r *inventoryRepo) LockForUpdateTx(tx *gorm.DB, productID, warehouseID uuid.UUID) (*model.Inventory, error) {
	var inv model.Inventory
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		First(&inv).Error
	if err == nil {
		return &inv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Lazy creation on first stock event. ON CONFLICT DO NOTHING absorbs the
	// race where two first-event mutations insert simultaneously; the re-select
	// then blocks on whichever row won.
	seed := model.Inventory{ProductID: productID, WarehouseID: warehouseID, Quantity: 0}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return nil, err
	}
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		First(&inv).Error
	return &inv, err
}

func (r *inventoryRepo) SetQuantityTx(tx *gorm.DB, id uuid.UUID, quantity int) error {
	return tx.Model(&model.Inventory{}).Where("id = ?", id).Update("quantity", quantity).Error
}

func (r *inventoryRepo) FindByKey(ctx context.Context, productID, warehouseID uuid.UUID) (*model.Inventory, error) {
	var inv model.Inventory
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		First(&inv).Error
	return &inv, err
}

func (r *inventoryRepo) FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.Inventory, error) {
	var rows []model.Inventory
	err := r.db.WithContext(ctx).Preload("Warehouse").
		Where("product_id = ?", productID).
		Order("warehouse_id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *inventoryRepo) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]model.Inventory, error) {
	var rows []model.Inventory
	err := r.db.WithContext(ctx).
		Preload("Product").Preload("Warehouse").
		Joins("JOIN products ON products.id = inventories.product_id").
		Where("products.company_id = ?", companyID).
		Find(&rows).Error
	return rows, err
}

func (r *inventoryRepo) SampleKeys(ctx context.Context, limit int) ([]model.Inventory, error) {
	var rows []model.Inventory
	err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
