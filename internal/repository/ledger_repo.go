package repository

import (
	"context"

	"stockpilot/internal/dto"
	"stockpilot/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerRepository is the append-only store of inventory changes. Entries are
// never updated or deleted; corrections are new offsetting entries.
type LedgerRepository interface {
	CreateTx(tx *gorm.DB, e *model.LedgerEntry) error
	// FindByIdempotencyKeyTx looks up a prior entry for the same key within the
	// mutation transaction, after the inventory row lock is held — two
	// concurrent retries cannot both pass the not-yet-seen check.
	FindByIdempotencyKeyTx(tx *gorm.DB, productID, warehouseID uuid.UUID, key string) (*model.LedgerEntry, error)
	// SumChanges folds all entries for a (product, warehouse) pair. Used by the
	// projector's verification path.
	SumChanges(ctx context.Context, productID, warehouseID uuid.UUID) (int, error)
	List(ctx context.Context, companyID uuid.UUID, filter dto.LedgerFilter) ([]model.LedgerEntry, int64, error)
}

type ledgerRepo struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) LedgerRepository { return &ledgerRepo{db: db} }

func (r *ledgerRepo) CreateTx(tx *gorm.DB, e *model.LedgerEntry) error {
	return tx.Create(e).Error
}

func (r *ledgerRepo) FindByIdempotencyKeyTx(tx *gorm.DB, productID, warehouseID uuid.UUID, key string) (*model.LedgerEntry, error) {
	var e model.LedgerEntry
	err := tx.Where("product_id = ? AND warehouse_id = ? AND idempotency_key = ?",
		productID, warehouseID, key).First(&e).Error
	return &e, err
}

func (r *ledgerRepo) SumChanges(ctx context.Context, productID, warehouseID uuid.UUID) (int, error) {
	var sum int
	err := r.db.WithContext(ctx).Model(&model.LedgerEntry{}).
		Select("COALESCE(SUM(change), 0)").
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		Scan(&sum).Error
	return sum, err
}

func (r *ledgerRepo) List(ctx context.Context, companyID uuid.UUID, filter dto.LedgerFilter) ([]model.LedgerEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.LedgerEntry{}).
		Joins("JOIN products ON products.id = ledger_entries.product_id").
		Where("products.company_id = ?", companyID)

	if filter.ProductID != "" {
		q = q.Where("ledger_entries.product_id = ?", filter.ProductID)
	}
	if filter.WarehouseID != "" {
		q = q.Where("ledger_entries.warehouse_id = ?", filter.WarehouseID)
	}
	if filter.Reason != "" {
		q = q.Where("ledger_entries.reason = ?", filter.Reason)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var entries []model.LedgerEntry
	err := q.Order("ledger_entries.created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&entries).Error
	return entries, total, err
}
