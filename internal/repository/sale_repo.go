package repository

import (
	"context"
	"time"

	"stockpilot/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	FindByClientRef(ctx context.Context, companyID uuid.UUID, ref string) (*model.Sale, error)
	// SumItemQuantity totals SaleItem.quantity for a product across the
	// company's sales within [since, until). The row count lets the caller
	// distinguish "no sales history" from "sold zero units" — the demand
	// estimator must never conflate the two.
	SumItemQuantity(ctx context.Context, companyID, productID uuid.UUID, since, until time.Time) (sum int64, rows int64, err error)
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Create(s).Error
}

func (r *saleRepo) FindByClientRef(ctx context.Context, companyID uuid.UUID, ref string) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items.Product").
		Where("company_id = ? AND client_ref = ?", companyID, ref).
		First(&s).Error
	return &s, err
}

func (r *saleRepo) SumItemQuantity(ctx context.Context, companyID, productID uuid.UUID, since, until time.Time) (int64, int64, error) {
	type agg struct {
		Sum  int64
		Rows int64
	}
	var a agg
	err := r.db.WithContext(ctx).Model(&model.SaleItem{}).
		Select("COALESCE(SUM(sale_items.quantity), 0) AS sum, COUNT(*) AS rows").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.company_id = ? AND sale_items.product_id = ?", companyID, productID).
		Where("sales.sold_at >= ? AND sales.sold_at < ?", since, until).
		Scan(&a).Error
	return a.Sum, a.Rows, err
}
