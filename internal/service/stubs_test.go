package service_test

// In-memory repository stubs shared by the service tests. The GORM-free
// implementations exercise every service rule; transactional behavior against
// real Postgres is covered by the e2e suite.

import (
	"context"
	"sort"
	"strings"
	"time"

	"stockpilot/internal/dto"
	"stockpilot/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── ProductRepository ─────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) CreateTx(_ *gorm.DB, p *model.Product) error {
	for _, existing := range r.products {
		if existing.SKU == p.SKU {
			return gorm.ErrDuplicatedKey
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, companyID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var result []model.Product
	for _, p := range r.products {
		if p.CompanyID != companyID {
			continue
		}
		if filter.Active != "all" && filter.Active != "false" && !p.IsActive {
			continue
		}
		if filter.Active == "false" && p.IsActive {
			continue
		}
		if filter.SKU != "" && p.SKU != filter.SKU {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Name)) {
			continue
		}
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.IsActive = false
	return nil
}

func (r *stubProductRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.IsActive = true
	return nil
}

// DB returns nil: runTx then executes the callback without a transaction, so
// services run against the stubs directly.
func (r *stubProductRepo) DB() *gorm.DB { return nil }

// ── WarehouseRepository ───────────────────────────────────────────────────────

type stubWarehouseRepo struct {
	warehouses map[uuid.UUID]*model.Warehouse
}

func newStubWarehouseRepo() *stubWarehouseRepo {
	return &stubWarehouseRepo{warehouses: make(map[uuid.UUID]*model.Warehouse)}
}

func (r *stubWarehouseRepo) Create(_ context.Context, w *model.Warehouse) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	r.warehouses[w.ID] = w
	return nil
}

func (r *stubWarehouseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Warehouse, error) {
	w, ok := r.warehouses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return w, nil
}

func (r *stubWarehouseRepo) ListByCompany(_ context.Context, companyID uuid.UUID) ([]model.Warehouse, error) {
	var result []model.Warehouse
	for _, w := range r.warehouses {
		if w.CompanyID == companyID {
			result = append(result, *w)
		}
	}
	return result, nil
}

// ── InventoryRepository ───────────────────────────────────────────────────────

type invKey struct{ productID, warehouseID uuid.UUID }

type stubInventoryRepo struct {
	rows     map[invKey]*model.Inventory
	products *stubProductRepo

	// failSetQuantity forces the next SetQuantityTx to error, for testing
	// error propagation out of multi-step transactions.
	failSetQuantity error
}

func newStubInventoryRepo(products *stubProductRepo) *stubInventoryRepo {
	return &stubInventoryRepo{rows: make(map[invKey]*model.Inventory), products: products}
}

func (r *stubInventoryRepo) LockForUpdateTx(_ *gorm.DB, productID, warehouseID uuid.UUID) (*model.Inventory, error) {
	key := invKey{productID, warehouseID}
	if inv, ok := r.rows[key]; ok {
		return inv, nil
	}
	inv := &model.Inventory{
		ID:          uuid.New(),
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    0,
	}
	r.rows[key] = inv
	return inv, nil
}

func (r *stubInventoryRepo) SetQuantityTx(_ *gorm.DB, id uuid.UUID, quantity int) error {
	if r.failSetQuantity != nil {
		err := r.failSetQuantity
		r.failSetQuantity = nil
		return err
	}
	for _, inv := range r.rows {
		if inv.ID == id {
			inv.Quantity = quantity
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubInventoryRepo) FindByKey(_ context.Context, productID, warehouseID uuid.UUID) (*model.Inventory, error) {
	inv, ok := r.rows[invKey{productID, warehouseID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return inv, nil
}

func (r *stubInventoryRepo) FindByProduct(_ context.Context, productID uuid.UUID) ([]model.Inventory, error) {
	var result []model.Inventory
	for _, inv := range r.rows {
		if inv.ProductID == productID {
			result = append(result, *inv)
		}
	}
	return result, nil
}

func (r *stubInventoryRepo) ListByCompany(_ context.Context, companyID uuid.UUID) ([]model.Inventory, error) {
	var result []model.Inventory
	for _, inv := range r.rows {
		row := *inv
		p, ok := r.products.products[inv.ProductID]
		if ok {
			if p.CompanyID != companyID {
				continue
			}
			row.Product = p
		}
		// A dangling product stays nil, like a Preload miss.
		if row.Warehouse == nil {
			row.Warehouse = &model.Warehouse{ID: inv.WarehouseID, CompanyID: companyID, Name: "wh"}
		}
		result = append(result, row)
	}
	// Deterministic order for assertions
	sort.Slice(result, func(i, j int) bool { return result[i].ID.String() < result[j].ID.String() })
	return result, nil
}

func (r *stubInventoryRepo) SampleKeys(_ context.Context, limit int) ([]model.Inventory, error) {
	var result []model.Inventory
	for _, inv := range r.rows {
		if len(result) >= limit {
			break
		}
		result = append(result, *inv)
	}
	return result, nil
}

// ── LedgerRepository ──────────────────────────────────────────────────────────

type stubLedgerRepo struct {
	entries []*model.LedgerEntry

	failCreate error
}

func newStubLedgerRepo() *stubLedgerRepo { return &stubLedgerRepo{} }

func (r *stubLedgerRepo) CreateTx(_ *gorm.DB, e *model.LedgerEntry) error {
	if r.failCreate != nil {
		err := r.failCreate
		r.failCreate = nil
		return err
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()
	r.entries = append(r.entries, e)
	return nil
}

func (r *stubLedgerRepo) FindByIdempotencyKeyTx(_ *gorm.DB, productID, warehouseID uuid.UUID, key string) (*model.LedgerEntry, error) {
	for _, e := range r.entries {
		if e.ProductID == productID && e.WarehouseID == warehouseID &&
			e.IdempotencyKey != nil && *e.IdempotencyKey == key {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubLedgerRepo) SumChanges(_ context.Context, productID, warehouseID uuid.UUID) (int, error) {
	sum := 0
	for _, e := range r.entries {
		if e.ProductID == productID && e.WarehouseID == warehouseID {
			sum += e.Change
		}
	}
	return sum, nil
}

func (r *stubLedgerRepo) List(_ context.Context, _ uuid.UUID, filter dto.LedgerFilter) ([]model.LedgerEntry, int64, error) {
	var result []model.LedgerEntry
	for _, e := range r.entries {
		if filter.ProductID != "" && e.ProductID.String() != filter.ProductID {
			continue
		}
		if filter.WarehouseID != "" && e.WarehouseID.String() != filter.WarehouseID {
			continue
		}
		if filter.Reason != "" && e.Reason != filter.Reason {
			continue
		}
		result = append(result, *e)
	}
	return result, int64(len(result)), nil
}

// ── SaleRepository ────────────────────────────────────────────────────────────

type stubSaleRepo struct {
	sales []*model.Sale
}

func newStubSaleRepo() *stubSaleRepo { return &stubSaleRepo{} }

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	for i := range s.Items {
		if s.Items[i].ID == uuid.Nil {
			s.Items[i].ID = uuid.New()
		}
		s.Items[i].SaleID = s.ID
	}
	r.sales = append(r.sales, s)
	return nil
}

func (r *stubSaleRepo) FindByClientRef(_ context.Context, companyID uuid.UUID, ref string) (*model.Sale, error) {
	for _, s := range r.sales {
		if s.CompanyID == companyID && s.ClientRef != nil && *s.ClientRef == ref {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSaleRepo) SumItemQuantity(_ context.Context, companyID, productID uuid.UUID, since, until time.Time) (int64, int64, error) {
	var sum, rows int64
	for _, s := range r.sales {
		if s.CompanyID != companyID || s.SoldAt.Before(since) || !s.SoldAt.Before(until) {
			continue
		}
		for _, item := range s.Items {
			if item.ProductID == productID {
				sum += int64(item.Quantity)
				rows++
			}
		}
	}
	return sum, rows, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

// ── SupplierRepository ────────────────────────────────────────────────────────

type stubSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
	links     map[uuid.UUID][]uuid.UUID // productID → supplierIDs
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{
		suppliers: make(map[uuid.UUID]*model.Supplier),
		links:     make(map[uuid.UUID][]uuid.UUID),
	}
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) ListByCompany(_ context.Context, companyID uuid.UUID) ([]model.Supplier, error) {
	var result []model.Supplier
	for _, s := range r.suppliers {
		if s.CompanyID == companyID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (r *stubSupplierRepo) Link(_ context.Context, productID, supplierID uuid.UUID) error {
	for _, id := range r.links[productID] {
		if id == supplierID {
			return nil
		}
	}
	r.links[productID] = append(r.links[productID], supplierID)
	return nil
}

func (r *stubSupplierRepo) PreferredForProduct(_ context.Context, productID uuid.UUID) (*model.Supplier, error) {
	ids := r.links[productID]
	if len(ids) == 0 {
		return nil, nil
	}
	linked := make([]*model.Supplier, 0, len(ids))
	for _, id := range ids {
		if s, ok := r.suppliers[id]; ok {
			linked = append(linked, s)
		}
	}
	sort.Slice(linked, func(i, j int) bool {
		if linked[i].LeadTimeDays != linked[j].LeadTimeDays {
			return linked[i].LeadTimeDays < linked[j].LeadTimeDays
		}
		return linked[i].ID.String() < linked[j].ID.String()
	})
	return linked[0], nil
}
