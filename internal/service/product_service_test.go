package service_test

import (
	"context"
	"errors"
	"testing"

	"stockpilot/internal/dto"
	"stockpilot/internal/model"
	"stockpilot/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productFixture struct {
	companyID   uuid.UUID
	warehouse   *model.Warehouse
	products    *stubProductRepo
	warehouses  *stubWarehouseRepo
	inventories *stubInventoryRepo
	ledger      *stubLedgerRepo
	svc         service.ProductService
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	companyID := uuid.New()

	products := newStubProductRepo()
	warehouses := newStubWarehouseRepo()
	inventories := newStubInventoryRepo(products)
	ledger := newStubLedgerRepo()

	warehouse := &model.Warehouse{ID: uuid.New(), CompanyID: companyID, Name: "Main"}
	require.NoError(t, warehouses.Create(context.Background(), warehouse))

	inventorySvc := service.NewInventoryService(products, warehouses, inventories, ledger, true)
	return &productFixture{
		companyID:   companyID,
		warehouse:   warehouse,
		products:    products,
		warehouses:  warehouses,
		inventories: inventories,
		ledger:      ledger,
		svc:         service.NewProductService(products, warehouses, inventorySvc, nil),
	}
}

func TestCreateProduct_WithInitialStock(t *testing.T) {
	f := newProductFixture(t)
	wid := f.warehouse.ID.String()
	qty := 100

	resp, err := f.svc.Create(context.Background(), f.companyID, dto.CreateProductRequest{
		Name:            "Widget",
		SKU:             "WIDGET-1",
		Price:           decimal.NewFromFloat(9.99),
		WarehouseID:     &wid,
		InitialQuantity: &qty,
	})
	require.NoError(t, err)

	pid, err := uuid.Parse(resp.ID)
	require.NoError(t, err)

	// Product created, inventory seeded, INITIAL_STOCK ledger entry written.
	inv, err := f.inventories.FindByKey(context.Background(), pid, f.warehouse.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, inv.Quantity)

	require.Len(t, f.ledger.entries, 1)
	e := f.ledger.entries[0]
	assert.Equal(t, model.ReasonInitialStock, e.Reason)
	assert.Equal(t, 100, e.Change)
	assert.Equal(t, 0, e.QuantityBefore)
	assert.Equal(t, 100, e.QuantityAfter)
}

func TestCreateProduct_WithoutInitialStock(t *testing.T) {
	f := newProductFixture(t)

	resp, err := f.svc.Create(context.Background(), f.companyID, dto.CreateProductRequest{
		Name:  "Gadget",
		SKU:   "GADGET-1",
		Price: decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Empty(t, f.ledger.entries)
	assert.Empty(t, f.inventories.rows)
}

func TestCreateProduct_PartialInitialStockRejected(t *testing.T) {
	f := newProductFixture(t)
	wid := f.warehouse.ID.String()

	_, err := f.svc.Create(context.Background(), f.companyID, dto.CreateProductRequest{
		Name:        "Widget",
		SKU:         "WIDGET-1",
		Price:       decimal.NewFromInt(1),
		WarehouseID: &wid, // initial_quantity missing
	})
	require.ErrorIs(t, err, service.ErrValidation)
}

func TestCreateProduct_DuplicateSKU(t *testing.T) {
	f := newProductFixture(t)

	_, err := f.svc.Create(context.Background(), f.companyID, dto.CreateProductRequest{
		Name: "Widget", SKU: "WIDGET-1", Price: decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), f.companyID, dto.CreateProductRequest{
		Name: "Widget Clone", SKU: "WIDGET-1", Price: decimal.NewFromInt(2),
	})
	require.ErrorIs(t, err, service.ErrDuplicateSKU)
}

func TestCreateProduct_LedgerFailurePropagates(t *testing.T) {
	f := newProductFixture(t)
	wid := f.warehouse.ID.String()
	qty := 10
	f.ledger.failCreate = errors.New("disk full")

	_, err := f.svc.Create(context.Background(), f.companyID, dto.CreateProductRequest{
		Name:            "Widget",
		SKU:             "WIDGET-1",
		Price:           decimal.NewFromInt(1),
		WarehouseID:     &wid,
		InitialQuantity: &qty,
	})
	// The transaction callback fails; against Postgres the product insert
	// rolls back with it.
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestDeactivateAndReactivateProduct(t *testing.T) {
	f := newProductFixture(t)

	resp, err := f.svc.Create(context.Background(), f.companyID, dto.CreateProductRequest{
		Name: "Widget", SKU: "WIDGET-1", Price: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	pid, _ := uuid.Parse(resp.ID)

	require.NoError(t, f.svc.Deactivate(context.Background(), f.companyID, pid))
	p, err := f.products.FindByID(context.Background(), pid)
	require.NoError(t, err)
	assert.False(t, p.IsActive)

	require.NoError(t, f.svc.Reactivate(context.Background(), f.companyID, pid))
	p, err = f.products.FindByID(context.Background(), pid)
	require.NoError(t, err)
	assert.True(t, p.IsActive)
}

func TestGetProduct_CrossCompanyRejected(t *testing.T) {
	f := newProductFixture(t)

	resp, err := f.svc.Create(context.Background(), f.companyID, dto.CreateProductRequest{
		Name: "Widget", SKU: "WIDGET-1", Price: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	pid, _ := uuid.Parse(resp.ID)

	_, err = f.svc.GetByID(context.Background(), uuid.New(), pid)
	require.ErrorIs(t, err, service.ErrCrossCompany)
}
