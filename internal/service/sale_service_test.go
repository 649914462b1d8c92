package service_test

import (
	"context"
	"testing"

	"stockpilot/internal/dto"
	"stockpilot/internal/model"
	"stockpilot/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saleFixture struct {
	companyID   uuid.UUID
	product     *model.Product
	warehouse   *model.Warehouse
	sales       *stubSaleRepo
	ledger      *stubLedgerRepo
	inventories *stubInventoryRepo
	inventory   service.InventoryService
	svc         service.SaleService
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	companyID := uuid.New()

	products := newStubProductRepo()
	warehouses := newStubWarehouseRepo()
	inventories := newStubInventoryRepo(products)
	ledger := newStubLedgerRepo()
	sales := newStubSaleRepo()

	product := &model.Product{ID: uuid.New(), CompanyID: companyID, Name: "Widget", SKU: "WIDGET-1", IsActive: true}
	warehouse := &model.Warehouse{ID: uuid.New(), CompanyID: companyID, Name: "Main"}
	require.NoError(t, products.Create(context.Background(), product))
	require.NoError(t, warehouses.Create(context.Background(), warehouse))

	inventorySvc := service.NewInventoryService(products, warehouses, inventories, ledger, true)
	// Seed stock.
	_, err := inventorySvc.ApplyChange(context.Background(), companyID, dto.MutateInventoryRequest{
		ProductID:   product.ID.String(),
		WarehouseID: warehouse.ID.String(),
		Delta:       100,
		Reason:      model.ReasonInitialStock,
	})
	require.NoError(t, err)

	return &saleFixture{
		companyID:   companyID,
		product:     product,
		warehouse:   warehouse,
		sales:       sales,
		ledger:      ledger,
		inventories: inventories,
		inventory:   inventorySvc,
		svc:         service.NewSaleService(sales, products, warehouses, inventorySvc),
	}
}

func TestRecordSale_DeductsStockAndWritesLedger(t *testing.T) {
	f := newSaleFixture(t)

	resp, err := f.svc.RecordSale(context.Background(), f.companyID, dto.RecordSaleRequest{
		WarehouseID: f.warehouse.ID.String(),
		Items:       []dto.SaleItemRequest{{ProductID: f.product.ID.String(), Quantity: 3}},
	})
	require.NoError(t, err)
	assert.False(t, resp.Replayed)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 3, resp.Items[0].Quantity)

	qty, err := f.inventory.CurrentQuantity(context.Background(), f.companyID, f.product.ID, f.warehouse.ID)
	require.NoError(t, err)
	assert.Equal(t, 97, qty)

	last := f.ledger.entries[len(f.ledger.entries)-1]
	assert.Equal(t, model.ReasonSale, last.Reason)
	assert.Equal(t, -3, last.Change)
}

func TestRecordSale_ClientRefDeduplicates(t *testing.T) {
	f := newSaleFixture(t)
	ref := "pos-7f3a"
	req := dto.RecordSaleRequest{
		WarehouseID: f.warehouse.ID.String(),
		Items:       []dto.SaleItemRequest{{ProductID: f.product.ID.String(), Quantity: 5}},
		ClientRef:   &ref,
	}

	first, err := f.svc.RecordSale(context.Background(), f.companyID, req)
	require.NoError(t, err)
	assert.False(t, first.Replayed)

	second, err := f.svc.RecordSale(context.Background(), f.companyID, req)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.ID, second.ID)

	// Stock deducted exactly once.
	qty, err := f.inventory.CurrentQuantity(context.Background(), f.companyID, f.product.ID, f.warehouse.ID)
	require.NoError(t, err)
	assert.Equal(t, 95, qty)
	assert.Len(t, f.sales.sales, 1)
}

func TestRecordSale_ClientRefScopedPerCompany(t *testing.T) {
	products := newStubProductRepo()
	warehouses := newStubWarehouseRepo()
	inventories := newStubInventoryRepo(products)
	ledger := newStubLedgerRepo()
	sales := newStubSaleRepo()

	inventorySvc := service.NewInventoryService(products, warehouses, inventories, ledger, true)
	svc := service.NewSaleService(sales, products, warehouses, inventorySvc)

	ref := "pos-shared-1"
	for _, companyID := range []uuid.UUID{uuid.New(), uuid.New()} {
		product := &model.Product{ID: uuid.New(), CompanyID: companyID, Name: "Widget", SKU: "WIDGET-" + companyID.String()[:8], IsActive: true}
		warehouse := &model.Warehouse{ID: uuid.New(), CompanyID: companyID, Name: "Main"}
		require.NoError(t, products.Create(context.Background(), product))
		require.NoError(t, warehouses.Create(context.Background(), warehouse))
		_, err := inventorySvc.ApplyChange(context.Background(), companyID, dto.MutateInventoryRequest{
			ProductID:   product.ID.String(),
			WarehouseID: warehouse.ID.String(),
			Delta:       10,
			Reason:      model.ReasonInitialStock,
		})
		require.NoError(t, err)

		// The same client reference under a different company is a new sale,
		// not a replay.
		resp, err := svc.RecordSale(context.Background(), companyID, dto.RecordSaleRequest{
			WarehouseID: warehouse.ID.String(),
			Items:       []dto.SaleItemRequest{{ProductID: product.ID.String(), Quantity: 2}},
			ClientRef:   &ref,
		})
		require.NoError(t, err)
		assert.False(t, resp.Replayed)
	}
	assert.Len(t, sales.sales, 2)
}

func TestRecordSale_InsufficientStock(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.svc.RecordSale(context.Background(), f.companyID, dto.RecordSaleRequest{
		WarehouseID: f.warehouse.ID.String(),
		Items:       []dto.SaleItemRequest{{ProductID: f.product.ID.String(), Quantity: 101}},
	})
	require.ErrorIs(t, err, service.ErrNegativeStock)
}

func TestRecordSale_InactiveProductRejected(t *testing.T) {
	f := newSaleFixture(t)
	f.product.IsActive = false

	_, err := f.svc.RecordSale(context.Background(), f.companyID, dto.RecordSaleRequest{
		WarehouseID: f.warehouse.ID.String(),
		Items:       []dto.SaleItemRequest{{ProductID: f.product.ID.String(), Quantity: 1}},
	})
	require.ErrorIs(t, err, service.ErrValidation)
}

func TestRecordSale_CrossCompanyWarehouseRejected(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.svc.RecordSale(context.Background(), uuid.New(), dto.RecordSaleRequest{
		WarehouseID: f.warehouse.ID.String(),
		Items:       []dto.SaleItemRequest{{ProductID: f.product.ID.String(), Quantity: 1}},
	})
	require.ErrorIs(t, err, service.ErrCrossCompany)
}

func TestRecordSale_InvalidSoldAt(t *testing.T) {
	f := newSaleFixture(t)
	bad := "yesterday"

	_, err := f.svc.RecordSale(context.Background(), f.companyID, dto.RecordSaleRequest{
		WarehouseID: f.warehouse.ID.String(),
		Items:       []dto.SaleItemRequest{{ProductID: f.product.ID.String(), Quantity: 1}},
		SoldAt:      &bad,
	})
	require.ErrorIs(t, err, service.ErrValidation)
}
