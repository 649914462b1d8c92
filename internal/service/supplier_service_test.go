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

type supplierFixture struct {
	companyID uuid.UUID
	products  *stubProductRepo
	suppliers *stubSupplierRepo
	svc       service.SupplierService
}

func newSupplierFixture(t *testing.T) *supplierFixture {
	t.Helper()
	products := newStubProductRepo()
	suppliers := newStubSupplierRepo()
	return &supplierFixture{
		companyID: uuid.New(),
		products:  products,
		suppliers: suppliers,
		svc:       service.NewSupplierService(suppliers, products),
	}
}

func (f *supplierFixture) addProduct(t *testing.T, sku string) *model.Product {
	t.Helper()
	p := &model.Product{ID: uuid.New(), CompanyID: f.companyID, SKU: sku, Name: sku, IsActive: true}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func (f *supplierFixture) addSupplier(t *testing.T, name string, leadDays int) *dto.SupplierResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), f.companyID, dto.CreateSupplierRequest{
		Name:         name,
		ContactEmail: "orders@example.com",
		LeadTimeDays: leadDays,
	})
	require.NoError(t, err)
	return resp
}

func TestSupplier_CreateAndList(t *testing.T) {
	f := newSupplierFixture(t)

	f.addSupplier(t, "Acme Wholesale", 3)
	f.addSupplier(t, "Rapid Parts", 1)

	list, err := f.svc.List(context.Background(), f.companyID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	other, err := f.svc.List(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSupplier_LinkAndPreferred(t *testing.T) {
	f := newSupplierFixture(t)
	product := f.addProduct(t, "WIDGET-1")
	slow := f.addSupplier(t, "Slow Co", 14)
	fast := f.addSupplier(t, "Quick Co", 2)

	for _, s := range []*dto.SupplierResponse{slow, fast} {
		require.NoError(t, f.svc.Link(context.Background(), f.companyID, dto.LinkSupplierRequest{
			ProductID:  product.ID.String(),
			SupplierID: s.ID,
		}))
	}

	preferred, err := f.svc.Preferred(context.Background(), f.companyID, product.ID)
	require.NoError(t, err)
	require.NotNil(t, preferred)
	assert.Equal(t, fast.ID, preferred.ID)
}

func TestSupplier_PreferredWithoutLinksIsNil(t *testing.T) {
	f := newSupplierFixture(t)
	product := f.addProduct(t, "LONER-1")

	preferred, err := f.svc.Preferred(context.Background(), f.companyID, product.ID)
	require.NoError(t, err)
	assert.Nil(t, preferred)
}

func TestSupplier_LinkRejectsCrossCompany(t *testing.T) {
	f := newSupplierFixture(t)
	product := f.addProduct(t, "MINE-1")
	supplier := f.addSupplier(t, "Mine Co", 5)

	// A supplier belonging to a different company must not be linkable.
	foreign := &model.Supplier{ID: uuid.New(), CompanyID: uuid.New(), Name: "Theirs", LeadTimeDays: 1}
	require.NoError(t, f.suppliers.Create(context.Background(), foreign))

	err := f.svc.Link(context.Background(), f.companyID, dto.LinkSupplierRequest{
		ProductID:  product.ID.String(),
		SupplierID: foreign.ID.String(),
	})
	assert.ErrorIs(t, err, service.ErrCrossCompany)

	// Same for a foreign product with an owned supplier.
	foreignProduct := &model.Product{ID: uuid.New(), CompanyID: uuid.New(), SKU: "THEIRS-1", IsActive: true}
	require.NoError(t, f.products.Create(context.Background(), foreignProduct))

	err = f.svc.Link(context.Background(), f.companyID, dto.LinkSupplierRequest{
		ProductID:  foreignProduct.ID.String(),
		SupplierID: supplier.ID,
	})
	assert.ErrorIs(t, err, service.ErrCrossCompany)
}

func TestSupplier_LinkUnknownProduct(t *testing.T) {
	f := newSupplierFixture(t)
	supplier := f.addSupplier(t, "Orphan Co", 4)

	err := f.svc.Link(context.Background(), f.companyID, dto.LinkSupplierRequest{
		ProductID:  uuid.NewString(),
		SupplierID: supplier.ID,
	})
	assert.ErrorIs(t, err, service.ErrUnknownProduct)
}

func TestSupplier_LinkIsIdempotent(t *testing.T) {
	f := newSupplierFixture(t)
	product := f.addProduct(t, "REPEAT-1")
	supplier := f.addSupplier(t, "Again Co", 2)

	req := dto.LinkSupplierRequest{ProductID: product.ID.String(), SupplierID: supplier.ID}
	require.NoError(t, f.svc.Link(context.Background(), f.companyID, req))
	require.NoError(t, f.svc.Link(context.Background(), f.companyID, req))

	assert.Len(t, f.suppliers.links[product.ID], 1)
}
