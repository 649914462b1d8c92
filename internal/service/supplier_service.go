package service

import (
	"context"
	"fmt"

	"stockpilot/internal/dto"
	"stockpilot/internal/model"
	"stockpilot/internal/repository"

	"github.com/google/uuid"
)

type SupplierService interface {
	Create(ctx context.Context, companyID uuid.UUID, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	List(ctx context.Context, companyID uuid.UUID) ([]dto.SupplierResponse, error)
	// Link associates a supplier with a product it can restock. Both must
	// belong to the caller's company.
	Link(ctx context.Context, companyID uuid.UUID, req dto.LinkSupplierRequest) error
	// Preferred returns the linked supplier with the shortest lead time, or
	// nil when the product has none.
	Preferred(ctx context.Context, companyID, productID uuid.UUID) (*dto.SupplierResponse, error)
}

type supplierService struct {
	repo        repository.SupplierRepository
	productRepo repository.ProductRepository
}

func NewSupplierService(repo repository.SupplierRepository, productRepo repository.ProductRepository) SupplierService {
	return &supplierService{repo: repo, productRepo: productRepo}
}

func (s *supplierService) Create(ctx context.Context, companyID uuid.UUID, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	supplier := &model.Supplier{
		CompanyID:    companyID,
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		LeadTimeDays: req.LeadTimeDays,
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplierToResponse(supplier), nil
}

func (s *supplierService) List(ctx context.Context, companyID uuid.UUID) ([]dto.SupplierResponse, error) {
	suppliers, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		out = append(out, *supplierToResponse(&suppliers[i]))
	}
	return out, nil
}

func (s *supplierService) Link(ctx context.Context, companyID uuid.UUID, req dto.LinkSupplierRequest) error {
	pid, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fmt.Errorf("%w: product_id: %v", ErrValidation, err)
	}
	sid, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return fmt.Errorf("%w: supplier_id: %v", ErrValidation, err)
	}

	product, err := s.productRepo.FindByID(ctx, pid)
	if err != nil {
		return ErrUnknownProduct
	}
	if product.CompanyID != companyID {
		return ErrCrossCompany
	}
	supplier, err := s.repo.FindByID(ctx, sid)
	if err != nil {
		return fmt.Errorf("%w: supplier %s", ErrValidation, req.SupplierID)
	}
	if supplier.CompanyID != companyID {
		return ErrCrossCompany
	}

	return s.repo.Link(ctx, pid, sid)
}

func (s *supplierService) Preferred(ctx context.Context, companyID, productID uuid.UUID) (*dto.SupplierResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, ErrUnknownProduct
	}
	if product.CompanyID != companyID {
		return nil, ErrCrossCompany
	}
	supplier, err := s.repo.PreferredForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, nil
	}
	return supplierToResponse(supplier), nil
}

func supplierToResponse(s *model.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:           s.ID.String(),
		Name:         s.Name,
		ContactEmail: s.ContactEmail,
		LeadTimeDays: s.LeadTimeDays,
	}
}
