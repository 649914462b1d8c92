package service

import (
	"context"
	"fmt"
	"time"

	"stockpilot/internal/dto"
	"stockpilot/internal/model"
	"stockpilot/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaleService records completed sales: the Sale/SaleItem rows (the demand
// signal read by the estimator) and the matching SALE stock deductions commit
// as a single transaction.
type SaleService interface {
	RecordSale(ctx context.Context, companyID uuid.UUID, req dto.RecordSaleRequest) (*dto.SaleResponse, error)
}

type saleService struct {
	repo          repository.SaleRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	inventory     InventoryService
}

func NewSaleService(
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	inventory InventoryService,
) SaleService {
	return &saleService{
		repo:          repo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		inventory:     inventory,
	}
}

func (s *saleService) RecordSale(ctx context.Context, companyID uuid.UUID, req dto.RecordSaleRequest) (*dto.SaleResponse, error) {
	// Deduplicate retried submissions before touching stock.
	if req.ClientRef != nil {
		if existing, err := s.repo.FindByClientRef(ctx, companyID, *req.ClientRef); err == nil {
			resp := saleToResponse(existing)
			resp.Replayed = true
			return resp, nil
		}
	}

	wid, err := uuid.Parse(req.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("%w: warehouse_id: %v", ErrValidation, err)
	}
	warehouse, err := s.warehouseRepo.FindByID(ctx, wid)
	if err != nil {
		return nil, ErrUnknownWarehouse
	}
	if warehouse.CompanyID != companyID {
		return nil, ErrCrossCompany
	}

	soldAt := time.Now()
	if req.SoldAt != nil {
		parsed, err := time.Parse(time.RFC3339, *req.SoldAt)
		if err != nil {
			return nil, fmt.Errorf("%w: sold_at: %v", ErrValidation, err)
		}
		soldAt = parsed
	}

	// Resolve products up front (pre-flight, outside the transaction).
	type resolvedItem struct {
		product  *model.Product
		quantity int
	}
	resolved := make([]resolvedItem, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line quantity must be positive", ErrInvalidQuantity)
		}
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: product_id: %v", ErrValidation, err)
		}
		p, err := s.productRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, ErrUnknownProduct
		}
		if p.CompanyID != companyID {
			return nil, ErrCrossCompany
		}
		if !p.IsActive {
			return nil, fmt.Errorf("%w: product %q is inactive", ErrValidation, p.Name)
		}
		resolved = append(resolved, resolvedItem{product: p, quantity: item.Quantity})
	}

	sale := &model.Sale{
		CompanyID: companyID,
		ClientRef: req.ClientRef,
		SoldAt:    soldAt,
	}
	for _, r := range resolved {
		sale.Items = append(sale.Items, model.SaleItem{
			ProductID: r.product.ID,
			Quantity:  r.quantity,
		})
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, sale); err != nil {
			return err
		}
		for _, r := range resolved {
			var key *string
			if req.ClientRef != nil {
				k := fmt.Sprintf("sale:%s:%s", *req.ClientRef, r.product.ID)
				key = &k
			}
			if _, err := s.inventory.ApplyChangeTx(tx, r.product.ID, warehouse.ID,
				-r.quantity, model.ReasonSale, key); err != nil {
				return fmt.Errorf("deduct stock for %s: %w", r.product.Name, err)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := saleToResponse(sale)
	for i, r := range resolved {
		resp.Items[i].Product = r.product.Name
	}
	return resp, nil
}

func saleToResponse(s *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.SaleItemResponse{
			ProductID: item.ProductID.String(),
			Product:   name,
			Quantity:  item.Quantity,
		})
	}
	return &dto.SaleResponse{
		ID:     s.ID.String(),
		SoldAt: s.SoldAt.Format(time.RFC3339),
		Items:  items,
	}
}
