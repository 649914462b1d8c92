package service

import (
	"context"
	"errors"
	"fmt"

	"stockpilot/internal/dto"
	"stockpilot/internal/model"
	"stockpilot/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ProductService defines the business logic contract for products.
type ProductService interface {
	Create(ctx context.Context, companyID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, companyID uuid.UUID, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, companyID, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, companyID, id uuid.UUID) error
	Reactivate(ctx context.Context, companyID, id uuid.UUID) error
}

type productService struct {
	repo          repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	inventory     InventoryService
	rdb           *redis.Client
}

func NewProductService(
	repo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	inventory InventoryService,
	rdb *redis.Client,
) ProductService {
	return &productService{repo: repo, warehouseRepo: warehouseRepo, inventory: inventory, rdb: rdb}
}

// Create inserts the product and, when initial stock is given, applies an
// INITIAL_STOCK mutation in the same transaction: the product row and its
// first inventory/ledger rows either all commit or none do.
func (s *productService) Create(ctx context.Context, companyID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if (req.WarehouseID == nil) != (req.InitialQuantity == nil) {
		return nil, fmt.Errorf("%w: warehouse_id and initial_quantity must be given together", ErrValidation)
	}
	if req.InitialQuantity != nil && *req.InitialQuantity <= 0 {
		return nil, fmt.Errorf("%w: initial_quantity must be positive", ErrInvalidQuantity)
	}

	// Pre-flight SKU check for a friendly error; the unique index still backs
	// it up under concurrency.
	if _, err := s.repo.FindBySKU(ctx, req.SKU); err == nil {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateSKU, req.SKU)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var warehouse *model.Warehouse
	if req.WarehouseID != nil {
		wid, err := uuid.Parse(*req.WarehouseID)
		if err != nil {
			return nil, fmt.Errorf("%w: warehouse_id: %v", ErrValidation, err)
		}
		w, err := s.warehouseRepo.FindByID(ctx, wid)
		if err != nil {
			return nil, ErrUnknownWarehouse
		}
		if w.CompanyID != companyID {
			return nil, ErrCrossCompany
		}
		warehouse = w
	}

	productType := req.ProductType
	if productType == "" {
		productType = "standard"
	}

	product := &model.Product{
		CompanyID:         companyID,
		Name:              req.Name,
		SKU:               req.SKU,
		Price:             req.Price,
		ProductType:       productType,
		LowStockThreshold: req.LowStockThreshold,
		IsActive:          true,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, product); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %q", ErrDuplicateSKU, req.SKU)
			}
			return err
		}
		if warehouse != nil {
			_, err := s.inventory.ApplyChangeTx(tx, product.ID, warehouse.ID,
				*req.InitialQuantity, model.ReasonInitialStock, nil)
			if err != nil {
				return fmt.Errorf("initial stock: %w", err)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.invalidateStockCache(ctx, product.SKU)
	return productToResponse(product), nil
}

func (s *productService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.scoped(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, companyID uuid.UUID, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	products, total, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productService) Update(ctx context.Context, companyID, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.scoped(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.ProductType != nil {
		p.ProductType = *req.ProductType
	}
	if req.LowStockThreshold != nil {
		p.LowStockThreshold = req.LowStockThreshold
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateStockCache(ctx, p.SKU)
	return productToResponse(p), nil
}

func (s *productService) Deactivate(ctx context.Context, companyID, id uuid.UUID) error {
	p, err := s.scoped(ctx, companyID, id)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, p.ID); err != nil {
		return err
	}
	s.invalidateStockCache(ctx, p.SKU)
	return nil
}

func (s *productService) Reactivate(ctx context.Context, companyID, id uuid.UUID) error {
	p, err := s.scoped(ctx, companyID, id)
	if err != nil {
		return err
	}
	return s.repo.Reactivate(ctx, p.ID)
}

// scoped loads a product and enforces the tenant boundary.
func (s *productService) scoped(ctx context.Context, companyID, id uuid.UUID) (*model.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrUnknownProduct
	}
	if p.CompanyID != companyID {
		return nil, ErrCrossCompany
	}
	return p, nil
}

func (s *productService) invalidateStockCache(ctx context.Context, sku string) {
	if s.rdb == nil {
		return
	}
	_ = s.rdb.Del(ctx, "stock:"+sku).Err()
}

// isUniqueViolation matches Postgres unique constraint errors surfaced by GORM.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                p.ID.String(),
		Name:              p.Name,
		SKU:               p.SKU,
		Price:             p.Price,
		ProductType:       p.ProductType,
		LowStockThreshold: p.LowStockThreshold,
		IsActive:          p.IsActive,
	}
}
