package service

import (
	"bytes"
	"errors"
	"fmt"

	"context"

	"stockpilot/internal/dto"
	"stockpilot/internal/model"
	"stockpilot/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// InventoryService is the only path allowed to change stock. Every mutation
// updates the Inventory projection and appends a LedgerEntry inside one
// transaction, serialized per (product, warehouse) by a row-level lock.
type InventoryService interface {
	ApplyChange(ctx context.Context, companyID uuid.UUID, req dto.MutateInventoryRequest) (*dto.MutationResponse, error)
	// ApplyChangeTx runs the mutation inside a caller-owned transaction.
	// Product/warehouse scoping must already be validated by the caller — used
	// by ProductService (initial stock) and SaleService (sale deduction).
	ApplyChangeTx(tx *gorm.DB, productID, warehouseID uuid.UUID, delta int, reason string, idempotencyKey *string) (*dto.MutationResponse, error)
	Transfer(ctx context.Context, companyID uuid.UUID, req dto.TransferStockRequest) (*dto.TransferResponse, error)
	CurrentQuantity(ctx context.Context, companyID, productID, warehouseID uuid.UUID) (int, error)
	// VerifyConsistency compares the projected quantity against the ledger
	// fold. Returns ErrConsistency on divergence — the caller must surface it,
	// never auto-correct. Unscoped: only the consistency cron, which iterates
	// rows across all companies, may call it directly.
	VerifyConsistency(ctx context.Context, productID, warehouseID uuid.UUID) (*dto.VerifyInventoryResponse, error)
	// VerifyOwnedConsistency is the caller-facing variant: it enforces the
	// tenant boundary on both IDs before running the check.
	VerifyOwnedConsistency(ctx context.Context, companyID uuid.UUID, req dto.VerifyInventoryRequest) (*dto.VerifyInventoryResponse, error)
	ListLedger(ctx context.Context, companyID uuid.UUID, filter dto.LedgerFilter) (*dto.LedgerListResponse, error)
}

type inventoryService struct {
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	inventoryRepo repository.InventoryRepository
	ledgerRepo    repository.LedgerRepository
	// allowNegativeAdjustment lets ADJUSTMENT entries drive quantity below zero
	// (explicit corrections). All other reasons are always rejected.
	allowNegativeAdjustment bool
}

func NewInventoryService(
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	inventoryRepo repository.InventoryRepository,
	ledgerRepo repository.LedgerRepository,
	allowNegativeAdjustment bool,
) InventoryService {
	return &inventoryService{
		productRepo:             productRepo,
		warehouseRepo:           warehouseRepo,
		inventoryRepo:           inventoryRepo,
		ledgerRepo:              ledgerRepo,
		allowNegativeAdjustment: allowNegativeAdjustment,
	}
}

// ── Scoped resolution ─────────────────────────────────────────────────────────

// resolveProduct loads a product and enforces the tenant boundary. A product
// that exists under another company is reported as cross-company, not
// not-found, and logged as a security-relevant event.
func (s *inventoryService) resolveProduct(ctx context.Context, companyID uuid.UUID, rawID string) (*model.Product, error) {
	pid, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: product_id: %v", ErrValidation, err)
	}
	p, err := s.productRepo.FindByID(ctx, pid)
	if err != nil {
		return nil, ErrUnknownProduct
	}
	if p.CompanyID != companyID {
		log.Warn().
			Str("company_id", companyID.String()).
			Str("product_id", pid.String()).
			Str("owner_company_id", p.CompanyID.String()).
			Msg("cross-company product access rejected")
		return nil, ErrCrossCompany
	}
	return p, nil
}

func (s *inventoryService) resolveWarehouse(ctx context.Context, companyID uuid.UUID, rawID string) (*model.Warehouse, error) {
	wid, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: warehouse_id: %v", ErrValidation, err)
	}
	w, err := s.warehouseRepo.FindByID(ctx, wid)
	if err != nil {
		return nil, ErrUnknownWarehouse
	}
	if w.CompanyID != companyID {
		log.Warn().
			Str("company_id", companyID.String()).
			Str("warehouse_id", wid.String()).
			Str("owner_company_id", w.CompanyID.String()).
			Msg("cross-company warehouse access rejected")
		return nil, ErrCrossCompany
	}
	return w, nil
}

// ── ApplyChange ───────────────────────────────────────────────────────────────

func (s *inventoryService) ApplyChange(ctx context.Context, companyID uuid.UUID, req dto.MutateInventoryRequest) (*dto.MutationResponse, error) {
	if req.Delta == 0 {
		return nil, fmt.Errorf("%w: delta must be nonzero", ErrInvalidQuantity)
	}
	if !model.ValidReason(req.Reason) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidReason, req.Reason)
	}

	product, err := s.resolveProduct(ctx, companyID, req.ProductID)
	if err != nil {
		return nil, err
	}
	warehouse, err := s.resolveWarehouse(ctx, companyID, req.WarehouseID)
	if err != nil {
		return nil, err
	}

	var resp *dto.MutationResponse
	txErr := runTx(ctx, s.productRepo.DB(), func(tx *gorm.DB) error {
		var err error
		resp, err = s.ApplyChangeTx(tx, product.ID, warehouse.ID, req.Delta, req.Reason, req.IdempotencyKey)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}
	return resp, nil
}

// ApplyChangeTx performs the locked upsert + ledger append. The inventory row
// lock taken first serializes concurrent mutations on the same pair, which
// also makes the idempotency-key check race-free: a concurrent retry blocks
// here until the first attempt's entry is visible or rolled back.
func (s *inventoryService) ApplyChangeTx(tx *gorm.DB, productID, warehouseID uuid.UUID, delta int, reason string, idempotencyKey *string) (*dto.MutationResponse, error) {
	inv, err := s.inventoryRepo.LockForUpdateTx(tx, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("lock inventory row: %w", err)
	}

	if idempotencyKey != nil {
		prior, err := s.ledgerRepo.FindByIdempotencyKeyTx(tx, productID, warehouseID, *idempotencyKey)
		if err == nil {
			// Retry of an already-applied mutation: return the recorded result.
			return &dto.MutationResponse{
				ProductID:     productID.String(),
				WarehouseID:   warehouseID.String(),
				Quantity:      prior.QuantityAfter,
				LedgerEntryID: prior.ID.String(),
				Replayed:      true,
			}, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	// Snapshot the locked quantity before writing: inv may alias the stored
	// row, and the ledger entry must record the pre-mutation value.
	before := inv.Quantity
	newQuantity := before + delta
	if newQuantity < 0 && !(reason == model.ReasonAdjustment && s.allowNegativeAdjustment) {
		return nil, fmt.Errorf("%w: %d on hand, change %+d", ErrNegativeStock, before, delta)
	}

	if err := s.inventoryRepo.SetQuantityTx(tx, inv.ID, newQuantity); err != nil {
		return nil, err
	}

	entry := &model.LedgerEntry{
		ProductID:      productID,
		WarehouseID:    warehouseID,
		Change:         delta,
		Reason:         reason,
		QuantityBefore: before,
		QuantityAfter:  newQuantity,
		IdempotencyKey: idempotencyKey,
	}
	if err := s.ledgerRepo.CreateTx(tx, entry); err != nil {
		return nil, err
	}

	return &dto.MutationResponse{
		ProductID:     productID.String(),
		WarehouseID:   warehouseID.String(),
		Quantity:      newQuantity,
		LedgerEntryID: entry.ID.String(),
	}, nil
}

// ── Transfer ──────────────────────────────────────────────────────────────────

// Transfer moves quantity between two warehouses of the same company as a
// TRANSFER_OUT + TRANSFER_IN pair in one transaction. Rows are locked in a
// deterministic order so two opposing transfers cannot deadlock.
func (s *inventoryService) Transfer(ctx context.Context, companyID uuid.UUID, req dto.TransferStockRequest) (*dto.TransferResponse, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidQuantity)
	}
	if req.FromWarehouseID == req.ToWarehouseID {
		return nil, fmt.Errorf("%w: source and destination are the same warehouse", ErrValidation)
	}

	product, err := s.resolveProduct(ctx, companyID, req.ProductID)
	if err != nil {
		return nil, err
	}
	from, err := s.resolveWarehouse(ctx, companyID, req.FromWarehouseID)
	if err != nil {
		return nil, err
	}
	to, err := s.resolveWarehouse(ctx, companyID, req.ToWarehouseID)
	if err != nil {
		return nil, err
	}

	var outKey, inKey *string
	if req.IdempotencyKey != nil {
		o, i := *req.IdempotencyKey+":out", *req.IdempotencyKey+":in"
		outKey, inKey = &o, &i
	}

	var resp *dto.TransferResponse
	txErr := runTx(ctx, s.productRepo.DB(), func(tx *gorm.DB) error {
		// Pre-lock both rows, lower warehouse id first.
		first, second := from.ID, to.ID
		if bytes.Compare(second[:], first[:]) < 0 {
			first, second = second, first
		}
		if tx != nil {
			if _, err := s.inventoryRepo.LockForUpdateTx(tx, product.ID, first); err != nil {
				return err
			}
			if _, err := s.inventoryRepo.LockForUpdateTx(tx, product.ID, second); err != nil {
				return err
			}
		}

		out, err := s.ApplyChangeTx(tx, product.ID, from.ID, -req.Quantity, model.ReasonTransferOut, outKey)
		if err != nil {
			return err
		}
		in, err := s.ApplyChangeTx(tx, product.ID, to.ID, req.Quantity, model.ReasonTransferIn, inKey)
		if err != nil {
			return err
		}
		resp = &dto.TransferResponse{
			ProductID:    product.ID.String(),
			FromQuantity: out.Quantity,
			ToQuantity:   in.Quantity,
			OutEntryID:   out.LedgerEntryID,
			InEntryID:    in.LedgerEntryID,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return resp, nil
}

// ── Stock projector ───────────────────────────────────────────────────────────

// CurrentQuantity reads the maintained projection (fast path). A pair that
// never had a stock event folds to zero.
func (s *inventoryService) CurrentQuantity(ctx context.Context, companyID, productID, warehouseID uuid.UUID) (int, error) {
	if _, err := s.resolveProduct(ctx, companyID, productID.String()); err != nil {
		return 0, err
	}
	inv, err := s.inventoryRepo.FindByKey(ctx, productID, warehouseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return inv.Quantity, nil
}

func (s *inventoryService) VerifyConsistency(ctx context.Context, productID, warehouseID uuid.UUID) (*dto.VerifyInventoryResponse, error) {
	projected := 0
	inv, err := s.inventoryRepo.FindByKey(ctx, productID, warehouseID)
	if err == nil {
		projected = inv.Quantity
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	recomputed, err := s.ledgerRepo.SumChanges(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}

	resp := &dto.VerifyInventoryResponse{
		ProductID:   productID.String(),
		WarehouseID: warehouseID.String(),
		Projected:   projected,
		Recomputed:  recomputed,
		Consistent:  projected == recomputed,
	}
	if !resp.Consistent {
		log.Error().
			Str("product_id", productID.String()).
			Str("warehouse_id", warehouseID.String()).
			Int("projected", projected).
			Int("recomputed", recomputed).
			Msg("inventory projection diverged from ledger")
		return resp, ErrConsistency
	}
	return resp, nil
}

func (s *inventoryService) VerifyOwnedConsistency(ctx context.Context, companyID uuid.UUID, req dto.VerifyInventoryRequest) (*dto.VerifyInventoryResponse, error) {
	product, err := s.resolveProduct(ctx, companyID, req.ProductID)
	if err != nil {
		return nil, err
	}
	warehouse, err := s.resolveWarehouse(ctx, companyID, req.WarehouseID)
	if err != nil {
		return nil, err
	}
	return s.VerifyConsistency(ctx, product.ID, warehouse.ID)
}

// ── Ledger listing ────────────────────────────────────────────────────────────

func (s *inventoryService) ListLedger(ctx context.Context, companyID uuid.UUID, filter dto.LedgerFilter) (*dto.LedgerListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 500 {
		filter.Limit = 100
	}
	entries, total, err := s.ledgerRepo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.LedgerEntryResponse{
			ID:             e.ID.String(),
			ProductID:      e.ProductID.String(),
			WarehouseID:    e.WarehouseID.String(),
			Change:         e.Change,
			Reason:         e.Reason,
			QuantityBefore: e.QuantityBefore,
			QuantityAfter:  e.QuantityAfter,
			IdempotencyKey: e.IdempotencyKey,
			CreatedAt:      e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return &dto.LedgerListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}
