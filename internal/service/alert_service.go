package service

import (
	"context"
	"sort"

	"stockpilot/internal/dto"
	"stockpilot/internal/model"
	"stockpilot/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// typeDefaultThresholds maps a product type to its default low-stock threshold
// when the product carries no explicit override. Unlisted types fall through
// to the global default.
var typeDefaultThresholds = map[string]int{
	"perishable":  40,
	"consumable":  30,
	"spare_part":  10,
	"accessory":   15,
	"promotional": 5,
}

// AlertService joins current stock, threshold rules, demand run-rate, and
// supplier suggestions into the ranked low-stock alert list.
type AlertService interface {
	ComputeAlerts(ctx context.Context, companyID uuid.UUID) (*dto.AlertListResponse, error)
}

type alertService struct {
	inventoryRepo    repository.InventoryRepository
	supplierRepo     repository.SupplierRepository
	demand           DemandService
	windowDays       int
	defaultThreshold int
}

func NewAlertService(
	inventoryRepo repository.InventoryRepository,
	supplierRepo repository.SupplierRepository,
	demand DemandService,
	windowDays int,
	defaultThreshold int,
) AlertService {
	if windowDays < 1 {
		windowDays = 30
	}
	if defaultThreshold < 1 {
		defaultThreshold = 20
	}
	return &alertService{
		inventoryRepo:    inventoryRepo,
		supplierRepo:     supplierRepo,
		demand:           demand,
		windowDays:       windowDays,
		defaultThreshold: defaultThreshold,
	}
}

// ComputeAlerts walks every inventory row of the company — including pairs
// with zero recent sales: a product with no stock and no sales is the most
// urgent case, not an excluded one. A malformed row is logged and skipped so
// one bad pair cannot blank out the whole list.
func (s *alertService) ComputeAlerts(ctx context.Context, companyID uuid.UUID) (*dto.AlertListResponse, error) {
	rows, err := s.inventoryRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	alerts := make([]dto.Alert, 0)
	for i := range rows {
		inv := &rows[i]
		if inv.Product == nil || inv.Warehouse == nil {
			log.Warn().
				Str("inventory_id", inv.ID.String()).
				Str("company_id", companyID.String()).
				Msg("alert scan: inventory row with dangling product or warehouse, skipping")
			continue
		}

		threshold := s.resolveThreshold(inv.Product)
		if inv.Quantity >= threshold {
			continue
		}

		alert := dto.Alert{
			ProductID:     inv.ProductID.String(),
			ProductName:   inv.Product.Name,
			SKU:           inv.Product.SKU,
			WarehouseID:   inv.WarehouseID.String(),
			WarehouseName: inv.Warehouse.Name,
			CurrentStock:  inv.Quantity,
			Threshold:     threshold,
		}

		runRate, err := s.demand.DailyRunRate(ctx, companyID, inv.ProductID, s.windowDays)
		if err != nil {
			log.Warn().Err(err).
				Str("product_id", inv.ProductID.String()).
				Msg("alert scan: run-rate lookup failed, emitting alert with unknown demand")
		} else if runRate != nil && runRate.IsPositive() {
			days := int(decimal.NewFromInt(int64(inv.Quantity)).Div(*runRate).IntPart())
			alert.DaysUntilStockout = &days
		}
		// Unknown or zero demand keeps DaysUntilStockout nil: "we cannot tell"
		// is not the same as "about to run out".

		supplier, err := s.supplierRepo.PreferredForProduct(ctx, inv.ProductID)
		if err != nil {
			log.Warn().Err(err).
				Str("product_id", inv.ProductID.String()).
				Msg("alert scan: supplier lookup failed, emitting alert without suggestion")
		} else if supplier != nil {
			alert.Supplier = &dto.AlertSupplier{
				ID:           supplier.ID.String(),
				Name:         supplier.Name,
				ContactEmail: supplier.ContactEmail,
				LeadTimeDays: supplier.LeadTimeDays,
			}
		}

		alerts = append(alerts, alert)
	}

	// Most urgent first: fewest days to stockout, unknown demand last,
	// ties broken by lowest current stock.
	sort.SliceStable(alerts, func(i, j int) bool {
		di, dj := alerts[i].DaysUntilStockout, alerts[j].DaysUntilStockout
		switch {
		case di == nil && dj == nil:
			return alerts[i].CurrentStock < alerts[j].CurrentStock
		case di == nil:
			return false
		case dj == nil:
			return true
		case *di != *dj:
			return *di < *dj
		default:
			return alerts[i].CurrentStock < alerts[j].CurrentStock
		}
	})

	return &dto.AlertListResponse{Alerts: alerts, TotalAlerts: len(alerts)}, nil
}

// resolveThreshold: product override → product-type default → global default.
func (s *alertService) resolveThreshold(p *model.Product) int {
	if p.LowStockThreshold != nil {
		return *p.LowStockThreshold
	}
	if t, ok := typeDefaultThresholds[p.ProductType]; ok {
		return t
	}
	return s.defaultThreshold
}
