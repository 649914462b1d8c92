package service

import (
	"context"
	"time"

	"stockpilot/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DemandService estimates product demand from recent sales.
type DemandService interface {
	// DailyRunRate averages units sold per day over the trailing window.
	// Returns nil when the product has no sales history in the window: unknown
	// demand must propagate as unknown, never as zero — zero would wrongly
	// imply infinite days until stockout.
	DailyRunRate(ctx context.Context, companyID, productID uuid.UUID, windowDays int) (*decimal.Decimal, error)
}

type demandService struct {
	saleRepo repository.SaleRepository
	// now is injectable for tests.
	now func() time.Time
}

func NewDemandService(saleRepo repository.SaleRepository) DemandService {
	return &demandService{saleRepo: saleRepo, now: time.Now}
}

func (s *demandService) DailyRunRate(ctx context.Context, companyID, productID uuid.UUID, windowDays int) (*decimal.Decimal, error) {
	if windowDays < 1 {
		windowDays = 30
	}
	until := s.now()
	since := until.AddDate(0, 0, -windowDays)

	sum, rows, err := s.saleRepo.SumItemQuantity(ctx, companyID, productID, since, until)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, nil
	}
	rate := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(windowDays)))
	return &rate, nil
}
