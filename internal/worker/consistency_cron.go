package worker

// consistency_cron.go
// Background goroutine that periodically samples inventory rows and verifies
// the projected quantity against the ledger fold. A mismatch means a bug or
// manual DB tampering: it is logged loudly and reported by email, never
// auto-corrected.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stockpilot/internal/repository"
	"stockpilot/internal/service"

	"github.com/rs/zerolog/log"
)

const consistencyBatchSize = 50

// ConsistencyCronConfig holds all dependencies for the verifier goroutine.
type ConsistencyCronConfig struct {
	InventoryRepo repository.InventoryRepository
	InventorySvc  service.InventoryService
	Dispatcher    *Dispatcher
	Interval      time.Duration
	AlertEmailTo  string
}

// StartConsistencyCron launches a background goroutine that ticks on the
// configured interval, samples up to consistencyBatchSize inventory rows, and
// verifies each one. It respects the context for graceful shutdown.
func StartConsistencyCron(ctx context.Context, cfg ConsistencyCronConfig) {
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("consistency_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("consistency_cron: shutting down")
				return
			case <-ticker.C:
				verifyBatch(ctx, cfg)
			}
		}
	}()
}

func verifyBatch(ctx context.Context, cfg ConsistencyCronConfig) {
	rows, err := cfg.InventoryRepo.SampleKeys(ctx, consistencyBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("consistency_cron: failed to sample inventory rows")
		return
	}

	var mismatches []string
	for i := range rows {
		inv := &rows[i]
		resp, err := cfg.InventorySvc.VerifyConsistency(ctx, inv.ProductID, inv.WarehouseID)
		if errors.Is(err, service.ErrConsistency) {
			mismatches = append(mismatches, fmt.Sprintf(
				"product=%s warehouse=%s projected=%d ledger=%d",
				inv.ProductID, inv.WarehouseID, resp.Projected, resp.Recomputed))
			continue
		}
		if err != nil {
			log.Error().
				Err(err).
				Str("product_id", inv.ProductID.String()).
				Str("warehouse_id", inv.WarehouseID.String()).
				Msg("consistency_cron: verification query failed")
		}
	}

	if len(mismatches) == 0 {
		return
	}

	log.Error().
		Int("mismatches", len(mismatches)).
		Int("sampled", len(rows)).
		Msg("consistency_cron: projection diverged from ledger")

	if cfg.AlertEmailTo == "" {
		return
	}
	emailJob := EmailJobPayload{
		ToEmail: cfg.AlertEmailTo,
		Subject: fmt.Sprintf("Inventory consistency check failed — %d mismatch(es)", len(mismatches)),
		Body: "The periodic consistency check found projected quantities that do not match the ledger sum.\n" +
			"No automatic correction was applied.\n\n" + strings.Join(mismatches, "\n"),
	}
	if err := cfg.Dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Error().Err(err).Msg("consistency_cron: failed to enqueue mismatch email")
	}
}
