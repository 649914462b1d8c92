package worker

// alert_cron.go
// Background goroutine that enqueues a low-stock scan job for every company
// on a fixed interval. The scans themselves run on the worker pool so a slow
// tenant cannot delay the schedule.

import (
	"context"
	"time"

	"stockpilot/internal/repository"

	"github.com/rs/zerolog/log"
)

// AlertCronConfig holds all dependencies for the scheduling goroutine.
type AlertCronConfig struct {
	CompanyRepo repository.CompanyRepository
	Dispatcher  *Dispatcher
	Interval    time.Duration
}

// StartAlertCron launches a background goroutine that ticks on the configured
// interval and enqueues one scan job per company.
// It respects the context for graceful shutdown.
func StartAlertCron(ctx context.Context, cfg AlertCronConfig) {
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("alert_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("alert_cron: shutting down")
				return
			case <-ticker.C:
				enqueueScans(ctx, cfg)
			}
		}
	}()
}

func enqueueScans(ctx context.Context, cfg AlertCronConfig) {
	companyIDs, err := cfg.CompanyRepo.ListIDs(ctx)
	if err != nil {
		log.Error().Err(err).Msg("alert_cron: failed to list companies")
		return
	}

	for _, id := range companyIDs {
		payload := AlertScanJobPayload{CompanyID: id.String()}
		if err := cfg.Dispatcher.EnqueueAlertScan(ctx, payload); err != nil {
			log.Error().Err(err).Str("company_id", id.String()).Msg("alert_cron: failed to enqueue scan")
			continue
		}
	}

	if len(companyIDs) > 0 {
		log.Info().Int("companies", len(companyIDs)).Msg("alert_cron: scan jobs enqueued")
	}
}
