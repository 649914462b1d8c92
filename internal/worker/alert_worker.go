package worker

// alert_worker.go
// Processes low-stock scan jobs from QueueAlertScan.
// Computes the alert list for one company, renders the PDF report, and
// fans out notifications: email (via QueueEmail) and webhook (through the
// circuit breaker, with exponential backoff and DLQ on exhaustion).

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stockpilot/internal/dto"
	"stockpilot/internal/infra"
	"stockpilot/internal/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const webhookMaxAttempts = 3

// AlertScanJobPayload is the job envelope sent to QueueAlertScan.
type AlertScanJobPayload struct {
	CompanyID string `json:"company_id"`
}

// AlertScanWorker runs one full scan per job: compute alerts, render report,
// notify. A scan with zero alerts produces no notifications.
type AlertScanWorker struct {
	alertService  service.AlertService
	webhook       *infra.WebhookClient
	cb            *infra.CircuitBreaker
	dispatcher    *Dispatcher
	rdb           *redis.Client
	storagePath   string
	alertEmailTo  string
	webhookEnable bool
}

// NewAlertScanWorker wires all dependencies for the scan worker.
// webhookURL may be empty — webhook fan-out is then skipped entirely.
func NewAlertScanWorker(
	alertService service.AlertService,
	webhook *infra.WebhookClient,
	cb *infra.CircuitBreaker,
	dispatcher *Dispatcher,
	rdb *redis.Client,
	storagePath string,
	alertEmailTo string,
	webhookEnabled bool,
) *AlertScanWorker {
	return &AlertScanWorker{
		alertService:  alertService,
		webhook:       webhook,
		cb:            cb,
		dispatcher:    dispatcher,
		rdb:           rdb,
		storagePath:   storagePath,
		alertEmailTo:  alertEmailTo,
		webhookEnable: webhookEnabled,
	}
}

// Process handles a single alert scan job:
//  1. Parse AlertScanJobPayload from the job envelope
//  2. Compute the ranked alert list for the company
//  3. Render the PDF report
//  4. Enqueue the report email to the configured recipient
//  5. POST the webhook through the circuit breaker with backoff; exhausted
//     retries land in the DLQ for manual inspection
func (w *AlertScanWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload AlertScanJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alert_worker: invalid payload")
		return
	}

	companyID, err := uuid.Parse(payload.CompanyID)
	if err != nil {
		log.Error().Str("company_id", payload.CompanyID).Msg("alert_worker: invalid company_id")
		return
	}

	resp, err := w.alertService.ComputeAlerts(ctx, companyID)
	if err != nil {
		log.Error().Err(err).Str("company_id", payload.CompanyID).Msg("alert_worker: scan failed")
		return
	}

	if resp.TotalAlerts == 0 {
		log.Debug().Str("company_id", payload.CompanyID).Msg("alert_worker: nothing below threshold")
		return
	}

	log.Info().
		Str("company_id", payload.CompanyID).
		Int("total_alerts", resp.TotalAlerts).
		Msg("alert_worker: low-stock products found")

	// PDF report — failures degrade to an email without attachment
	pdfPath, pdfErr := infra.GenerateAlertReportPDF(payload.CompanyID, resp.Alerts, w.storagePath)
	if pdfErr != nil {
		log.Warn().Err(pdfErr).Str("company_id", payload.CompanyID).Msg("alert_worker: PDF generation failed")
		pdfPath = ""
	}

	if w.alertEmailTo != "" {
		emailJob := EmailJobPayload{
			ToEmail: w.alertEmailTo,
			Subject: fmt.Sprintf("Low-stock report — %d product(s) below threshold", resp.TotalAlerts),
			Body:    buildEmailBody(resp.TotalAlerts, pdfPath),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", w.alertEmailTo).Msg("alert_worker: failed to enqueue email")
		}
	}

	if w.webhookEnable {
		w.notifyWebhook(ctx, payload.CompanyID, resp)
	}
}

func buildEmailBody(total int, pdfPath string) string {
	if pdfPath == "" {
		return fmt.Sprintf("%d product(s) are at or below their low-stock threshold.\nReport rendering failed; check the dashboard for details.", total)
	}
	return fmt.Sprintf("%d product(s) are at or below their low-stock threshold.\nThe full report is attached.", total)
}

func (w *AlertScanWorker) notifyWebhook(ctx context.Context, companyID string, resp *dto.AlertListResponse) {
	webhookPayload := infra.WebhookPayload{
		CompanyID:   companyID,
		ScannedAt:   time.Now().UTC().Format(time.RFC3339),
		TotalAlerts: resp.TotalAlerts,
		Alerts:      resp.Alerts,
	}

	webhookErr := withRetry(ctx, webhookMaxAttempts, func(attempt int) error {
		return w.cb.Execute(func() error {
			return w.webhook.Notify(ctx, webhookPayload)
		})
	})
	if webhookErr == nil {
		return
	}

	log.Error().Err(webhookErr).Str("company_id", companyID).Msg("alert_worker: webhook failed after all retries")
	data, err := json.Marshal(webhookPayload)
	if err != nil {
		log.Error().Err(err).Msg("alert_worker: failed to marshal DLQ payload")
		return
	}
	SendToDLQ(ctx, w.rdb, QueueAlertScan, "alert_webhook", data,
		fmt.Sprintf("webhook failed after %d attempts: %v", webhookMaxAttempts, webhookErr),
		webhookMaxAttempts)
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			// 1s, 2s … (exponential backoff)
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
