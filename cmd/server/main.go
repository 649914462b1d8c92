package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockpilot/internal/config"
	"stockpilot/internal/infra"
	"stockpilot/internal/repository"
	"stockpilot/internal/router"
	"stockpilot/internal/service"
	"stockpilot/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Start goroutine worker pool for async tasks (alert scans, reports, email).
	// Worker handlers are wired here (composition root) so that the pool
	// has full access to all infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	webhookCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	webhookClient := infra.NewWebhookClient(cfg.AlertWebhookURL)
	dispatcher := worker.NewDispatcher(rdb)

	companyRepo := repository.NewCompanyRepository(db)
	productRepo := repository.NewProductRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)

	inventorySvc := service.NewInventoryService(productRepo, warehouseRepo, inventoryRepo, ledgerRepo, cfg.AllowNegativeAdjustment)
	demandSvc := service.NewDemandService(saleRepo)
	alertSvc := service.NewAlertService(inventoryRepo, supplierRepo, demandSvc, cfg.DemandWindowDays, cfg.LowStockDefaultThreshold)

	workerHandlers := &worker.WorkerHandlers{
		AlertScan: worker.NewAlertScanWorker(alertSvc, webhookClient, webhookCB, dispatcher, rdb,
			cfg.ReportStoragePath, cfg.AlertEmailTo, cfg.AlertWebhookURL != ""),
		Email: worker.NewEmailWorker(mailer),
	}
	worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)

	worker.StartAlertCron(ctx, worker.AlertCronConfig{
		CompanyRepo: companyRepo,
		Dispatcher:  dispatcher,
		Interval:    time.Duration(cfg.AlertScanMinutes) * time.Minute,
	})

	worker.StartConsistencyCron(ctx, worker.ConsistencyCronConfig{
		InventoryRepo: inventoryRepo,
		InventorySvc:  inventorySvc,
		Dispatcher:    dispatcher,
		Interval:      time.Duration(cfg.ConsistencyMinutes) * time.Minute,
		AlertEmailTo:  cfg.AlertEmailTo,
	})

	r := router.New(cfg, db, rdb, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("stockpilot backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
