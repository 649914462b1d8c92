package router

import (
	"time"

	"stockpilot/internal/config"
	"stockpilot/internal/handler"
	"stockpilot/internal/middleware"
	"stockpilot/internal/repository"
	"stockpilot/internal/service"
	"stockpilot/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	inventorySvc := service.NewInventoryService(productRepo, warehouseRepo, inventoryRepo, ledgerRepo, cfg.AllowNegativeAdjustment)
	productSvc := service.NewProductService(productRepo, warehouseRepo, inventorySvc, rdb)
	saleSvc := service.NewSaleService(saleRepo, productRepo, warehouseRepo, inventorySvc)
	demandSvc := service.NewDemandService(saleRepo)
	alertSvc := service.NewAlertService(inventoryRepo, supplierRepo, demandSvc, cfg.DemandWindowDays, cfg.LowStockDefaultThreshold)
	supplierSvc := service.NewSupplierService(supplierRepo, productRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	warehousesH := handler.NewWarehousesHandler(warehouseRepo)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	salesH := handler.NewSalesHandler(saleSvc)
	alertsH := handler.NewAlertsHandler(alertSvc, dispatcher)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	stockH := handler.NewStockLookupHandler(productRepo, inventoryRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: clerk, manager, admin — declared per-endpoint

		// Catalog reads — any authenticated role
		v1.GET("/products", middleware.RequireRole("clerk", "manager", "admin"), productsH.List)
		v1.GET("/products/:id", middleware.RequireRole("clerk", "manager", "admin"), productsH.GetByID)
		v1.GET("/stock/:sku", middleware.RequireRole("clerk", "manager", "admin"), stockH.GetBySKU)

		// Catalog writes — admin only
		prods := v1.Group("/products", middleware.RequireRole("admin"))
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Deactivate)
			prods.PATCH("/:id/reactivate", productsH.Reactivate)
		}

		// Warehouses
		v1.GET("/warehouses", middleware.RequireRole("clerk", "manager", "admin"), warehousesH.List)
		v1.POST("/warehouses", middleware.RequireRole("admin"), warehousesH.Create)

		// Inventory mutations — clerks record day-to-day stock events
		inv := v1.Group("/inventory")
		{
			inv.POST("/mutations", middleware.RequireRole("clerk", "manager", "admin"), inventoryH.Mutate)
			inv.POST("/transfers", middleware.RequireRole("manager", "admin"), inventoryH.Transfer)
			inv.GET("/quantity", middleware.RequireRole("clerk", "manager", "admin"), inventoryH.CurrentQuantity)
			inv.GET("/ledger", middleware.RequireRole("manager", "admin"), inventoryH.ListLedger)
			inv.POST("/verify", middleware.RequireRole("admin"), inventoryH.Verify)
		}

		// Sales ingestion
		v1.POST("/sales", middleware.RequireRole("clerk", "manager", "admin"), salesH.Record)

		// Low-stock alerts
		v1.GET("/alerts/low-stock", middleware.RequireRole("manager", "admin"), alertsH.List)
		v1.POST("/alerts/scan", middleware.RequireRole("manager", "admin"), alertsH.TriggerScan)

		// Suppliers
		suppliers := v1.Group("/suppliers", middleware.RequireRole("manager", "admin"))
		{
			suppliers.POST("", suppliersH.Create)
			suppliers.GET("", suppliersH.List)
			suppliers.POST("/links", suppliersH.Link)
			suppliers.GET("/preferred/:product_id", suppliersH.Preferred)
		}

		// Users — admin only
		v1.POST("/users", middleware.RequireRole("admin"), usersH.Create)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
