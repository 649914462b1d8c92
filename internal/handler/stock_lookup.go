package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"stockpilot/internal/apierror"
	"stockpilot/internal/dto"
	"stockpilot/internal/middleware"
	"stockpilot/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Mutations do not invalidate this cache — the short TTL bounds staleness.
const stockCacheTTL = 60 * time.Second

// cachedStock is the Redis envelope. CompanyID is stored so a cache hit can
// still enforce the tenant boundary: SKUs are globally unique, but the caller
// must own the product.
type cachedStock struct {
	CompanyID string                  `json:"company_id"`
	Response  dto.StockLookupResponse `json:"response"`
}

// StockLookupHandler serves the read-only stock snapshot by SKU,
// Redis-cached for dashboard polling.
type StockLookupHandler struct {
	productRepo   repository.ProductRepository
	inventoryRepo repository.InventoryRepository
	rdb           *redis.Client
}

func NewStockLookupHandler(
	productRepo repository.ProductRepository,
	inventoryRepo repository.InventoryRepository,
	rdb *redis.Client,
) *StockLookupHandler {
	return &StockLookupHandler{productRepo: productRepo, inventoryRepo: inventoryRepo, rdb: rdb}
}

// GetBySKU godoc
// @Summary Stock snapshot by SKU across all warehouses
// @Tags stock
// @Produce json
// @Param sku path string true "SKU"
// @Success 200 {object} dto.StockLookupResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/stock/{sku} [get]
func (h *StockLookupHandler) GetBySKU(c *gin.Context) {
	companyID, ok := middleware.CompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("missing authentication"))
		return
	}
	sku := c.Param("sku")
	ctx := c.Request.Context()
	cacheKey := "stock:" + sku

	// 1. Try Redis cache
	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var entry cachedStock
		if jsonErr := json.Unmarshal(cached, &entry); jsonErr == nil {
			if entry.CompanyID != companyID.String() {
				c.JSON(http.StatusNotFound, apierror.New("product not found"))
				return
			}
			c.JSON(http.StatusOK, entry.Response)
			return
		}
	}

	// 2. Cache miss — query DB
	product, err := h.productRepo.FindBySKU(ctx, sku)
	if err != nil || product.CompanyID != companyID {
		c.JSON(http.StatusNotFound, apierror.New("product not found"))
		return
	}

	rows, err := h.inventoryRepo.FindByProduct(ctx, product.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to load stock"))
		return
	}

	resp := dto.StockLookupResponse{
		SKU:        product.SKU,
		Name:       product.Name,
		ProductID:  product.ID.String(),
		Warehouses: make([]dto.WarehouseQuantity, 0, len(rows)),
	}
	for i := range rows {
		inv := &rows[i]
		wq := dto.WarehouseQuantity{
			WarehouseID: inv.WarehouseID.String(),
			Quantity:    inv.Quantity,
		}
		if inv.Warehouse != nil {
			wq.WarehouseName = inv.Warehouse.Name
		}
		resp.TotalQuantity += inv.Quantity
		resp.Warehouses = append(resp.Warehouses, wq)
	}

	// 3. Populate cache — best effort, ignore errors
	entry := cachedStock{CompanyID: companyID.String(), Response: resp}
	if b, jsonErr := json.Marshal(entry); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, stockCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
