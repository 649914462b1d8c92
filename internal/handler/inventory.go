package handler

import (
	"net/http"

	"stockpilot/internal/apierror"
	"stockpilot/internal/dto"
	"stockpilot/internal/middleware"
	"stockpilot/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// Mutate godoc
// @Summary Apply a signed stock change to one (product, warehouse) pair
// @Tags inventory
// @Accept json
// @Produce json
// @Param body body dto.MutateInventoryRequest true "Mutation"
// @Success 200 {object} dto.MutationResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/inventory/mutations [post]
func (h *InventoryHandler) Mutate(c *gin.Context) {
	companyID, ok := middleware.CompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("missing authentication"))
		return
	}
	var req dto.MutateInventoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	// Idempotency-Key header is an alternative to the body field; the body
	// wins when both are present.
	if req.IdempotencyKey == nil {
		if key := c.GetHeader("Idempotency-Key"); key != "" {
			req.IdempotencyKey = &key
		}
	}
	resp, err := h.svc.ApplyChange(c.Request.Context(), companyID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) Transfer(c *gin.Context) {
	companyID, ok := middleware.CompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("missing authentication"))
		return
	}
	var req dto.TransferStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.IdempotencyKey == nil {
		if key := c.GetHeader("Idempotency-Key"); key != "" {
			req.IdempotencyKey = &key
		}
	}
	resp, err := h.svc.Transfer(c.Request.Context(), companyID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) CurrentQuantity(c *gin.Context) {
	companyID, ok := middleware.CompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("missing authentication"))
		return
	}
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product_id"))
		return
	}
	warehouseID, err := uuid.Parse(c.Query("warehouse_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid warehouse_id"))
		return
	}
	qty, err := h.svc.CurrentQuantity(c.Request.Context(), companyID, productID, warehouseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product_id":   productID.String(),
		"warehouse_id": warehouseID.String(),
		"quantity":     qty,
	})
}

// ListLedger returns the append-only mutation history, newest first.
func (h *InventoryHandler) ListLedger(c *gin.Context) {
	companyID, ok := middleware.CompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("missing authentication"))
		return
	}
	var filter dto.LedgerFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if err := validate.Struct(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid filter"))
		return
	}
	resp, err := h.svc.ListLedger(c.Request.Context(), companyID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Verify recomputes one (product, warehouse) quantity from the ledger and
// compares it against the projection. A mismatch returns 500: it means a bug
// or manual tampering, and nothing is auto-corrected.
func (h *InventoryHandler) Verify(c *gin.Context) {
	companyID, ok := middleware.CompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("missing authentication"))
		return
	}
	var req dto.VerifyInventoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.VerifyOwnedConsistency(c.Request.Context(), companyID, req)
	if err != nil && resp != nil && !resp.Consistent {
		c.JSON(http.StatusInternalServerError, resp)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
