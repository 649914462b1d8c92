package handler

import (
	"net/http"

	"stockpilot/internal/apierror"
	"stockpilot/internal/dto"
	"stockpilot/internal/middleware"
	"stockpilot/internal/service"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler {
	return &SalesHandler{svc: svc}
}

// Record godoc
// @Summary Ingest a sale event and deduct stock atomically
// @Tags sales
// @Accept json
// @Produce json
// @Param body body dto.RecordSaleRequest true "Sale event"
// @Success 201 {object} dto.SaleResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/sales [post]
func (h *SalesHandler) Record(c *gin.Context) {
	companyID, ok := middleware.CompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("missing authentication"))
		return
	}
	var req dto.RecordSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordSale(c.Request.Context(), companyID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
