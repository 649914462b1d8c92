package handler

import (
	"net/http"

	"stockpilot/internal/apierror"
	"stockpilot/internal/dto"
	"stockpilot/internal/middleware"
	"stockpilot/internal/model"
	"stockpilot/internal/repository"

	"github.com/gin-gonic/gin"
)

// WarehousesHandler is thin enough to sit directly on the repository.
type WarehousesHandler struct{ repo repository.WarehouseRepository }

func NewWarehousesHandler(repo repository.WarehouseRepository) *WarehousesHandler {
	return &WarehousesHandler{repo: repo}
}

func (h *WarehousesHandler) Create(c *gin.Context) {
	companyID, ok := middleware.CompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("missing authentication"))
		return
	}
	var req dto.CreateWarehouseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	w := &model.Warehouse{CompanyID: companyID, Name: req.Name}
	if err := h.repo.Create(c.Request.Context(), w); err != nil {
		c.JSON(http.StatusConflict, apierror.New("warehouse name already exists"))
		return
	}
	c.JSON(http.StatusCreated, dto.WarehouseResponse{ID: w.ID.String(), Name: w.Name})
}

func (h *WarehousesHandler) List(c *gin.Context) {
	companyID, ok := middleware.CompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("missing authentication"))
		return
	}
	warehouses, err := h.repo.ListByCompany(c.Request.Context(), companyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list warehouses"))
		return
	}
	resp := make([]dto.WarehouseResponse, 0, len(warehouses))
	for _, w := range warehouses {
		resp = append(resp, dto.WarehouseResponse{ID: w.ID.String(), Name: w.Name})
	}
	c.JSON(http.StatusOK, resp)
}
