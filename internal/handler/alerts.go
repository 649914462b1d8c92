package handler

import (
	"net/http"

	"stockpilot/internal/apierror"
	"stockpilot/internal/middleware"
	"stockpilot/internal/service"
	"stockpilot/internal/worker"

	"github.com/gin-gonic/gin"
)

type AlertsHandler struct {
	svc        service.AlertService
	dispatcher *worker.Dispatcher
}

func NewAlertsHandler(svc service.AlertService, dispatcher *worker.Dispatcher) *AlertsHandler {
	return &AlertsHandler{svc: svc, dispatcher: dispatcher}
}

// List godoc
// @Summary Compute the current low-stock alert list, most urgent first
// @Tags alerts
// @Produce json
// @Success 200 {object} dto.AlertListResponse
// @Router /v1/alerts/low-stock [get]
func (h *AlertsHandler) List(c *gin.Context) {
	companyID, ok := middleware.CompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("missing authentication"))
		return
	}
	resp, err := h.svc.ComputeAlerts(c.Request.Context(), companyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to compute alerts"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TriggerScan enqueues an async scan for the caller's company without waiting
// for the next cron tick. The scan runs on the worker pool: PDF, email and
// webhook fan-out included.
func (h *AlertsHandler) TriggerScan(c *gin.Context) {
	companyID, ok := middleware.CompanyID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("missing authentication"))
		return
	}
	payload := worker.AlertScanJobPayload{CompanyID: companyID.String()}
	if err := h.dispatcher.EnqueueAlertScan(c.Request.Context(), payload); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to enqueue scan"))
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "scan enqueued"})
}
