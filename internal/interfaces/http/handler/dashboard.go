package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/tms/backend/internal/application/dashboard"
)

// DashboardHandler serves the tenant dashboard
type DashboardHandler struct {
	BaseHandler
	dashboardService *dashboard.Service
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary godoc
// @ID           getDashboardSummary
// @Summary      Dashboard summary
// @Description  Container counts by direction and status, booking and dispatch counts by status, and available stock
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} APIResponse[dashboard.Summary]
// @Router       /dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context(), tenantID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
