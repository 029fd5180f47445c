package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/livecommerce/backend/internal/application/dashboard"
)

// DashboardHandler serves the back-office overview
type DashboardHandler struct {
	BaseHandler
	dashboardService *dashboard.Service
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary godoc
// @Summary      Dashboard summary
// @Description  Orders by status, revenue, product and low-stock counts, streams on air
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} dto.Response{data=dashboard.Summary}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
