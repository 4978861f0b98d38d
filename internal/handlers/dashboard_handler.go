package handlers

import (
	"net/http"

	"insure-service/internal/services"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	DashboardService services.IDashboardService
}

func NewDashboardHandler(dashboardService services.IDashboardService) *DashboardHandler {
	return &DashboardHandler{DashboardService: dashboardService}
}

func (h *DashboardHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/dashboard", h.GetDashboard)
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.DashboardService.GetDashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, dashboard)
}
