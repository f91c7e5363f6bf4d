// internal/handlers/dashboard/dashboard_handler.go
package dashboard

import (
	"net/http"

	"fieldops-service/internal/pkg/response"
	service "fieldops-service/internal/service/dashboard"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetSnapshot serves the admin dashboard payload
func (h *DashboardHandler) GetSnapshot(c *gin.Context) {
	result, err := h.dashboardService.GetSnapshot(c.Request.Context())
	if err != nil {
		response.FromError(c, err, "failed to build dashboard")
		return
	}

	response.Success(c, http.StatusOK, "dashboard retrieved", result)
}
