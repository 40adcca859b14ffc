package admin

import (
	"github.com/inkpress/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats 仪表盘统计
func (h *Handler) GetDashboardStats(c *gin.Context) {
	stats, err := h.DashboardService.GetStats()
	if err != nil {
		respondError(c, response.CodeInternal, "error.dashboard_fetch_failed", err)
		return
	}
	response.Success(c, stats)
}
