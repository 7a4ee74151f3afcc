package admin

import (
	"strconv"
	"time"

	"github.com/hostara-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDashboardOverview 获取后台仪表盘总览；口径为本自然月
func (h *Handler) GetDashboardOverview(c *gin.Context) {
	data, err := h.DashboardService.GetOverview(time.Now())
	if err != nil {
		respondError(c, response.CodeInternal, "仪表盘查询失败", err)
		return
	}
	response.Success(c, data)
}

// GetDashboardTrends 获取后台仪表盘订单趋势
func (h *Handler) GetDashboardTrends(c *gin.Context) {
	data, err := h.DashboardService.GetOrderTrends(time.Now())
	if err != nil {
		respondError(c, response.CodeInternal, "仪表盘查询失败", err)
		return
	}
	response.Success(c, data)
}

// GetDashboardTopPlans 获取后台仪表盘套餐排行
func (h *Handler) GetDashboardTopPlans(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	data, err := h.DashboardService.GetTopPlans(time.Now(), limit)
	if err != nil {
		respondError(c, response.CodeInternal, "仪表盘查询失败", err)
		return
	}
	response.Success(c, data)
}
