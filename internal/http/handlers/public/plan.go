package public

import (
	"errors"

	"github.com/hostara-next/internal/http/response"
	"github.com/hostara-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetPlans 获取上架套餐列表
func (h *Handler) GetPlans(c *gin.Context) {
	plans, err := h.PlanService.ListActive()
	if err != nil {
		respondError(c, response.CodeInternal, "套餐查询失败", err)
		return
	}
	response.Success(c, plans)
}

// GetPlanBySlug 按 slug 获取套餐详情
func (h *Handler) GetPlanBySlug(c *gin.Context) {
	plan, err := h.PlanService.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			respondError(c, response.CodeNotFound, "套餐不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "套餐查询失败", err)
		return
	}
	response.Success(c, plan)
}
