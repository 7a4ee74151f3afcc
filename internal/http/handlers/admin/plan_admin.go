package admin

import (
	"errors"
	"strconv"

	handlershared "github.com/hostara-next/internal/http/handlers/shared"
	"github.com/hostara-next/internal/http/response"
	"github.com/hostara-next/internal/models"
	"github.com/hostara-next/internal/repository"
	"github.com/hostara-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminPlans 获取套餐列表 (Admin)
func (h *Handler) GetAdminPlans(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.PlanListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     c.Query("search"),
		OnlyActive: c.Query("only_active") == "true",
	}

	plans, total, err := h.PlanService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "套餐查询失败", err)
		return
	}
	response.SuccessWithPage(c, plans, page, pageSize, total)
}

// GetAdminPlan 获取套餐详情 (Admin)
func (h *Handler) GetAdminPlan(c *gin.Context) {
	planID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "套餐 ID 无效", nil)
		return
	}

	plan, err := h.PlanService.Get(uint(planID))
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

// PlanRequest 套餐创建/更新请求
type PlanRequest struct {
	Name              string       `json:"name" binding:"required"`
	Slug              string       `json:"slug" binding:"required"`
	Description       string       `json:"description"`
	Currency          string       `json:"currency"`
	MonthlyPrice      models.Money `json:"monthly_price"`
	QuarterlyPrice    models.Money `json:"quarterly_price"`
	SemiAnnuallyPrice models.Money `json:"semi_annually_price"`
	AnnuallyPrice     models.Money `json:"annually_price"`
	BienniallyPrice   models.Money `json:"biennially_price"`
	TrienniallyPrice  models.Money `json:"triennially_price"`
	IsActive          *bool        `json:"is_active"`
	SortOrder         int          `json:"sort_order"`
}

func (r PlanRequest) apply(plan *models.Plan) {
	plan.Name = r.Name
	plan.Slug = r.Slug
	plan.Description = r.Description
	if r.Currency != "" {
		plan.Currency = r.Currency
	}
	plan.MonthlyPrice = r.MonthlyPrice
	plan.QuarterlyPrice = r.QuarterlyPrice
	plan.SemiAnnuallyPrice = r.SemiAnnuallyPrice
	plan.AnnuallyPrice = r.AnnuallyPrice
	plan.BienniallyPrice = r.BienniallyPrice
	plan.TrienniallyPrice = r.TrienniallyPrice
	if r.IsActive != nil {
		plan.IsActive = *r.IsActive
	}
	plan.SortOrder = r.SortOrder
}

// CreatePlan 创建套餐 (Admin)
func (h *Handler) CreatePlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	plan := &models.Plan{IsActive: true}
	req.apply(plan)

	if err := h.PlanService.Create(plan); err != nil {
		if errors.Is(err, service.ErrPlanSlugTaken) {
			respondError(c, response.CodeBadRequest, "套餐别名已存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "套餐创建失败", err)
		return
	}
	response.Success(c, plan)
}

// UpdatePlan 更新套餐 (Admin)
func (h *Handler) UpdatePlan(c *gin.Context) {
	planID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "套餐 ID 无效", nil)
		return
	}

	plan, err := h.PlanService.Get(uint(planID))
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			respondError(c, response.CodeNotFound, "套餐不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "套餐查询失败", err)
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	req.apply(plan)

	if err := h.PlanService.Update(plan); err != nil {
		if errors.Is(err, service.ErrPlanSlugTaken) {
			respondError(c, response.CodeBadRequest, "套餐别名已存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "套餐更新失败", err)
		return
	}
	response.Success(c, plan)
}

// DeletePlan 删除套餐 (Admin)
func (h *Handler) DeletePlan(c *gin.Context) {
	planID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "套餐 ID 无效", nil)
		return
	}

	if err := h.PlanService.Delete(uint(planID)); err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			respondError(c, response.CodeNotFound, "套餐不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "套餐删除失败", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
