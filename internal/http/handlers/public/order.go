package public

import (
	"errors"
	"strconv"

	handlershared "github.com/hostara-next/internal/http/handlers/shared"
	"github.com/hostara-next/internal/http/response"
	"github.com/hostara-next/internal/repository"
	"github.com/hostara-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	PlanID       uint   `json:"plan_id" binding:"required"`
	BillingCycle string `json:"billing_cycle" binding:"required"`
}

// CreateOrder 创建订单与镜像发票
func (h *Handler) CreateOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		UserID:       userID,
		PlanID:       req.PlanID,
		BillingCycle: req.BillingCycle,
	})
	if err != nil {
		respondOrderCreateError(c, err)
		return
	}
	response.Success(c, order)
}

// ListOrders 查询当前用户订单
func (h *Handler) ListOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		UserID:        userID,
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
		OrderNo:       c.Query("order_no"),
	}

	orders, total, err := h.OrderService.ListUserOrders(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "订单查询失败", err)
		return
	}
	response.SuccessWithPage(c, orders, page, pageSize, total)
}

// GetOrder 查询当前用户订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "订单 ID 无效", nil)
		return
	}

	order, err := h.OrderService.GetUserOrder(uint(orderID), userID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "订单不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "订单查询失败", err)
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消当前用户待支付订单
func (h *Handler) CancelOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "订单 ID 无效", nil)
		return
	}

	order, err := h.OrderService.CancelUserOrder(uint(orderID), userID)
	if err != nil {
		respondOrderCancelError(c, err)
		return
	}
	response.Success(c, order)
}
