package admin

import (
	"errors"
	"strconv"
	"time"

	handlershared "github.com/hostara-next/internal/http/handlers/shared"
	"github.com/hostara-next/internal/http/response"
	"github.com/hostara-next/internal/repository"
	"github.com/hostara-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminOrders 获取订单列表 (Admin)
func (h *Handler) GetAdminOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	planID, _ := strconv.ParseUint(c.Query("plan_id"), 10, 64)

	filter := repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		UserID:        uint(userID),
		PlanID:        uint(planID),
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
		OrderNo:       c.Query("order_no"),
	}
	if from, err := time.Parse(time.RFC3339, c.Query("created_from")); err == nil {
		filter.CreatedFrom = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("created_to")); err == nil {
		filter.CreatedTo = &to
	}

	orders, total, err := h.OrderService.ListAdminOrders(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "订单查询失败", err)
		return
	}
	response.SuccessWithPage(c, orders, page, pageSize, total)
}

// GetAdminOrder 获取订单详情 (Admin)
func (h *Handler) GetAdminOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "订单 ID 无效", nil)
		return
	}

	order, err := h.OrderService.GetOrder(uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "订单不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "订单查询失败", err)
		return
	}

	payments, err := h.PaymentService.ListOrderPayments(uint(orderID))
	if err != nil {
		respondError(c, response.CodeInternal, "支付记录查询失败", err)
		return
	}

	response.Success(c, gin.H{
		"order":    order,
		"payments": payments,
	})
}

// CompleteAdminOrder 人工完成订单；走与网关回调相同的落账路径
func (h *Handler) CompleteAdminOrder(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "订单 ID 无效", nil)
		return
	}

	order, err := h.OrderService.GetOrder(uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "订单不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "订单查询失败", err)
		return
	}

	if err := h.PaymentService.CompleteOrder(order, ""); err != nil {
		respondError(c, response.CodeInternal, "订单完成失败", err)
		return
	}

	handlershared.RequestLog(c).Infow("admin_order_manual_complete",
		"admin_id", adminID,
		"order_id", order.ID,
		"order_no", order.OrderNo,
	)

	completed, err := h.OrderService.GetOrder(uint(orderID))
	if err != nil {
		respondError(c, response.CodeInternal, "订单查询失败", err)
		return
	}
	response.Success(c, completed)
}
