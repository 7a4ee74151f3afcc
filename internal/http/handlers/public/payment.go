package public

import (
	"io"
	"strconv"

	"github.com/hostara-next/internal/http/response"
	"github.com/hostara-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 支付下单请求
type CheckoutRequest struct {
	OrderID uint `json:"order_id" binding:"required"`
}

// CheckoutPayment 为本地订单创建网关订单
func (h *Handler) CheckoutPayment(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	result, err := h.PaymentService.Checkout(c.Request.Context(), req.OrderID, userID)
	if err != nil {
		respondPaymentCheckoutError(c, err)
		return
	}
	response.Success(c, result)
}

// VerifyPaymentRequest 前端回传的支付凭证
type VerifyPaymentRequest struct {
	GatewayOrderID   string `json:"razorpay_order_id" binding:"required"`
	GatewayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature        string `json:"razorpay_signature" binding:"required"`
}

// VerifyPayment 校验支付签名并完成订单
func (h *Handler) VerifyPayment(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	order, err := h.PaymentService.VerifyAndComplete(c.Request.Context(), service.VerifyInput{
		GatewayOrderID:   req.GatewayOrderID,
		GatewayPaymentID: req.GatewayPaymentID,
		Signature:        req.Signature,
	})
	if err != nil {
		respondPaymentVerifyError(c, err)
		return
	}
	response.Success(c, order)
}

// GetPaymentConfig 获取网关公开配置
func (h *Handler) GetPaymentConfig(c *gin.Context) {
	response.Success(c, h.PaymentService.GetPublicConfig())
}

// ListOrderPayments 查询订单支付记录
func (h *Handler) ListOrderPayments(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "订单 ID 无效", nil)
		return
	}
	if _, err := h.OrderService.GetUserOrder(uint(orderID), userID); err != nil {
		respondError(c, response.CodeNotFound, "订单不存在", nil)
		return
	}

	payments, err := h.PaymentService.ListOrderPayments(uint(orderID))
	if err != nil {
		respondError(c, response.CodeInternal, "支付记录查询失败", err)
		return
	}
	response.Success(c, payments)
}

// RazorpayWebhook 网关服务端回调；按原始报文校验签名
func (h *Handler) RazorpayWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, response.CodeBadRequest, "报文读取失败", err)
		return
	}
	signature := c.GetHeader("X-Razorpay-Signature")

	if err := h.PaymentService.HandleWebhook(body, signature); err != nil {
		respondPaymentVerifyError(c, err)
		return
	}
	response.Success(c, gin.H{"processed": true})
}
