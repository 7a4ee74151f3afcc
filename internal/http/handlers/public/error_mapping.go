package public

import (
	"errors"

	"github.com/hostara-next/internal/http/response"
	"github.com/hostara-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var orderCreateErrorRules = []mappedHandlerError{
	{target: service.ErrPlanNotFound, code: response.CodeNotFound, msg: "套餐不存在"},
	{target: service.ErrPlanUnavailable, code: response.CodeBadRequest, msg: "套餐已下架"},
	{target: service.ErrBillingCycleInvalid, code: response.CodeBadRequest, msg: "计费周期无效"},
}

var orderCancelErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "订单不存在"},
	{target: service.ErrOrderCancelNotAllowed, code: response.CodeBadRequest, msg: "当前状态不允许取消"},
}

var paymentCheckoutErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "订单不存在"},
	{target: service.ErrOrderAlreadyPaid, code: response.CodeBadRequest, msg: "订单已支付"},
	{target: service.ErrOrderCancelNotAllowed, code: response.CodeBadRequest, msg: "订单状态不允许支付"},
	{target: service.ErrPaymentGatewayFailed, code: response.CodeBadRequest, msg: "支付网关请求失败"},
}

var paymentVerifyErrorRules = []mappedHandlerError{
	{target: service.ErrPaymentSignatureInvalid, code: response.CodeBadRequest, msg: "支付签名校验失败"},
	{target: service.ErrPaymentNotCaptured, code: response.CodeBadRequest, msg: "支付尚未完成"},
	{target: service.ErrPaymentGatewayFailed, code: response.CodeBadRequest, msg: "支付网关请求失败"},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "订单不存在"},
}

func respondOrderCreateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderCreateErrorRules, response.CodeInternal, "订单创建失败")
}

func respondOrderCancelError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderCancelErrorRules, response.CodeInternal, "订单取消失败")
}

func respondPaymentCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, paymentCheckoutErrorRules, response.CodeInternal, "支付下单失败")
}

func respondPaymentVerifyError(c *gin.Context, err error) {
	respondWithMappedError(c, err, paymentVerifyErrorRules, response.CodeInternal, "支付确认失败")
}
