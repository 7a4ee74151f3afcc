package service

import "errors"

// 业务错误定义;handler 层统一映射为响应码
var (
	ErrInvalidCredentials  = errors.New("用户名或密码错误")
	ErrInvalidEmail        = errors.New("邮箱格式无效")
	ErrWeakPassword        = errors.New("密码长度至少 8 位")
	ErrEmailTaken          = errors.New("邮箱已被注册")
	ErrUserNotFound        = errors.New("用户不存在")
	ErrUserDisabled        = errors.New("用户已被禁用")
	ErrReferralCodeInvalid = errors.New("推荐码无效")

	ErrCaptchaRequired = errors.New("需要验证码")
	ErrCaptchaInvalid  = errors.New("验证码错误")

	ErrPlanNotFound    = errors.New("套餐不存在")
	ErrPlanUnavailable = errors.New("套餐未上架")
	ErrPlanSlugTaken   = errors.New("套餐别名已存在")

	ErrBillingCycleInvalid = errors.New("计费周期无效")

	ErrOrderNotFound         = errors.New("订单不存在")
	ErrOrderCreateFailed     = errors.New("订单创建失败")
	ErrOrderUpdateFailed     = errors.New("订单更新失败")
	ErrOrderFetchFailed      = errors.New("订单查询失败")
	ErrOrderCancelNotAllowed = errors.New("订单当前状态不可取消")
	ErrOrderAlreadyPaid      = errors.New("订单已支付")

	ErrInvoiceNotFound = errors.New("发票不存在")

	ErrPaymentNotFound         = errors.New("支付记录不存在")
	ErrPaymentSignatureInvalid = errors.New("支付签名校验失败")
	ErrPaymentGatewayFailed    = errors.New("支付网关请求失败")
	ErrPaymentNotCaptured      = errors.New("支付未完成")

	ErrAdminNotFound = errors.New("管理员不存在")
)
