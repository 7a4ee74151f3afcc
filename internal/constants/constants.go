package constants

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// 订单支付状态常量
const (
	OrderPaymentStatusPending = "pending"
	OrderPaymentStatusPaid    = "paid"
)

// 计费周期常量
const (
	BillingCycleMonthly      = "monthly"
	BillingCycleQuarterly    = "quarterly"
	BillingCycleSemiAnnually = "semi_annually"
	BillingCycleAnnually     = "annually"
	BillingCycleBiennially   = "biennially"
	BillingCycleTriennially  = "triennially"
)

// 发票状态常量
const (
	InvoiceStatusUnpaid = "unpaid"
	InvoiceStatusPaid   = "paid"
)

// 支付流水状态常量
const (
	PaymentStatusInitiated = "initiated"
	PaymentStatusSuccess   = "success"
	PaymentStatusFailed    = "failed"
)

// 支付提供方常量
const (
	PaymentProviderRazorpay = "razorpay"
)

// 推广佣金状态常量
const (
	ReferralEarningStatusPending   = "pending"
	ReferralEarningStatusAvailable = "available"
	ReferralEarningStatusPaid      = "paid"
	ReferralEarningStatusCancelled = "cancelled"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 管理员角色常量
const (
	AdminRoleSuper    = "super"
	AdminRoleOperator = "operator"
	AdminRoleViewer   = "viewer"
)

// 队列常量
const (
	QueueDefault           = "default"
	TaskOrderTimeoutCancel = "order:timeout_cancel"
	TaskReferralConfirmDue = "referral:confirm_due"
	TaskOrderReceiptNotify = "order:receipt_notify"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "ha"
)

// 币种常量
const (
	SiteCurrencyDefault = "INR"
)

// Razorpay Webhook 事件常量
const (
	WebhookEventPaymentCaptured = "payment.captured"
	WebhookEventPaymentFailed   = "payment.failed"
)

// BillingCycles 所有合法计费周期（按时长升序）
var BillingCycles = []string{
	BillingCycleMonthly,
	BillingCycleQuarterly,
	BillingCycleSemiAnnually,
	BillingCycleAnnually,
	BillingCycleBiennially,
	BillingCycleTriennially,
}

// IsValidBillingCycle 判断计费周期是否合法
func IsValidBillingCycle(cycle string) bool {
	for _, c := range BillingCycles {
		if c == cycle {
			return true
		}
	}
	return false
}
