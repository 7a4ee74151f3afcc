package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表；取消为状态变更，订单行不做物理删除
type Order struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                         // 主键
	OrderNo          string         `gorm:"uniqueIndex;not null" json:"order_no"`                         // 订单编号
	UserID           uint           `gorm:"index;not null" json:"user_id"`                                // 用户ID
	PlanID           uint           `gorm:"index;not null" json:"plan_id"`                                // 套餐ID
	BillingCycle     string         `gorm:"type:varchar(20);not null" json:"billing_cycle"`               // 计费周期
	Subtotal         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`        // 折前金额
	DiscountAmount   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 周期折扣金额
	GSTAmount        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"gst_amount"`      // GST 税额
	TDSAmount        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"tds_amount"`      // TDS 抵扣额
	GrandTotal       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"grand_total"`     // 应付总额
	Currency         string         `gorm:"not null" json:"currency"`                                     // 币种
	Status           string         `gorm:"index;not null" json:"status"`                                 // 订单状态
	PaymentStatus    string         `gorm:"index;not null" json:"payment_status"`                         // 支付状态
	GatewayOrderID   string         `gorm:"index" json:"gateway_order_id"`                                // 网关订单ID
	GatewayPaymentID string         `gorm:"index" json:"gateway_payment_id"`                              // 网关支付ID
	PaidAt           *time.Time     `gorm:"index" json:"paid_at"`                                         // 支付时间
	CompletedAt      *time.Time     `gorm:"index" json:"completed_at"`                                    // 完成时间
	CancelledAt      *time.Time     `gorm:"index" json:"cancelled_at"`                                    // 取消时间
	ExpiresAt        *time.Time     `gorm:"index" json:"expires_at"`                                      // 待支付过期时间
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`     // 下单用户
	Plan    *Plan    `gorm:"foreignKey:PlanID" json:"plan,omitempty"`     // 套餐
	Invoice *Invoice `gorm:"foreignKey:OrderID" json:"invoice,omitempty"` // 发票
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
