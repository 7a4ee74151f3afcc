package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment 支付流水记录；每次网关下单一行
type Payment struct {
	ID               uint           `gorm:"primarykey" json:"id"`                      // 主键
	OrderID          uint           `gorm:"index;not null" json:"order_id"`            // 订单ID
	Provider         string         `gorm:"not null" json:"provider"`                  // 提供方（razorpay）
	GatewayOrderID   string         `gorm:"index;not null" json:"gateway_order_id"`    // 网关订单ID
	GatewayPaymentID string         `gorm:"index" json:"gateway_payment_id"`           // 网关支付ID
	Amount           Money          `gorm:"type:decimal(20,2);not null" json:"amount"` // 支付金额
	Currency         string         `gorm:"not null" json:"currency"`                  // 币种
	Status           string         `gorm:"index;not null" json:"status"`              // 支付状态
	Receipt          string         `gorm:"index" json:"receipt"`                      // 本地回执号
	ProviderPayload  JSON           `gorm:"type:json" json:"provider_payload"`         // 网关原始数据
	PaidAt           *time.Time     `gorm:"index" json:"paid_at"`                      // 支付时间
	CallbackAt       *time.Time     `gorm:"index" json:"callback_at"`                  // 回调时间
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                   // 创建时间
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`                   // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                            // 软删除时间

	Order *Order `gorm:"foreignKey:OrderID" json:"order,omitempty"` // 关联订单
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
