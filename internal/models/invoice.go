package models

import (
	"time"

	"gorm.io/gorm"
)

// InvoiceLineItem 发票行项目
type InvoiceLineItem struct {
	Description string `json:"description"` // 项目描述
	Quantity    int    `json:"quantity"`    // 数量
	UnitPrice   Money  `json:"unit_price"`  // 单价
	Amount      Money  `json:"amount"`      // 小计
}

// Invoice 发票表；与订单一对一，随订单在同一事务内创建
type Invoice struct {
	ID         uint             `gorm:"primarykey" json:"id"`                                     // 主键
	InvoiceNo  string           `gorm:"uniqueIndex;not null" json:"invoice_no"`                   // 发票编号
	OrderID    uint             `gorm:"uniqueIndex;not null" json:"order_id"`                     // 订单ID
	UserID     uint             `gorm:"index;not null" json:"user_id"`                            // 用户ID
	Subtotal   Money            `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`    // 折后金额
	TaxAmount  Money            `gorm:"type:decimal(20,2);not null;default:0" json:"tax_amount"`  // 税额合计
	Total      Money            `gorm:"type:decimal(20,2);not null;default:0" json:"total"`       // 应付总额
	AmountPaid Money            `gorm:"type:decimal(20,2);not null;default:0" json:"amount_paid"` // 已付金额
	BalanceDue Money            `gorm:"type:decimal(20,2);not null;default:0" json:"balance_due"` // 未付余额
	Currency   string           `gorm:"not null" json:"currency"`                                 // 币种
	Status     string           `gorm:"index;not null" json:"status"`                             // 发票状态
	LineItems  InvoiceLineItems `gorm:"type:json" json:"line_items"`                              // 行项目
	DueAt      *time.Time       `gorm:"index" json:"due_at"`                                      // 到期时间
	PaidAt     *time.Time       `gorm:"index" json:"paid_at"`                                     // 结清时间
	CreatedAt  time.Time        `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt  time.Time        `gorm:"index" json:"updated_at"`                                  // 更新时间
	DeletedAt  gorm.DeletedAt   `gorm:"index" json:"-"`                                           // 软删除时间
}

// TableName 指定表名
func (Invoice) TableName() string {
	return "invoices"
}
