package models

import (
	"time"

	"gorm.io/gorm"
)

// ReferralEarning 推广佣金记录；每级推荐人对应一行
type ReferralEarning struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                                    // 主键
	UserID           uint           `gorm:"not null;index;index:idx_referral_earning_unique,unique" json:"user_id"`  // 佣金所属用户（推荐人）
	ReferredUserID   uint           `gorm:"not null;index" json:"referred_user_id"`                                  // 下单用户
	OrderID          uint           `gorm:"not null;index;index:idx_referral_earning_unique,unique" json:"order_id"` // 订单ID
	Level            int            `gorm:"not null;index:idx_referral_earning_unique,unique" json:"level"`          // 推荐层级（1 为直接推荐人）
	RatePercent      Money          `gorm:"type:decimal(10,2);not null;default:0" json:"rate_percent"`               // 佣金比例（百分比）
	OrderAmount      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"order_amount"`               // 佣金基数（订单应付总额）
	CommissionAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"commission_amount"`          // 佣金金额
	Status           string         `gorm:"type:varchar(32);not null;index" json:"status"`                           // 佣金状态
	AvailableAt      *time.Time     `gorm:"index" json:"available_at,omitempty"`                                     // 转可提现时间
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                                 // 创建时间
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`                                                 // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                                          // 软删除时间

	User         *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`                  // 推荐人
	ReferredUser *User  `gorm:"foreignKey:ReferredUserID" json:"referred_user,omitempty"` // 下单用户
	Order        *Order `gorm:"foreignKey:OrderID" json:"order,omitempty"`                // 关联订单
}

// TableName 指定表名
func (ReferralEarning) TableName() string {
	return "referral_earnings"
}
