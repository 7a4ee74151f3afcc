package models

import (
	"time"

	"gorm.io/gorm"
)

// Plan 订阅套餐表；每个计费周期一列价格
type Plan struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                             // 主键
	Name              string         `gorm:"not null" json:"name"`                                             // 套餐名称
	Slug              string         `gorm:"uniqueIndex;not null" json:"slug"`                                 // URL 标识
	Description       string         `gorm:"type:text" json:"description"`                                     // 套餐描述
	Currency          string         `gorm:"not null;default:'INR'" json:"currency"`                           // 币种
	MonthlyPrice      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"monthly_price"`       // 月付价格
	QuarterlyPrice    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"quarterly_price"`     // 季付价格
	SemiAnnuallyPrice Money          `gorm:"type:decimal(20,2);not null;default:0" json:"semi_annually_price"` // 半年付价格
	AnnuallyPrice     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"annually_price"`      // 年付价格
	BienniallyPrice   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"biennially_price"`    // 两年付价格
	TrienniallyPrice  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"triennially_price"`   // 三年付价格
	IsActive          bool           `gorm:"not null;default:true;index" json:"is_active"`                     // 是否上架
	SortOrder         int            `gorm:"not null;default:0" json:"sort_order"`                             // 展示排序
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                                          // 创建时间
	UpdatedAt         time.Time      `gorm:"index" json:"updated_at"`                                          // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                                   // 软删除时间
}

// TableName 指定表名
func (Plan) TableName() string {
	return "plans"
}

// PriceForCycle 返回指定计费周期的价格；未知周期返回 false
func (p Plan) PriceForCycle(cycle string) (Money, bool) {
	switch cycle {
	case "monthly":
		return p.MonthlyPrice, true
	case "quarterly":
		return p.QuarterlyPrice, true
	case "semi_annually":
		return p.SemiAnnuallyPrice, true
	case "annually":
		return p.AnnuallyPrice, true
	case "biennially":
		return p.BienniallyPrice, true
	case "triennially":
		return p.TrienniallyPrice, true
	}
	return Money{}, false
}
