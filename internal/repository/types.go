package repository

import "time"

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page          int
	PageSize      int
	UserID        uint
	PlanID        uint
	Status        string
	PaymentStatus string
	OrderNo       string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// InvoiceListFilter 查询发票列表的过滤条件
type InvoiceListFilter struct {
	Page      int
	PageSize  int
	UserID    uint
	Status    string
	InvoiceNo string
}

// ReferralEarningListFilter 查询推广佣金列表的过滤条件
type ReferralEarningListFilter struct {
	Page           int
	PageSize       int
	UserID         uint
	ReferredUserID uint
	OrderID        uint
	Status         string
	Level          int
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page         int
	PageSize     int
	Keyword      string
	Status       string
	ReferredByID uint
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
}

// PlanListFilter 查询套餐列表的过滤条件
type PlanListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
}

// PaymentListFilter 查询支付流水的过滤条件
type PaymentListFilter struct {
	Page        int
	PageSize    int
	OrderID     uint
	Status      string
	Provider    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
