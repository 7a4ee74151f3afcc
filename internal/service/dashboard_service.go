package service

import (
	"time"

	"github.com/hostara-next/internal/repository"
)

// DashboardService 仪表盘服务
type DashboardService struct {
	dashboardRepo repository.DashboardRepository
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(dashboardRepo repository.DashboardRepository) *DashboardService {
	return &DashboardService{dashboardRepo: dashboardRepo}
}

// DashboardOverview 仪表盘总览
type DashboardOverview struct {
	OrdersTotal         int64   `json:"orders_total"`
	CompletedOrders     int64   `json:"completed_orders"`
	PendingOrders       int64   `json:"pending_orders"`
	CancelledOrders     int64   `json:"cancelled_orders"`
	MonthRevenue        float64 `json:"month_revenue"`
	PaymentsTotal       int64   `json:"payments_total"`
	PaymentsSuccess     int64   `json:"payments_success"`
	PaymentsFailed      int64   `json:"payments_failed"`
	NewUsers            int64   `json:"new_users"`
	ActivePlans         int64   `json:"active_plans"`
	CommissionPending   float64 `json:"commission_pending"`
	CommissionAvailable float64 `json:"commission_available"`
	CommissionPaid      float64 `json:"commission_paid"`
	Currency            string  `json:"currency"`
}

// MonthRange 返回本地时区当前自然月的起止时间
func MonthRange(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0)
	return start, end
}

// GetOverview 获取本月总览
func (s *DashboardService) GetOverview(now time.Time) (*DashboardOverview, error) {
	startAt, endAt := MonthRange(now)
	row, err := s.dashboardRepo.GetOverview(startAt, endAt)
	if err != nil {
		return nil, err
	}
	return &DashboardOverview{
		OrdersTotal:         row.OrdersTotal,
		CompletedOrders:     row.CompletedOrders,
		PendingOrders:       row.PendingOrders,
		CancelledOrders:     row.CancelledOrders,
		MonthRevenue:        row.RevenuePaid,
		PaymentsTotal:       row.PaymentsTotal,
		PaymentsSuccess:     row.PaymentsSuccess,
		PaymentsFailed:      row.PaymentsFailed,
		NewUsers:            row.NewUsers,
		ActivePlans:         row.ActivePlans,
		CommissionPending:   row.CommissionPending,
		CommissionAvailable: row.CommissionAvailable,
		CommissionPaid:      row.CommissionPaid,
		Currency:            row.Currency,
	}, nil
}

// GetOrderTrends 获取本月订单趋势
func (s *DashboardService) GetOrderTrends(now time.Time) ([]repository.DashboardOrderTrendRow, error) {
	startAt, endAt := MonthRange(now)
	return s.dashboardRepo.GetOrderTrends(startAt, endAt)
}

// GetTopPlans 获取本月套餐销售排行
func (s *DashboardService) GetTopPlans(now time.Time, limit int) ([]repository.DashboardPlanRankingRow, error) {
	startAt, endAt := MonthRange(now)
	return s.dashboardRepo.GetTopPlans(startAt, endAt, limit)
}
