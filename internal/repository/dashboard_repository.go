package repository

import (
	"fmt"
	"time"

	"github.com/hostara-next/internal/constants"
	"github.com/hostara-next/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据,不承载业务规则。
type DashboardRepository interface {
	GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error)
	GetOrderTrends(startAt, endAt time.Time) ([]DashboardOrderTrendRow, error)
	GetTopPlans(startAt, endAt time.Time, limit int) ([]DashboardPlanRankingRow, error)
}

// DashboardOverviewRow 仪表盘总览原始统计结果
type DashboardOverviewRow struct {
	OrdersTotal         int64
	CompletedOrders     int64
	PendingOrders       int64
	CancelledOrders     int64
	RevenuePaid         float64
	PaymentsTotal       int64
	PaymentsSuccess     int64
	PaymentsFailed      int64
	NewUsers            int64
	ActivePlans         int64
	CommissionPending   float64
	CommissionAvailable float64
	CommissionPaid      float64
	Currency            string
}

// DashboardOrderTrendRow 订单趋势统计
type DashboardOrderTrendRow struct {
	Day         string
	OrdersTotal int64
	OrdersPaid  int64
	RevenuePaid float64
}

// DashboardPlanRankingRow 套餐排行原始行
type DashboardPlanRankingRow struct {
	PlanID     uint
	Name       string
	PaidOrders int64
	PaidAmount float64
}

// GormDashboardRepository GORM 仪表盘聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// GetOverview 获取总览统计
func (r *GormDashboardRepository) GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error) {
	result := DashboardOverviewRow{}

	orderBase := func() *gorm.DB {
		return r.db.Model(&models.Order{}).
			Where("created_at >= ? AND created_at < ?", startAt, endAt)
	}

	if err := orderBase().Count(&result.OrdersTotal).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("status = ?", constants.OrderStatusCompleted).Count(&result.CompletedOrders).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("status = ?", constants.OrderStatusPending).Count(&result.PendingOrders).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("status = ?", constants.OrderStatusCancelled).Count(&result.CancelledOrders).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.Order{}).
		Where("paid_at IS NOT NULL AND paid_at >= ? AND paid_at < ? AND payment_status = ?",
			startAt, endAt, constants.OrderPaymentStatusPaid).
		Select("COALESCE(SUM(grand_total), 0)").
		Scan(&result.RevenuePaid).Error; err != nil {
		return result, err
	}

	paymentBase := func() *gorm.DB {
		return r.db.Model(&models.Payment{}).
			Where("created_at >= ? AND created_at < ?", startAt, endAt)
	}
	if err := paymentBase().Count(&result.PaymentsTotal).Error; err != nil {
		return result, err
	}
	if err := paymentBase().Where("status = ?", constants.PaymentStatusSuccess).Count(&result.PaymentsSuccess).Error; err != nil {
		return result, err
	}
	if err := paymentBase().Where("status = ?", constants.PaymentStatusFailed).Count(&result.PaymentsFailed).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Count(&result.NewUsers).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.Plan{}).
		Where("is_active = ?", true).
		Count(&result.ActivePlans).Error; err != nil {
		return result, err
	}

	commissionSum := func(status string, dest *float64) error {
		return r.db.Model(&models.ReferralEarning{}).
			Where("status = ? AND created_at >= ? AND created_at < ?", status, startAt, endAt).
			Select("COALESCE(SUM(commission_amount), 0)").
			Scan(dest).Error
	}
	if err := commissionSum(constants.ReferralEarningStatusPending, &result.CommissionPending); err != nil {
		return result, err
	}
	if err := commissionSum(constants.ReferralEarningStatusAvailable, &result.CommissionAvailable); err != nil {
		return result, err
	}
	if err := commissionSum(constants.ReferralEarningStatusPaid, &result.CommissionPaid); err != nil {
		return result, err
	}

	_ = r.db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ? AND currency <> ''", startAt, endAt).
		Order("id DESC").
		Limit(1).
		Pluck("currency", &result.Currency).Error

	return result, nil
}

// GetOrderTrends 获取订单趋势
func (r *GormDashboardRepository) GetOrderTrends(startAt, endAt time.Time) ([]DashboardOrderTrendRow, error) {
	type totalRow struct {
		Day   string
		Total int64
	}
	type paidRow struct {
		Day    string
		Paid   int64
		Amount float64
	}

	dayExpr := "CAST(date(created_at) AS TEXT)"

	var totals []totalRow
	if err := r.db.Model(&models.Order{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as total", dayExpr)).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Group(dayExpr).
		Order("day asc").
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	var paids []paidRow
	if err := r.db.Model(&models.Order{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as paid, COALESCE(SUM(grand_total), 0) as amount", dayExpr)).
		Where("created_at >= ? AND created_at < ? AND payment_status = ?",
			startAt, endAt, constants.OrderPaymentStatusPaid).
		Group(dayExpr).
		Order("day asc").
		Scan(&paids).Error; err != nil {
		return nil, err
	}

	paidMap := make(map[string]paidRow, len(paids))
	for _, item := range paids {
		paidMap[item.Day] = item
	}

	result := make([]DashboardOrderTrendRow, 0, len(totals))
	for _, item := range totals {
		paid := paidMap[item.Day]
		result = append(result, DashboardOrderTrendRow{
			Day:         item.Day,
			OrdersTotal: item.Total,
			OrdersPaid:  paid.Paid,
			RevenuePaid: paid.Amount,
		})
	}
	return result, nil
}

// GetTopPlans 获取套餐销售排行榜
func (r *GormDashboardRepository) GetTopPlans(startAt, endAt time.Time, limit int) ([]DashboardPlanRankingRow, error) {
	if limit <= 0 {
		limit = 5
	}
	rows := make([]DashboardPlanRankingRow, 0)
	if err := r.db.Model(&models.Order{}).
		Select(`
			orders.plan_id as plan_id,
			COALESCE(plans.name, '') as name,
			COUNT(*) as paid_orders,
			COALESCE(SUM(orders.grand_total), 0) as paid_amount
		`).
		Joins("LEFT JOIN plans ON plans.id = orders.plan_id").
		Where("orders.created_at >= ? AND orders.created_at < ? AND orders.payment_status = ?",
			startAt, endAt, constants.OrderPaymentStatusPaid).
		Group("orders.plan_id, plans.name").
		Order("paid_amount DESC, paid_orders DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
