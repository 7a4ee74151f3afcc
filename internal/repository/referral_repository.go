package repository

import (
	"errors"
	"time"

	"github.com/hostara-next/internal/constants"
	"github.com/hostara-next/internal/models"
	"github.com/shopspring/decimal"

	"gorm.io/gorm"
)

// ReferralRepository 推广佣金数据访问接口
type ReferralRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) *GormReferralRepository

	CreateEarning(earning *models.ReferralEarning) error
	GetEarningByID(id uint) (*models.ReferralEarning, error)
	ExistsByOrder(orderID uint) (bool, error)
	ListByOrder(orderID uint) ([]models.ReferralEarning, error)
	List(filter ReferralEarningListFilter) ([]models.ReferralEarning, int64, error)
	SumByUser(userID uint, statuses []string) (decimal.Decimal, error)
	MarkPendingAvailable(before time.Time) (int64, error)
	CancelByOrder(orderID uint) (int64, error)
}

// GormReferralRepository GORM 实现
type GormReferralRepository struct {
	db *gorm.DB
}

// NewReferralRepository 创建推广佣金仓库
func NewReferralRepository(db *gorm.DB) *GormReferralRepository {
	return &GormReferralRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReferralRepository) WithTx(tx *gorm.DB) *GormReferralRepository {
	if tx == nil {
		return r
	}
	return &GormReferralRepository{db: tx}
}

// Transaction 执行事务
func (r *GormReferralRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// CreateEarning 创建佣金记录
func (r *GormReferralRepository) CreateEarning(earning *models.ReferralEarning) error {
	return r.db.Create(earning).Error
}

// GetEarningByID 根据 ID 获取佣金记录
func (r *GormReferralRepository) GetEarningByID(id uint) (*models.ReferralEarning, error) {
	var earning models.ReferralEarning
	if err := r.db.First(&earning, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &earning, nil
}

// ExistsByOrder 判断订单是否已产生过佣金
func (r *GormReferralRepository) ExistsByOrder(orderID uint) (bool, error) {
	var total int64
	if err := r.db.Model(&models.ReferralEarning{}).
		Where("order_id = ?", orderID).
		Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

// ListByOrder 获取订单的全部佣金记录
func (r *GormReferralRepository) ListByOrder(orderID uint) ([]models.ReferralEarning, error) {
	var earnings []models.ReferralEarning
	if err := r.db.Where("order_id = ?", orderID).
		Order("level ASC").
		Find(&earnings).Error; err != nil {
		return nil, err
	}
	return earnings, nil
}

// List 佣金列表
func (r *GormReferralRepository) List(filter ReferralEarningListFilter) ([]models.ReferralEarning, int64, error) {
	query := r.db.Model(&models.ReferralEarning{})

	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.ReferredUserID != 0 {
		query = query.Where("referred_user_id = ?", filter.ReferredUserID)
	}
	if filter.OrderID != 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Level != 0 {
		query = query.Where("level = ?", filter.Level)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var earnings []models.ReferralEarning
	if err := query.Order("id DESC").Find(&earnings).Error; err != nil {
		return nil, 0, err
	}
	return earnings, total, nil
}

// SumByUser 按状态汇总用户佣金
func (r *GormReferralRepository) SumByUser(userID uint, statuses []string) (decimal.Decimal, error) {
	query := r.db.Model(&models.ReferralEarning{}).Where("user_id = ?", userID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	var row struct {
		Total decimal.Decimal
	}
	if err := query.Select("COALESCE(SUM(commission_amount), 0) AS total").Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

// MarkPendingAvailable 把到达确认期的待确认佣金批量置为可用
func (r *GormReferralRepository) MarkPendingAvailable(before time.Time) (int64, error) {
	result := r.db.Model(&models.ReferralEarning{}).
		Where("status = ? AND available_at IS NOT NULL AND available_at <= ?",
			constants.ReferralEarningStatusPending, before).
		Update("status", constants.ReferralEarningStatusAvailable)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CancelByOrder 取消订单下未支付的佣金记录
func (r *GormReferralRepository) CancelByOrder(orderID uint) (int64, error) {
	result := r.db.Model(&models.ReferralEarning{}).
		Where("order_id = ? AND status IN ?", orderID,
			[]string{constants.ReferralEarningStatusPending, constants.ReferralEarningStatusAvailable}).
		Update("status", constants.ReferralEarningStatusCancelled)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
