package repository

import (
	"errors"
	"time"

	"github.com/hostara-next/internal/constants"
	"github.com/hostara-next/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByIDAndUser(id uint, userID uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	GetByOrderNoAndUser(orderNo string, userID uint) (*models.Order, error)
	GetByGatewayOrderID(gatewayOrderID string) (*models.Order, error)
	ExistsByOrderNo(orderNo string) (bool, error)
	ListByUser(filter OrderListFilter) ([]models.Order, int64, error)
	ListAdmin(filter OrderListFilter) ([]models.Order, int64, error)
	ListExpiredPending(before time.Time, limit int) ([]models.Order, error)
	UpdateStatus(id uint, status string, updates map[string]interface{}) error
	MarkCompletedIfPending(id uint, gatewayPaymentID string, paidAt time.Time) (bool, error)
	MarkCancelledIfPending(id uint) (bool, error)
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create 创建订单
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// GetByID 根据 ID 获取订单
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Plan").Preload("Invoice").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDAndUser 获取用户订单详情
func (r *GormOrderRepository) GetByIDAndUser(id uint, userID uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Plan").Preload("Invoice").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo 根据订单号获取订单
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Plan").Preload("Invoice").
		Where("order_no = ?", orderNo).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNoAndUser 根据订单号获取用户订单
func (r *GormOrderRepository) GetByOrderNoAndUser(orderNo string, userID uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Plan").Preload("Invoice").
		Where("order_no = ? AND user_id = ?", orderNo, userID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByGatewayOrderID 根据网关订单号获取订单
func (r *GormOrderRepository) GetByGatewayOrderID(gatewayOrderID string) (*models.Order, error) {
	if gatewayOrderID == "" {
		return nil, nil
	}
	var order models.Order
	if err := r.db.Preload("Plan").Preload("Invoice").
		Where("gateway_order_id = ?", gatewayOrderID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ExistsByOrderNo 判断订单号是否已占用
func (r *GormOrderRepository) ExistsByOrderNo(orderNo string) (bool, error) {
	var total int64
	if err := r.db.Model(&models.Order{}).Where("order_no = ?", orderNo).Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

// ListByUser 用户订单列表
func (r *GormOrderRepository) ListByUser(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{}).Where("user_id = ?", filter.UserID)
	return r.list(query, filter)
}

// ListAdmin 后台订单列表
func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	return r.list(query, filter)
}

func (r *GormOrderRepository) list(query *gorm.DB, filter OrderListFilter) ([]models.Order, int64, error) {
	if filter.PlanID != 0 {
		query = query.Where("plan_id = ?", filter.PlanID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.OrderNo != "" {
		query = query.Where("order_no = ?", filter.OrderNo)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var orders []models.Order
	if err := query.Preload("Plan").Order("id DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListExpiredPending 获取已过支付时限的待支付订单
func (r *GormOrderRepository) ListExpiredPending(before time.Time, limit int) ([]models.Order, error) {
	query := r.db.Where("status = ? AND payment_status = ? AND expires_at IS NOT NULL AND expires_at <= ?",
		constants.OrderStatusPending, constants.OrderPaymentStatusPending, before)
	if limit > 0 {
		query = query.Limit(limit)
	}
	var orders []models.Order
	if err := query.Order("id ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus 更新订单状态与附加字段
func (r *GormOrderRepository) UpdateStatus(id uint, status string, updates map[string]interface{}) error {
	values := map[string]interface{}{"status": status}
	for k, v := range updates {
		values[k] = v
	}
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(values).Error
}

// MarkCompletedIfPending 以条件更新将待支付订单置为已完成。
// 仅当 status 与 payment_status 均为 pending 时生效,已取消或已完成的订单不会被翻转;
// 返回值表示本次调用是否完成了状态翻转,并发回调场景下只有一个调用者会拿到 true。
func (r *GormOrderRepository) MarkCompletedIfPending(id uint, gatewayPaymentID string, paidAt time.Time) (bool, error) {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ? AND payment_status = ?",
			id, constants.OrderStatusPending, constants.OrderPaymentStatusPending).
		Updates(map[string]interface{}{
			"status":             constants.OrderStatusCompleted,
			"payment_status":     constants.OrderPaymentStatusPaid,
			"gateway_payment_id": gatewayPaymentID,
			"paid_at":            paidAt,
			"completed_at":       paidAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkCancelledIfPending 以条件更新取消待支付订单
func (r *GormOrderRepository) MarkCancelledIfPending(id uint) (bool, error) {
	now := time.Now()
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ? AND payment_status = ?",
			id, constants.OrderStatusPending, constants.OrderPaymentStatusPending).
		Updates(map[string]interface{}{
			"status":       constants.OrderStatusCancelled,
			"cancelled_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
