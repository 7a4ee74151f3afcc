package repository

import (
	"errors"

	"github.com/hostara-next/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository 支付流水数据访问接口
type PaymentRepository interface {
	Create(payment *models.Payment) error
	Update(payment *models.Payment) error
	GetByID(id uint) (*models.Payment, error)
	GetByGatewayOrderID(gatewayOrderID string) (*models.Payment, error)
	GetByGatewayPaymentID(gatewayPaymentID string) (*models.Payment, error)
	ListByOrder(orderID uint) ([]models.Payment, error)
	List(filter PaymentListFilter) ([]models.Payment, int64, error)
	WithTx(tx *gorm.DB) *GormPaymentRepository
}

// GormPaymentRepository GORM 实现
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建支付流水仓库
func NewPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPaymentRepository) WithTx(tx *gorm.DB) *GormPaymentRepository {
	if tx == nil {
		return r
	}
	return &GormPaymentRepository{db: tx}
}

// Create 创建支付流水
func (r *GormPaymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// Update 更新支付流水
func (r *GormPaymentRepository) Update(payment *models.Payment) error {
	return r.db.Save(payment).Error
}

// GetByID 根据 ID 获取支付流水
func (r *GormPaymentRepository) GetByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// GetByGatewayOrderID 根据网关订单号获取支付流水
func (r *GormPaymentRepository) GetByGatewayOrderID(gatewayOrderID string) (*models.Payment, error) {
	if gatewayOrderID == "" {
		return nil, nil
	}
	var payment models.Payment
	if err := r.db.Where("gateway_order_id = ?", gatewayOrderID).
		Order("id DESC").
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// GetByGatewayPaymentID 根据网关支付号获取支付流水
func (r *GormPaymentRepository) GetByGatewayPaymentID(gatewayPaymentID string) (*models.Payment, error) {
	if gatewayPaymentID == "" {
		return nil, nil
	}
	var payment models.Payment
	if err := r.db.Where("gateway_payment_id = ?", gatewayPaymentID).
		Order("id DESC").
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// ListByOrder 获取订单的全部支付流水
func (r *GormPaymentRepository) ListByOrder(orderID uint) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.Where("order_id = ?", orderID).Order("id DESC").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// List 支付流水列表
func (r *GormPaymentRepository) List(filter PaymentListFilter) ([]models.Payment, int64, error) {
	query := r.db.Model(&models.Payment{})

	if filter.OrderID != 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Provider != "" {
		query = query.Where("provider = ?", filter.Provider)
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

	var payments []models.Payment
	if err := query.Order("id DESC").Find(&payments).Error; err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}
