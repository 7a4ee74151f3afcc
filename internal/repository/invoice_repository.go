package repository

import (
	"errors"
	"time"

	"github.com/hostara-next/internal/constants"
	"github.com/hostara-next/internal/models"

	"gorm.io/gorm"
)

// InvoiceRepository 发票数据访问接口
type InvoiceRepository interface {
	Create(invoice *models.Invoice) error
	GetByID(id uint) (*models.Invoice, error)
	GetByOrderID(orderID uint) (*models.Invoice, error)
	GetByInvoiceNo(invoiceNo string) (*models.Invoice, error)
	ExistsByInvoiceNo(invoiceNo string) (bool, error)
	ListByUser(filter InvoiceListFilter) ([]models.Invoice, int64, error)
	ListAdmin(filter InvoiceListFilter) ([]models.Invoice, int64, error)
	MarkPaidIfUnpaid(id uint, paidAt time.Time) (bool, error)
	WithTx(tx *gorm.DB) *GormInvoiceRepository
}

// GormInvoiceRepository GORM 实现
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository 创建发票仓库
func NewInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// WithTx 绑定事务
func (r *GormInvoiceRepository) WithTx(tx *gorm.DB) *GormInvoiceRepository {
	if tx == nil {
		return r
	}
	return &GormInvoiceRepository{db: tx}
}

// Create 创建发票
func (r *GormInvoiceRepository) Create(invoice *models.Invoice) error {
	return r.db.Create(invoice).Error
}

// GetByID 根据 ID 获取发票
func (r *GormInvoiceRepository) GetByID(id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// GetByOrderID 根据订单 ID 获取发票
func (r *GormInvoiceRepository) GetByOrderID(orderID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.Where("order_id = ?", orderID).First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// GetByInvoiceNo 根据发票号获取发票
func (r *GormInvoiceRepository) GetByInvoiceNo(invoiceNo string) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.Where("invoice_no = ?", invoiceNo).First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// ExistsByInvoiceNo 判断发票号是否已占用
func (r *GormInvoiceRepository) ExistsByInvoiceNo(invoiceNo string) (bool, error) {
	var total int64
	if err := r.db.Model(&models.Invoice{}).Where("invoice_no = ?", invoiceNo).Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

// ListByUser 用户发票列表
func (r *GormInvoiceRepository) ListByUser(filter InvoiceListFilter) ([]models.Invoice, int64, error) {
	query := r.db.Model(&models.Invoice{}).Where("user_id = ?", filter.UserID)
	return r.list(query, filter)
}

// ListAdmin 后台发票列表
func (r *GormInvoiceRepository) ListAdmin(filter InvoiceListFilter) ([]models.Invoice, int64, error) {
	query := r.db.Model(&models.Invoice{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	return r.list(query, filter)
}

func (r *GormInvoiceRepository) list(query *gorm.DB, filter InvoiceListFilter) ([]models.Invoice, int64, error) {
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.InvoiceNo != "" {
		query = query.Where("invoice_no = ?", filter.InvoiceNo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var invoices []models.Invoice
	if err := query.Order("id DESC").Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// MarkPaidIfUnpaid 以条件更新将未付发票置为已付,并把余额清零
func (r *GormInvoiceRepository) MarkPaidIfUnpaid(id uint, paidAt time.Time) (bool, error) {
	result := r.db.Model(&models.Invoice{}).
		Where("id = ? AND status = ?", id, constants.InvoiceStatusUnpaid).
		Updates(map[string]interface{}{
			"status":      constants.InvoiceStatusPaid,
			"amount_paid": gorm.Expr("total"),
			"balance_due": 0,
			"paid_at":     paidAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
