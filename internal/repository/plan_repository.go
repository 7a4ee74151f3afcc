package repository

import (
	"errors"

	"github.com/hostara-next/internal/models"

	"gorm.io/gorm"
)

// PlanRepository 套餐数据访问接口
type PlanRepository interface {
	GetByID(id uint) (*models.Plan, error)
	GetBySlug(slug string) (*models.Plan, error)
	ListActive() ([]models.Plan, error)
	List(filter PlanListFilter) ([]models.Plan, int64, error)
	Create(plan *models.Plan) error
	Update(plan *models.Plan) error
	Delete(id uint) error
}

// GormPlanRepository GORM 实现
type GormPlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository 创建套餐仓库
func NewPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// GetByID 根据 ID 获取套餐
func (r *GormPlanRepository) GetByID(id uint) (*models.Plan, error) {
	var plan models.Plan
	if err := r.db.First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// GetBySlug 根据别名获取套餐
func (r *GormPlanRepository) GetBySlug(slug string) (*models.Plan, error) {
	var plan models.Plan
	if err := r.db.Where("slug = ?", slug).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// ListActive 获取全部上架套餐
func (r *GormPlanRepository) ListActive() ([]models.Plan, error) {
	var plans []models.Plan
	if err := r.db.Where("is_active = ?", true).
		Order("sort_order ASC, id ASC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// List 套餐列表
func (r *GormPlanRepository) List(filter PlanListFilter) ([]models.Plan, int64, error) {
	query := r.db.Model(&models.Plan{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR slug LIKE ?", like, like)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var plans []models.Plan
	if err := query.Order("sort_order ASC, id ASC").Find(&plans).Error; err != nil {
		return nil, 0, err
	}
	return plans, total, nil
}

// Create 创建套餐
func (r *GormPlanRepository) Create(plan *models.Plan) error {
	return r.db.Create(plan).Error
}

// Update 更新套餐
func (r *GormPlanRepository) Update(plan *models.Plan) error {
	return r.db.Save(plan).Error
}

// Delete 删除套餐
func (r *GormPlanRepository) Delete(id uint) error {
	return r.db.Delete(&models.Plan{}, id).Error
}
