package service

import (
	"strings"

	"github.com/hostara-next/internal/models"
	"github.com/hostara-next/internal/repository"
)

// PlanService 套餐服务
type PlanService struct {
	planRepo repository.PlanRepository
}

// NewPlanService 创建套餐服务
func NewPlanService(planRepo repository.PlanRepository) *PlanService {
	return &PlanService{planRepo: planRepo}
}

// ListActive 公开的上架套餐列表
func (s *PlanService) ListActive() ([]models.Plan, error) {
	return s.planRepo.ListActive()
}

// GetBySlug 根据别名获取上架套餐
func (s *PlanService) GetBySlug(slug string) (*models.Plan, error) {
	plan, err := s.planRepo.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if plan == nil || !plan.IsActive {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// Get 获取套餐（后台）
func (s *PlanService) Get(id uint) (*models.Plan, error) {
	plan, err := s.planRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// List 套餐列表（后台）
func (s *PlanService) List(filter repository.PlanListFilter) ([]models.Plan, int64, error) {
	return s.planRepo.List(filter)
}

// Create 创建套餐
func (s *PlanService) Create(plan *models.Plan) error {
	plan.Slug = strings.TrimSpace(plan.Slug)
	existing, err := s.planRepo.GetBySlug(plan.Slug)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrPlanSlugTaken
	}
	return s.planRepo.Create(plan)
}

// Update 更新套餐
func (s *PlanService) Update(plan *models.Plan) error {
	plan.Slug = strings.TrimSpace(plan.Slug)
	existing, err := s.planRepo.GetBySlug(plan.Slug)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != plan.ID {
		return ErrPlanSlugTaken
	}
	return s.planRepo.Update(plan)
}

// Delete 删除套餐
func (s *PlanService) Delete(id uint) error {
	plan, err := s.planRepo.GetByID(id)
	if err != nil {
		return err
	}
	if plan == nil {
		return ErrPlanNotFound
	}
	return s.planRepo.Delete(id)
}
