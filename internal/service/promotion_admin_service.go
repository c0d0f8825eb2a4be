package service

import (
	"strings"
	"time"

	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/repository"
)

// PromotionAdminService 促销活动后台管理服务
type PromotionAdminService struct {
	promotionRepo repository.PromotionRepository
	usageRepo     repository.PromotionUsageRepository
}

// NewPromotionAdminService 创建促销后台服务
func NewPromotionAdminService(promotionRepo repository.PromotionRepository, usageRepo repository.PromotionUsageRepository) *PromotionAdminService {
	return &PromotionAdminService{
		promotionRepo: promotionRepo,
		usageRepo:     usageRepo,
	}
}

// PromotionUpsertInput 创建/更新促销的入参
type PromotionUpsertInput struct {
	Name              string
	Description       string
	Code              string
	Type              string
	DiscountValue     models.Money
	MinOrderAmount    models.Money
	MaxDiscountAmount models.Money
	BuyQuantity       int
	GetQuantity       int
	CategoryID        *uint
	UsageLimit        int
	UsagePerCustomer  *int
	StartDate         *time.Time
	EndDate           *time.Time
	Status            string
}

var promotionTypes = map[string]bool{
	constants.PromotionTypePercentage:       true,
	constants.PromotionTypeFixedAmount:      true,
	constants.PromotionTypeBuyXGetY:         true,
	constants.PromotionTypeFreeShipping:     true,
	constants.PromotionTypeCategoryDiscount: true,
}

var promotionStatuses = map[string]bool{
	constants.PromotionStatusActive:    true,
	constants.PromotionStatusInactive:  true,
	constants.PromotionStatusScheduled: true,
	constants.PromotionStatusExpired:   true,
}

func (s *PromotionAdminService) validateInput(input *PromotionUpsertInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Code = strings.TrimSpace(input.Code)
	if input.Name == "" {
		return ErrPromotionInvalid
	}
	if !promotionTypes[input.Type] {
		return ErrPromotionInvalid
	}
	if input.Status == "" {
		input.Status = constants.PromotionStatusActive
	}
	if !promotionStatuses[input.Status] {
		return ErrPromotionInvalid
	}
	if input.DiscountValue.Decimal.IsNegative() ||
		input.MinOrderAmount.Decimal.IsNegative() ||
		input.MaxDiscountAmount.Decimal.IsNegative() {
		return ErrPromotionInvalid
	}
	switch input.Type {
	case constants.PromotionTypePercentage, constants.PromotionTypeCategoryDiscount:
		if input.DiscountValue.Decimal.IsZero() || input.DiscountValue.Decimal.GreaterThan(percentBase) {
			return ErrPromotionInvalid
		}
	case constants.PromotionTypeFixedAmount:
		if input.DiscountValue.Decimal.IsZero() {
			return ErrPromotionInvalid
		}
	case constants.PromotionTypeBuyXGetY:
		if input.BuyQuantity <= 0 || input.GetQuantity <= 0 {
			return ErrPromotionInvalid
		}
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return ErrPromotionInvalid
	}
	// 未填每人限用次数时默认 1 次，显式填 0 表示不限。
	if input.UsagePerCustomer == nil {
		defaultPerCustomer := 1
		input.UsagePerCustomer = &defaultPerCustomer
	}
	if input.UsageLimit < 0 || *input.UsagePerCustomer < 0 {
		return ErrPromotionInvalid
	}
	return nil
}

func (s *PromotionAdminService) ensureCodeUnique(code string, excludeID uint) error {
	if code == "" {
		return nil
	}
	existing, err := s.promotionRepo.GetByCode(code)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != excludeID {
		return ErrPromoCodeTaken
	}
	return nil
}

func applyPromotionInput(promotion *models.Promotion, input PromotionUpsertInput) {
	promotion.Name = input.Name
	promotion.Description = input.Description
	if input.Code == "" {
		promotion.Code = nil
	} else {
		code := input.Code
		promotion.Code = &code
	}
	promotion.Type = input.Type
	promotion.DiscountValue = input.DiscountValue
	promotion.MinOrderAmount = input.MinOrderAmount
	promotion.MaxDiscountAmount = input.MaxDiscountAmount
	promotion.BuyQuantity = input.BuyQuantity
	promotion.GetQuantity = input.GetQuantity
	promotion.CategoryID = input.CategoryID
	promotion.UsageLimit = input.UsageLimit
	if input.UsagePerCustomer != nil {
		promotion.UsagePerCustomer = *input.UsagePerCustomer
	}
	promotion.StartDate = input.StartDate
	promotion.EndDate = input.EndDate
	promotion.Status = input.Status
}

// Create 创建促销活动
func (s *PromotionAdminService) Create(input PromotionUpsertInput) (*models.Promotion, error) {
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}
	if err := s.ensureCodeUnique(input.Code, 0); err != nil {
		return nil, err
	}
	promotion := &models.Promotion{}
	applyPromotionInput(promotion, input)
	if err := s.promotionRepo.Create(promotion); err != nil {
		return nil, err
	}
	return promotion, nil
}

// Update 更新促销活动
func (s *PromotionAdminService) Update(id uint, input PromotionUpsertInput) (*models.Promotion, error) {
	promotion, err := s.promotionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, ErrPromotionNotFound
	}
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}
	if err := s.ensureCodeUnique(input.Code, id); err != nil {
		return nil, err
	}
	applyPromotionInput(promotion, input)
	if err := s.promotionRepo.Update(promotion); err != nil {
		return nil, err
	}
	return promotion, nil
}

// Get 获取促销活动详情
func (s *PromotionAdminService) Get(id uint) (*models.Promotion, error) {
	promotion, err := s.promotionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, ErrPromotionNotFound
	}
	return promotion, nil
}

// List 促销活动列表
func (s *PromotionAdminService) List(filter repository.PromotionListFilter) ([]models.Promotion, int64, error) {
	return s.promotionRepo.List(filter)
}

// Delete 删除促销活动
func (s *PromotionAdminService) Delete(id uint) error {
	promotion, err := s.promotionRepo.GetByID(id)
	if err != nil {
		return err
	}
	if promotion == nil {
		return ErrPromotionNotFound
	}
	return s.promotionRepo.Delete(id)
}

// ListUsages 促销使用记录列表
func (s *PromotionAdminService) ListUsages(filter repository.PromotionUsageListFilter) ([]models.PromotionUsage, int64, error) {
	return s.usageRepo.List(filter)
}
