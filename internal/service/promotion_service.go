package service

import (
	"strings"
	"time"

	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/repository"
)

// PromotionService 促销校验与查询服务
type PromotionService struct {
	promotionRepo repository.PromotionRepository
	usageRepo     repository.PromotionUsageRepository
}

// NewPromotionService 创建促销服务
func NewPromotionService(promotionRepo repository.PromotionRepository, usageRepo repository.PromotionUsageRepository) *PromotionService {
	return &PromotionService{
		promotionRepo: promotionRepo,
		usageRepo:     usageRepo,
	}
}

// ValidatePromoInput 校验优惠码的入参
type ValidatePromoInput struct {
	PromoCode   string
	CustomerID  uint
	OrderAmount models.Money
	CartItems   []CartLine
}

// ValidatePromoResult 校验优惠码的结果
type ValidatePromoResult struct {
	Valid     bool              `json:"valid"`
	Promotion *models.Promotion `json:"promotion,omitempty"`
	Discount  Discount          `json:"discount"`
}

// Validate 校验优惠码并计算折扣。
// 校验按固定顺序短路：入参齐全 -> 查找生效促销 -> 最低消费 -> 每人限用 -> 计算折扣。
// 校验本身无副作用，使用记录在订单落库时写入。
func (s *PromotionService) Validate(input ValidatePromoInput) (*ValidatePromoResult, error) {
	code := strings.TrimSpace(input.PromoCode)
	if code == "" || input.CustomerID == 0 || !input.OrderAmount.Decimal.IsPositive() {
		return nil, ErrPromoFieldsMissing
	}

	// 查不到、未启用、不在时间窗内统一归为码无效，不向客户端区分原因。
	promotion, err := s.promotionRepo.GetActiveByCode(code, time.Now())
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, ErrPromoCodeNotFound
	}

	if input.OrderAmount.Decimal.LessThan(promotion.MinOrderAmount.Decimal) {
		return nil, &MinOrderError{Minimum: promotion.MinOrderAmount}
	}

	if promotion.UsagePerCustomer > 0 {
		count, err := s.usageRepo.CountByUser(promotion.ID, input.CustomerID)
		if err != nil {
			return nil, err
		}
		if count >= int64(promotion.UsagePerCustomer) {
			return nil, ErrPromoUsageLimit
		}
	}

	discount := CalculateDiscount(promotion, input.OrderAmount, input.CartItems)
	return &ValidatePromoResult{
		Valid:     true,
		Promotion: promotion,
		Discount:  discount,
	}, nil
}

// ListActive 获取当前生效的促销活动，按创建时间倒序
func (s *PromotionService) ListActive() ([]models.Promotion, error) {
	return s.promotionRepo.ListActive(time.Now())
}
