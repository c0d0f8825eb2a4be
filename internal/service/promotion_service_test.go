package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/repository"
)

func setupPromotionServiceTest(t *testing.T) (*PromotionService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:promotion_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Promotion{}, &models.PromotionUsage{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	models.DB = db

	promotionRepo := repository.NewPromotionRepository(db)
	usageRepo := repository.NewPromotionUsageRepository(db)
	return NewPromotionService(promotionRepo, usageRepo), db
}

func createTestPromotion(t *testing.T, db *gorm.DB, promotion *models.Promotion) *models.Promotion {
	t.Helper()

	now := time.Now()
	if promotion.Status == "" {
		promotion.Status = constants.PromotionStatusActive
	}
	if promotion.Type == "" {
		promotion.Type = constants.PromotionTypePercentage
	}
	promotion.CreatedAt = now
	promotion.UpdatedAt = now
	if err := db.Create(promotion).Error; err != nil {
		t.Fatalf("create promotion failed: %v", err)
	}
	return promotion
}

func createTestUsage(t *testing.T, db *gorm.DB, promotionID, userID uint) {
	t.Helper()

	if err := db.Create(&models.PromotionUsage{
		PromotionID:    promotionID,
		UserID:         userID,
		OrderID:        9000 + userID,
		DiscountAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		CreatedAt:      time.Now(),
	}).Error; err != nil {
		t.Fatalf("create promotion usage failed: %v", err)
	}
}

func TestValidatePromoFieldsMissing(t *testing.T) {
	svc, db := setupPromotionServiceTest(t)

	_, err := svc.Validate(ValidatePromoInput{
		PromoCode:   "   ",
		CustomerID:  1,
		OrderAmount: testMoney(t, "100"),
	})
	if !errors.Is(err, ErrPromoFieldsMissing) {
		t.Fatalf("expected fields missing for blank code, got: %v", err)
	}

	_, err = svc.Validate(ValidatePromoInput{
		PromoCode:   "NEW20",
		CustomerID:  0,
		OrderAmount: testMoney(t, "100"),
	})
	if !errors.Is(err, ErrPromoFieldsMissing) {
		t.Fatalf("expected fields missing for zero customer, got: %v", err)
	}

	// 金额缺省时 JSON 绑定落到 0，同样视为入参不全，不能让零门槛促销放行。
	createTestPromotion(t, db, &models.Promotion{
		Name: "零门槛",
		Code: ptrString("ZEROOK"),
	})
	_, err = svc.Validate(ValidatePromoInput{
		PromoCode:  "ZEROOK",
		CustomerID: 42,
	})
	if !errors.Is(err, ErrPromoFieldsMissing) {
		t.Fatalf("expected fields missing for absent order amount, got: %v", err)
	}
}

func TestValidatePromoCodeNotFound(t *testing.T) {
	svc, db := setupPromotionServiceTest(t)

	pastStart := time.Now().Add(-48 * time.Hour)
	pastEnd := time.Now().Add(-24 * time.Hour)
	futureStart := time.Now().Add(24 * time.Hour)
	createTestPromotion(t, db, &models.Promotion{
		Name:          "已停用",
		Code:          ptrString("PAUSED"),
		DiscountValue: testMoney(t, "10"),
		Status:        constants.PromotionStatusInactive,
	})
	createTestPromotion(t, db, &models.Promotion{
		Name:          "已过期",
		Code:          ptrString("GONE"),
		DiscountValue: testMoney(t, "10"),
		StartDate:     &pastStart,
		EndDate:       &pastEnd,
	})
	createTestPromotion(t, db, &models.Promotion{
		Name:          "未开始",
		Code:          ptrString("SOON"),
		DiscountValue: testMoney(t, "10"),
		StartDate:     &futureStart,
	})

	// 不存在、未启用、窗口之外统一归为码无效
	for _, code := range []string{"MISSING", "PAUSED", "GONE", "SOON"} {
		_, err := svc.Validate(ValidatePromoInput{
			PromoCode:   code,
			CustomerID:  1,
			OrderAmount: testMoney(t, "100"),
		})
		if !errors.Is(err, ErrPromoCodeNotFound) {
			t.Fatalf("code %s: expected not found, got: %v", code, err)
		}
	}
}

func TestValidatePromoMinOrder(t *testing.T) {
	svc, db := setupPromotionServiceTest(t)
	createTestPromotion(t, db, &models.Promotion{
		Name:           "满 50 可用",
		Code:           ptrString("NEW20"),
		DiscountValue:  testMoney(t, "20"),
		MinOrderAmount: testMoney(t, "50"),
	})

	_, err := svc.Validate(ValidatePromoInput{
		PromoCode:   "NEW20",
		CustomerID:  1,
		OrderAmount: testMoney(t, "30"),
	})
	if !errors.Is(err, ErrPromoMinOrder) {
		t.Fatalf("expected min order error, got: %v", err)
	}

	var minErr *MinOrderError
	if !errors.As(err, &minErr) {
		t.Fatalf("expected *MinOrderError, got %T", err)
	}
	if minErr.Key() != "error.promo_min_order" {
		t.Fatalf("unexpected message key: %s", minErr.Key())
	}
	args := minErr.Args()
	if len(args) != 1 || args[0] != "50.00" {
		t.Fatalf("unexpected message args: %v", args)
	}

	// 刚好达到门槛时放行
	result, err := svc.Validate(ValidatePromoInput{
		PromoCode:   "NEW20",
		CustomerID:  1,
		OrderAmount: testMoney(t, "50"),
	})
	if err != nil {
		t.Fatalf("validate at threshold failed: %v", err)
	}
	if !result.Valid {
		t.Fatalf("expected valid result at threshold")
	}
}

func TestValidatePromoUsagePerCustomer(t *testing.T) {
	svc, db := setupPromotionServiceTest(t)
	promotion := createTestPromotion(t, db, &models.Promotion{
		Name:             "每人一次",
		Code:             ptrString("ONCE"),
		DiscountValue:    testMoney(t, "10"),
		UsagePerCustomer: 1,
	})
	createTestUsage(t, db, promotion.ID, 1)

	_, err := svc.Validate(ValidatePromoInput{
		PromoCode:   "ONCE",
		CustomerID:  1,
		OrderAmount: testMoney(t, "100"),
	})
	if !errors.Is(err, ErrPromoUsageLimit) {
		t.Fatalf("expected usage limit for used-up customer, got: %v", err)
	}

	// 其他顾客不受影响
	result, err := svc.Validate(ValidatePromoInput{
		PromoCode:   "ONCE",
		CustomerID:  2,
		OrderAmount: testMoney(t, "100"),
	})
	if err != nil {
		t.Fatalf("validate for fresh customer failed: %v", err)
	}
	if !result.Valid {
		t.Fatalf("expected valid result for fresh customer")
	}
}

func TestValidatePromoSuccessIsSideEffectFree(t *testing.T) {
	svc, db := setupPromotionServiceTest(t)
	promotion := createTestPromotion(t, db, &models.Promotion{
		Name:              "新客八折",
		Code:              ptrString("NEW20"),
		Type:              constants.PromotionTypePercentage,
		DiscountValue:     testMoney(t, "20"),
		MinOrderAmount:    testMoney(t, "50"),
		MaxDiscountAmount: testMoney(t, "30"),
		UsagePerCustomer:  1,
	})

	for i := 0; i < 3; i++ {
		result, err := svc.Validate(ValidatePromoInput{
			PromoCode:   " NEW20 ",
			CustomerID:  7,
			OrderAmount: testMoney(t, "500"),
		})
		if err != nil {
			t.Fatalf("validate round %d failed: %v", i, err)
		}
		if !result.Valid || result.Promotion == nil || result.Promotion.ID != promotion.ID {
			t.Fatalf("unexpected result: %+v", result)
		}
		if !result.Discount.Amount.Decimal.Equal(decimal.NewFromInt(30)) {
			t.Fatalf("expected capped discount 30, got %s", result.Discount.Amount.String())
		}
	}

	// 校验多次也不占用名额、不累计使用次数
	var usageCount int64
	if err := db.Model(&models.PromotionUsage{}).Where("promotion_id = ?", promotion.ID).Count(&usageCount).Error; err != nil {
		t.Fatalf("count usages failed: %v", err)
	}
	if usageCount != 0 {
		t.Fatalf("expected no usage rows, got %d", usageCount)
	}
	var stored models.Promotion
	if err := db.First(&stored, promotion.ID).Error; err != nil {
		t.Fatalf("reload promotion failed: %v", err)
	}
	if stored.UsedCount != 0 {
		t.Fatalf("expected used count unchanged, got %d", stored.UsedCount)
	}
}

func TestListActivePromotions(t *testing.T) {
	svc, db := setupPromotionServiceTest(t)

	pastEnd := time.Now().Add(-time.Hour)
	futureStart := time.Now().Add(time.Hour)
	createTestPromotion(t, db, &models.Promotion{Name: "生效中", Code: ptrString("LIVE"), DiscountValue: testMoney(t, "10")})
	createTestPromotion(t, db, &models.Promotion{Name: "已停用", Code: ptrString("OFF"), DiscountValue: testMoney(t, "10"), Status: constants.PromotionStatusInactive})
	createTestPromotion(t, db, &models.Promotion{Name: "已结束", Code: ptrString("ENDED"), DiscountValue: testMoney(t, "10"), EndDate: &pastEnd})
	createTestPromotion(t, db, &models.Promotion{Name: "未开始", Code: ptrString("LATER"), DiscountValue: testMoney(t, "10"), StartDate: &futureStart})

	promotions, err := svc.ListActive()
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	if len(promotions) != 1 {
		t.Fatalf("expected 1 active promotion, got %d", len(promotions))
	}
	if promotions[0].Name != "生效中" {
		t.Fatalf("unexpected promotion: %s", promotions[0].Name)
	}
}
