package service

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/models"
)

func testMoney(t *testing.T, value string) models.Money {
	t.Helper()
	amount, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", value, err)
	}
	return models.NewMoneyFromDecimal(amount)
}

func TestCalculateDiscountPercentage(t *testing.T) {
	promotion := &models.Promotion{
		Name:          "全场八折",
		Type:          constants.PromotionTypePercentage,
		DiscountValue: testMoney(t, "20"),
	}

	discount := CalculateDiscount(promotion, testMoney(t, "150"), nil)
	if !discount.Amount.Decimal.Equal(decimal.RequireFromString("30")) {
		t.Fatalf("expected discount 30, got %s", discount.Amount.String())
	}
	if discount.Type != constants.PromotionTypePercentage {
		t.Fatalf("unexpected discount type: %s", discount.Type)
	}
}

func TestCalculateDiscountPercentageCapped(t *testing.T) {
	promotion := &models.Promotion{
		Name:              "新客八折",
		Type:              constants.PromotionTypePercentage,
		DiscountValue:     testMoney(t, "20"),
		MaxDiscountAmount: testMoney(t, "30"),
	}

	// 500 * 20% = 100，封顶 30
	discount := CalculateDiscount(promotion, testMoney(t, "500"), nil)
	if !discount.Amount.Decimal.Equal(decimal.RequireFromString("30")) {
		t.Fatalf("expected capped discount 30, got %s", discount.Amount.String())
	}

	// 未触顶时按比例计算
	discount = CalculateDiscount(promotion, testMoney(t, "100"), nil)
	if !discount.Amount.Decimal.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("expected discount 20, got %s", discount.Amount.String())
	}
}

func TestCalculateDiscountPercentageRounding(t *testing.T) {
	promotion := &models.Promotion{
		Name:          "限时 85 折",
		Type:          constants.PromotionTypePercentage,
		DiscountValue: testMoney(t, "15"),
	}

	// 33.33 * 15% = 4.9995，保留两位后为 5.00
	discount := CalculateDiscount(promotion, testMoney(t, "33.33"), nil)
	if !discount.Amount.Decimal.Equal(decimal.RequireFromString("5")) {
		t.Fatalf("expected rounded discount 5.00, got %s", discount.Amount.String())
	}
}

func TestCalculateDiscountCategoryUsesOrderAmount(t *testing.T) {
	categoryID := uint(3)
	promotion := &models.Promotion{
		Name:              "甜品 85 折",
		Type:              constants.PromotionTypeCategoryDiscount,
		DiscountValue:     testMoney(t, "15"),
		MaxDiscountAmount: testMoney(t, "20"),
		CategoryID:        &categoryID,
	}
	items := []CartLine{
		{MenuItemID: 1, CategoryID: 3, UnitPrice: testMoney(t, "22"), Quantity: 2},
		{MenuItemID: 2, CategoryID: 1, UnitPrice: testMoney(t, "36"), Quantity: 1},
	}

	// 与 percentage 同公式，按整单金额计算
	discount := CalculateDiscount(promotion, testMoney(t, "80"), items)
	if !discount.Amount.Decimal.Equal(decimal.RequireFromString("12")) {
		t.Fatalf("expected discount 12, got %s", discount.Amount.String())
	}
}

func TestCalculateDiscountFixedAmountUnclamped(t *testing.T) {
	promotion := &models.Promotion{
		Name:          "立减 50",
		Type:          constants.PromotionTypeFixedAmount,
		DiscountValue: testMoney(t, "50"),
	}

	// 固定金额不与订单金额取小，调用方负责兜底
	discount := CalculateDiscount(promotion, testMoney(t, "30"), nil)
	if !discount.Amount.Decimal.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("expected discount 50, got %s", discount.Amount.String())
	}
}

func TestCalculateDiscountFreeShipping(t *testing.T) {
	promotion := &models.Promotion{
		Name:          "免配送费",
		Type:          constants.PromotionTypeFreeShipping,
		DiscountValue: testMoney(t, "999"),
	}

	discount := CalculateDiscount(promotion, testMoney(t, "120"), nil)
	if !discount.Amount.Decimal.Equal(freeShippingWaiver) {
		t.Fatalf("expected fixed waiver %s, got %s", freeShippingWaiver.String(), discount.Amount.String())
	}
}

func TestCalculateDiscountBuyXGetYZero(t *testing.T) {
	promotion := &models.Promotion{
		Name:        "饮品买二赠一",
		Type:        constants.PromotionTypeBuyXGetY,
		BuyQuantity: 2,
		GetQuantity: 1,
	}
	items := []CartLine{
		{MenuItemID: 9, CategoryID: 4, UnitPrice: testMoney(t, "16"), Quantity: 3},
	}

	discount := CalculateDiscount(promotion, testMoney(t, "48"), items)
	if !discount.Amount.Decimal.IsZero() {
		t.Fatalf("expected zero monetary discount, got %s", discount.Amount.String())
	}
}

func TestCalculateDiscountUnknownType(t *testing.T) {
	promotion := &models.Promotion{
		Name:          "未知类型",
		Type:          "mystery",
		DiscountValue: testMoney(t, "10"),
	}

	discount := CalculateDiscount(promotion, testMoney(t, "100"), nil)
	if !discount.Amount.Decimal.IsZero() {
		t.Fatalf("expected zero discount for unknown type, got %s", discount.Amount.String())
	}
}

func TestCalculateDiscountNilPromotion(t *testing.T) {
	discount := CalculateDiscount(nil, testMoney(t, "100"), nil)
	if !discount.Amount.Decimal.IsZero() {
		t.Fatalf("expected zero discount, got %s", discount.Amount.String())
	}
	if discount.Type != "" {
		t.Fatalf("expected empty type, got %s", discount.Type)
	}
}

func TestCalculateDiscountDescriptionFallback(t *testing.T) {
	promotion := &models.Promotion{
		Name:          "新客立减",
		Type:          constants.PromotionTypeFixedAmount,
		DiscountValue: testMoney(t, "10"),
	}

	discount := CalculateDiscount(promotion, testMoney(t, "100"), nil)
	if discount.Description != "新客立减" {
		t.Fatalf("expected description fallback to name, got %q", discount.Description)
	}

	promotion.Description = "首单专享优惠"
	discount = CalculateDiscount(promotion, testMoney(t, "100"), nil)
	if discount.Description != "首单专享优惠" {
		t.Fatalf("expected description kept, got %q", discount.Description)
	}
}
