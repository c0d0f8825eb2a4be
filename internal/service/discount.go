package service

import (
	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/models"

	"github.com/shopspring/decimal"
)

// CartLine 折扣计算用的订单行
type CartLine struct {
	MenuItemID uint         `json:"menu_item_id"`
	CategoryID uint         `json:"category_id"`
	UnitPrice  models.Money `json:"unit_price"`
	Quantity   int          `json:"quantity"`
}

// Discount 折扣计算结果
type Discount struct {
	Amount      models.Money `json:"amount"`
	Type        string       `json:"type"`
	Description string       `json:"description"`
}

// 免配送费固定减免 30，不读取 discount_value。
var freeShippingWaiver = decimal.NewFromInt(30)

var percentBase = decimal.NewFromInt(100)

// CalculateDiscount 按促销类型计算折扣金额。纯函数，金额统一保留 2 位小数。
// 未知类型返回 0 折扣，不报错。
func CalculateDiscount(promotion *models.Promotion, orderAmount models.Money, items []CartLine) Discount {
	result := Discount{
		Amount: models.NewMoneyFromDecimal(decimal.Zero),
	}
	if promotion == nil {
		return result
	}
	result.Type = promotion.Type
	result.Description = promotion.Description
	if result.Description == "" {
		result.Description = promotion.Name
	}

	switch promotion.Type {
	case constants.PromotionTypePercentage, constants.PromotionTypeCategoryDiscount:
		// category_discount 与 percentage 同公式：按整单金额计算，不按分类过滤行项。
		amount := orderAmount.Decimal.Mul(promotion.DiscountValue.Decimal).Div(percentBase).Round(2)
		if promotion.MaxDiscountAmount.Decimal.IsPositive() && amount.GreaterThan(promotion.MaxDiscountAmount.Decimal) {
			amount = promotion.MaxDiscountAmount.Decimal
		}
		result.Amount = models.NewMoneyFromDecimal(amount)
	case constants.PromotionTypeFixedAmount:
		// 固定金额不与订单金额取小，越过小计由调用方兜底。
		result.Amount = models.NewMoneyFromDecimal(promotion.DiscountValue.Decimal)
	case constants.PromotionTypeFreeShipping:
		result.Amount = models.NewMoneyFromDecimal(freeShippingWaiver)
	case constants.PromotionTypeBuyXGetY:
		// 买赠的赠品以免费行项实现，货币折扣恒为 0。
		result.Amount = models.NewMoneyFromDecimal(decimal.Zero)
	}
	return result
}
