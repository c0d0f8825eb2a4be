package public

import (
	"errors"

	"github.com/mesa-next/internal/http/response"
	"github.com/mesa-next/internal/i18n"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ValidatePromoCartItem 校验请求中的购物车行
type ValidatePromoCartItem struct {
	MenuItemID uint    `json:"menu_item_id"`
	CategoryID uint    `json:"category_id"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   int     `json:"quantity"`
}

// ValidatePromoRequest 校验优惠码请求
type ValidatePromoRequest struct {
	PromoCode   string                  `json:"promo_code"`
	CustomerID  uint                    `json:"customer_id"`
	OrderAmount float64                 `json:"order_amount"`
	CartItems   []ValidatePromoCartItem `json:"cart_items"`
}

// GetActivePromotions 获取当前生效的促销列表
func (h *Handler) GetActivePromotions(c *gin.Context) {
	promotions, err := h.PromotionService.ListActive()
	if err != nil {
		respondError(c, response.CodeInternal, "error.promotion_fetch_failed", err)
		return
	}
	response.Success(c, promotions)
}

// ValidatePromoCode 校验优惠码并返回折扣
// 校验无副作用，促销的使用记录在订单创建时写入。
func (h *Handler) ValidatePromoCode(c *gin.Context) {
	var req ValidatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	items := make([]service.CartLine, 0, len(req.CartItems))
	for _, item := range req.CartItems {
		items = append(items, service.CartLine{
			MenuItemID: item.MenuItemID,
			CategoryID: item.CategoryID,
			UnitPrice:  models.NewMoneyFromDecimal(decimal.NewFromFloat(item.UnitPrice)),
			Quantity:   item.Quantity,
		})
	}

	result, err := h.PromotionService.Validate(service.ValidatePromoInput{
		PromoCode:   req.PromoCode,
		CustomerID:  req.CustomerID,
		OrderAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(req.OrderAmount)),
		CartItems:   items,
	})
	if err != nil {
		respondPromoValidateError(c, err)
		return
	}

	response.Success(c, result)
}

func respondPromoValidateError(c *gin.Context, err error) {
	locale := i18n.ResolveLocale(c)
	switch {
	case errors.Is(err, service.ErrPromoFieldsMissing):
		respondPromoInvalid(c, i18n.T(locale, "error.promo_fields_missing"))
	case errors.Is(err, service.ErrPromoMinOrder):
		// 最低消费提示需要携带门槛金额
		msg := i18n.T(locale, "error.promo_min_order")
		if perr, ok := err.(interface {
			Key() string
			Args() []interface{}
		}); ok {
			msg = i18n.Sprintf(locale, perr.Key(), perr.Args()...)
		}
		respondPromoInvalid(c, msg)
	case errors.Is(err, service.ErrPromoUsageLimit):
		respondPromoInvalid(c, i18n.T(locale, "error.promo_usage_limit"))
	case errors.Is(err, service.ErrPromoCodeNotFound):
		respondPromoInvalid(c, i18n.T(locale, "error.promo_code_invalid"))
	default:
		respondError(c, response.CodeInternal, "error.promotion_fetch_failed", err)
	}
}

func respondPromoInvalid(c *gin.Context, msg string) {
	response.ErrorWithData(c, response.CodeBadRequest, msg, gin.H{"valid": false})
}
