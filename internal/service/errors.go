package service

import (
	"errors"
	"fmt"

	"github.com/mesa-next/internal/models"
)

// 业务语义错误，由 handler 层映射为响应码与多语言文案。
var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategorySlugTaken = errors.New("category slug already exists")
	ErrCategoryHasItems  = errors.New("category still has menu items")

	ErrMenuItemNotFound     = errors.New("menu item not found")
	ErrMenuItemSlugTaken    = errors.New("menu item slug already exists")
	ErrMenuItemUnavailable  = errors.New("menu item unavailable")
	ErrMenuItemInvalid      = errors.New("menu item fields invalid")
	ErrMenuItemPriceInvalid = errors.New("menu item price invalid")

	ErrCartEmpty        = errors.New("cart is empty")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("invalid quantity")

	ErrOrderNotFound           = errors.New("order not found")
	ErrOrderStatusInvalid      = errors.New("order status transition not allowed")
	ErrOrderNotCancelable      = errors.New("order can no longer be canceled")
	ErrOrderTypeInvalid        = errors.New("unknown order type")
	ErrTableNumberRequired     = errors.New("table number required for dine-in orders")
	ErrDeliveryAddressRequired = errors.New("delivery address required for delivery orders")
	ErrOrderCreateFailed       = errors.New("order create failed")
	ErrOrderFetchFailed        = errors.New("order fetch failed")
	ErrOrderUpdateFailed       = errors.New("order update failed")

	ErrPromoFieldsMissing = errors.New("promo validation fields missing")
	ErrPromoCodeNotFound  = errors.New("promo code invalid or expired")
	ErrPromoMinOrder      = errors.New("order minimum not met")
	ErrPromoUsageLimit    = errors.New("promo usage limit reached")
	ErrPromotionNotFound  = errors.New("promotion not found")
	ErrPromoCodeTaken     = errors.New("promo code already exists")
	ErrPromotionInvalid   = errors.New("promotion definition invalid")

	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewExists        = errors.New("review already exists")
	ErrReviewRatingInvalid = errors.New("review rating out of range")

	ErrFavoriteNotFound = errors.New("favorite not found")

	ErrUserNotFound       = errors.New("user not found")
	ErrUserDisabled       = errors.New("user disabled")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCaptchaInvalid     = errors.New("captcha invalid")
	ErrCaptchaRequired    = errors.New("captcha required")
	ErrPasswordMismatch   = errors.New("old password incorrect")
	ErrWeakPassword       = errors.New("password does not meet policy")
	ErrProfileEmpty       = errors.New("no profile fields to update")

	ErrAdminNotFound      = errors.New("admin not found")
	ErrAdminUsernameTaken = errors.New("admin username already taken")
	ErrAdminRoleInvalid   = errors.New("unknown admin role")
	ErrAdminSelfForbidden = errors.New("cannot modify own account")

	ErrSettingNotFound = errors.New("setting not found")

	ErrSMTPConfigInvalid         = errors.New("smtp config invalid")
	ErrCaptchaConfigInvalid      = errors.New("captcha config invalid")
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrInvalidEmail              = errors.New("invalid email address")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)

// MinOrderError 未达最低消费错误，携带门槛金额用于文案插值。
type MinOrderError struct {
	Minimum models.Money
}

// Error 实现 error 接口
func (e *MinOrderError) Error() string {
	return fmt.Sprintf("order minimum of %s not met", e.Minimum.StringFixed(2))
}

// Unwrap 支持 errors.Is(err, ErrPromoMinOrder)
func (e *MinOrderError) Unwrap() error {
	return ErrPromoMinOrder
}

// Key 多语言文案键
func (e *MinOrderError) Key() string {
	return "error.promo_min_order"
}

// Args 文案插值参数
func (e *MinOrderError) Args() []interface{} {
	return []interface{}{e.Minimum.StringFixed(2)}
}
