package constants

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusCanceled  = "canceled"
)

// 订单类型常量
const (
	OrderTypePickup   = "pickup"
	OrderTypeDelivery = "delivery"
	OrderTypeDineIn   = "dine_in"
)

// 促销类型常量
const (
	PromotionTypePercentage       = "percentage"
	PromotionTypeFixedAmount      = "fixed_amount"
	PromotionTypeBuyXGetY         = "buy_x_get_y"
	PromotionTypeFreeShipping     = "free_shipping"
	PromotionTypeCategoryDiscount = "category_discount"
)

// 促销状态常量
const (
	PromotionStatusActive    = "active"
	PromotionStatusInactive  = "inactive"
	PromotionStatusScheduled = "scheduled"
	PromotionStatusExpired   = "expired"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 菜品状态常量
const (
	MenuItemStatusAvailable   = "available"
	MenuItemStatusUnavailable = "unavailable"
)

// 评分范围常量
const (
	ReviewRatingMin = 1
	ReviewRatingMax = 5
)

// 验证码提供方常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码校验场景常量
const (
	CaptchaSceneLogin    = "login"
	CaptchaSceneRegister = "register"
)

// 队列常量
const (
	QueueDefault           = "default"
	TaskOrderStatusEmail   = "order:status_email"
	TaskOrderTimeoutCancel = "order:timeout_cancel"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "mesa"
)

// 设置键常量
const (
	SettingKeySiteConfig    = "site_config"
	SettingKeyOrderConfig   = "order_config"
	SettingKeySMTPConfig    = "smtp_config"
	SettingKeyCaptchaConfig = "captcha_config"

	SettingFieldSiteCurrency        = "currency"
	SettingFieldOrderExpireMinutes  = "order_expire_minutes"
	SettingFieldDeliveryFee         = "delivery_fee"
	SettingFieldFreeDeliveryMinimum = "free_delivery_minimum"
)

// 币种常量
const (
	SiteCurrencyDefault = "USD"
)

// 站点语言常量
const (
	LocaleEnUS = "en-US"
	LocaleZhCN = "zh-CN"
)

// 支持的站点语言顺序（含回退顺序）
var SupportedLocales = []string{LocaleEnUS, LocaleZhCN}
