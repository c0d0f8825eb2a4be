package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的语言标识
const (
	LocaleEN = "en-US"
	LocaleZH = "zh-CN"
)

// DefaultLocale 默认语言
const DefaultLocale = LocaleEN

var messages = map[string]map[string]string{
	LocaleEN: {
		"common.ok": "ok",

		"error.invalid_request": "invalid request",
		"error.not_found":       "resource not found",
		"error.internal":        "internal server error",
		"error.unauthorized":    "unauthorized",
		"error.forbidden":       "forbidden",

		"error.auth_header_missing": "authorization header missing",
		"error.auth_header_invalid": "authorization header invalid",
		"error.token_invalid":       "token invalid or expired",
		"error.token_revoked":       "token revoked, please login again",
		"error.jwt_secret_missing":  "jwt secret not configured",
		"error.user_disabled":       "account disabled",

		"error.rate_limited":           "too many requests, retry after %d seconds",
		"error.rate_limit_unavailable": "rate limiter unavailable",

		"error.captcha_invalid":   "captcha invalid or expired",
		"error.captcha_required":  "captcha required",
		"error.login_failed":      "username or password incorrect",
		"error.username_taken":    "username already taken",
		"error.email_taken":       "email already registered",
		"error.password_weak":     "password does not meet the password policy",
		"error.password_mismatch": "old password incorrect",

		"error.password_min_length":      "password must be at least %d characters",
		"error.password_require_upper":   "password must contain an uppercase letter",
		"error.password_require_lower":   "password must contain a lowercase letter",
		"error.password_require_number":  "password must contain a digit",
		"error.password_require_special": "password must contain a special character",

		"error.promo_fields_missing": "promo code, customer and order amount are required",
		"error.promo_code_invalid":   "promo code invalid or expired",
		"error.promo_min_order":      "order minimum of %s not met",
		"error.promo_usage_limit":    "promo code usage limit reached",
		"error.promo_code_taken":     "promo code already exists",
		"error.promo_not_found":      "promotion not found",

		"error.category_not_found":    "category not found",
		"error.category_has_items":    "category still has menu items",
		"error.menu_item_not_found":   "menu item not found",
		"error.menu_item_unavailable": "menu item unavailable",
		"error.cart_empty":            "cart is empty",
		"error.cart_item_not_found":   "cart item not found",
		"error.order_not_found":       "order not found",
		"error.order_status_invalid":  "order status transition not allowed",
		"error.order_not_cancelable":  "order can no longer be canceled",
		"error.review_exists":         "you have already reviewed this item",
		"error.review_not_found":      "review not found",
		"error.review_rating_invalid": "rating must be between 1 and 5",
		"error.favorite_not_found":    "favorite not found",
		"error.setting_not_found":     "setting not found",
		"error.upload_type_invalid":   "file type not allowed",
		"error.upload_too_large":      "file exceeds the size limit",
		"error.admin_not_found":       "employee not found",
		"error.admin_username_taken":  "employee username already taken",
		"error.admin_role_invalid":    "unknown role",
		"error.admin_self_forbidden":  "cannot modify your own account here",

		"error.bad_request":           "invalid request parameters",
		"error.user_id_invalid":       "user identity missing",
		"error.user_id_type_invalid":  "user identity malformed",
		"error.admin_id_invalid":      "admin identity missing",
		"error.admin_id_type_invalid": "admin identity malformed",

		"error.email_invalid":        "email address invalid",
		"error.login_invalid":        "email or password incorrect",
		"error.admin_login_invalid":  "username or password incorrect",
		"error.login_too_many":       "too many login attempts, retry after %d seconds",
		"error.register_failed":      "registration failed",
		"error.password_old_invalid": "old password incorrect",
		"error.profile_empty":        "nothing to update",
		"error.save_failed":          "save failed",

		"error.config_fetch_failed":   "failed to load site configuration",
		"error.settings_fetch_failed": "failed to load settings",
		"error.settings_save_failed":  "failed to save settings",
		"error.file_missing":          "no file uploaded",
		"error.upload_failed":         "upload failed",

		"error.captcha_unavailable":     "captcha service unavailable",
		"error.captcha_generate_failed": "failed to generate captcha",
		"error.captcha_verify_failed":   "captcha verification failed",
		"error.captcha_config_invalid":  "captcha configuration invalid",

		"error.category_fetch_failed":  "failed to load categories",
		"error.category_create_failed": "failed to create category",
		"error.category_update_failed": "failed to update category",
		"error.category_delete_failed": "failed to delete category",
		"error.category_in_use":        "category still has menu items",
		"error.slug_exists":            "slug already exists",
		"error.slug_used":              "slug already in use",

		"error.menu_fetch_failed":       "failed to load menu",
		"error.menu_item_create_failed": "failed to create menu item",
		"error.menu_item_update_failed": "failed to update menu item",
		"error.menu_item_delete_failed": "failed to delete menu item",
		"error.menu_item_price_invalid": "menu item price invalid",

		"error.cart_fetch_failed":  "failed to load cart",
		"error.cart_update_failed": "failed to update cart",
		"error.quantity_invalid":   "quantity invalid",

		"error.order_type_invalid":        "order type invalid",
		"error.table_number_required":     "table number required for dine-in orders",
		"error.delivery_address_required": "delivery address required for delivery orders",
		"error.order_create_failed":       "failed to place order",
		"error.order_fetch_failed":        "failed to load orders",
		"error.order_update_failed":       "failed to update order",

		"error.promotion_fetch_failed":  "failed to load promotions",
		"error.promotion_create_failed": "failed to create promotion",
		"error.promotion_update_failed": "failed to update promotion",
		"error.promotion_delete_failed": "failed to delete promotion",
		"error.promotion_not_found":     "promotion not found",
		"error.promotion_invalid":       "promotion configuration invalid",

		"error.review_fetch_failed": "failed to load reviews",
		"error.review_save_failed":  "failed to save review",

		"error.favorite_fetch_failed": "failed to load favorites",
		"error.favorite_save_failed":  "failed to save favorite",

		"error.user_fetch_failed":  "failed to load users",
		"error.user_not_found":     "user not found",
		"error.user_update_failed": "failed to update user",

		"error.admin_username_invalid":      "employee username invalid",
		"error.admin_username_exists":       "employee username already exists",
		"error.admin_create_failed":         "failed to create employee",
		"error.admin_update_failed":         "failed to update employee",
		"error.admin_delete_failed":         "failed to delete employee",
		"error.admin_delete_self_forbidden": "cannot delete your own account",
		"error.admin_delete_protected":      "this account is protected",
		"error.admin_delete_last_forbidden": "cannot delete the last employee account",

		"error.email_recipient_not_found":    "recipient mailbox not found",
		"error.email_service_not_configured": "email service not configured",
		"error.email_send_failed":            "failed to send email",

		"email.order_status.subject":         "Your Mesa order is now %s",
		"email.order_status.body":            "Order %s is now %s. Total: %s %s.",
		"email.order_status.body_ready":      "Order %s is %s and ready for pickup. Total: %s %s.",
		"email.order_status.label.confirmed": "confirmed",
		"email.order_status.label.preparing": "being prepared",
		"email.order_status.label.ready":     "ready",
		"email.order_status.label.completed": "completed",
		"email.order_status.label.canceled":  "canceled",
	},
	LocaleZH: {
		"common.ok": "成功",

		"error.invalid_request": "请求参数错误",
		"error.not_found":       "资源不存在",
		"error.internal":        "服务器内部错误",
		"error.unauthorized":    "未登录或登录已过期",
		"error.forbidden":       "没有权限执行该操作",

		"error.auth_header_missing": "缺少认证信息",
		"error.auth_header_invalid": "认证信息格式错误",
		"error.token_invalid":       "登录凭证无效或已过期",
		"error.token_revoked":       "登录凭证已失效，请重新登录",
		"error.jwt_secret_missing":  "JWT 密钥未配置",
		"error.user_disabled":       "账号已被禁用",

		"error.rate_limited":           "请求过于频繁，请 %d 秒后重试",
		"error.rate_limit_unavailable": "限流服务不可用",

		"error.captcha_invalid":   "验证码错误或已过期",
		"error.captcha_required":  "请先完成验证码",
		"error.login_failed":      "用户名或密码错误",
		"error.username_taken":    "用户名已被占用",
		"error.email_taken":       "邮箱已被注册",
		"error.password_weak":     "密码不符合密码策略",
		"error.password_mismatch": "原密码不正确",

		"error.password_min_length":      "密码长度至少 %d 位",
		"error.password_require_upper":   "密码需包含大写字母",
		"error.password_require_lower":   "密码需包含小写字母",
		"error.password_require_number":  "密码需包含数字",
		"error.password_require_special": "密码需包含特殊字符",

		"error.promo_fields_missing": "优惠码、顾客与订单金额均为必填",
		"error.promo_code_invalid":   "优惠码无效或已过期",
		"error.promo_min_order":      "未达到最低消费 %s",
		"error.promo_usage_limit":    "优惠码使用次数已达上限",
		"error.promo_code_taken":     "优惠码已存在",
		"error.promo_not_found":      "促销活动不存在",

		"error.category_not_found":    "分类不存在",
		"error.category_has_items":    "分类下仍有菜品",
		"error.menu_item_not_found":   "菜品不存在",
		"error.menu_item_unavailable": "菜品已下架",
		"error.cart_empty":            "购物车为空",
		"error.cart_item_not_found":   "购物车条目不存在",
		"error.order_not_found":       "订单不存在",
		"error.order_status_invalid":  "订单状态不允许该变更",
		"error.order_not_cancelable":  "订单已无法取消",
		"error.review_exists":         "您已评价过该菜品",
		"error.review_not_found":      "评价不存在",
		"error.review_rating_invalid": "评分须在 1 到 5 之间",
		"error.favorite_not_found":    "收藏不存在",
		"error.setting_not_found":     "配置项不存在",
		"error.upload_type_invalid":   "不支持的文件类型",
		"error.upload_too_large":      "文件超出大小限制",
		"error.admin_not_found":       "员工不存在",
		"error.admin_username_taken":  "员工用户名已被占用",
		"error.admin_role_invalid":    "未知角色",
		"error.admin_self_forbidden":  "不能在此修改自己的账号",

		"error.bad_request":           "请求参数错误",
		"error.user_id_invalid":       "用户身份缺失",
		"error.user_id_type_invalid":  "用户身份格式错误",
		"error.admin_id_invalid":      "管理员身份缺失",
		"error.admin_id_type_invalid": "管理员身份格式错误",

		"error.email_invalid":        "邮箱格式错误",
		"error.login_invalid":        "邮箱或密码错误",
		"error.admin_login_invalid":  "用户名或密码错误",
		"error.login_too_many":       "登录尝试过于频繁，请 %d 秒后重试",
		"error.register_failed":      "注册失败",
		"error.password_old_invalid": "原密码不正确",
		"error.profile_empty":        "没有需要更新的内容",
		"error.save_failed":          "保存失败",

		"error.config_fetch_failed":   "站点配置加载失败",
		"error.settings_fetch_failed": "配置加载失败",
		"error.settings_save_failed":  "配置保存失败",
		"error.file_missing":          "未上传文件",
		"error.upload_failed":         "上传失败",

		"error.captcha_unavailable":     "验证码服务不可用",
		"error.captcha_generate_failed": "验证码生成失败",
		"error.captcha_verify_failed":   "验证码校验失败",
		"error.captcha_config_invalid":  "验证码配置无效",

		"error.category_fetch_failed":  "分类加载失败",
		"error.category_create_failed": "分类创建失败",
		"error.category_update_failed": "分类更新失败",
		"error.category_delete_failed": "分类删除失败",
		"error.category_in_use":        "分类下仍有菜品",
		"error.slug_exists":            "标识已存在",
		"error.slug_used":              "标识已被占用",

		"error.menu_fetch_failed":       "菜单加载失败",
		"error.menu_item_create_failed": "菜品创建失败",
		"error.menu_item_update_failed": "菜品更新失败",
		"error.menu_item_delete_failed": "菜品删除失败",
		"error.menu_item_price_invalid": "菜品价格无效",

		"error.cart_fetch_failed":  "购物车加载失败",
		"error.cart_update_failed": "购物车更新失败",
		"error.quantity_invalid":   "数量无效",

		"error.order_type_invalid":        "就餐方式无效",
		"error.table_number_required":     "堂食订单需要填写桌号",
		"error.delivery_address_required": "外送订单需要填写配送地址",
		"error.order_create_failed":       "下单失败",
		"error.order_fetch_failed":        "订单加载失败",
		"error.order_update_failed":       "订单更新失败",

		"error.promotion_fetch_failed":  "促销活动加载失败",
		"error.promotion_create_failed": "促销活动创建失败",
		"error.promotion_update_failed": "促销活动更新失败",
		"error.promotion_delete_failed": "促销活动删除失败",
		"error.promotion_not_found":     "促销活动不存在",
		"error.promotion_invalid":       "促销活动配置无效",

		"error.review_fetch_failed": "评价加载失败",
		"error.review_save_failed":  "评价保存失败",

		"error.favorite_fetch_failed": "收藏加载失败",
		"error.favorite_save_failed":  "收藏保存失败",

		"error.user_fetch_failed":  "用户加载失败",
		"error.user_not_found":     "用户不存在",
		"error.user_update_failed": "用户更新失败",

		"error.admin_username_invalid":      "员工用户名不符合要求",
		"error.admin_username_exists":       "员工用户名已存在",
		"error.admin_create_failed":         "员工创建失败",
		"error.admin_update_failed":         "员工更新失败",
		"error.admin_delete_failed":         "员工删除失败",
		"error.admin_delete_self_forbidden": "不能删除自己的账号",
		"error.admin_delete_protected":      "该账号受保护，不能删除",
		"error.admin_delete_last_forbidden": "不能删除最后一个员工账号",

		"error.email_recipient_not_found":    "收件邮箱不存在",
		"error.email_service_not_configured": "邮件服务未配置",
		"error.email_send_failed":            "邮件发送失败",

		"email.order_status.subject":         "您的 Mesa 订单已%s",
		"email.order_status.body":            "订单 %s 当前状态：%s，总金额 %s %s。",
		"email.order_status.body_ready":      "订单 %s 已%s，可以取餐。总金额 %s %s。",
		"email.order_status.label.confirmed": "确认",
		"email.order_status.label.preparing": "制作中",
		"email.order_status.label.ready":     "备餐完成",
		"email.order_status.label.completed": "完成",
		"email.order_status.label.canceled":  "取消",
	},
}

// ResolveLocale 解析请求语言：优先 lang 参数，其次 Accept-Language 头。
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return Normalize(lang)
	}
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		if normalized := Normalize(tag); normalized != "" {
			return normalized
		}
	}
	return DefaultLocale
}

// Normalize 归一化语言标识，未识别时回退默认语言。
func Normalize(locale string) string {
	lowered := strings.ToLower(strings.TrimSpace(locale))
	switch {
	case strings.HasPrefix(lowered, "zh"):
		return LocaleZH
	case strings.HasPrefix(lowered, "en"):
		return LocaleEN
	}
	return DefaultLocale
}

// T 按语言取文案，缺失时回退英文，再缺失返回 key 本身。
func T(locale, key string) string {
	normalized := Normalize(locale)
	if table, ok := messages[normalized]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 取文案并格式化参数
func Sprintf(locale, key string, args ...interface{}) string {
	template := T(locale, key)
	if len(args) == 0 {
		return template
	}
	return fmt.Sprintf(template, args...)
}
