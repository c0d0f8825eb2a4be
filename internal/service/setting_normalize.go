package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/models"
)

var settingSupportedLanguages = []string{constants.LocaleEnUS, constants.LocaleZhCN}

// normalizeSettingValueByKey 按设置键执行归一化，避免非法值入库。
func normalizeSettingValueByKey(key string, value map[string]interface{}) models.JSON {
	switch key {
	case constants.SettingKeyOrderConfig:
		return normalizeOrderSetting(value)
	case constants.SettingKeySiteConfig:
		return normalizeSiteSetting(value)
	default:
		return models.JSON(value)
	}
}

// normalizeOrderSetting 归一化订单设置。
func normalizeOrderSetting(value map[string]interface{}) models.JSON {
	normalized := make(models.JSON, len(value)+3)
	for key, raw := range value {
		normalized[key] = raw
	}

	expireMinutes := 30
	if raw, ok := value[constants.SettingFieldOrderExpireMinutes]; ok {
		if parsed, err := parseSettingInt(raw); err == nil && parsed > 0 {
			expireMinutes = parsed
		}
	}
	// 超时上限一周，防止误配为永不取消
	if expireMinutes > 10080 {
		expireMinutes = 10080
	}
	normalized[constants.SettingFieldOrderExpireMinutes] = expireMinutes

	normalized[constants.SettingFieldDeliveryFee] = normalizeSettingAmount(value[constants.SettingFieldDeliveryFee], defaultDeliveryFee)
	normalized[constants.SettingFieldFreeDeliveryMinimum] = normalizeSettingAmount(value[constants.SettingFieldFreeDeliveryMinimum], decimal.Zero)
	return normalized
}

// normalizeSiteSetting 归一化站点配置结构。
func normalizeSiteSetting(value map[string]interface{}) models.JSON {
	normalized := make(models.JSON, len(value)+4)
	for key, raw := range value {
		normalized[key] = raw
	}

	siteName := normalizeSettingText(value["site_name"])
	if siteName == "" {
		siteName = "Mesa"
	}
	normalized["site_name"] = siteName

	currency := strings.ToUpper(normalizeSettingText(value[constants.SettingFieldSiteCurrency]))
	if len(currency) != 3 {
		currency = constants.SiteCurrencyDefault
	}
	normalized[constants.SettingFieldSiteCurrency] = currency

	normalized["contact"] = normalizeSiteContact(value["contact"])

	if raw, ok := value["languages"]; ok {
		normalized["languages"] = normalizeSiteLanguages(raw)
	}

	return normalized
}

func normalizeSiteContact(raw interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"phone":   "",
		"email":   "",
		"address": "",
	}
	contactMap, ok := raw.(map[string]interface{})
	if !ok {
		return result
	}
	result["phone"] = normalizeSettingText(contactMap["phone"])
	result["email"] = normalizeSettingText(contactMap["email"])
	result["address"] = normalizeSettingText(contactMap["address"])
	return result
}

func normalizeSiteLanguages(raw interface{}) []string {
	list := make([]string, 0)
	switch value := raw.(type) {
	case []string:
		list = append(list, value...)
	case []interface{}:
		for _, item := range value {
			list = append(list, normalizeSettingText(item))
		}
	default:
		return append([]string(nil), settingSupportedLanguages...)
	}

	result := make([]string, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, item := range list {
		lang := strings.TrimSpace(item)
		if lang == "" {
			continue
		}
		if _, exists := seen[lang]; exists {
			continue
		}
		seen[lang] = struct{}{}
		result = append(result, lang)
	}
	if len(result) == 0 {
		return append([]string(nil), settingSupportedLanguages...)
	}
	return result
}

// normalizeSettingAmount 解析金额类字段，非法或负数回退默认值，统一保留两位
func normalizeSettingAmount(raw interface{}, fallback decimal.Decimal) string {
	if raw == nil {
		return fallback.Round(2).StringFixed(2)
	}
	parsed, err := parseSettingDecimal(raw)
	if err != nil || parsed.IsNegative() {
		return fallback.Round(2).StringFixed(2)
	}
	return parsed.Round(2).StringFixed(2)
}

func normalizeSettingText(raw interface{}) string {
	text, ok := raw.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(text)
}
