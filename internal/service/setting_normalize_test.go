package service

import (
	"testing"

	"github.com/mesa-next/internal/constants"
)

func TestUpdateOrderSettingNormalized(t *testing.T) {
	repo := newMockSettingRepo()
	svc := NewSettingService(repo)

	value, err := svc.Update(constants.SettingKeyOrderConfig, map[string]interface{}{
		constants.SettingFieldOrderExpireMinutes:  "0",
		constants.SettingFieldDeliveryFee:         "3.555",
		constants.SettingFieldFreeDeliveryMinimum: -10,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if got := value[constants.SettingFieldOrderExpireMinutes]; got != 30 {
		t.Fatalf("expected fallback expire minutes 30, got %v", got)
	}
	if got := value[constants.SettingFieldDeliveryFee]; got != "3.56" {
		t.Fatalf("expected rounded delivery fee 3.56, got %v", got)
	}
	if got := value[constants.SettingFieldFreeDeliveryMinimum]; got != "0.00" {
		t.Fatalf("negative free minimum should fall back to 0.00, got %v", got)
	}
}

func TestUpdateOrderSettingExpireCapped(t *testing.T) {
	repo := newMockSettingRepo()
	svc := NewSettingService(repo)

	value, err := svc.Update(constants.SettingKeyOrderConfig, map[string]interface{}{
		constants.SettingFieldOrderExpireMinutes: 999999,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got := value[constants.SettingFieldOrderExpireMinutes]; got != 10080 {
		t.Fatalf("expected expire minutes capped at 10080, got %v", got)
	}
}

func TestUpdateSiteSettingNormalized(t *testing.T) {
	repo := newMockSettingRepo()
	svc := NewSettingService(repo)

	value, err := svc.Update(constants.SettingKeySiteConfig, map[string]interface{}{
		"site_name":                        "  Mesa Downtown  ",
		constants.SettingFieldSiteCurrency: "eur",
		"contact": map[string]interface{}{
			"phone": " +1-555-0100 ",
			"email": "hello@mesa.example",
		},
		"languages": []interface{}{"en-US", "en-US", "", "zh-CN"},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if got := value["site_name"]; got != "Mesa Downtown" {
		t.Fatalf("site name not trimmed: %v", got)
	}
	if got := value[constants.SettingFieldSiteCurrency]; got != "EUR" {
		t.Fatalf("currency not uppercased: %v", got)
	}
	contact, ok := value["contact"].(map[string]interface{})
	if !ok {
		t.Fatalf("contact missing: %v", value["contact"])
	}
	if contact["phone"] != "+1-555-0100" {
		t.Fatalf("phone not trimmed: %v", contact["phone"])
	}
	if contact["address"] != "" {
		t.Fatalf("missing address should default to empty, got %v", contact["address"])
	}
	languages, ok := value["languages"].([]string)
	if !ok || len(languages) != 2 {
		t.Fatalf("expected deduped languages, got %v", value["languages"])
	}
}

func TestUpdateSiteSettingInvalidCurrencyFallsBack(t *testing.T) {
	repo := newMockSettingRepo()
	svc := NewSettingService(repo)

	value, err := svc.Update(constants.SettingKeySiteConfig, map[string]interface{}{
		constants.SettingFieldSiteCurrency: "dollar",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got := value[constants.SettingFieldSiteCurrency]; got != constants.SiteCurrencyDefault {
		t.Fatalf("expected fallback currency %s, got %v", constants.SiteCurrencyDefault, got)
	}
}
