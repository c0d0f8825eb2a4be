package service

import (
	"errors"
	"testing"

	"github.com/mesa-next/internal/config"
	"github.com/mesa-next/internal/models"
)

type mockSettingRepo struct {
	data map[string]*models.Setting
}

func newMockSettingRepo() *mockSettingRepo {
	return &mockSettingRepo{data: make(map[string]*models.Setting)}
}

func (m *mockSettingRepo) GetByKey(key string) (*models.Setting, error) {
	setting, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return setting, nil
}

func (m *mockSettingRepo) Upsert(key string, value models.JSON) (*models.Setting, error) {
	setting := &models.Setting{Key: key, ValueJSON: value}
	m.data[key] = setting
	return setting, nil
}

func TestNormalizeSMTPSetting(t *testing.T) {
	setting := NormalizeSMTPSetting(SMTPSetting{
		Host: "  smtp.example.com  ",
		Port: 0,
		From: " orders@mesa.example ",
	})
	if setting.Host != "smtp.example.com" {
		t.Fatalf("host not trimmed: %q", setting.Host)
	}
	if setting.Port != 587 {
		t.Fatalf("expected default port 587, got %d", setting.Port)
	}
	if setting.From != "orders@mesa.example" {
		t.Fatalf("from not trimmed: %q", setting.From)
	}
}

func TestValidateSMTPSetting(t *testing.T) {
	valid := SMTPSetting{
		Enabled: true,
		Host:    "smtp.example.com",
		Port:    465,
		From:    "orders@mesa.example",
		UseSSL:  true,
	}
	if err := ValidateSMTPSetting(valid); err != nil {
		t.Fatalf("expected valid setting, got %v", err)
	}

	both := valid
	both.UseTLS = true
	if err := ValidateSMTPSetting(both); !errors.Is(err, ErrSMTPConfigInvalid) {
		t.Fatalf("expected ErrSMTPConfigInvalid for TLS+SSL, got %v", err)
	}

	noHost := valid
	noHost.Host = ""
	if err := ValidateSMTPSetting(noHost); !errors.Is(err, ErrSMTPConfigInvalid) {
		t.Fatalf("expected ErrSMTPConfigInvalid for empty host, got %v", err)
	}

	disabled := SMTPSetting{Enabled: false, Port: 587}
	if err := ValidateSMTPSetting(disabled); err != nil {
		t.Fatalf("disabled setting should skip host checks, got %v", err)
	}
}

func TestPatchSMTPSettingKeepsPasswordWhenEmpty(t *testing.T) {
	repo := newMockSettingRepo()
	svc := NewSettingService(repo)

	defaultCfg := config.EmailConfig{
		Enabled:  true,
		Host:     "smtp.example.com",
		Port:     587,
		Password: "secret",
		From:     "orders@mesa.example",
	}

	empty := ""
	updated, err := svc.PatchSMTPSetting(defaultCfg, SMTPSettingPatch{Password: &empty})
	if err != nil {
		t.Fatalf("patch failed: %v", err)
	}
	if updated.Password != "secret" {
		t.Fatalf("empty password patch should keep previous value, got %q", updated.Password)
	}

	newPassword := "rotated"
	updated, err = svc.PatchSMTPSetting(defaultCfg, SMTPSettingPatch{Password: &newPassword})
	if err != nil {
		t.Fatalf("patch failed: %v", err)
	}
	if updated.Password != "rotated" {
		t.Fatalf("expected rotated password, got %q", updated.Password)
	}
}

func ptrString(value string) *string {
	return &value
}
