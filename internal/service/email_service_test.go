package service

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mesa-next/internal/config"
	"github.com/mesa-next/internal/models"
)

func TestSendOrderStatusEmailDisabled(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: false})
	err := svc.SendOrderStatusEmail("guest@example.com", OrderStatusEmailInput{
		OrderNo: "MS20260901120000123456",
		Status:  "confirmed",
	}, "en-US")
	if err != ErrEmailServiceDisabled {
		t.Fatalf("expected ErrEmailServiceDisabled, got %v", err)
	}
}

func TestSendOrderStatusEmailNotConfigured(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: true})
	err := svc.SendOrderStatusEmail("guest@example.com", OrderStatusEmailInput{
		OrderNo: "MS20260901120000123456",
		Status:  "confirmed",
	}, "en-US")
	if err != ErrEmailServiceNotConfigured {
		t.Fatalf("expected ErrEmailServiceNotConfigured, got %v", err)
	}
}

func TestBuildOrderStatusContentReady(t *testing.T) {
	subject, body := buildOrderStatusContent(OrderStatusEmailInput{
		OrderNo:  "MS20260901120000123456",
		Status:   "ready",
		Amount:   models.NewMoneyFromDecimal(decimal.NewFromFloat(42.50)),
		Currency: "USD",
	}, "en-US")
	if !strings.Contains(subject, "ready") {
		t.Fatalf("subject missing status label: %q", subject)
	}
	if !strings.Contains(body, "ready for pickup") {
		t.Fatalf("body missing pickup hint: %q", body)
	}
	if !strings.Contains(body, "42.5") {
		t.Fatalf("body missing amount: %q", body)
	}
}

func TestBuildOrderStatusContentLocaleFallback(t *testing.T) {
	subject, body := buildOrderStatusContent(OrderStatusEmailInput{
		OrderNo:  "MS20260901120000123456",
		Status:   "confirmed",
		Amount:   models.NewMoneyFromDecimal(decimal.NewFromInt(18)),
		Currency: "USD",
	}, "fr-FR")
	if !strings.Contains(subject, "confirmed") {
		t.Fatalf("expected english fallback subject, got %q", subject)
	}
	if !strings.Contains(body, "MS20260901120000123456") {
		t.Fatalf("body missing order no: %q", body)
	}
}

func TestBuildOrderStatusContentUnknownStatusLabel(t *testing.T) {
	subject, _ := buildOrderStatusContent(OrderStatusEmailInput{
		OrderNo: "MS20260901120000123456",
		Status:  "mystery",
	}, "en-US")
	if !strings.Contains(subject, "mystery") {
		t.Fatalf("expected raw status echoed in subject, got %q", subject)
	}
}

func TestIsEmailRecipientRejected(t *testing.T) {
	cases := []struct {
		message string
		want    bool
	}{
		{"550 5.1.1 no such user here", true},
		{"recipient address rejected: access denied", true},
		{"450 try again later", false},
		{"", false},
	}
	for _, c := range cases {
		got := isEmailRecipientRejected(errorString(c.message))
		if got != c.want {
			t.Fatalf("isEmailRecipientRejected(%q) = %v, want %v", c.message, got, c.want)
		}
	}
}

type errorString string

func (e errorString) Error() string { return string(e) }
