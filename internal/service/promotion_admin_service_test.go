package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/repository"
)

func setupPromotionAdminServiceTest(t *testing.T) (*PromotionAdminService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:promotion_admin_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Promotion{}, &models.PromotionUsage{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	models.DB = db

	promotionRepo := repository.NewPromotionRepository(db)
	usageRepo := repository.NewPromotionUsageRepository(db)
	return NewPromotionAdminService(promotionRepo, usageRepo), db
}

func adminPromotionInput(name, code string) PromotionUpsertInput {
	return PromotionUpsertInput{
		Name:          name,
		Code:          code,
		Type:          constants.PromotionTypePercentage,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
	}
}

func TestCreatePromotionDefaultsPerCustomerLimit(t *testing.T) {
	svc, _ := setupPromotionAdminServiceTest(t)

	created, err := svc.Create(adminPromotionInput("新客九折", "WELCOME10"))
	if err != nil {
		t.Fatalf("create promotion failed: %v", err)
	}
	if created.UsagePerCustomer != 1 {
		t.Fatalf("usage per customer want 1, got %d", created.UsagePerCustomer)
	}
	if created.Status != constants.PromotionStatusActive {
		t.Fatalf("status want active, got %q", created.Status)
	}
}

func TestCreatePromotionExplicitUnlimitedPerCustomer(t *testing.T) {
	svc, _ := setupPromotionAdminServiceTest(t)

	unlimited := 0
	input := adminPromotionInput("长期九折", "EVERGREEN")
	input.UsagePerCustomer = &unlimited
	created, err := svc.Create(input)
	if err != nil {
		t.Fatalf("create promotion failed: %v", err)
	}
	if created.UsagePerCustomer != 0 {
		t.Fatalf("usage per customer want 0, got %d", created.UsagePerCustomer)
	}

	negative := -1
	input = adminPromotionInput("非法促销", "NEGATIVE")
	input.UsagePerCustomer = &negative
	if _, err := svc.Create(input); !errors.Is(err, ErrPromotionInvalid) {
		t.Fatalf("expected invalid for negative per-customer limit, got: %v", err)
	}
}

func TestCreatePromotionCodeTaken(t *testing.T) {
	svc, _ := setupPromotionAdminServiceTest(t)

	if _, err := svc.Create(adminPromotionInput("首发", "DOUBLE")); err != nil {
		t.Fatalf("create first promotion failed: %v", err)
	}
	if _, err := svc.Create(adminPromotionInput("撞码", "DOUBLE")); !errors.Is(err, ErrPromoCodeTaken) {
		t.Fatalf("expected code taken, got: %v", err)
	}
}

func TestUpdatePromotionKeepsExplicitPerCustomerLimit(t *testing.T) {
	svc, _ := setupPromotionAdminServiceTest(t)

	created, err := svc.Create(adminPromotionInput("午市特惠", "LUNCH"))
	if err != nil {
		t.Fatalf("create promotion failed: %v", err)
	}

	three := 3
	input := adminPromotionInput("午市特惠", "LUNCH")
	input.UsagePerCustomer = &three
	updated, err := svc.Update(created.ID, input)
	if err != nil {
		t.Fatalf("update promotion failed: %v", err)
	}
	if updated.UsagePerCustomer != 3 {
		t.Fatalf("usage per customer want 3, got %d", updated.UsagePerCustomer)
	}
}
