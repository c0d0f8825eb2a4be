//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.PromotionUsage{},
		&models.Promotion{},
		&models.OrderItem{},
		&models.Order{},
		&models.MenuItem{},
		&models.Category{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := db.AutoMigrate(
		&models.Category{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Promotion{},
		&models.PromotionUsage{},
	); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresMenuItemSearch(t *testing.T) {
	db := setupPostgresIntegrationDB(t)

	category := &models.Category{
		Slug: "pg-mains",
		Name: "主菜",
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}

	menuItemRepo := NewMenuItemRepository(db)
	items := []*models.MenuItem{
		{
			CategoryID:  category.ID,
			Slug:        "pg-braised-beef-noodles",
			Name:        "红烧牛肉面",
			Description: "Slow Braised Beef Noodles",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(42)),
			Status:      constants.MenuItemStatusAvailable,
			Tags:        models.StringArray{"spicy"},
		},
		{
			CategoryID: category.ID,
			Slug:       "pg-truffle-risotto",
			Name:       "黑松露烩饭",
			Price:      models.NewMoneyFromDecimal(decimal.NewFromInt(88)),
			Status:     constants.MenuItemStatusUnavailable,
			Tags:       models.StringArray{"vegetarian"},
		},
	}
	for _, item := range items {
		if err := menuItemRepo.Create(item); err != nil {
			t.Fatalf("create menu item failed: %v", err)
		}
	}

	// postgres 下检索应忽略大小写（ILIKE）
	rows, total, err := menuItemRepo.List(MenuItemListFilter{
		Page:   1,
		Search: "braised beef",
	})
	if err != nil {
		t.Fatalf("menu item search failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("menu item search want 1 got total=%d len=%d", total, len(rows))
	}
	if rows[0].Slug != "pg-braised-beef-noodles" {
		t.Fatalf("unexpected search hit: %s", rows[0].Slug)
	}

	rows, total, err = menuItemRepo.List(MenuItemListFilter{
		Page: 1,
		Tag:  "vegetarian",
	})
	if err != nil {
		t.Fatalf("menu item tag filter failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("menu item tag filter want 1 got total=%d len=%d", total, len(rows))
	}

	rows, total, err = menuItemRepo.List(MenuItemListFilter{
		Page:          1,
		OnlyAvailable: true,
	})
	if err != nil {
		t.Fatalf("menu item available filter failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("available filter want 1 got total=%d len=%d", total, len(rows))
	}
}

func TestPostgresPromotionWindowQueries(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewPromotionRepository(db)
	now := time.Now().UTC().Truncate(time.Second)

	pastStart := now.Add(-time.Hour)
	futureEnd := now.Add(time.Hour)
	pastEnd := now.Add(-time.Minute)
	codeLive := "PGLIVE"
	codeEnded := "PGENDED"
	promotions := []*models.Promotion{
		{
			Name:          "pg 生效中",
			Code:          &codeLive,
			Type:          constants.PromotionTypePercentage,
			DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			StartDate:     &pastStart,
			EndDate:       &futureEnd,
			Status:        constants.PromotionStatusActive,
		},
		{
			Name:          "pg 已结束",
			Code:          &codeEnded,
			Type:          constants.PromotionTypePercentage,
			DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			StartDate:     &pastStart,
			EndDate:       &pastEnd,
			Status:        constants.PromotionStatusActive,
		},
	}
	for _, promotion := range promotions {
		if err := repo.Create(promotion); err != nil {
			t.Fatalf("create promotion failed: %v", err)
		}
	}

	live, err := repo.GetActiveByCode(codeLive, now)
	if err != nil {
		t.Fatalf("get active by code failed: %v", err)
	}
	if live == nil || live.Name != "pg 生效中" {
		t.Fatalf("expected live promotion, got %+v", live)
	}

	ended, err := repo.GetActiveByCode(codeEnded, now)
	if err != nil {
		t.Fatalf("get ended by code failed: %v", err)
	}
	if ended != nil {
		t.Fatalf("expected ended promotion filtered out, got %+v", ended)
	}

	active, err := repo.ListActive(now)
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("list active want 1 got %d", len(active))
	}
}

func TestPostgresExpiredPendingOrders(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewOrderRepository(db)
	now := time.Now().UTC().Truncate(time.Second)

	expiredAt := now.Add(-time.Minute)
	aliveAt := now.Add(time.Hour)
	orders := []*models.Order{
		{
			OrderNo:     "PGORDER001",
			UserID:      1,
			Status:      constants.OrderStatusPending,
			OrderType:   constants.OrderTypePickup,
			Currency:    "USD",
			Subtotal:    models.NewMoneyFromDecimal(decimal.NewFromInt(42)),
			TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(42)),
			ExpiresAt:   &expiredAt,
			CreatedAt:   now,
		},
		{
			OrderNo:     "PGORDER002",
			UserID:      1,
			Status:      constants.OrderStatusPending,
			OrderType:   constants.OrderTypePickup,
			Currency:    "USD",
			Subtotal:    models.NewMoneyFromDecimal(decimal.NewFromInt(28)),
			TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(28)),
			ExpiresAt:   &aliveAt,
			CreatedAt:   now,
		},
	}
	for _, order := range orders {
		if err := repo.Create(order, nil); err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}

	expired, err := repo.ListExpiredPending(now, 10)
	if err != nil {
		t.Fatalf("list expired pending failed: %v", err)
	}
	if len(expired) != 1 {
		t.Fatalf("expired pending want 1 got %d", len(expired))
	}
	if expired[0].OrderNo != "PGORDER001" {
		t.Fatalf("unexpected expired order: %s", expired[0].OrderNo)
	}
}
