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

func setupCartServiceTest(t *testing.T) (*CartService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:cart_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.MenuItem{}, &models.CartItem{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	models.DB = db

	cartRepo := repository.NewCartRepository(db)
	menuItemRepo := repository.NewMenuItemRepository(db)
	return NewCartService(cartRepo, menuItemRepo), db
}

func TestCartUpsertAndList(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	item := createTestMenuItem(t, db, "caesar-salad-cart", "28", constants.MenuItemStatusAvailable)

	if err := svc.UpsertItem(UpsertCartItemInput{
		UserID:     1,
		MenuItemID: item.ID,
		Quantity:   2,
		Notes:      "少放酱",
	}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	// 重复添加同一菜品覆盖数量而非新增行
	if err := svc.UpsertItem(UpsertCartItemInput{
		UserID:     1,
		MenuItemID: item.ID,
		Quantity:   3,
	}); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	details, err := svc.ListByUser(1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("expected 1 cart line, got %d", len(details))
	}
	if details[0].Quantity != 3 {
		t.Fatalf("expected quantity overwritten to 3, got %d", details[0].Quantity)
	}
	if !details[0].LineTotal.Decimal.Equal(decimal.NewFromInt(84)) {
		t.Fatalf("unexpected line total: %s", details[0].LineTotal.String())
	}
}

func TestCartUpsertValidation(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	unavailable := createTestMenuItem(t, db, "truffle-risotto-cart", "88", constants.MenuItemStatusUnavailable)

	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 1, MenuItemID: unavailable.ID, Quantity: 1}); !errors.Is(err, ErrMenuItemUnavailable) {
		t.Fatalf("expected unavailable error, got: %v", err)
	}
	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 1, MenuItemID: 9999, Quantity: 1}); !errors.Is(err, ErrMenuItemNotFound) {
		t.Fatalf("expected not found error, got: %v", err)
	}
	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 1, MenuItemID: unavailable.ID, Quantity: 0}); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got: %v", err)
	}
}

func TestCartListDropsDelistedItems(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	item := createTestMenuItem(t, db, "grilled-salmon-cart", "68", constants.MenuItemStatusAvailable)

	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 2, MenuItemID: item.ID, Quantity: 1}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := db.Model(&models.MenuItem{}).Where("id = ?", item.ID).Update("status", constants.MenuItemStatusUnavailable).Error; err != nil {
		t.Fatalf("delist item failed: %v", err)
	}

	details, err := svc.ListByUser(2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(details) != 0 {
		t.Fatalf("expected delisted item dropped, got %d lines", len(details))
	}
	if count := countRows(t, db, &models.CartItem{}); count != 0 {
		t.Fatalf("expected cart row removed, got %d", count)
	}
}

func TestCartClearAllowsReAdd(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	item := createTestMenuItem(t, db, "fresh-lemon-tea-cart", "16", constants.MenuItemStatusAvailable)

	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 3, MenuItemID: item.ID, Quantity: 1}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := svc.Clear(3); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	// 清空后同一菜品可以重新加入
	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 3, MenuItemID: item.ID, Quantity: 2}); err != nil {
		t.Fatalf("re-add after clear failed: %v", err)
	}
	details, err := svc.ListByUser(3)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(details) != 1 || details[0].Quantity != 2 {
		t.Fatalf("unexpected cart after re-add: %+v", details)
	}
}
