package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/repository"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:order_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.MenuItem{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Promotion{},
		&models.PromotionUsage{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	models.DB = db

	orderRepo := repository.NewOrderRepository(db)
	cartRepo := repository.NewCartRepository(db)
	menuItemRepo := repository.NewMenuItemRepository(db)
	promotionRepo := repository.NewPromotionRepository(db)
	usageRepo := repository.NewPromotionUsageRepository(db)
	promotionService := NewPromotionService(promotionRepo, usageRepo)
	svc := NewOrderService(orderRepo, cartRepo, menuItemRepo, promotionRepo, usageRepo, promotionService, nil, nil, 30)
	return svc, db
}

func createTestCustomer(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()

	user := &models.User{
		ID:           id,
		Email:        fmt.Sprintf("customer%d@example.com", id),
		PasswordHash: "x",
		Status:       "active",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createTestMenuItem(t *testing.T, db *gorm.DB, slug string, price string, status string) *models.MenuItem {
	t.Helper()

	item := &models.MenuItem{
		CategoryID: 1,
		Slug:       slug,
		Name:       "测试菜品 " + slug,
		Price:      testMoney(t, price),
		Status:     status,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("create menu item failed: %v", err)
	}
	return item
}

func createTestCartItem(t *testing.T, db *gorm.DB, userID, menuItemID uint, quantity int) {
	t.Helper()

	if err := db.Create(&models.CartItem{
		UserID:     userID,
		MenuItemID: menuItemID,
		Quantity:   quantity,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}).Error; err != nil {
		t.Fatalf("create cart item failed: %v", err)
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("count rows failed: %v", err)
	}
	return count
}

func TestCreateOrderFromCart(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createTestCustomer(t, db, 101)
	item := createTestMenuItem(t, db, "braised-beef-noodles", "42", constants.MenuItemStatusAvailable)
	createTestCartItem(t, db, user.ID, item.ID, 2)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID:    user.ID,
		OrderType: constants.OrderTypePickup,
		Notes:     "不要香菜",
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("unexpected status: %s", order.Status)
	}
	if !strings.HasPrefix(order.OrderNo, "MS") {
		t.Fatalf("unexpected order no: %s", order.OrderNo)
	}
	if !order.Subtotal.Decimal.Equal(decimal.NewFromInt(84)) {
		t.Fatalf("unexpected subtotal: %s", order.Subtotal.String())
	}
	if !order.TotalAmount.Decimal.Equal(decimal.NewFromInt(84)) {
		t.Fatalf("unexpected total: %s", order.TotalAmount.String())
	}
	if order.Currency != constants.SiteCurrencyDefault {
		t.Fatalf("unexpected currency: %s", order.Currency)
	}
	if order.ExpiresAt == nil {
		t.Fatalf("expected pending expiry set")
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected 1 order item, got %d", len(order.Items))
	}
	snapshot := order.Items[0]
	if snapshot.Name != item.Name || snapshot.Quantity != 2 {
		t.Fatalf("unexpected item snapshot: %+v", snapshot)
	}
	if !snapshot.TotalPrice.Decimal.Equal(decimal.NewFromInt(84)) {
		t.Fatalf("unexpected line total: %s", snapshot.TotalPrice.String())
	}

	// 下单后清空购物车
	if count := countRows(t, db, &models.CartItem{}); count != 0 {
		t.Fatalf("expected cart cleared, got %d rows", count)
	}
}

func TestCreateOrderEmptyCart(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createTestCustomer(t, db, 102)

	_, err := svc.CreateOrder(CreateOrderInput{UserID: user.ID})
	if !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected empty cart error, got: %v", err)
	}
}

func TestCreateOrderTypeValidation(t *testing.T) {
	svc, _ := setupOrderServiceTest(t)

	_, err := svc.CreateOrder(CreateOrderInput{UserID: 1, OrderType: "takeaway"})
	if !errors.Is(err, ErrOrderTypeInvalid) {
		t.Fatalf("expected order type invalid, got: %v", err)
	}

	_, err = svc.CreateOrder(CreateOrderInput{UserID: 1, OrderType: constants.OrderTypeDineIn})
	if !errors.Is(err, ErrTableNumberRequired) {
		t.Fatalf("expected table number required, got: %v", err)
	}

	_, err = svc.CreateOrder(CreateOrderInput{UserID: 1, OrderType: constants.OrderTypeDelivery})
	if !errors.Is(err, ErrDeliveryAddressRequired) {
		t.Fatalf("expected delivery address required, got: %v", err)
	}
}

func TestCreateOrderUnavailableMenuItem(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createTestCustomer(t, db, 103)
	item := createTestMenuItem(t, db, "truffle-risotto", "88", constants.MenuItemStatusUnavailable)
	createTestCartItem(t, db, user.ID, item.ID, 1)

	_, err := svc.CreateOrder(CreateOrderInput{UserID: user.ID})
	if !errors.Is(err, ErrMenuItemUnavailable) {
		t.Fatalf("expected unavailable error, got: %v", err)
	}
}

func TestCreateOrderDeliveryFee(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createTestCustomer(t, db, 104)
	item := createTestMenuItem(t, db, "kung-pao-chicken", "38", constants.MenuItemStatusAvailable)
	createTestCartItem(t, db, user.ID, item.ID, 1)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID:          user.ID,
		OrderType:       constants.OrderTypeDelivery,
		DeliveryAddress: "望京街 1 号",
	})
	if err != nil {
		t.Fatalf("create delivery order failed: %v", err)
	}
	if !order.DeliveryFee.Decimal.Equal(defaultDeliveryFee) {
		t.Fatalf("unexpected delivery fee: %s", order.DeliveryFee.String())
	}
	if !order.TotalAmount.Decimal.Equal(decimal.NewFromInt(43)) {
		t.Fatalf("unexpected total: %s", order.TotalAmount.String())
	}
}

func TestCreateOrderWithPromoConsumesQuota(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createTestCustomer(t, db, 105)
	item := createTestMenuItem(t, db, "grilled-salmon", "68", constants.MenuItemStatusAvailable)
	createTestCartItem(t, db, user.ID, item.ID, 1)
	promotion := createTestPromotion(t, db, &models.Promotion{
		Name:             "九折券",
		Code:             ptrString("PERCENT10"),
		Type:             constants.PromotionTypePercentage,
		DiscountValue:    testMoney(t, "10"),
		UsagePerCustomer: 1,
	})

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID:    user.ID,
		PromoCode: "PERCENT10",
	})
	if err != nil {
		t.Fatalf("create order with promo failed: %v", err)
	}
	if !order.DiscountAmount.Decimal.Equal(decimal.RequireFromString("6.8")) {
		t.Fatalf("unexpected discount: %s", order.DiscountAmount.String())
	}
	if !order.TotalAmount.Decimal.Equal(decimal.RequireFromString("61.2")) {
		t.Fatalf("unexpected total: %s", order.TotalAmount.String())
	}
	if order.PromotionID == nil || *order.PromotionID != promotion.ID {
		t.Fatalf("expected promotion id recorded")
	}
	if order.PromoCode != "PERCENT10" {
		t.Fatalf("unexpected promo code snapshot: %s", order.PromoCode)
	}

	// 名额在下单事务内占用
	if count := countRows(t, db, &models.PromotionUsage{}); count != 1 {
		t.Fatalf("expected 1 usage row, got %d", count)
	}
	var stored models.Promotion
	if err := db.First(&stored, promotion.ID).Error; err != nil {
		t.Fatalf("reload promotion failed: %v", err)
	}
	if stored.UsedCount != 1 {
		t.Fatalf("expected used count 1, got %d", stored.UsedCount)
	}

	// 每人限用一次，再下单被拒
	createTestCartItem(t, db, user.ID, item.ID, 1)
	_, err = svc.CreateOrder(CreateOrderInput{
		UserID:    user.ID,
		PromoCode: "PERCENT10",
	})
	if !errors.Is(err, ErrPromoUsageLimit) {
		t.Fatalf("expected usage limit on second order, got: %v", err)
	}
}

func TestCreateOrderGlobalUsageLimitRollsBack(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createTestCustomer(t, db, 106)
	item := createTestMenuItem(t, db, "caesar-salad", "28", constants.MenuItemStatusAvailable)
	createTestCartItem(t, db, user.ID, item.ID, 1)
	createTestPromotion(t, db, &models.Promotion{
		Name:          "总量告罄",
		Code:          ptrString("SOLDOUT"),
		Type:          constants.PromotionTypeFixedAmount,
		DiscountValue: testMoney(t, "5"),
		UsageLimit:    1,
		UsedCount:     1,
	})

	// 总量上限只在落库事务内复核，校验阶段放行
	_, err := svc.CreateOrder(CreateOrderInput{
		UserID:    user.ID,
		PromoCode: "SOLDOUT",
	})
	if !errors.Is(err, ErrPromoUsageLimit) {
		t.Fatalf("expected usage limit, got: %v", err)
	}

	// 整单回滚：订单不落库，购物车保留
	if count := countRows(t, db, &models.Order{}); count != 0 {
		t.Fatalf("expected order rolled back, got %d rows", count)
	}
	if count := countRows(t, db, &models.CartItem{}); count != 1 {
		t.Fatalf("expected cart kept, got %d rows", count)
	}
}

func TestPreviewOrderSideEffectFree(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createTestCustomer(t, db, 107)
	item := createTestMenuItem(t, db, "mango-pomelo-sago", "22", constants.MenuItemStatusAvailable)
	createTestCartItem(t, db, user.ID, item.ID, 3)
	promotion := createTestPromotion(t, db, &models.Promotion{
		Name:          "立减 10",
		Code:          ptrString("SAVE10"),
		Type:          constants.PromotionTypeFixedAmount,
		DiscountValue: testMoney(t, "10"),
	})

	preview, err := svc.PreviewOrder(CreateOrderInput{
		UserID:    user.ID,
		PromoCode: "SAVE10",
	})
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	if !preview.Subtotal.Decimal.Equal(decimal.NewFromInt(66)) {
		t.Fatalf("unexpected subtotal: %s", preview.Subtotal.String())
	}
	if !preview.DiscountAmount.Decimal.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected discount: %s", preview.DiscountAmount.String())
	}
	if !preview.TotalAmount.Decimal.Equal(decimal.NewFromInt(56)) {
		t.Fatalf("unexpected total: %s", preview.TotalAmount.String())
	}
	if len(preview.Items) != 1 || preview.Items[0].Quantity != 3 {
		t.Fatalf("unexpected preview items: %+v", preview.Items)
	}

	// 试算不落库、不占名额、不动购物车
	if count := countRows(t, db, &models.Order{}); count != 0 {
		t.Fatalf("expected no order rows, got %d", count)
	}
	if count := countRows(t, db, &models.PromotionUsage{}); count != 0 {
		t.Fatalf("expected no usage rows, got %d", count)
	}
	if count := countRows(t, db, &models.CartItem{}); count != 1 {
		t.Fatalf("expected cart kept, got %d rows", count)
	}
	var stored models.Promotion
	if err := db.First(&stored, promotion.ID).Error; err != nil {
		t.Fatalf("reload promotion failed: %v", err)
	}
	if stored.UsedCount != 0 {
		t.Fatalf("expected used count unchanged, got %d", stored.UsedCount)
	}
}

func TestCancelOrderPendingOnly(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createTestCustomer(t, db, 108)
	item := createTestMenuItem(t, db, "fresh-lemon-tea", "16", constants.MenuItemStatusAvailable)
	createTestCartItem(t, db, user.ID, item.ID, 1)

	order, err := svc.CreateOrder(CreateOrderInput{UserID: user.ID})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	canceled, err := svc.CancelOrder(order.ID, user.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if canceled.Status != constants.OrderStatusCanceled || canceled.CanceledAt == nil {
		t.Fatalf("unexpected canceled order: %+v", canceled)
	}

	// 已取消订单再取消为幂等
	again, err := svc.CancelOrder(order.ID, user.ID)
	if err != nil {
		t.Fatalf("repeat cancel failed: %v", err)
	}
	if again.Status != constants.OrderStatusCanceled {
		t.Fatalf("unexpected status: %s", again.Status)
	}

	// 他人订单不可见
	if _, err := svc.CancelOrder(order.ID, 999); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected not found for other user, got: %v", err)
	}
}

func TestUpdateOrderStatusTransitions(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createTestCustomer(t, db, 109)
	item := createTestMenuItem(t, db, "hand-drip-coffee", "26", constants.MenuItemStatusAvailable)
	createTestCartItem(t, db, user.ID, item.ID, 1)

	order, err := svc.CreateOrder(CreateOrderInput{UserID: user.ID})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	confirmed, err := svc.UpdateOrderStatus(order.ID, constants.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if confirmed.Status != constants.OrderStatusConfirmed {
		t.Fatalf("unexpected status: %s", confirmed.Status)
	}
	// 确认后不再超时取消
	if confirmed.ExpiresAt != nil {
		t.Fatalf("expected expiry cleared after confirm")
	}

	// 不允许跳级流转
	if _, err := svc.UpdateOrderStatus(order.ID, constants.OrderStatusCompleted); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected invalid transition, got: %v", err)
	}

	// 确认后顾客不能再取消
	if _, err := svc.CancelOrder(order.ID, user.ID); !errors.Is(err, ErrOrderNotCancelable) {
		t.Fatalf("expected not cancelable, got: %v", err)
	}

	for _, status := range []string{constants.OrderStatusPreparing, constants.OrderStatusReady, constants.OrderStatusCompleted} {
		if _, err := svc.UpdateOrderStatus(order.ID, status); err != nil {
			t.Fatalf("transition to %s failed: %v", status, err)
		}
	}
	completed, err := svc.GetAdminByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if completed.Status != constants.OrderStatusCompleted || completed.CompletedAt == nil {
		t.Fatalf("unexpected completed order: %+v", completed)
	}
}

func TestCancelExpiredOrderAndSweep(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createTestCustomer(t, db, 110)
	item := createTestMenuItem(t, db, "crispy-spring-rolls", "18", constants.MenuItemStatusAvailable)

	createTestCartItem(t, db, user.ID, item.ID, 1)
	expired, err := svc.CreateOrder(CreateOrderInput{UserID: user.ID})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	createTestCartItem(t, db, user.ID, item.ID, 1)
	fresh, err := svc.CreateOrder(CreateOrderInput{UserID: user.ID})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	past := time.Now().Add(-time.Minute)
	if err := db.Model(&models.Order{}).Where("id = ?", expired.ID).Update("expires_at", past).Error; err != nil {
		t.Fatalf("backdate expiry failed: %v", err)
	}

	canceled, err := svc.SweepExpiredOrders(10)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if canceled != 1 {
		t.Fatalf("expected 1 canceled, got %d", canceled)
	}

	reloaded, err := svc.GetAdminByID(expired.ID)
	if err != nil {
		t.Fatalf("reload expired order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusCanceled {
		t.Fatalf("expected expired order canceled, got %s", reloaded.Status)
	}
	reloaded, err = svc.GetAdminByID(fresh.ID)
	if err != nil {
		t.Fatalf("reload fresh order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusPending {
		t.Fatalf("expected fresh order untouched, got %s", reloaded.Status)
	}
}

func TestLockPromotionDiscountUsesLockedRow(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	promotion := createTestPromotion(t, db, &models.Promotion{
		Name:          "九折券",
		Code:          ptrString("PERCENT10"),
		Type:          constants.PromotionTypePercentage,
		DiscountValue: testMoney(t, "10"),
	})

	// 校验后、落库前管理端把折扣从 10% 调成 50%，入库金额要跟锁定行走。
	if err := db.Model(&models.Promotion{}).Where("id = ?", promotion.ID).
		Update("discount_value", testMoney(t, "50")).Error; err != nil {
		t.Fatalf("update discount value failed: %v", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		locked, discount, err := svc.lockPromotionDiscount(tx, promotion.ID, 1, decimal.NewFromInt(100), nil, time.Now())
		if err != nil {
			return err
		}
		if !locked.DiscountValue.Decimal.Equal(decimal.NewFromInt(50)) {
			t.Fatalf("expected locked discount value 50, got %s", locked.DiscountValue.String())
		}
		if !discount.Equal(decimal.NewFromInt(50)) {
			t.Fatalf("expected recomputed discount 50, got %s", discount.String())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("lock promotion failed: %v", err)
	}

	// 同理，门槛提高后复核要按新门槛拒单。
	if err := db.Model(&models.Promotion{}).Where("id = ?", promotion.ID).
		Update("min_order_amount", testMoney(t, "200")).Error; err != nil {
		t.Fatalf("update min order amount failed: %v", err)
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		_, _, err := svc.lockPromotionDiscount(tx, promotion.ID, 1, decimal.NewFromInt(100), nil, time.Now())
		return err
	})
	if !errors.Is(err, ErrPromoMinOrder) {
		t.Fatalf("expected min order rejection after raise, got: %v", err)
	}

	// 停用后复核按码无效处理。
	if err := db.Model(&models.Promotion{}).Where("id = ?", promotion.ID).
		Update("status", constants.PromotionStatusInactive).Error; err != nil {
		t.Fatalf("deactivate promotion failed: %v", err)
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		_, _, err := svc.lockPromotionDiscount(tx, promotion.ID, 1, decimal.NewFromInt(1000), nil, time.Now())
		return err
	})
	if !errors.Is(err, ErrPromoCodeNotFound) {
		t.Fatalf("expected code invalid after deactivation, got: %v", err)
	}
}
