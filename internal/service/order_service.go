package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/logger"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/queue"
	"github.com/mesa-next/internal/repository"
)

// defaultDeliveryFee 未配置配送费时的兜底金额
var defaultDeliveryFee = decimal.NewFromInt(5)

// OrderService 订单业务服务
type OrderService struct {
	orderRepo        repository.OrderRepository
	cartRepo         repository.CartRepository
	menuItemRepo     repository.MenuItemRepository
	promotionRepo    repository.PromotionRepository
	usageRepo        repository.PromotionUsageRepository
	promotionService *PromotionService
	settingService   *SettingService
	queueClient      *queue.Client
	expireMinutes    int
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	menuItemRepo repository.MenuItemRepository,
	promotionRepo repository.PromotionRepository,
	usageRepo repository.PromotionUsageRepository,
	promotionService *PromotionService,
	settingService *SettingService,
	queueClient *queue.Client,
	expireMinutes int,
) *OrderService {
	return &OrderService{
		orderRepo:        orderRepo,
		cartRepo:         cartRepo,
		menuItemRepo:     menuItemRepo,
		promotionRepo:    promotionRepo,
		usageRepo:        usageRepo,
		promotionService: promotionService,
		settingService:   settingService,
		queueClient:      queueClient,
		expireMinutes:    expireMinutes,
	}
}

// CreateOrderInput 下单入参
type CreateOrderInput struct {
	UserID          uint
	OrderType       string
	PromoCode       string
	TableNumber     string
	DeliveryAddress string
	Notes           string
	ClientIP        string
}

// OrderPreview 下单前的金额预览
type OrderPreview struct {
	Items          []CartItemDetail  `json:"items"`
	Currency       string            `json:"currency"`
	Subtotal       models.Money      `json:"subtotal"`
	DiscountAmount models.Money      `json:"discount_amount"`
	DeliveryFee    models.Money      `json:"delivery_fee"`
	TotalAmount    models.Money      `json:"total_amount"`
	Promotion      *models.Promotion `json:"promotion,omitempty"`
}

func normalizeOrderType(orderType string) (string, error) {
	orderType = strings.ToLower(strings.TrimSpace(orderType))
	if orderType == "" {
		return constants.OrderTypePickup, nil
	}
	switch orderType {
	case constants.OrderTypePickup, constants.OrderTypeDelivery, constants.OrderTypeDineIn:
		return orderType, nil
	default:
		return "", ErrOrderTypeInvalid
	}
}

// orderDraft 聚合下单前算好的快照与金额，事务内直接落库。
type orderDraft struct {
	items     []models.OrderItem
	cartLines []CartLine
	subtotal  decimal.Decimal
}

// buildOrderDraft 从购物车生成订单项快照并合计小计
func (s *OrderService) buildOrderDraft(userID uint) (*orderDraft, error) {
	cartItems, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if len(cartItems) == 0 {
		return nil, ErrCartEmpty
	}

	draft := &orderDraft{
		items:     make([]models.OrderItem, 0, len(cartItems)),
		cartLines: make([]CartLine, 0, len(cartItems)),
		subtotal:  decimal.Zero,
	}
	for _, cartItem := range cartItems {
		menuItem := cartItem.MenuItem
		if menuItem == nil || menuItem.ID == 0 {
			loaded, err := s.menuItemRepo.GetByID(cartItem.MenuItemID)
			if err != nil {
				return nil, ErrOrderFetchFailed
			}
			menuItem = loaded
		}
		if menuItem == nil || !menuItem.IsAvailable() {
			return nil, ErrMenuItemUnavailable
		}
		if cartItem.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		lineTotal := menuItem.Price.Decimal.Mul(decimal.NewFromInt(int64(cartItem.Quantity))).Round(2)
		draft.items = append(draft.items, models.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			CategoryID: menuItem.CategoryID,
			UnitPrice:  menuItem.Price,
			Quantity:   cartItem.Quantity,
			TotalPrice: models.NewMoneyFromDecimal(lineTotal),
			Notes:      cartItem.Notes,
		})
		draft.cartLines = append(draft.cartLines, CartLine{
			MenuItemID: menuItem.ID,
			CategoryID: menuItem.CategoryID,
			UnitPrice:  menuItem.Price,
			Quantity:   cartItem.Quantity,
		})
		draft.subtotal = draft.subtotal.Add(lineTotal)
	}
	return draft, nil
}

// resolveDeliveryFee 计算配送费，满足免配送门槛时减免
func (s *OrderService) resolveDeliveryFee(orderType string, subtotal decimal.Decimal) decimal.Decimal {
	if orderType != constants.OrderTypeDelivery {
		return decimal.Zero
	}
	fee := s.settingService.GetDeliveryFee(defaultDeliveryFee)
	freeMinimum := s.settingService.GetFreeDeliveryMinimum()
	if freeMinimum.IsPositive() && subtotal.GreaterThanOrEqual(freeMinimum) {
		return decimal.Zero
	}
	return fee.Round(2)
}

// PreviewOrder 试算订单金额，不落库、不占用促销名额
func (s *OrderService) PreviewOrder(input CreateOrderInput) (*OrderPreview, error) {
	orderType, err := normalizeOrderType(input.OrderType)
	if err != nil {
		return nil, err
	}
	draft, err := s.buildOrderDraft(input.UserID)
	if err != nil {
		return nil, err
	}

	discount := decimal.Zero
	var promotion *models.Promotion
	if strings.TrimSpace(input.PromoCode) != "" {
		result, err := s.promotionService.Validate(ValidatePromoInput{
			PromoCode:   input.PromoCode,
			CustomerID:  input.UserID,
			OrderAmount: models.NewMoneyFromDecimal(draft.subtotal),
			CartItems:   draft.cartLines,
		})
		if err != nil {
			return nil, err
		}
		promotion = result.Promotion
		discount = result.Discount.Amount.Decimal
	}
	if discount.GreaterThan(draft.subtotal) {
		discount = draft.subtotal
	}

	deliveryFee := s.resolveDeliveryFee(orderType, draft.subtotal)
	total := draft.subtotal.Sub(discount).Add(deliveryFee).Round(2)
	if total.IsNegative() {
		total = decimal.Zero
	}

	details := make([]CartItemDetail, 0, len(draft.items))
	for _, item := range draft.items {
		details = append(details, CartItemDetail{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			Notes:      item.Notes,
			UnitPrice:  item.UnitPrice,
			LineTotal:  item.TotalPrice,
		})
	}
	return &OrderPreview{
		Items:          details,
		Currency:       s.settingService.GetSiteCurrency(),
		Subtotal:       models.NewMoneyFromDecimal(draft.subtotal),
		DiscountAmount: models.NewMoneyFromDecimal(discount),
		DeliveryFee:    models.NewMoneyFromDecimal(deliveryFee),
		TotalAmount:    models.NewMoneyFromDecimal(total),
		Promotion:      promotion,
	}, nil
}

// lockPromotionDiscount 对促销行加锁复核并按锁定后的内容重算折扣。
// 预校验到事务提交之间促销可能被停用、改档或被他人用满，
// 入库金额必须来自锁定行而非校验时的快照。
func (s *OrderService) lockPromotionDiscount(tx *gorm.DB, promotionID, userID uint, subtotal decimal.Decimal, lines []CartLine, now time.Time) (*models.Promotion, decimal.Decimal, error) {
	locked, err := s.promotionRepo.WithTx(tx).GetByIDForUpdate(promotionID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if locked == nil || locked.Status != constants.PromotionStatusActive || !locked.InWindow(now) {
		return nil, decimal.Zero, ErrPromoCodeNotFound
	}
	if subtotal.LessThan(locked.MinOrderAmount.Decimal) {
		return nil, decimal.Zero, &MinOrderError{Minimum: locked.MinOrderAmount}
	}
	if locked.UsageLimit > 0 && locked.UsedCount >= locked.UsageLimit {
		return nil, decimal.Zero, ErrPromoUsageLimit
	}
	if locked.UsagePerCustomer > 0 {
		count, err := s.usageRepo.WithTx(tx).CountByUser(locked.ID, userID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if count >= int64(locked.UsagePerCustomer) {
			return nil, decimal.Zero, ErrPromoUsageLimit
		}
	}

	discount := CalculateDiscount(locked, models.NewMoneyFromDecimal(subtotal), lines).Amount.Decimal
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	return locked, discount, nil
}

// CreateOrder 从购物车创建订单。
// 促销名额的占用与订单落库在同一事务内完成，并对促销行加锁复核，
// 避免并发下单超出使用上限。
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	orderType, err := normalizeOrderType(input.OrderType)
	if err != nil {
		return nil, err
	}
	tableNumber := strings.TrimSpace(input.TableNumber)
	deliveryAddress := strings.TrimSpace(input.DeliveryAddress)
	if orderType == constants.OrderTypeDineIn && tableNumber == "" {
		return nil, ErrTableNumberRequired
	}
	if orderType == constants.OrderTypeDelivery && deliveryAddress == "" {
		return nil, ErrDeliveryAddressRequired
	}

	draft, err := s.buildOrderDraft(input.UserID)
	if err != nil {
		return nil, err
	}

	discount := decimal.Zero
	var promotion *models.Promotion
	promoCode := strings.TrimSpace(input.PromoCode)
	if promoCode != "" {
		result, err := s.promotionService.Validate(ValidatePromoInput{
			PromoCode:   promoCode,
			CustomerID:  input.UserID,
			OrderAmount: models.NewMoneyFromDecimal(draft.subtotal),
			CartItems:   draft.cartLines,
		})
		if err != nil {
			return nil, err
		}
		promotion = result.Promotion
		discount = result.Discount.Amount.Decimal
	}
	if discount.GreaterThan(draft.subtotal) {
		discount = draft.subtotal
	}

	deliveryFee := s.resolveDeliveryFee(orderType, draft.subtotal)
	total := draft.subtotal.Sub(discount).Add(deliveryFee).Round(2)
	if total.IsNegative() {
		total = decimal.Zero
	}

	expireMinutes := s.resolveExpireMinutes()
	now := time.Now()
	expiresAt := now.Add(time.Duration(expireMinutes) * time.Minute)
	order := &models.Order{
		OrderNo:         generateOrderNo(),
		UserID:          input.UserID,
		Status:          constants.OrderStatusPending,
		OrderType:       orderType,
		Currency:        s.settingService.GetSiteCurrency(),
		Subtotal:        models.NewMoneyFromDecimal(draft.subtotal),
		DiscountAmount:  models.NewMoneyFromDecimal(discount),
		DeliveryFee:     models.NewMoneyFromDecimal(deliveryFee),
		TotalAmount:     models.NewMoneyFromDecimal(total),
		PromoCode:       promoCode,
		TableNumber:     tableNumber,
		DeliveryAddress: deliveryAddress,
		Notes:           strings.TrimSpace(input.Notes),
		ClientIP:        strings.TrimSpace(input.ClientIP),
		ExpiresAt:       &expiresAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if promotion != nil {
		promotionID := promotion.ID
		order.PromotionID = &promotionID
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		var locked *models.Promotion
		if promotion != nil {
			var lockedDiscount decimal.Decimal
			locked, lockedDiscount, err = s.lockPromotionDiscount(tx, promotion.ID, input.UserID, draft.subtotal, draft.cartLines, now)
			if err != nil {
				return err
			}
			// 折扣以锁定行重算为准，校验到落库之间管理端可能已调整促销。
			discount = lockedDiscount
			total = draft.subtotal.Sub(discount).Add(deliveryFee).Round(2)
			if total.IsNegative() {
				total = decimal.Zero
			}
			order.DiscountAmount = models.NewMoneyFromDecimal(discount)
			order.TotalAmount = models.NewMoneyFromDecimal(total)
		}

		orderRepo := s.orderRepo.WithTx(tx)
		if err := orderRepo.Create(order, draft.items); err != nil {
			return err
		}

		if locked != nil {
			usageRepo := s.usageRepo.WithTx(tx)
			if err := usageRepo.Create(&models.PromotionUsage{
				PromotionID:    locked.ID,
				UserID:         input.UserID,
				OrderID:        order.ID,
				DiscountAmount: models.NewMoneyFromDecimal(discount),
				CreatedAt:      now,
			}); err != nil {
				return err
			}
			if err := s.promotionRepo.WithTx(tx).IncrementUsedCount(locked.ID, 1); err != nil {
				return err
			}
		}

		return s.cartRepo.WithTx(tx).ClearByUser(input.UserID)
	})
	if err != nil {
		if isPromoValidationError(err) {
			return nil, err
		}
		logger.Errorw("order_create_failed",
			"user_id", input.UserID,
			"order_no", order.OrderNo,
			"error", err,
		)
		return nil, ErrOrderCreateFailed
	}

	if s.queueClient != nil {
		if _, err := enqueueOrderStatusEmailTaskIfEligible(s.orderRepo, s.queueClient, order.ID, constants.OrderStatusPending); err != nil {
			logger.Warnw("order_enqueue_status_email_failed",
				"order_id", order.ID,
				"status", constants.OrderStatusPending,
				"error", err,
			)
		}
		if err := s.queueClient.EnqueueOrderTimeoutCancel(queue.OrderTimeoutCancelPayload{
			OrderID: order.ID,
		}, time.Duration(expireMinutes)*time.Minute); err != nil {
			// 兜底有读取时的惰性取消，这里仅记录。
			logger.Warnw("order_enqueue_timeout_cancel_failed",
				"order_id", order.ID,
				"order_no", order.OrderNo,
				"error", err,
			)
		}
	}

	full, err := s.orderRepo.GetByID(order.ID)
	if err == nil && full != nil {
		return full, nil
	}
	return order, nil
}

func isPromoValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrPromoCodeNotFound),
		errors.Is(err, ErrPromoMinOrder),
		errors.Is(err, ErrPromoUsageLimit):
		return true
	}
	return false
}

// CancelOrder 顾客取消订单，仅限待确认状态
func (s *OrderService) CancelOrder(orderID uint, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if err := s.ensureOrderCanceledIfExpired(order); err != nil {
		return nil, ErrOrderUpdateFailed
	}
	if order.Status == constants.OrderStatusCanceled {
		return order, nil
	}
	if order.Status != constants.OrderStatusPending {
		return nil, ErrOrderNotCancelable
	}
	if err := s.markCanceled(order); err != nil {
		return nil, ErrOrderUpdateFailed
	}
	s.notifyStatus(order.ID, constants.OrderStatusCanceled)
	return order, nil
}

// UpdateOrderStatus 管理端更新订单状态
func (s *OrderService) UpdateOrderStatus(orderID uint, targetStatus string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	target := strings.ToLower(strings.TrimSpace(targetStatus))
	if target == "" {
		return nil, ErrOrderStatusInvalid
	}
	if order.Status == target {
		return order, nil
	}
	if !CanTransitionOrderStatus(order.Status, target) {
		return nil, ErrOrderStatusInvalid
	}

	now := time.Now()
	updates := map[string]interface{}{
		"updated_at": now,
	}
	switch target {
	case constants.OrderStatusCompleted:
		updates["completed_at"] = now
	case constants.OrderStatusCanceled:
		updates["canceled_at"] = now
	case constants.OrderStatusConfirmed:
		// 确认后不再按待确认超时取消
		updates["expires_at"] = nil
	}
	if err := s.orderRepo.UpdateStatus(order.ID, target, updates); err != nil {
		return nil, ErrOrderUpdateFailed
	}
	order.Status = target
	order.UpdatedAt = now
	switch target {
	case constants.OrderStatusCompleted:
		order.CompletedAt = &now
	case constants.OrderStatusCanceled:
		order.CanceledAt = &now
	case constants.OrderStatusConfirmed:
		order.ExpiresAt = nil
	}
	s.notifyStatus(order.ID, target)
	return order, nil
}

// CancelExpiredOrder 超时取消订单，由队列任务触发
func (s *OrderService) CancelExpiredOrder(orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPending {
		return order, nil
	}
	if order.ExpiresAt == nil || order.ExpiresAt.After(time.Now()) {
		return order, nil
	}
	if err := s.markCanceled(order); err != nil {
		return nil, err
	}
	s.notifyStatus(order.ID, constants.OrderStatusCanceled)
	return order, nil
}

// SweepExpiredOrders 批量取消已超时的待确认订单，作为队列任务丢失时的兜底
func (s *OrderService) SweepExpiredOrders(limit int) (int, error) {
	orders, err := s.orderRepo.ListExpiredPending(time.Now(), limit)
	if err != nil {
		return 0, err
	}
	canceled := 0
	for i := range orders {
		if _, err := s.CancelExpiredOrder(orders[i].ID); err != nil {
			logger.Warnw("order_sweep_cancel_failed",
				"order_id", orders[i].ID,
				"error", err,
			)
			continue
		}
		canceled++
	}
	return canceled, nil
}

// GetOrderByUser 顾客查询自己的订单
func (s *OrderService) GetOrderByUser(orderID uint, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if err := s.ensureOrderCanceledIfExpired(order); err != nil {
		logger.Warnw("order_lazy_expire_failed",
			"order_id", order.ID,
			"error", err,
		)
	}
	return order, nil
}

// GetOrderByUserOrderNo 顾客按订单号查询
func (s *OrderService) GetOrderByUserOrderNo(orderNo string, userID uint) (*models.Order, error) {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	if err := s.ensureOrderCanceledIfExpired(order); err != nil {
		logger.Warnw("order_lazy_expire_failed",
			"order_id", order.ID,
			"error", err,
		)
	}
	return order, nil
}

// ListByUser 顾客订单列表
func (s *OrderService) ListByUser(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(filter)
}

// ListAdmin 管理端订单列表
func (s *OrderService) ListAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// GetAdminByID 管理端查询订单
func (s *OrderService) GetAdminByID(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// markCanceled 落库取消状态并同步内存对象
func (s *OrderService) markCanceled(order *models.Order) error {
	now := time.Now()
	updates := map[string]interface{}{
		"canceled_at": now,
		"updated_at":  now,
	}
	if err := s.orderRepo.UpdateStatus(order.ID, constants.OrderStatusCanceled, updates); err != nil {
		return err
	}
	order.Status = constants.OrderStatusCanceled
	order.CanceledAt = &now
	order.UpdatedAt = now
	return nil
}

// ensureOrderCanceledIfExpired 读取时惰性同步过期订单状态
func (s *OrderService) ensureOrderCanceledIfExpired(order *models.Order) error {
	if order == nil {
		return nil
	}
	if order.Status != constants.OrderStatusPending {
		return nil
	}
	if order.ExpiresAt == nil || order.ExpiresAt.After(time.Now()) {
		return nil
	}
	return s.markCanceled(order)
}

func (s *OrderService) notifyStatus(orderID uint, status string) {
	if s.queueClient == nil {
		return
	}
	if _, err := enqueueOrderStatusEmailTaskIfEligible(s.orderRepo, s.queueClient, orderID, status); err != nil {
		logger.Warnw("order_enqueue_status_email_failed",
			"order_id", orderID,
			"status", status,
			"error", err,
		)
	}
}

func (s *OrderService) resolveExpireMinutes() int {
	defaultMinutes := s.expireMinutes
	if defaultMinutes <= 0 {
		defaultMinutes = 30
	}
	if s.settingService == nil {
		return defaultMinutes
	}
	minutes, err := s.settingService.GetOrderExpireMinutes(defaultMinutes)
	if err != nil {
		return defaultMinutes
	}
	if minutes <= 0 {
		return defaultMinutes
	}
	return minutes
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	randPart := randNumeric(6)
	return fmt.Sprintf("MS%s%s", now, randPart)
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
