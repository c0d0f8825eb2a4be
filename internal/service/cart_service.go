package service

import (
	"time"

	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/repository"

	"github.com/shopspring/decimal"
)

// CartItemDetail 购物车项详情（用于响应）
type CartItemDetail struct {
	MenuItemID uint             `json:"menu_item_id"`
	Quantity   int              `json:"quantity"`
	Notes      string           `json:"notes"`
	UnitPrice  models.Money     `json:"unit_price"`
	LineTotal  models.Money     `json:"line_total"`
	MenuItem   *models.MenuItem `json:"menu_item"`
}

// UpsertCartItemInput 购物车更新输入
type UpsertCartItemInput struct {
	UserID     uint
	MenuItemID uint
	Quantity   int
	Notes      string
}

// CartService 购物车服务
type CartService struct {
	cartRepo     repository.CartRepository
	menuItemRepo repository.MenuItemRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, menuItemRepo repository.MenuItemRepository) *CartService {
	return &CartService{
		cartRepo:     cartRepo,
		menuItemRepo: menuItemRepo,
	}
}

// ListByUser 获取用户购物车
func (s *CartService) ListByUser(userID uint) ([]CartItemDetail, error) {
	if userID == 0 {
		return nil, ErrCartItemNotFound
	}
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	details := make([]CartItemDetail, 0, len(items))
	for _, item := range items {
		menuItem := item.MenuItem
		if menuItem == nil || menuItem.ID == 0 {
			m, err := s.menuItemRepo.GetByID(item.MenuItemID)
			if err != nil {
				return nil, err
			}
			menuItem = m
		}
		// 已下架菜品直接从购物车剔除
		if menuItem == nil || !menuItem.IsAvailable() {
			_ = s.cartRepo.DeleteByUserAndItem(userID, item.MenuItemID)
			continue
		}

		lineTotal := menuItem.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
		details = append(details, CartItemDetail{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			Notes:      item.Notes,
			UnitPrice:  menuItem.Price,
			LineTotal:  models.NewMoneyFromDecimal(lineTotal),
			MenuItem:   menuItem,
		})
	}
	return details, nil
}

// UpsertItem 添加或更新购物车项
func (s *CartService) UpsertItem(input UpsertCartItemInput) error {
	if input.UserID == 0 || input.MenuItemID == 0 {
		return ErrCartItemNotFound
	}
	if input.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	menuItem, err := s.menuItemRepo.GetByID(input.MenuItemID)
	if err != nil {
		return err
	}
	if menuItem == nil {
		return ErrMenuItemNotFound
	}
	if !menuItem.IsAvailable() {
		return ErrMenuItemUnavailable
	}

	now := time.Now()
	item := &models.CartItem{
		UserID:     input.UserID,
		MenuItemID: input.MenuItemID,
		Quantity:   input.Quantity,
		Notes:      input.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return s.cartRepo.Upsert(item)
}

// RemoveItem 删除购物车项
func (s *CartService) RemoveItem(userID, menuItemID uint) error {
	if userID == 0 || menuItemID == 0 {
		return ErrCartItemNotFound
	}
	return s.cartRepo.DeleteByUserAndItem(userID, menuItemID)
}

// Clear 清空购物车
func (s *CartService) Clear(userID uint) error {
	if userID == 0 {
		return ErrCartItemNotFound
	}
	return s.cartRepo.ClearByUser(userID)
}
