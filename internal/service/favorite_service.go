package service

import (
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/repository"
)

// FavoriteService 菜品收藏服务
type FavoriteService struct {
	favoriteRepo repository.FavoriteRepository
	menuItemRepo repository.MenuItemRepository
}

// NewFavoriteService 创建收藏服务
func NewFavoriteService(favoriteRepo repository.FavoriteRepository, menuItemRepo repository.MenuItemRepository) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		menuItemRepo: menuItemRepo,
	}
}

// ListByUser 获取顾客收藏列表
func (s *FavoriteService) ListByUser(userID uint, page, pageSize int) ([]models.Favorite, int64, error) {
	return s.favoriteRepo.ListByUser(userID, page, pageSize)
}

// Add 收藏菜品。重复收藏不报错，保持幂等。
func (s *FavoriteService) Add(userID, menuItemID uint) error {
	item, err := s.menuItemRepo.GetByID(menuItemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrMenuItemNotFound
	}

	exists, err := s.favoriteRepo.Exists(userID, menuItemID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.favoriteRepo.Create(&models.Favorite{
		UserID:     userID,
		MenuItemID: menuItemID,
	})
}

// Remove 取消收藏
func (s *FavoriteService) Remove(userID, menuItemID uint) error {
	exists, err := s.favoriteRepo.Exists(userID, menuItemID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrFavoriteNotFound
	}
	return s.favoriteRepo.DeleteByUserAndItem(userID, menuItemID)
}
