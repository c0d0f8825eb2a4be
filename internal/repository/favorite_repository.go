package repository

import (
	"errors"

	"github.com/mesa-next/internal/models"

	"gorm.io/gorm"
)

// FavoriteRepository 收藏数据访问接口
type FavoriteRepository interface {
	ListByUser(userID uint, page, pageSize int) ([]models.Favorite, int64, error)
	Exists(userID, menuItemID uint) (bool, error)
	Create(favorite *models.Favorite) error
	DeleteByUserAndItem(userID, menuItemID uint) error
}

// GormFavoriteRepository GORM 实现
type GormFavoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository 创建收藏仓库
func NewFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

// ListByUser 获取顾客收藏列表
func (r *GormFavoriteRepository) ListByUser(userID uint, page, pageSize int) ([]models.Favorite, int64, error) {
	query := r.db.Model(&models.Favorite{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)

	var favorites []models.Favorite
	if err := query.Preload("MenuItem").Order("id desc").Find(&favorites).Error; err != nil {
		return nil, 0, err
	}
	return favorites, total, nil
}

// Exists 判断是否已收藏
func (r *GormFavoriteRepository) Exists(userID, menuItemID uint) (bool, error) {
	var favorite models.Favorite
	err := r.db.Where("user_id = ? AND menu_item_id = ?", userID, menuItemID).First(&favorite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Create 创建收藏
func (r *GormFavoriteRepository) Create(favorite *models.Favorite) error {
	return r.db.Create(favorite).Error
}

// DeleteByUserAndItem 取消收藏
func (r *GormFavoriteRepository) DeleteByUserAndItem(userID, menuItemID uint) error {
	return r.db.Where("user_id = ? AND menu_item_id = ?", userID, menuItemID).Delete(&models.Favorite{}).Error
}
