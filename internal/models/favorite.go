package models

import (
	"time"

	"gorm.io/gorm"
)

// Favorite 菜品收藏表
type Favorite struct {
	ID         uint           `gorm:"primarykey" json:"id"`                                       // 主键
	UserID     uint           `gorm:"not null;uniqueIndex:idx_fav_user_item" json:"user_id"`      // 顾客ID
	MenuItemID uint           `gorm:"not null;uniqueIndex:idx_fav_user_item" json:"menu_item_id"` // 菜品ID
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间

	MenuItem *MenuItem `gorm:"foreignKey:MenuItemID" json:"menu_item,omitempty"` // 关联菜品
}

// TableName 指定表名
func (Favorite) TableName() string {
	return "favorites"
}
