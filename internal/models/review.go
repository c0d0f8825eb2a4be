package models

import (
	"time"

	"gorm.io/gorm"
)

// Review 菜品评价表
type Review struct {
	ID         uint           `gorm:"primarykey" json:"id"`                                          // 主键
	UserID     uint           `gorm:"not null;uniqueIndex:idx_review_user_item" json:"user_id"`      // 顾客ID
	MenuItemID uint           `gorm:"not null;uniqueIndex:idx_review_user_item" json:"menu_item_id"` // 菜品ID
	OrderID    *uint          `gorm:"index" json:"order_id,omitempty"`                               // 关联订单ID（可选）
	Rating     int            `gorm:"not null" json:"rating"`                                        // 评分（1-5）
	Comment    string         `gorm:"type:text" json:"comment"`                                      // 评价内容
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                                                    // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间

	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`          // 关联顾客
	MenuItem *MenuItem `gorm:"foreignKey:MenuItemID" json:"menu_item,omitempty"` // 关联菜品
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}
