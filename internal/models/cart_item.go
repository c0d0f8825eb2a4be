package models

import (
	"time"
)

// CartItem 购物车项。
// 购物车行是临时数据，删除为物理删除，避免软删除残留占用用户+菜品唯一索引。
type CartItem struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                        // 主键
	UserID     uint      `gorm:"not null;uniqueIndex:idx_cart_user_item" json:"user_id"`      // 用户ID
	MenuItemID uint      `gorm:"not null;uniqueIndex:idx_cart_user_item" json:"menu_item_id"` // 菜品ID
	Quantity   int       `gorm:"not null" json:"quantity"`                                    // 数量
	Notes      string    `gorm:"type:varchar(500)" json:"notes"`                              // 口味备注
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt  time.Time `gorm:"index" json:"updated_at"`                                     // 更新时间

	MenuItem *MenuItem `gorm:"foreignKey:MenuItemID" json:"menu_item,omitempty"` // 关联菜品
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
