package models

import (
	"time"

	"gorm.io/gorm"
)

// PromotionUsage 促销使用记录（只追加，不更新）
type PromotionUsage struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                          // 主键
	PromotionID    uint           `gorm:"index;not null" json:"promotion_id"`                            // 促销活动ID
	UserID         uint           `gorm:"index;not null" json:"user_id"`                                 // 顾客ID
	OrderID        uint           `gorm:"index;not null" json:"order_id"`                                // 订单ID
	DiscountAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 优惠金额
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间
}

// TableName 指定表名
func (PromotionUsage) TableName() string {
	return "promotion_usages"
}
