package models

import (
	"time"

	"gorm.io/gorm"
)

// Promotion 促销活动表
type Promotion struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                              // 主键
	Name              string         `gorm:"not null" json:"name"`                                              // 活动名称
	Description       string         `gorm:"type:text" json:"description"`                                      // 活动描述
	Code              *string        `gorm:"uniqueIndex" json:"code,omitempty"`                                 // 优惠码（可为空，空值不参与唯一约束）
	Type              string         `gorm:"not null;index" json:"type"`                                        // 类型（percentage/fixed_amount/buy_x_get_y/free_shipping/category_discount）
	DiscountValue     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_value"`       // 折扣数值（百分比或固定金额）
	MinOrderAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"min_order_amount"`     // 最低消费门槛
	MaxDiscountAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"max_discount_amount"`  // 最大优惠金额（0 表示不限制）
	BuyQuantity       int            `gorm:"not null;default:0" json:"buy_quantity"`                            // 买 X（buy_x_get_y）
	GetQuantity       int            `gorm:"not null;default:0" json:"get_quantity"`                            // 赠 Y（buy_x_get_y）
	CategoryID        *uint          `gorm:"index" json:"category_id,omitempty"`                                // 目标分类（category_discount）
	UsageLimit        int            `gorm:"not null;default:0" json:"usage_limit"`                             // 总使用上限（0 表示不限制）
	UsedCount         int            `gorm:"not null;default:0" json:"used_count"`                              // 已使用次数
	UsagePerCustomer  int            `gorm:"not null;default:0" json:"usage_per_customer"`                      // 每位顾客使用上限（0 表示不限制）
	StartDate         *time.Time     `gorm:"index" json:"start_date"`                                           // 生效时间
	EndDate           *time.Time     `gorm:"index" json:"end_date"`                                             // 失效时间
	Status            string         `gorm:"not null;default:'active';index" json:"status"`                     // 状态（active/inactive/scheduled/expired）
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                                           // 创建时间
	UpdatedAt         time.Time      `gorm:"index" json:"updated_at"`                                           // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                                    // 软删除时间
}

// TableName 指定表名
func (Promotion) TableName() string {
	return "promotions"
}

// InWindow 判断指定时刻是否落在活动时间窗内（边界包含）
func (p *Promotion) InWindow(now time.Time) bool {
	if p.StartDate != nil && now.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && now.After(*p.EndDate) {
		return false
	}
	return true
}
