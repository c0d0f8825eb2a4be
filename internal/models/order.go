package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                          // 主键
	OrderNo         string         `gorm:"uniqueIndex;not null" json:"order_no"`                          // 订单编号
	UserID          uint           `gorm:"index;not null" json:"user_id"`                                 // 顾客ID
	Status          string         `gorm:"index;not null" json:"status"`                                  // 订单状态
	OrderType       string         `gorm:"type:varchar(20);not null;default:'pickup'" json:"order_type"`  // 就餐方式（pickup/delivery/dine_in）
	Currency        string         `gorm:"not null" json:"currency"`                                      // 币种
	Subtotal        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`         // 菜品小计
	DiscountAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`  // 促销优惠金额
	DeliveryFee     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"delivery_fee"`     // 配送费
	TotalAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`     // 实付金额
	PromotionID     *uint          `gorm:"index" json:"promotion_id,omitempty"`                           // 促销活动ID
	PromoCode       string         `gorm:"type:varchar(64)" json:"promo_code,omitempty"`                  // 下单使用的优惠码快照
	TableNumber     string         `gorm:"type:varchar(20)" json:"table_number,omitempty"`                // 桌号（堂食）
	DeliveryAddress string         `gorm:"type:varchar(500)" json:"delivery_address,omitempty"`           // 配送地址（外送）
	Notes           string         `gorm:"type:varchar(500)" json:"notes,omitempty"`                      // 订单备注
	ClientIP        string         `gorm:"type:varchar(64)" json:"client_ip,omitempty"`                   // 下单客户端IP
	ExpiresAt       *time.Time     `gorm:"index" json:"expires_at"`                                       // 待确认超时时间
	CompletedAt     *time.Time     `gorm:"index" json:"completed_at"`                                     // 完成时间
	CanceledAt      *time.Time     `gorm:"index" json:"canceled_at"`                                      // 取消时间
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                       // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
