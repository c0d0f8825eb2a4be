package models

import (
	"time"

	"gorm.io/gorm"
)

// MenuItem 菜品表
type MenuItem struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                       // 主键
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`                          // 分类ID
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`                           // 唯一标识
	Name        string         `gorm:"not null" json:"name"`                                       // 菜品名称
	Description string         `gorm:"type:text" json:"description"`                               // 菜品描述
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`        // 单价
	Images      StringArray    `gorm:"type:json" json:"images"`                                    // 图片数组
	Tags        StringArray    `gorm:"type:json" json:"tags"`                                      // 标签数组（辣度、素食等）
	Status      string         `gorm:"type:varchar(20);not null;default:'available';index" json:"status"` // 供应状态（available/unavailable）
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`                          // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                                 // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间

	// 关联
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息

	RatingAvg   float64 `gorm:"-" json:"rating_avg"`   // 平均评分（仅结构，不写入数据库）
	RatingCount int64   `gorm:"-" json:"rating_count"` // 评价数量（仅结构，不写入数据库）
}

// TableName 指定表名
func (MenuItem) TableName() string {
	return "menu_items"
}

// IsAvailable 是否可下单
func (m *MenuItem) IsAvailable() bool {
	return m.Status == "available"
}
