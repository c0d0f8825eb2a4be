package repository

import "time"

// MenuItemListFilter 查询菜品列表的过滤条件
type MenuItemListFilter struct {
	Page          int
	PageSize      int
	CategoryID    string
	Search        string
	Tag           string
	OnlyAvailable bool
	WithCategory  bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	OrderType   string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// PromotionListFilter 查询促销列表的过滤条件
type PromotionListFilter struct {
	Page       int
	PageSize   int
	ID         uint
	Code       string
	Type       string
	Status     string
	CategoryID uint
}

// PromotionUsageListFilter 查询促销使用记录列表的过滤条件
type PromotionUsageListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	PromotionID uint
}

// ReviewListFilter 查询评价列表的过滤条件
type ReviewListFilter struct {
	Page       int
	PageSize   int
	MenuItemID uint
	UserID     uint
	MinRating  int
	WithUser   bool
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page          int
	PageSize      int
	Keyword       string
	Status        string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	LastLoginFrom *time.Time
	LastLoginTo   *time.Time
}
