package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page       int
	PageSize   int
	Category   string
	Search     string
	FarmerID   uint
	FarmerName string
	Status     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	InStock    bool
	OnlyActive bool
	SortBy     string
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	Search      string // 订单号或用户名称
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// FarmerOrderFilter 查询农户相关订单的过滤条件
type FarmerOrderFilter struct {
	Page         int
	PageSize     int
	ProductIDs   []uint
	ProductNames []string // 旧版无商品ID的订单项按名称匹配
	Status       string
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page     int
	PageSize int
	Role     string
	Search   string // 名称或邮箱
}

// NotificationListFilter 查询通知列表的过滤条件
type NotificationListFilter struct {
	UserID     uint
	Limit      int
	UnreadOnly bool
}

// RevenueSummary 营收汇总
type RevenueSummary struct {
	Revenue    decimal.Decimal
	OrderCount int64
}

// StatusCount 按状态统计
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}
