package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/krishi-setu/internal/cache"
	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/models"
	"github.com/krishi-setu/internal/repository"
)

const (
	dashboardCacheTTL  = 45 * time.Second
	recentOrdersWindow = 7 * 24 * time.Hour
)

// DashboardStats 管理端总览
type DashboardStats struct {
	Users    DashboardUserStats    `json:"users"`
	Products DashboardProductStats `json:"products"`
	Orders   DashboardOrderStats   `json:"orders"`
	Revenue  DashboardRevenue      `json:"revenue"`
}

// DashboardUserStats 用户统计
type DashboardUserStats struct {
	Total     int64 `json:"total"`
	Farmers   int64 `json:"farmers"`
	Customers int64 `json:"customers"`
	Admins    int64 `json:"admins"`
}

// DashboardProductStats 商品统计
type DashboardProductStats struct {
	Total      int64 `json:"total"`
	Active     int64 `json:"active"`
	OutOfStock int64 `json:"out_of_stock"`
}

// DashboardOrderStats 订单统计
type DashboardOrderStats struct {
	Total     int64                    `json:"total"`
	Pending   int64                    `json:"pending"`
	Delivered int64                    `json:"delivered"`
	Recent    int64                    `json:"recent"`
	ByStatus  []repository.StatusCount `json:"by_status"`
}

// DashboardRevenue 营收汇总
type DashboardRevenue struct {
	Total models.Money `json:"total"`
}

// RevenueReport 时间窗口营收
type RevenueReport struct {
	Period     string       `json:"period"`
	From       string       `json:"from"`
	To         string       `json:"to"`
	Revenue    models.Money `json:"revenue"`
	OrderCount int64        `json:"order_count"`
}

// revenueOrderStatuses 计入营收的订单状态（已取消除外）
var revenueOrderStatuses = spentOrderStatuses

// Stats 管理端总览，Redis 可用时缓存 45 秒
func (s *AdminService) Stats(ctx context.Context, forceRefresh bool) (*DashboardStats, error) {
	cacheKey := "dashboard:stats"
	if !forceRefresh {
		var cached DashboardStats
		if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	byRole, err := s.userRepo.CountByRole()
	if err != nil {
		return nil, err
	}
	stats := &DashboardStats{}
	for role, count := range byRole {
		stats.Users.Total += count
		switch normalizeRole(role) {
		case constants.RoleFarmer:
			stats.Users.Farmers += count
		case constants.RoleAdmin:
			stats.Users.Admins += count
		default:
			stats.Users.Customers += count
		}
	}

	if stats.Products.Total, err = s.productRepo.CountAll(); err != nil {
		return nil, err
	}
	if stats.Products.Active, err = s.productRepo.CountByStatus(constants.ProductStatusActive); err != nil {
		return nil, err
	}
	if stats.Products.OutOfStock, err = s.productRepo.CountByStatus(constants.ProductStatusOutOfStock); err != nil {
		return nil, err
	}

	if stats.Orders.Total, err = s.orderRepo.CountAll(); err != nil {
		return nil, err
	}
	byStatus, err := s.orderRepo.CountByStatus()
	if err != nil {
		return nil, err
	}
	stats.Orders.ByStatus = byStatus
	for _, row := range byStatus {
		switch row.Status {
		case constants.OrderStatusPending:
			stats.Orders.Pending = row.Count
		case constants.OrderStatusDelivered:
			stats.Orders.Delivered = row.Count
		}
	}
	since := s.now().Add(-recentOrdersWindow)
	recent, err := s.orderRepo.SumRevenue(nil, &since, nil)
	if err != nil {
		return nil, err
	}
	stats.Orders.Recent = recent.OrderCount

	revenue, err := s.orderRepo.SumRevenue(revenueOrderStatuses, nil, nil)
	if err != nil {
		return nil, err
	}
	stats.Revenue.Total = models.NewMoneyFromDecimal(revenue.Revenue)

	_ = cache.SetJSON(ctx, cacheKey, stats, dashboardCacheTTL)
	return stats, nil
}

// Revenue 指定周期（week / month / year）内未取消订单的营收与订单数
func (s *AdminService) Revenue(period string) (*RevenueReport, error) {
	period = strings.ToLower(strings.TrimSpace(period))
	if period == "" {
		period = constants.RevenuePeriodWeek
	}
	now := s.now()
	var from time.Time
	switch period {
	case constants.RevenuePeriodWeek:
		from = now.AddDate(0, 0, -7)
	case constants.RevenuePeriodMonth:
		from = now.AddDate(0, 0, -30)
	case constants.RevenuePeriodYear:
		from = now.AddDate(0, 0, -365)
	default:
		return nil, fmt.Errorf("%w: %s", ErrRevenuePeriodInvalid, period)
	}
	summary, err := s.orderRepo.SumRevenue(revenueOrderStatuses, &from, &now)
	if err != nil {
		return nil, err
	}
	return &RevenueReport{
		Period:     period,
		From:       from.Format(time.RFC3339),
		To:         now.Format(time.RFC3339),
		Revenue:    models.NewMoneyFromDecimal(summary.Revenue),
		OrderCount: summary.OrderCount,
	}, nil
}
