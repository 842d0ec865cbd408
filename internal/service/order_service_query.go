package service

import (
	"strings"

	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/logger"
	"github.com/krishi-setu/internal/models"
	"github.com/krishi-setu/internal/repository"

	"github.com/shopspring/decimal"
)

// RateOrderInput 订单评价输入
type RateOrderInput struct {
	Score  int
	Review string
}

// ListMine 顾客订单列表
func (s *OrderService) ListMine(userID uint, page, pageSize int, status string) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   strings.TrimSpace(status),
	})
}

// GetMine 顾客订单详情
func (s *OrderService) GetMine(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// Rate 评价已送达订单，每单只能评价一次
func (s *OrderService) Rate(orderID, userID uint, input RateOrderInput) (*models.Order, error) {
	if input.Score < 1 || input.Score > 5 {
		return nil, ErrRatingInvalid
	}
	order, err := s.GetMine(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.Status != constants.OrderStatusDelivered {
		return nil, ErrOrderNotDelivered
	}
	if order.Rating.RatedAt != nil {
		return nil, ErrOrderAlreadyRated
	}
	now := s.now()
	order.Rating = models.OrderRating{
		Score:   input.Score,
		Review:  strings.TrimSpace(input.Review),
		RatedAt: &now,
	}
	order.UpdatedAt = now
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	logger.Infow("order_rated", "order_id", order.ID, "user_id", userID, "score", input.Score)
	return order, nil
}

// FarmerProductScope 农户商品范围：商品ID与旧版按名称匹配的名称集合
type FarmerProductScope struct {
	IDs   map[uint]bool
	Names map[string]bool
}

// Matches 判断订单项是否属于该农户
func (s FarmerProductScope) Matches(item models.OrderItem) bool {
	if item.ProductID != nil {
		return s.IDs[*item.ProductID]
	}
	return s.Names[item.Name]
}

func (s *OrderService) farmerScope(farmerID uint) (FarmerProductScope, error) {
	products, err := s.productRepo.ListByFarmer(farmerID)
	if err != nil {
		return FarmerProductScope{}, err
	}
	scope := FarmerProductScope{IDs: map[uint]bool{}, Names: map[string]bool{}}
	for _, product := range products {
		scope.IDs[product.ID] = true
		scope.Names[product.Name] = true
	}
	return scope, nil
}

// ListForFarmer 农户订单视图：只保留农户自己的订单项，并按这些项重算小计与合计
func (s *OrderService) ListForFarmer(farmerID uint, page, pageSize int, status string) ([]models.Order, int64, error) {
	scope, err := s.farmerScope(farmerID)
	if err != nil {
		return nil, 0, err
	}
	filter := repository.FarmerOrderFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(status),
	}
	for id := range scope.IDs {
		filter.ProductIDs = append(filter.ProductIDs, id)
	}
	for name := range scope.Names {
		filter.ProductNames = append(filter.ProductNames, name)
	}
	orders, total, err := s.orderRepo.ListForFarmer(filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		own := make([]models.OrderItem, 0, len(orders[i].Items))
		subtotal := decimal.Zero
		for _, item := range orders[i].Items {
			if !scope.Matches(item) {
				continue
			}
			own = append(own, item)
			subtotal = subtotal.Add(item.Price.Mul(item.Quantity).Decimal)
		}
		orders[i].Items = own
		orders[i].Subtotal = models.NewMoneyFromDecimal(subtotal)
		orders[i].TotalAmount = orders[i].Subtotal.Plus(orders[i].DeliveryCharges)
	}
	return orders, total, nil
}
