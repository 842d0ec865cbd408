package service

import (
	"fmt"
	"strings"

	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/logger"
	"github.com/krishi-setu/internal/models"

	"gorm.io/gorm"
)

// orderStatusFlow 订单正向流转顺序
var orderStatusFlow = []string{
	constants.OrderStatusPending,
	constants.OrderStatusConfirmed,
	constants.OrderStatusProcessing,
	constants.OrderStatusShipped,
	constants.OrderStatusOutForDelivery,
	constants.OrderStatusDelivered,
}

// StatusActor 状态变更操作人
type StatusActor struct {
	UserID uint
	Role   string
}

func (a StatusActor) isAdmin() bool {
	return a.Role == constants.RoleAdmin
}

func (a StatusActor) label() string {
	return fmt.Sprintf("%s:%d", a.Role, a.UserID)
}

// UpdateStatusInput 状态变更输入
type UpdateStatusInput struct {
	Status         string
	TrackingNumber string
	Note           string
}

// IsValidOrderStatus 是否为已知订单状态
func IsValidOrderStatus(status string) bool {
	return status == constants.OrderStatusCancelled || orderStatusIndex(status) >= 0
}

func orderStatusIndex(status string) int {
	for i, s := range orderStatusFlow {
		if s == status {
			return i
		}
	}
	return -1
}

// canTransitionOrderStatus 只允许向前流转；已送达与已取消为终态，非终态均可取消。
// allowSkip 为 true 时允许跨步前进。
func canTransitionOrderStatus(from, to string, allowSkip bool) bool {
	if from == to {
		return false
	}
	if from == constants.OrderStatusDelivered || from == constants.OrderStatusCancelled {
		return false
	}
	if to == constants.OrderStatusCancelled {
		return true
	}
	fromIdx := orderStatusIndex(from)
	toIdx := orderStatusIndex(to)
	if fromIdx < 0 || toIdx < 0 {
		return false
	}
	if allowSkip {
		return toIdx > fromIdx
	}
	return toIdx == fromIdx+1
}

// UpdateStatus 变更订单状态并追加历史。管理员可操作任意订单并跨步前进，
// 农户只能逐步推进包含自己商品的订单。
func (s *OrderService) UpdateStatus(orderID uint, actor StatusActor, input UpdateStatusInput) (*models.Order, error) {
	target := strings.ToLower(strings.TrimSpace(input.Status))
	if !IsValidOrderStatus(target) {
		return nil, ErrOrderStatusInvalid
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if err := s.authorizeStatusActor(order, actor); err != nil {
		return nil, err
	}
	from := order.Status
	if !canTransitionOrderStatus(from, target, actor.isAdmin()) {
		return nil, ErrOrderTransitionInvalid
	}

	now := s.now()
	note := strings.TrimSpace(input.Note)
	if note == "" {
		note = "Order status updated to " + target
	}
	order.Status = target
	order.UpdatedAt = now
	if tracking := strings.TrimSpace(input.TrackingNumber); tracking != "" {
		order.TrackingNumber = tracking
	}
	if target == constants.OrderStatusDelivered && order.DeliveryDate == nil {
		order.DeliveryDate = &now
	}
	entry := models.OrderStatusHistory{
		OrderID:   order.ID,
		Status:    target,
		UpdatedBy: actor.label(),
		Note:      note,
		Timestamp: now,
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)
		if err := repo.Update(order); err != nil {
			return err
		}
		return repo.AppendHistory(&entry)
	})
	if err != nil {
		logger.Errorw("order_status_update_failed", "order_id", order.ID, "from", from, "to", target, "error", err)
		return nil, err
	}
	order.StatusHistory = append(order.StatusHistory, entry)
	logger.Infow("order_status_updated", "order_id", order.ID, "from", from, "to", target, "updated_by", entry.UpdatedBy)

	s.metrics.IncStatusTransition(from, target)
	s.emitter.OrderStatusChanged(order, from, entry.UpdatedBy)
	s.notifyStatusChange(order, target)
	return order, nil
}

func (s *OrderService) authorizeStatusActor(order *models.Order, actor StatusActor) error {
	switch actor.Role {
	case constants.RoleAdmin:
		return nil
	case constants.RoleFarmer:
		scope, err := s.farmerScope(actor.UserID)
		if err != nil {
			return err
		}
		for _, item := range order.Items {
			if scope.Matches(item) {
				return nil
			}
		}
		return ErrOrderForbidden
	default:
		return ErrOrderForbidden
	}
}

func (s *OrderService) notifyStatusChange(order *models.Order, status string) {
	if s.notifier == nil {
		return
	}
	customer, err := s.userRepo.GetByID(order.UserID)
	if err != nil {
		logger.Warnw("order_status_customer_lookup_failed", "order_id", order.ID, "error", err)
	}
	if err := s.notifier.OrderStatusUpdate(order, customer, status); err != nil {
		logger.Warnw("order_status_notify_failed", "order_id", order.ID, "status", status, "error", err)
	}
}
