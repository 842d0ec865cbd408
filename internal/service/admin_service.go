package service

import (
	"context"
	"strings"
	"time"

	"github.com/krishi-setu/internal/cache"
	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/logger"
	"github.com/krishi-setu/internal/models"
	"github.com/krishi-setu/internal/repository"
)

// AdminService 管理端服务：用户、订单、商品管理与统计
type AdminService struct {
	userRepo    repository.UserRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	now         func() time.Time
}

// NewAdminService 创建管理端服务
func NewAdminService(userRepo repository.UserRepository, orderRepo repository.OrderRepository, productRepo repository.ProductRepository) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		now:         time.Now,
	}
}

// AdminUpdateUserInput 管理员更新用户输入，nil 字段保持不变
type AdminUpdateUserInput struct {
	Role       *string
	IsVerified *bool
}

var assignableRoles = map[string]bool{
	constants.RoleCustomer: true,
	constants.RoleFarmer:   true,
	constants.RoleAdmin:    true,
}

// ListUsers 用户列表
func (s *AdminService) ListUsers(page, pageSize int, role, search string) ([]models.User, int64, error) {
	return s.userRepo.List(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Role:     normalizeRole(role),
		Search:   search,
	})
}

// UpdateUser 修改角色与认证状态；管理员不能修改自己的角色
func (s *AdminService) UpdateUser(actorID, userID uint, input AdminUpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if input.Role != nil {
		role := normalizeRole(*input.Role)
		if !assignableRoles[role] {
			return nil, ErrInvalidRole
		}
		if userID == actorID && role != user.NormalizedRole() {
			return nil, ErrCannotChangeOwnRole
		}
		user.Role = role
	}
	if input.IsVerified != nil {
		user.IsVerified = *input.IsVerified
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	if err := cache.DelUserState(context.Background(), user.ID); err != nil {
		logger.Warnw("admin_user_state_invalidate_failed", "user_id", user.ID, "error", err)
	}
	logger.Infow("admin_user_updated", "actor_id", actorID, "user_id", user.ID, "role", user.Role, "is_verified", user.IsVerified)
	return user, nil
}

// DeleteUser 删除用户；管理员不能删除自己
func (s *AdminService) DeleteUser(actorID, userID uint) error {
	if actorID == userID {
		return ErrCannotDeleteSelf
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err := s.userRepo.Delete(userID); err != nil {
		return err
	}
	if err := cache.DelUserState(context.Background(), userID); err != nil {
		logger.Warnw("admin_user_state_invalidate_failed", "user_id", userID, "error", err)
	}
	logger.Infow("admin_user_deleted", "actor_id", actorID, "user_id", userID)
	return nil
}

// ListOrders 订单列表，search 匹配订单号或顾客名称
func (s *AdminService) ListOrders(page, pageSize int, status, search string) ([]models.Order, int64, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" && !IsValidOrderStatus(status) {
		return nil, 0, ErrOrderStatusInvalid
	}
	return s.orderRepo.ListAdmin(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   status,
		Search:   search,
	})
}
