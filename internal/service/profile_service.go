package service

import (
	"strings"

	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/models"
	"github.com/krishi-setu/internal/repository"
)

// ProfileService 个人资料服务
type ProfileService struct {
	userRepo         repository.UserRepository
	orderRepo        repository.OrderRepository
	notificationRepo repository.NotificationRepository
	auth             *AuthService
}

// NewProfileService 创建个人资料服务
func NewProfileService(userRepo repository.UserRepository, orderRepo repository.OrderRepository, notificationRepo repository.NotificationRepository, auth *AuthService) *ProfileService {
	return &ProfileService{
		userRepo:         userRepo,
		orderRepo:        orderRepo,
		notificationRepo: notificationRepo,
		auth:             auth,
	}
}

// UpdateProfileInput 资料更新输入，nil 字段保持不变
type UpdateProfileInput struct {
	Name  *string
	Phone *string
}

// ProfileStats 个人统计
type ProfileStats struct {
	OrderCount          int64        `json:"order_count"`
	TotalSpent          models.Money `json:"total_spent"`
	UnreadNotifications int64        `json:"unread_notifications"`
}

// Get 获取资料
func (s *ProfileService) Get(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Update 更新名称与手机号
func (s *ProfileService) Update(userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidInput
		}
		user.Name = name
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateAddress 更新地址
func (s *ProfileService) UpdateAddress(userID uint, address models.Address) (*models.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	user.Address = models.Address{
		Street:  strings.TrimSpace(address.Street),
		City:    strings.TrimSpace(address.City),
		State:   strings.TrimSpace(address.State),
		Pincode: strings.TrimSpace(address.Pincode),
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword 校验当前密码后修改
func (s *ProfileService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.Get(userID)
	if err != nil {
		return err
	}
	if err := s.auth.VerifyPassword(user.PasswordHash, currentPassword); err != nil {
		return ErrPasswordMismatch
	}
	if err := s.auth.ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.userRepo.Update(user)
}

// UpdateNotificationPrefs 更新通知偏好
func (s *ProfileService) UpdateNotificationPrefs(userID uint, prefs models.NotificationPrefs) (*models.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	user.Notifications = prefs
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Stats 订单数、已消费金额（不含已取消）与未读通知数
func (s *ProfileService) Stats(userID uint) (*ProfileStats, error) {
	count, err := s.orderRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	spent, err := s.orderRepo.SumTotalByUser(userID, spentOrderStatuses)
	if err != nil {
		return nil, err
	}
	unread, err := s.notificationRepo.CountUnread(userID)
	if err != nil {
		return nil, err
	}
	return &ProfileStats{
		OrderCount:          count,
		TotalSpent:          models.NewMoneyFromDecimal(spent),
		UnreadNotifications: unread,
	}, nil
}

var spentOrderStatuses = []string{
	constants.OrderStatusPending,
	constants.OrderStatusConfirmed,
	constants.OrderStatusProcessing,
	constants.OrderStatusShipped,
	constants.OrderStatusOutForDelivery,
	constants.OrderStatusDelivered,
}
