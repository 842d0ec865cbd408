package repository

import (
	"errors"
	"time"

	"github.com/krishi-setu/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository 通知数据访问接口
type NotificationRepository interface {
	Create(notification *models.Notification) error
	GetByID(id uint) (*models.Notification, error)
	List(filter NotificationListFilter) ([]models.Notification, error)
	CountUnread(userID uint) (int64, error)
	MarkRead(id, userID uint, now time.Time) (bool, error)
	MarkAllRead(userID uint, now time.Time) (int64, error)
	UpdateEmailStatus(id uint, status string) error
	WithTx(tx *gorm.DB) NotificationRepository
}

// GormNotificationRepository GORM 实现
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository 创建通知仓库
func NewNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// WithTx 绑定事务
func (r *GormNotificationRepository) WithTx(tx *gorm.DB) NotificationRepository {
	if tx == nil {
		return r
	}
	return &GormNotificationRepository{db: tx}
}

// Create 创建通知
func (r *GormNotificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// GetByID 根据 ID 获取通知
func (r *GormNotificationRepository) GetByID(id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notification, nil
}

// List 用户通知列表（按创建时间倒序）
func (r *GormNotificationRepository) List(filter NotificationListFilter) ([]models.Notification, error) {
	query := r.db.Model(&models.Notification{}).Where("user_id = ?", filter.UserID)
	if filter.UnreadOnly {
		query = query.Where("read = ?", false)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	var notifications []models.Notification
	if err := query.Order("created_at DESC, id DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// CountUnread 未读通知数
func (r *GormNotificationRepository) CountUnread(userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MarkRead 标记单条通知已读，仅作用于本人的通知；返回通知是否存在
func (r *GormNotificationRepository) MarkRead(id, userID uint, now time.Time) (bool, error) {
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read = ?", id, userID, false).
		UpdateColumns(map[string]interface{}{
			"read":       true,
			"read_at":    now,
			"updated_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	var count int64
	if err := r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkAllRead 标记用户全部未读通知为已读
func (r *GormNotificationRepository) MarkAllRead(userID uint, now time.Time) (int64, error) {
	result := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		UpdateColumns(map[string]interface{}{
			"read":       true,
			"read_at":    now,
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// UpdateEmailStatus 更新邮件投递状态
func (r *GormNotificationRepository) UpdateEmailStatus(id uint, status string) error {
	return r.db.Model(&models.Notification{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"email_status": status,
			"updated_at":   time.Now(),
		}).Error
}
