package repository

import (
	"errors"
	"time"

	"github.com/krishi-setu/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRepository 会话持久化接口
type SessionRepository interface {
	Get(id string, now time.Time) (*models.SessionRecord, error)
	Upsert(record *models.SessionRecord) error
	Delete(id string) error
	DeleteExpired(now time.Time) (int64, error)
}

// GormSessionRepository GORM 实现
type GormSessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository 创建会话仓库
func NewSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// Get 获取未过期的会话
func (r *GormSessionRepository) Get(id string, now time.Time) (*models.SessionRecord, error) {
	var record models.SessionRecord
	if err := r.db.Where("id = ? AND expires_at > ?", id, now).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Upsert 写入或覆盖会话
func (r *GormSessionRepository) Upsert(record *models.SessionRecord) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "data", "expires_at", "updated_at"}),
	}).Create(record).Error
}

// Delete 删除会话
func (r *GormSessionRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.SessionRecord{}).Error
}

// DeleteExpired 清理过期会话
func (r *GormSessionRepository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at <= ?", now).Delete(&models.SessionRecord{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
