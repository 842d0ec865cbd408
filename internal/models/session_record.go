package models

import (
	"time"
)

// SessionRecord 会话持久化表（未启用 Redis 时使用）
type SessionRecord struct {
	ID        string    `gorm:"primarykey;size:64" json:"id"` // 会话 ID
	UserID    uint      `gorm:"index" json:"user_id"`         // 登录用户（匿名会话为 0）
	Data      string    `gorm:"type:text;not null" json:"-"`  // 会话 JSON
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (SessionRecord) TableName() string {
	return "sessions"
}
