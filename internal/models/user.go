package models

import (
	"strings"
	"time"

	"github.com/krishi-setu/internal/constants"
)

// NotificationPrefs 用户通知偏好
type NotificationPrefs struct {
	Email bool `gorm:"not null;default:true" json:"email"`
	SMS   bool `gorm:"not null;default:false" json:"sms"`
	InApp bool `gorm:"not null;default:true" json:"in_app"`
}

// Address 用户地址
type Address struct {
	Street  string `gorm:"default:''" json:"street"`
	City    string `gorm:"default:''" json:"city"`
	State   string `gorm:"default:''" json:"state"`
	Pincode string `gorm:"default:''" json:"pincode"`
}

// User 用户表（顾客、农户、管理员共用）
type User struct {
	ID            uint              `gorm:"primarykey" json:"id"`                      // 主键
	Name          string            `gorm:"not null" json:"name"`                      // 显示名称
	Email         string            `gorm:"uniqueIndex;not null" json:"email"`         // 邮箱（唯一）
	PasswordHash  string            `gorm:"not null" json:"-"`                         // 密码哈希（不返回给前端）
	Role          string            `gorm:"index;not null;default:'customer'" json:"role"` // 角色
	Phone         string            `gorm:"default:''" json:"phone"`                   // 手机号
	Address       Address           `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Notifications NotificationPrefs `gorm:"embedded;embeddedPrefix:notify_" json:"notifications"`
	IsVerified    bool              `gorm:"not null;default:false" json:"is_verified"` // 是否认证
	LastLoginAt   *time.Time        `json:"last_login_at"`                             // 最后登录时间
	CreatedAt     time.Time         `gorm:"index" json:"created_at"`                   // 创建时间
	UpdatedAt     time.Time         `json:"updated_at"`                                // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// NormalizedRole 返回归一后的角色，旧版 user 角色视为 customer
func (u *User) NormalizedRole() string {
	role := strings.ToLower(strings.TrimSpace(u.Role))
	if role == "" || role == constants.RoleLegacyUser {
		return constants.RoleCustomer
	}
	return role
}

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool {
	return u.NormalizedRole() == constants.RoleAdmin
}

// IsFarmer 是否为农户
func (u *User) IsFarmer() bool {
	return u.NormalizedRole() == constants.RoleFarmer
}
