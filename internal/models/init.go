package models

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultAdmin 初始化默认管理员账号，已存在管理员时跳过
func InitDefaultAdmin(name, email, password string) error {
	var count int64
	if err := DB.Model(&User{}).Where("role = ?", constants.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		email = "admin@krishisetu.local"
	}
	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}
	generated := false
	if password == "" {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			return err
		}
		password = hex.EncodeToString(buf)
		generated = true
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := User{
		Name:          name,
		Email:         email,
		PasswordHash:  string(hash),
		Role:          constants.RoleAdmin,
		IsVerified:    true,
		Notifications: NotificationPrefs{Email: true, InApp: true},
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if generated {
		logger.Warnw("default_admin_created_with_generated_password", "email", email, "password", password)
		logger.Warnw("default_admin_password_change_required", "email", email)
	} else {
		logger.Warnw("default_admin_created", "email", email, "password_hidden", true)
	}
	return nil
}
