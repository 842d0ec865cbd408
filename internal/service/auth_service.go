package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/krishi-setu/internal/cache"
	"github.com/krishi-setu/internal/config"
	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/logger"
	"github.com/krishi-setu/internal/models"
	"github.com/krishi-setu/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// AuthService 注册与登录服务
type AuthService struct {
	cfg      config.SecurityConfig
	userRepo repository.UserRepository
	captcha  *CaptchaService
	now      func() time.Time
}

// NewAuthService 创建认证服务
func NewAuthService(cfg config.SecurityConfig, userRepo repository.UserRepository, captcha *CaptchaService) *AuthService {
	return &AuthService{
		cfg:      cfg,
		userRepo: userRepo,
		captcha:  captcha,
		now:      time.Now,
	}
}

// RegisterInput 注册输入
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Phone    string
	Captcha  CaptchaVerifyPayload
}

// LoginInput 登录输入
type LoginInput struct {
	Email    string
	Password string
	Role     string // 可选：期望登录的角色
	Captcha  CaptchaVerifyPayload
}

// HashPassword 密码哈希
func (s *AuthService) HashPassword(password string) (string, error) {
	cost := s.cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 校验密码
func (s *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePassword 按密码策略校验
func (s *AuthService) ValidatePassword(password string) error {
	return validatePassword(s.cfg.PasswordPolicy, password)
}

// Register 注册顾客或农户，其他角色一律按顾客处理
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	if err := s.captcha.Verify(CaptchaSceneRegister, input.Captcha); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := s.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	exist, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrEmailExists
	}
	hash, err := s.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:          name,
		Email:         email,
		PasswordHash:  hash,
		Role:          resolveRegisterRole(input.Role),
		Phone:         strings.TrimSpace(input.Phone),
		Notifications: models.NotificationPrefs{Email: true, InApp: true},
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	logger.Infow("user_registered", "user_id", user.ID, "role", user.Role)
	_ = cache.SetUserState(context.Background(), cache.BuildUserState(user))
	return user, nil
}

// Login 邮箱密码登录；指定角色时需与账号角色一致，管理员可以任意角色登录
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	if err := s.captcha.Verify(CaptchaSceneLogin, input.Captcha); err != nil {
		return nil, err
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.VerifyPassword(user.PasswordHash, input.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if role := normalizeRole(input.Role); role != "" && !user.IsAdmin() && user.NormalizedRole() != role {
		return nil, ErrRoleMismatch
	}

	now := s.now()
	user.LastLoginAt = &now
	if user.Role == constants.RoleLegacyUser {
		user.Role = constants.RoleCustomer
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	_ = cache.SetUserState(context.Background(), cache.BuildUserState(user))
	return user, nil
}

// GetUser 获取用户
func (s *AuthService) GetUser(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func resolveRegisterRole(role string) string {
	if normalizeRole(role) == constants.RoleFarmer {
		return constants.RoleFarmer
	}
	return constants.RoleCustomer
}

func normalizeRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == constants.RoleLegacyUser {
		return constants.RoleCustomer
	}
	return role
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}
