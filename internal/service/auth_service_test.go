package service

import (
	"errors"
	"testing"

	"github.com/krishi-setu/internal/config"
	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/models"
	"github.com/krishi-setu/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t)
	cfg := config.SecurityConfig{BcryptCost: bcrypt.MinCost}
	return NewAuthService(cfg, repository.NewUserRepository(db), NewCaptchaService(config.CaptchaConfig{})), db
}

func TestRegisterNormalisesEmailAndRole(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	user, err := svc.Register(RegisterInput{Name: " Ravi ", Email: " Ravi@Example.COM ", Password: "secret1", Role: "farmer"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "ravi@example.com" || user.Name != "Ravi" || user.Role != constants.RoleFarmer {
		t.Fatalf("unexpected user: %+v", user)
	}
	if !user.Notifications.Email || !user.Notifications.InApp {
		t.Fatalf("email and in-app notifications should default on")
	}

	admin, err := svc.Register(RegisterInput{Name: "Mallory", Email: "m@example.com", Password: "secret1", Role: "admin"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if admin.Role != constants.RoleCustomer {
		t.Fatalf("self-registration cannot grant admin, got %s", admin.Role)
	}

	if _, err := svc.Register(RegisterInput{Name: "Dup", Email: "RAVI@example.com", Password: "secret1"}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("want ErrEmailExists got %v", err)
	}
	if _, err := svc.Register(RegisterInput{Name: "Short", Email: "s@example.com", Password: "abc"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("want ErrWeakPassword got %v", err)
	}
	if _, err := svc.Register(RegisterInput{Name: "Bad", Email: "not-an-email", Password: "secret1"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("want ErrInvalidEmail got %v", err)
	}
}

func TestLoginRoleRules(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	if _, err := svc.Register(RegisterInput{Name: "Asha", Email: "asha@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, err := svc.Login(LoginInput{Email: "ASHA@example.com", Password: "secret1", Role: "user"})
	if err != nil {
		t.Fatalf("legacy role login failed: %v", err)
	}
	if user.LastLoginAt == nil {
		t.Fatalf("last login should be recorded")
	}
	if _, err := svc.Login(LoginInput{Email: "asha@example.com", Password: "secret1", Role: "farmer"}); !errors.Is(err, ErrRoleMismatch) {
		t.Fatalf("want ErrRoleMismatch got %v", err)
	}
	if _, err := svc.Login(LoginInput{Email: "asha@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials got %v", err)
	}
	if _, err := svc.Login(LoginInput{Email: "nobody@example.com", Password: "secret1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email want ErrInvalidCredentials got %v", err)
	}

	hash, _ := svc.HashPassword("adminpass1")
	admin := &models.User{Name: "Admin", Email: "admin@example.com", PasswordHash: hash, Role: constants.RoleAdmin}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	if _, err := svc.Login(LoginInput{Email: "admin@example.com", Password: "adminpass1", Role: "farmer"}); err != nil {
		t.Fatalf("admin should log in under any role: %v", err)
	}
}

func TestLegacyUserRoleIsMigratedOnLogin(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	hash, _ := svc.HashPassword("secret1")
	legacy := &models.User{Name: "Old", Email: "old@example.com", PasswordHash: hash, Role: constants.RoleLegacyUser}
	if err := db.Create(legacy).Error; err != nil {
		t.Fatalf("create legacy user failed: %v", err)
	}
	user, err := svc.Login(LoginInput{Email: "old@example.com", Password: "secret1", Role: "customer"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Role != constants.RoleCustomer {
		t.Fatalf("legacy role should be stored as customer, got %s", user.Role)
	}
}

func TestCaptchaRequiredWhenEnabled(t *testing.T) {
	db := openServiceTestDB(t)
	captcha := NewCaptchaService(config.CaptchaConfig{Enabled: true, Login: true})
	svc := NewAuthService(config.SecurityConfig{BcryptCost: bcrypt.MinCost}, repository.NewUserRepository(db), captcha)

	if _, err := svc.Login(LoginInput{Email: "a@example.com", Password: "secret1"}); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("want ErrCaptchaRequired got %v", err)
	}
	challenge, err := captcha.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate captcha failed: %v", err)
	}
	if challenge.CaptchaID == "" || challenge.ImageBase64 == "" {
		t.Fatalf("empty captcha challenge")
	}
	payload := CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID, CaptchaCode: "definitely-wrong"}
	if _, err := svc.Login(LoginInput{Email: "a@example.com", Password: "secret1", Captcha: payload}); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("want ErrCaptchaInvalid got %v", err)
	}
	if captcha.RequiredFor(CaptchaSceneRegister) {
		t.Fatalf("register scene is not enabled")
	}
}
