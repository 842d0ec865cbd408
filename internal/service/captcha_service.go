package service

import (
	"strings"
	"sync"
	"time"

	"github.com/krishi-setu/internal/cache"
	"github.com/krishi-setu/internal/config"

	"github.com/mojocn/base64Captcha"
)

// 验证码场景
const (
	CaptchaSceneLogin    = "login"
	CaptchaSceneRegister = "register"
)

// CaptchaVerifyPayload 验证码校验请求载荷
type CaptchaVerifyPayload struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// CaptchaImageChallenge 图片验证码挑战
type CaptchaImageChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaService 图片验证码服务，Redis 可用时挑战存入 Redis，否则使用进程内存
type CaptchaService struct {
	cfg config.CaptchaConfig

	mu    sync.Mutex
	store base64Captcha.Store
}

// NewCaptchaService 创建验证码服务
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	if cfg.Length <= 0 {
		cfg.Length = 5
	}
	if cfg.Width <= 0 {
		cfg.Width = 240
	}
	if cfg.Height <= 0 {
		cfg.Height = 80
	}
	if cfg.ExpireSeconds <= 0 {
		cfg.ExpireSeconds = 300
	}
	if cfg.MaxStore <= 0 {
		cfg.MaxStore = 10240
	}
	return &CaptchaService{cfg: cfg}
}

// Enabled 全局开关
func (s *CaptchaService) Enabled() bool {
	return s != nil && s.cfg.Enabled
}

// RequiredFor 判断场景是否需要验证码
func (s *CaptchaService) RequiredFor(scene string) bool {
	if !s.Enabled() {
		return false
	}
	switch scene {
	case CaptchaSceneLogin:
		return s.cfg.Login
	case CaptchaSceneRegister:
		return s.cfg.Register
	default:
		return false
	}
}

// GenerateImageChallenge 生成图片验证码
func (s *CaptchaService) GenerateImageChallenge() (*CaptchaImageChallenge, error) {
	if !s.Enabled() {
		return nil, ErrCaptchaConfigInvalid
	}
	driver := base64Captcha.NewDriverString(
		s.cfg.Height,
		s.cfg.Width,
		s.cfg.NoiseCount,
		s.cfg.ShowLine,
		s.cfg.Length,
		"23456789abcdefghjkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ",
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	captcha := base64Captcha.NewCaptcha(driver, s.ensureStore())
	id, b64s, _, err := captcha.Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaImageChallenge{
		CaptchaID:   strings.TrimSpace(id),
		ImageBase64: strings.TrimSpace(b64s),
	}, nil
}

// Verify 按场景校验验证码，校验后挑战即失效
func (s *CaptchaService) Verify(scene string, payload CaptchaVerifyPayload) error {
	if !s.RequiredFor(scene) {
		return nil
	}
	id := strings.TrimSpace(payload.CaptchaID)
	code := strings.TrimSpace(payload.CaptchaCode)
	if id == "" || code == "" {
		return ErrCaptchaRequired
	}
	if !s.ensureStore().Verify(id, code, true) {
		return ErrCaptchaInvalid
	}
	return nil
}

func (s *CaptchaService) ensureStore() base64Captcha.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store != nil {
		return s.store
	}
	ttl := time.Duration(s.cfg.ExpireSeconds) * time.Second
	if cache.Enabled() {
		s.store = cache.NewCaptchaStore(ttl)
	} else {
		s.store = base64Captcha.NewMemoryStore(s.cfg.MaxStore, ttl)
	}
	return s.store
}
