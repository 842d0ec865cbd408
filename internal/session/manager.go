package session

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/krishi-setu/internal/config"
	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	contextKeyManager = "session_manager"
	// HeaderToken 非浏览器客户端读取会话令牌的响应头
	HeaderToken = "X-Session-Token"
)

// Manager 会话生命周期管理
type Manager struct {
	store Store
	codec *TokenCodec
	cfg   config.SessionConfig
	now   func() time.Time
}

// NewManager 创建会话管理器
func NewManager(store Store, cfg config.SessionConfig) *Manager {
	if strings.TrimSpace(cfg.CookieName) == "" {
		cfg.CookieName = "ks_session"
	}
	return &Manager{
		store: store,
		codec: NewTokenCodec(cfg.Secret),
		cfg:   cfg,
		now:   time.Now,
	}
}

// New 创建匿名会话（尚未写入存储）
func (m *Manager) New() *Session {
	now := m.now()
	return &Session{
		ID:        uuid.NewString(),
		Data:      Data{CreatedAt: now},
		ExpiresAt: now.Add(m.cfg.TTL()),
	}
}

// Resolve 根据令牌读取会话，令牌无效或会话不存在时返回新的匿名会话
func (m *Manager) Resolve(ctx context.Context, token string) *Session {
	if strings.TrimSpace(token) == "" {
		return m.New()
	}
	id, err := m.codec.Decode(token)
	if err != nil {
		return m.New()
	}
	sess, err := m.store.Load(ctx, id)
	if err != nil {
		logger.Warnw("session_load_failed", "session_id", id, "error", err)
		return m.New()
	}
	if sess == nil {
		return m.New()
	}
	return sess
}

// Save 写回会话并返回新签发的令牌，有效期自本次写入起滑动
func (m *Manager) Save(ctx context.Context, sess *Session) (string, error) {
	sess.ExpiresAt = m.now().Add(m.cfg.TTL())
	if err := m.store.Save(ctx, sess); err != nil {
		return "", err
	}
	sess.dirty = false
	return m.codec.Encode(sess.ID, sess.ExpiresAt)
}

// Regenerate 更换会话 ID 并保留内容，登录成功后调用
func (m *Manager) Regenerate(ctx context.Context, sess *Session) {
	oldID := sess.ID
	sess.ID = uuid.NewString()
	sess.dirty = true
	if err := m.store.Delete(ctx, oldID); err != nil {
		logger.Warnw("session_regenerate_delete_failed", "session_id", oldID, "error", err)
	}
}

// Destroy 销毁会话
func (m *Manager) Destroy(ctx context.Context, sess *Session) error {
	sess.destroyed = true
	sess.dirty = false
	return m.store.Delete(ctx, sess.ID)
}

// Middleware 加载会话并放入请求上下文
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := m.Resolve(c.Request.Context(), m.tokenFromRequest(c))
		c.Set(constants.ContextKeySession, sess)
		c.Set(contextKeyManager, m)
		c.Next()
	}
}

func (m *Manager) tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(m.cfg.CookieName); err == nil && strings.TrimSpace(cookie) != "" {
		return cookie
	}
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func (m *Manager) writeCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cfg.CookieName, token, maxAge, "/", m.cfg.Domain, m.cfg.Secure, true)
	if token != "" {
		c.Header(HeaderToken, token)
	}
}

// Current 获取当前请求的会话
func Current(c *gin.Context) *Session {
	if c == nil {
		return nil
	}
	if raw, ok := c.Get(constants.ContextKeySession); ok {
		if sess, ok := raw.(*Session); ok {
			return sess
		}
	}
	return nil
}

// Commit 在响应写出前持久化会话修改，并下发 Cookie
func Commit(c *gin.Context) error {
	sess := Current(c)
	manager := managerFrom(c)
	if sess == nil || manager == nil {
		return nil
	}
	if sess.Destroyed() {
		manager.writeCookie(c, "", -1)
		return nil
	}
	if !sess.Dirty() {
		return nil
	}
	token, err := manager.Save(c.Request.Context(), sess)
	if err != nil {
		return err
	}
	manager.writeCookie(c, token, int(manager.cfg.TTL().Seconds()))
	return nil
}

// Regenerate 为当前请求的会话更换 ID
func Regenerate(c *gin.Context) {
	sess := Current(c)
	manager := managerFrom(c)
	if sess == nil || manager == nil {
		return
	}
	manager.Regenerate(c.Request.Context(), sess)
}

// Destroy 销毁当前请求的会话
func Destroy(c *gin.Context) error {
	sess := Current(c)
	manager := managerFrom(c)
	if sess == nil || manager == nil {
		return nil
	}
	return manager.Destroy(c.Request.Context(), sess)
}

func managerFrom(c *gin.Context) *Manager {
	if raw, ok := c.Get(contextKeyManager); ok {
		if manager, ok := raw.(*Manager); ok {
			return manager
		}
	}
	return nil
}
