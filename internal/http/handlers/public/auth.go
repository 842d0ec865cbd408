package public

import (
	"github.com/krishi-setu/internal/cache"
	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/http/handlers/shared"
	"github.com/krishi-setu/internal/http/response"
	"github.com/krishi-setu/internal/models"
	"github.com/krishi-setu/internal/service"
	"github.com/krishi-setu/internal/session"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
	Phone    string `json:"phone" binding:"omitempty,phone_in"`
	shared.CaptchaPayloadRequest
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
	shared.CaptchaPayloadRequest
}

// SessionUser 会话中的登录身份
type SessionUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Register 注册并自动登录
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	user, err := h.AuthService.Register(service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
		Captcha:  req.ToServicePayload(),
	})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	h.startSession(c, user)
}

// Login 登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	user, err := h.AuthService.Login(service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Captcha:  req.ToServicePayload(),
	})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	h.startSession(c, user)
}

// startSession 登录成功后更换会话 ID 并写入身份，购物车随之保留
func (h *Handler) startSession(c *gin.Context, user *models.User) {
	session.Regenerate(c)
	sess := session.Current(c)
	sess.SetUser(user)
	shared.Success(c, gin.H{
		"user":     toSessionUser(sess),
		"redirect": homePathForRole(sess.Data.Role),
	})
}

// Logout 登出并销毁会话
func (h *Handler) Logout(c *gin.Context) {
	if sess := session.Current(c); sess.LoggedIn() {
		if err := cache.DelUserState(c.Request.Context(), sess.Data.UserID); err != nil {
			shared.RequestLog(c).Debugw("logout_clear_user_state_failed", "error", err)
		}
	}
	if err := session.Destroy(c); err != nil {
		shared.RespondError(c, response.CodeInternal, "error.session_failed", err)
		return
	}
	shared.Success(c, gin.H{"message": shared.T(c, "success.logout")})
}

// GetSession 当前会话概况：登录身份与购物车件数
func (h *Handler) GetSession(c *gin.Context) {
	sess := session.Current(c)
	data := gin.H{
		"logged_in":  sess.LoggedIn(),
		"cart_count": h.CartService.Count(sess),
	}
	if sess.LoggedIn() {
		data["user"] = toSessionUser(sess)
	}
	shared.Success(c, data)
}

func toSessionUser(sess *session.Session) SessionUser {
	return SessionUser{
		ID:    sess.Data.UserID,
		Name:  sess.Data.Name,
		Email: sess.Data.Email,
		Role:  sess.Data.Role,
	}
}

func homePathForRole(role string) string {
	switch role {
	case constants.RoleAdmin:
		return "/admin"
	case constants.RoleFarmer:
		return "/farmer-home"
	default:
		return "/customer-home"
	}
}
