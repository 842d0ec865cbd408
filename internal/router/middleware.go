package router

import (
	"strconv"
	"strings"
	"time"

	"github.com/krishi-setu/internal/authz"
	"github.com/krishi-setu/internal/cache"
	"github.com/krishi-setu/internal/config"
	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/http/response"
	"github.com/krishi-setu/internal/i18n"
	"github.com/krishi-setu/internal/logger"
	"github.com/krishi-setu/internal/metrics"
	"github.com/krishi-setu/internal/repository"
	"github.com/krishi-setu/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Language",
			"Authorization",
			"X-Requested-With",
			session.HeaderToken,
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")
	exposeHeader := strings.Join([]string{requestIDHeader, session.HeaderToken}, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", exposeHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(constants.ContextKeyRequest, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.L()
	}
	sugar := log.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if userID, ok := c.Get(constants.ContextKeyUserID); ok {
			entry = entry.With("user_id", userID)
		}
		if len(c.Errors) > 0 {
			entry.Errorw("request", "errors", c.Errors.String())
			return
		}
		entry.Infow("request")
	}
}

// MetricsMiddleware 记录按路由模板聚合的请求耗时
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		m.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(constants.ContextKeyRequest)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// RequireLoginMiddleware 要求会话已登录，并以数据库中的当前角色为准
func RequireLoginMiddleware(userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.Current(c)
		if !sess.LoggedIn() {
			abortWithError(c, response.CodeUnauthorized, "error.unauthorized")
			return
		}

		role, found := resolveCurrentRole(c, userRepo, sess.Data.UserID)
		if !found {
			// 账号已被删除：登出但保留购物车
			sess.ClearUser()
			if err := session.Commit(c); err != nil {
				logger.Warnw("session_commit_failed", "error", err)
			}
			abortWithError(c, response.CodeUnauthorized, "error.session_invalid")
			return
		}
		if role != sess.Data.Role {
			sess.Data.Role = role
			sess.MarkDirty()
		}

		c.Set(constants.ContextKeyUserID, sess.Data.UserID)
		c.Set(constants.ContextKeyUserRole, role)
		c.Next()
	}
}

func resolveCurrentRole(c *gin.Context, userRepo repository.UserRepository, userID uint) (string, bool) {
	ctx := c.Request.Context()
	if state, hit, err := cache.GetUserState(ctx, userID); err == nil && hit && state != nil {
		return state.Role, true
	}
	if userRepo == nil {
		return "", false
	}
	user, err := userRepo.GetByID(userID)
	if err != nil {
		logger.Warnw("require_login_load_user_failed", "user_id", userID, "error", err)
		return "", false
	}
	if user == nil {
		return "", false
	}
	if err := cache.SetUserState(ctx, cache.BuildUserState(user)); err != nil {
		logger.Debugw("require_login_cache_user_state_failed", "user_id", userID, "error", err)
	}
	return user.NormalizedRole(), true
}

// RoleAuthzMiddleware 按会话角色执行 Casbin 路由鉴权
func RoleAuthzMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("role_authz_service_unavailable")
			abortWithError(c, response.CodeForbidden, "error.forbidden")
			return
		}

		role, _ := c.Get(constants.ContextKeyUserRole)
		roleName, _ := role.(string)
		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := authzService.EnforceRole(roleName, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("role_authz_enforce_failed",
				"role", roleName,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			abortWithError(c, response.CodeForbidden, "error.forbidden")
			return
		}
		if !allowed {
			logger.Warnw("role_authz_permission_denied",
				"role", roleName,
				"method", c.Request.Method,
				"resource", authz.NormalizeObject(resource),
			)
			abortWithError(c, response.CodeForbidden, "error.forbidden")
			return
		}
		c.Next()
	}
}

func abortWithError(c *gin.Context, code int, key string) {
	response.Error(c, code, i18n.T(i18n.ResolveLocale(c), key))
	c.Abort()
}
