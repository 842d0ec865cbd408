package shared

import (
	"github.com/krishi-setu/internal/constants"
	"github.com/krishi-setu/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetUserID 读取登录中间件写入的用户 ID，缺失时直接响应 401。
func GetUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}
	id, ok := value.(uint)
	if !ok || id == 0 {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}
	return id, true
}

// GetUserRole 读取登录中间件写入的角色
func GetUserRole(c *gin.Context) string {
	if value, ok := c.Get(constants.ContextKeyUserRole); ok {
		if role, ok := value.(string); ok {
			return role
		}
	}
	return ""
}
