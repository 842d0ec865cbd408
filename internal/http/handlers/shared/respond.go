package shared

import (
	"github.com/krishi-setu/internal/http/response"
	"github.com/krishi-setu/internal/session"

	"github.com/gin-gonic/gin"
)

// commitSession 在写出响应前持久化会话，失败时已完成错误响应
func commitSession(c *gin.Context) bool {
	if err := session.Commit(c); err != nil {
		RespondError(c, response.CodeInternal, "error.session_failed", err)
		return false
	}
	return true
}

// Success 持久化会话后返回成功响应
func Success(c *gin.Context, data interface{}) {
	if !commitSession(c) {
		return
	}
	response.Success(c, data)
}

// SuccessCommitted 业务已落库时使用：会话写回失败只记警告，仍返回成功
func SuccessCommitted(c *gin.Context, data interface{}) {
	if err := session.Commit(c); err != nil {
		RequestLog(c).Warnw("session_commit_failed_after_write", "path", c.FullPath(), "error", err)
	}
	response.Success(c, data)
}

// SuccessWithPage 持久化会话后返回分页响应
func SuccessWithPage(c *gin.Context, data interface{}, page, pageSize int, total int64) {
	if !commitSession(c) {
		return
	}
	response.SuccessWithPage(c, data, response.BuildPagination(page, pageSize, total))
}
