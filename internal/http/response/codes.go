package response

// 业务状态码，沿用 HTTP 语义
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401 // 未登录或会话失效
	CodeForbidden       = 403 // 角色无权访问
	CodeNotFound        = 404
	CodeConflict        = 409 // 状态流转冲突、重复提交
	CodeTooManyRequests = 429
	CodeInternal        = 500
)
