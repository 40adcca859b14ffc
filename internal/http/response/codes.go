package response

// 业务状态码，与 HTTP 语义保持一致，便于前端统一处理
const (
	CodeOK              = 0
	CodeBadRequest      = 400 // 参数或翻译校验失败
	CodeUnauthorized    = 401
	CodeForbidden       = 403 // 角色无权访问
	CodeNotFound        = 404 // 文章、翻译、修订不存在或未公开
	CodeConflict        = 409 // slug 或邮箱冲突
	CodeTooManyRequests = 429
	CodeInternal        = 500
)
